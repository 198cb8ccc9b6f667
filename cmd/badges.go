package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/gamification"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/theme"
)

func newBadgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "badges",
		Short: "Show badges and current challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			ctx := cmd.Context()
			now := time.Now()
			snap, err := a.Insights.Build(ctx, now)
			if err != nil {
				return err
			}
			attempts, err := a.Attempts.All(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			unlocked := make(map[string]domain.UnlockedBadge, len(snap.Badges.Unlocked))
			for _, b := range snap.Badges.Unlocked {
				unlocked[b.BadgeID] = b
			}

			fmt.Fprintf(out, "%s %s\n", theme.Title.Render("Badges"),
				theme.Hint.Render(fmt.Sprintf("%d of %d unlocked", len(unlocked), len(snap.Badges.Definitions))))
			for _, def := range snap.Badges.Definitions {
				if b, ok := unlocked[def.ID]; ok {
					fmt.Fprintf(out, "%s %s  %s\n", theme.Correct.Render("★ "+def.Title),
						theme.Body.Render(def.Description),
						theme.Hint.Render("unlocked "+b.UnlockedAt.Local().Format("2006-01-02")))
					continue
				}
				value := gamification.MetricValue(def.Metric, attempts, snap.Streak, snap.Challenges, now)
				fmt.Fprintf(out, "%s  %s\n", theme.Locked.Render("☆ "+def.Title), theme.Hint.Render(def.Description))
				fmt.Fprintln(out, "   "+components.NewProgressBar("", components.Ratio(value, def.Threshold), true, barWidth).View())
			}

			fmt.Fprintln(out, theme.Section.Render("Challenges"))
			if len(snap.Challenges) == 0 {
				fmt.Fprintln(out, theme.Hint.Render("No challenge progress yet. Answer an item to start."))
				return nil
			}
			printChallenges(out, snap)
			return nil
		},
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/insights"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const barWidth = 48

func newStatsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			snap, err := a.Insights.Build(cmd.Context(), time.Now())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			printStats(out, snap)
			return nil
		},
	}
	c.Flags().Bool("json", false, "Print the snapshot as JSON")
	return c
}

func printStats(w io.Writer, snap *insights.Snapshot) {
	t := snap.Totals
	fmt.Fprintln(w, theme.Title.Render("StudyMate stats"))

	fmt.Fprintln(w, theme.Section.Render("Overview"))
	fmt.Fprintf(w, "%s %d\n", theme.Label.Render("Items"), t.TotalItems)
	fmt.Fprintf(w, "%s %d\n", theme.Label.Render("Due now"), t.DueForReview)
	fmt.Fprintf(w, "%s %d (today %d, last 7 days %d)\n", theme.Label.Render("Answers"),
		t.TotalAttempts, t.TodayStudied, t.WeekStudied)
	fmt.Fprintln(w, components.NewProgressBar("Accuracy", float64(t.CorrectRate)/100, true, barWidth).View())
	fmt.Fprintf(w, "%s %d day%s (longest %d)\n", theme.Label.Render("Streak"),
		snap.Streak.Current, plural(snap.Streak.Current), snap.Streak.Longest)

	fmt.Fprintln(w, theme.Section.Render(fmt.Sprintf("Last %d days", insights.LookbackDays)))
	for _, m := range snap.DailyMetrics {
		if m.Studied == 0 {
			continue
		}
		label := fmt.Sprintf("%s %3d", m.Date[5:], m.Studied)
		fmt.Fprintln(w, components.NewProgressBar(label, m.Accuracy/100, true, barWidth).View())
	}

	if len(snap.Challenges) > 0 {
		fmt.Fprintln(w, theme.Section.Render("Challenges"))
		printChallenges(w, snap)
	}

	var tagged []string
	for _, tc := range snap.ErrorTags {
		if tc.Count > 0 {
			tagged = append(tagged, fmt.Sprintf("%s ×%d", tc.Tag.Name, tc.Count))
		}
	}
	if len(tagged) > 0 {
		fmt.Fprintln(w, theme.Section.Render("Common mistakes"))
		fmt.Fprintln(w, theme.Body.Render(strings.Join(tagged, ", ")))
	}

	if len(snap.Recommendations) > 0 {
		fmt.Fprintln(w, theme.Section.Render("Next steps"))
		for _, r := range snap.Recommendations {
			marker := theme.Hint.Render("•")
			if r.Priority == insights.PriorityHigh {
				marker = theme.Warning.Render("!")
			}
			fmt.Fprintf(w, "%s %s: %s\n", marker, theme.Body.Bold(true).Render(r.Title), r.Description)
		}
	}
}

func printChallenges(w io.Writer, snap *insights.Snapshot) {
	titles := make(map[string]string, len(snap.Templates))
	for _, tpl := range snap.Templates {
		titles[tpl.ID] = tpl.Title
	}
	for _, c := range snap.Challenges {
		title := titles[c.ChallengeID]
		if title == "" {
			title = c.ChallengeID
		}
		bar := components.NewProgressBar(title, components.Ratio(c.Progress, c.Target), true, barWidth).View()
		if c.Completed() {
			bar += " " + theme.Correct.Render("✓")
		}
		fmt.Fprintf(w, "%s %s\n", bar, theme.Hint.Render(c.DateKey))
	}
}

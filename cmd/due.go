package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/insights"
	"github.com/abhisek/studymate/internal/spacedrep"
)

func newDueCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "due",
		Short: "List items due for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			within, _ := cmd.Flags().GetDuration("upcoming")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			ctx := cmd.Context()
			now := time.Now()
			due, err := a.Scheduler.DueItems(ctx, now)
			if err != nil {
				return err
			}
			upcoming, err := a.Scheduler.UpcomingItems(ctx, now, within)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(due) == 0 && len(upcoming) == 0 {
				fmt.Fprintln(out, "Nothing due. Come back later or run `studymate drill`.")
				return nil
			}

			// Header.
			fmt.Fprintf(out, "%-24s  %-9s  %-16s  %s\n", "ID", "Status", "Next review", "Question")
			fmt.Fprintln(out, strings.Repeat("─", 90))
			for _, it := range append(due, upcoming...) {
				printDueRow(out, it, now)
			}
			fmt.Fprintf(out, "\n%d due, %d upcoming within %s\n", len(due), len(upcoming), within)
			return nil
		},
	}
	c.Flags().Duration("upcoming", insights.UpcomingWindow, "Also list items due within this window")
	return c
}

func printDueRow(w io.Writer, it domain.Item, now time.Time) {
	stem := it.Stem
	if len(stem) > 40 {
		stem = stem[:37] + "..."
	}
	fmt.Fprintf(w, "%-24s  %-9s  %-16s  %s\n",
		it.ID,
		spacedrep.StateOf(it).Status(now),
		it.NextReview.Local().Format("2006-01-02 15:04"),
		stem)
}

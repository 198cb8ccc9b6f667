package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/session"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/ui/theme"
)

const emptyPoolHint = "No items yet. Load a deck with `studymate import <file>`."

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the next item to study",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			item, err := a.NewSession(time.Now(), nil).NextItem(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if item == nil {
				fmt.Fprintln(out, emptyPoolHint)
				return nil
			}
			printQuestion(out, *item)
			fmt.Fprintln(out, theme.Hint.Render(fmt.Sprintf("answer with: studymate answer --item %s --option N", item.ID)))
			return nil
		},
	}
}

func newAnswerCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "answer",
		Short: "Record an answer to an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, _ := cmd.Flags().GetString("item")
			option, _ := cmd.Flags().GetInt("option")
			confidence, _ := cmd.Flags().GetFloat64("confidence")
			latency, _ := cmd.Flags().GetInt64("latency")
			tags, _ := cmd.Flags().GetStringSlice("tags")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			ctx := cmd.Context()
			item, err := a.Items.Get(ctx, itemID)
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("no item with id %q", itemID)
			}
			if errors.Is(err, store.ErrUnavailable) {
				return fmt.Errorf("storage unavailable, item %q cannot be loaded: check the --db path or store settings", itemID)
			}
			if err != nil {
				return fmt.Errorf("load item: %w", err)
			}

			now := time.Now()
			res, err := a.NewSession(now, nil).Submit(ctx, session.SubmitInput{
				Item:           item,
				SelectedOption: option - 1,
				Confidence:     confidence,
				LatencyMs:      latency,
				ErrorTagIDs:    tags,
				Now:            now,
			})
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), item, option-1, res, now)
			return nil
		},
	}
	c.Flags().String("item", "", "Item ID (required)")
	c.Flags().Int("option", 0, "Chosen option number, starting at 1 (required)")
	c.Flags().Float64("confidence", 0.5, "Confidence in the answer, 0 to 1")
	c.Flags().Int64("latency", 0, "Time taken to answer in milliseconds (0 = not measured)")
	c.Flags().StringSlice("tags", nil, "Error tag IDs for a wrong answer")
	_ = c.MarkFlagRequired("item")
	_ = c.MarkFlagRequired("option")
	return c
}

func newDrillCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "drill",
		Short: "Answer items interactively",
		Long: `Present items one at a time and read answers from stdin. The difficulty
bandit learns from every answer for the length of the drill. Enter q to stop.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			sess := a.NewSession(time.Now(), nil)

			prompt := func(label string) (string, bool) {
				fmt.Fprint(out, label)
				if !scanner.Scan() {
					fmt.Fprintln(out, "\n(input closed)")
					return "", false
				}
				return strings.TrimSpace(scanner.Text()), true
			}

		drill:
			for i := 1; count <= 0 || i <= count; i++ {
				item, err := sess.NextItem(ctx)
				if err != nil {
					return err
				}
				if item == nil {
					fmt.Fprintln(out, emptyPoolHint)
					break
				}

				fmt.Fprintf(out, "── Question %d ──\n", i)
				printQuestion(out, *item)
				shown := time.Now()

				var chosen int
				for {
					answer, ok := prompt("\nYour answer: ")
					if !ok || strings.EqualFold(answer, "q") {
						break drill
					}
					chosen, err = parseOption(answer, len(item.Options))
					if err == nil {
						break
					}
					fmt.Fprintln(out, theme.Hint.Render(err.Error()))
				}
				latency := time.Since(shown).Milliseconds()

				var confidence float64
				for {
					answer, ok := prompt("Confidence % [50]: ")
					if !ok {
						break drill
					}
					confidence, err = parseConfidence(answer, 0.5)
					if err == nil {
						break
					}
					fmt.Fprintln(out, theme.Hint.Render(err.Error()))
				}

				now := time.Now()
				res, err := sess.Submit(ctx, session.SubmitInput{
					Item:           *item,
					SelectedOption: chosen,
					Confidence:     confidence,
					LatencyMs:      latency,
					Now:            now,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				printResult(out, *item, chosen, res, now)
				fmt.Fprintln(out)
			}

			if sum := sess.Summary(time.Now()); sum.TotalQuestions > 0 {
				printSummary(out, sum)
			}
			return nil
		},
	}
	c.Flags().Int("count", 10, "Number of items to present (0 = until input ends)")
	return c
}

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/studymate/internal/domain"
	"github.com/abhisek/studymate/internal/session"
	"github.com/abhisek/studymate/internal/ui/components"
	"github.com/abhisek/studymate/internal/ui/theme"
)

func printQuestion(w io.Writer, item domain.Item) {
	fmt.Fprintln(w, theme.Hint.Render("item "+item.ID))
	fmt.Fprint(w, components.NewMultiChoice(item.Stem, item.Options, item.AnswerIndex).View())
}

func printResult(w io.Writer, item domain.Item, chosen int, res *session.SubmitResult, now time.Time) {
	mc := components.NewMultiChoice(item.Stem, item.Options, item.AnswerIndex).Answer(chosen)
	fmt.Fprint(w, mc.View())

	if res.Correct {
		fmt.Fprintln(w, theme.Correct.Render("✓ Correct!"))
	} else {
		fmt.Fprintf(w, "%s Answer: %s\n", theme.Incorrect.Render("✗ Wrong."), item.CorrectOption())
	}

	if res.Item.NextReview != nil {
		days := int(res.Item.NextReview.Sub(now).Hours()/24 + 0.5)
		fmt.Fprintf(w, "%s %s (in %d day%s)\n", theme.Label.Render("Next review"),
			res.Item.NextReview.Local().Format("2006-01-02"), days, plural(days))
	}
	if res.Evidence != "" {
		fmt.Fprintf(w, "%s %s\n", theme.Label.Render("Evidence"), res.Evidence)
	}
	if len(res.Attempt.ErrorTagIDs) > 0 {
		fmt.Fprintf(w, "%s %s\n", theme.Label.Render("Error tags"), strings.Join(res.Attempt.ErrorTagIDs, ", "))
	}
	if fb := res.Feedback; fb != nil {
		fmt.Fprintf(w, "%s %s\n", theme.Label.Render("Explanation"), fb.Explanation)
		if len(fb.FocusConcepts) > 0 {
			fmt.Fprintf(w, "%s %s\n", theme.Label.Render("Focus on"), strings.Join(fb.FocusConcepts, ", "))
		}
		if fb.FollowUpPrompt != "" {
			fmt.Fprintf(w, "%s %s\n", theme.Label.Render("Try this"), fb.FollowUpPrompt)
		}
	}

	fmt.Fprintf(w, "%s %d day%s\n", theme.Label.Render("Streak"), res.Streak.Current, plural(res.Streak.Current))
	for _, c := range res.UpdatedChallenges {
		if c.Completed() {
			fmt.Fprintf(w, "%s %s\n", theme.Warning.Render("Challenge complete:"), c.ChallengeID)
		}
	}
	for _, b := range res.EarnedBadges {
		fmt.Fprintf(w, "%s %s\n", theme.Warning.Render("Badge unlocked:"), b.BadgeID)
	}
}

func printSummary(w io.Writer, sum *session.Summary) {
	fmt.Fprintln(w, theme.Title.Render("── Session summary ──"))
	fmt.Fprintf(w, "%s %d/%d correct (%.0f%%)\n", theme.Label.Render("Score"),
		sum.TotalCorrect, sum.TotalQuestions, sum.Accuracy*100)
	fmt.Fprintf(w, "%s %s\n", theme.Label.Render("Time"), sum.Duration.Round(time.Second))
	for _, b := range sum.Buckets {
		fmt.Fprintf(w, "%s %d/%d\n", theme.Label.Render(b.Bucket.String()), b.Correct, b.Attempted)
	}
}

// parseOption converts a 1-based option number to an index.
func parseOption(s string, n int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("option %q is not a number", s)
	}
	if v < 1 || v > n {
		return 0, fmt.Errorf("option must be between 1 and %d", n)
	}
	return v - 1, nil
}

// parseConfidence reads a percentage. Empty input means def.
func parseConfidence(s string, def float64) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 100 {
		return 0, fmt.Errorf("confidence must be a percentage between 0 and 100")
	}
	return float64(v) / 100, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

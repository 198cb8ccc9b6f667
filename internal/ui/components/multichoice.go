package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studymate/internal/ui/theme"
)

// NoChoice marks a question that has not been answered yet.
const NoChoice = -1

// MultiChoice renders a multiple-choice question. Options are numbered
// from 1. After an answer the correct option is green and a wrong pick red.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	ChosenIndex  int
}

// NewMultiChoice creates an unanswered question.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  NoChoice,
	}
}

// Answer returns a copy with the chosen option recorded.
func (m MultiChoice) Answer(chosen int) MultiChoice {
	m.ChosenIndex = chosen
	return m
}

// Submitted reports whether an option has been chosen.
func (m MultiChoice) Submitted() bool {
	return m.ChosenIndex != NoChoice
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		line := fmt.Sprintf("  %d)  %s", i+1, opt)

		switch {
		case !m.Submitted():
			s += theme.Body.Render(line) + "\n"
		case i == m.CorrectIndex:
			s += theme.Correct.Render(line) + "\n"
		case i == m.ChosenIndex:
			s += theme.Incorrect.Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		}
	}

	return s
}

// IsCorrect returns true if the chosen option is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted() && m.ChosenIndex == m.CorrectIndex
}

package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_UnwrapsToSentinel(t *testing.T) {
	ve := NewValidationError("data", "required")
	ve.Add("data.items[0].id", "must be a string")

	wrapped := fmt.Errorf("import: %w", ve)
	if !errors.Is(wrapped, ErrValidation) {
		t.Error("expected errors.Is(wrapped, ErrValidation)")
	}

	var target *ValidationError
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find *ValidationError")
	}
	if len(target.Errors) != 2 {
		t.Errorf("len(Errors) = %d, want 2", len(target.Errors))
	}
	want := "validation: data: required; data.items[0].id: must be a string"
	if target.Error() != want {
		t.Errorf("Error() = %q, want %q", target.Error(), want)
	}
}

func TestItem_Option(t *testing.T) {
	it := Item{Options: []string{"a", "b"}, AnswerIndex: 1}
	if it.CorrectOption() != "b" {
		t.Errorf("CorrectOption = %q, want b", it.CorrectOption())
	}
	if it.Option(5) != "" {
		t.Error("out-of-range option should be empty")
	}
	if it.Option(-1) != "" {
		t.Error("negative option should be empty")
	}
}

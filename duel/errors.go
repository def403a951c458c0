package duel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSelfDuel            = errors.New("cannot create a duel with yourself")
	ErrEmptyCategorySet    = errors.New("at least one exercise category is required")
	ErrDuplicateActiveDuel = errors.New("an active duel with this opponent already covers these exercises")
	ErrInvalidDuelType     = errors.New("operation does not match the duel type")
	ErrDuelFinished        = errors.New("cannot update scores of a finished duel")
	ErrAlreadyFinished     = errors.New("duel is already finished")
)

// UnknownExerciseError is returned by New when requested categories fall
// outside the allowed set.
type UnknownExerciseError struct {
	Invalid []string
	Allowed []string
}

func (e *UnknownExerciseError) Error() string {
	return fmt.Sprintf("invalid exercise categories: [%s]", strings.Join(e.Invalid, ", "))
}

// UnknownCategoryError is returned when a score update names a category the
// duel was not created with.
type UnknownCategoryError struct {
	Category string
	Known    []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("category %q not found in duel (known: %s)", e.Category, strings.Join(e.Known, ", "))
}

// RepeatedCategoryError is returned when several keys of one score update
// normalize to the same category.
type RepeatedCategoryError struct {
	Category string
	Keys     []string
}

func (e *RepeatedCategoryError) Error() string {
	return fmt.Sprintf("category %q given more than once: %s", e.Category, strings.Join(e.Keys, ", "))
}

// NegativeScoreError marks a rejected negative score. Category is empty for
// single-category duels.
type NegativeScoreError struct {
	Category string
}

func (e *NegativeScoreError) Error() string {
	if e.Category == "" {
		return "scores cannot be negative"
	}
	return fmt.Sprintf("scores cannot be negative for category %q", e.Category)
}

// MissingFieldError lists required update fields that were absent.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// MalformedScoreError is returned when stored score text cannot be decoded.
type MalformedScoreError struct {
	Text string
}

func (e *MalformedScoreError) Error() string {
	return fmt.Sprintf("malformed score %q", e.Text)
}

package duel

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is one exercise type a duel can be fought on.
type Category string

const (
	CategoryPushups Category = "pushups"
	CategorySquats  Category = "squats"
	CategoryPlank   Category = "plank"
	CategorySteps   Category = "steps"
)

var allowedCategories = []Category{CategoryPushups, CategorySquats, CategoryPlank, CategorySteps}

// AllowedCategories returns the fixed set of exercise categories.
func AllowedCategories() []Category {
	out := make([]Category, len(allowedCategories))
	copy(out, allowedCategories)
	return out
}

// AllowedCategoryNames is AllowedCategories as plain strings, for responses.
func AllowedCategoryNames() []string {
	return categoryNames(allowedCategories)
}

// NormalizeCategory lower-cases a raw category name.
func NormalizeCategory(raw string) Category {
	// A Caser is stateful, so each call gets its own.
	return Category(cases.Lower(language.Und).String(raw))
}

// IsAllowed reports whether c belongs to the allowed set.
func (c Category) IsAllowed() bool {
	for _, a := range allowedCategories {
		if a == c {
			return true
		}
	}
	return false
}

func categoryNames(cs []Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

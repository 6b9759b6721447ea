// SPDX-License-Identifier: MIT

// Package catalog defines the design-pattern glossary domain model: SOLID
// principles and the GoF patterns grouped by Gamma category.
package catalog

import "time"

// Category is one of the three Gamma pattern categories.
type Category string

const (
	Creational  Category = "creational"
	Structural  Category = "structural"
	Behavioural Category = "behavioural"
)

// Categories lists all categories in canonical order.
func Categories() []Category {
	return []Category{Creational, Structural, Behavioural}
}

// ExpectedCounts returns the number of patterns each category must carry.
// The source document enumerates exactly these.
func ExpectedCounts() map[Category]int {
	return map[Category]int{
		Creational:  4,
		Structural:  7,
		Behavioural: 10,
	}
}

// ExpectedPrinciples is the number of SOLID principles.
const ExpectedPrinciples = 5

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case Creational, Structural, Behavioural:
		return true
	}
	return false
}

// ParseCategory resolves a category from its string form.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

// Pattern is one named design pattern with its category and summary.
type Pattern struct {
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Summary  string   `json:"summary"`
	Aliases  []string `json:"aliases,omitempty"`
}

// Principle is one of the five SOLID design principles.
type Principle struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Catalog is an immutable, validated glossary snapshot.
type Catalog struct {
	Patterns   []Pattern   `json:"patterns"`
	Principles []Principle `json:"principles"`
	SourcePath string      `json:"source_path,omitempty"`
	LoadedAt   time.Time   `json:"loaded_at"`
}

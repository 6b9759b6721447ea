// SPDX-License-Identifier: MIT

package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups when no entry matches.
var ErrNotFound = errors.New("catalog: entry not found")

// BySlug resolves a pattern by canonical slug or alias.
func (c *Catalog) BySlug(slug string) (Pattern, error) {
	for _, p := range c.Patterns {
		if p.Slug == slug {
			return p, nil
		}
		for _, a := range p.Aliases {
			if a == slug {
				return p, nil
			}
		}
	}
	return Pattern{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
}

// PrincipleBySlug resolves a SOLID principle by slug.
func (c *Catalog) PrincipleBySlug(slug string) (Principle, error) {
	for _, p := range c.Principles {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Principle{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
}

// ByCategory returns the patterns of one category in document order.
func (c *Catalog) ByCategory(cat Category) []Pattern {
	var out []Pattern
	for _, p := range c.Patterns {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// Counts returns per-category pattern counts.
func (c *Catalog) Counts() map[Category]int {
	counts := make(map[Category]int, 3)
	for _, p := range c.Patterns {
		counts[p.Category]++
	}
	return counts
}

// Validate enforces the catalog invariants: exact per-category counts,
// five principles, globally unique slugs and aliases, non-empty summaries.
func (c *Catalog) Validate() error {
	var errs []error

	counts := c.Counts()
	for cat, want := range ExpectedCounts() {
		if got := counts[cat]; got != want {
			errs = append(errs, fmt.Errorf("catalog: %s patterns: got %d, want %d", cat, got, want))
		}
	}
	if got := len(c.Principles); got != ExpectedPrinciples {
		errs = append(errs, fmt.Errorf("catalog: principles: got %d, want %d", got, ExpectedPrinciples))
	}

	seen := make(map[string]string) // slug -> owning pattern name
	claim := func(slug, owner string) {
		if slug == "" {
			errs = append(errs, fmt.Errorf("catalog: %s has an empty slug", owner))
			return
		}
		if prev, dup := seen[slug]; dup {
			errs = append(errs, fmt.Errorf("catalog: slug %q claimed by both %s and %s", slug, prev, owner))
			return
		}
		seen[slug] = owner
	}

	for _, p := range c.Patterns {
		claim(p.Slug, p.Name)
		for _, a := range p.Aliases {
			claim(a, p.Name)
		}
		if !p.Category.Valid() {
			errs = append(errs, fmt.Errorf("catalog: pattern %s has unknown category %q", p.Name, p.Category))
		}
		if p.Summary == "" {
			errs = append(errs, fmt.Errorf("catalog: pattern %s has an empty summary", p.Name))
		}
	}
	for _, p := range c.Principles {
		claim(p.Slug, p.Name)
		if p.Summary == "" {
			errs = append(errs, fmt.Errorf("catalog: principle %s has an empty summary", p.Name))
		}
	}

	return errors.Join(errs...)
}

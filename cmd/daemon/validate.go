// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/patlas/patlas/internal/catalog"
	"github.com/patlas/patlas/internal/notes"
)

// runValidate implements the "validate" subcommand: it parses one or
// two notes documents, checks the catalog invariants and, when two
// documents are given, reports how the copies drifted apart.
//
// Exit codes:
//   - 0: document(s) valid
//   - 1: parse or invariant failure
//   - 2: usage error
func runValidate(args []string) int {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  patlasd validate <doc>")
		fmt.Fprintln(os.Stderr, "  patlasd validate <doc> <doc2>")
		return 2
	}

	docA, code := loadAndValidate(args[0])
	if code != 0 {
		return code
	}

	if len(args) == 1 {
		return 0
	}

	// The second copy is compared entry-for-entry, but its invariants
	// are not enforced: a historic copy may legitimately omit summaries.
	docB, err := parseDocument(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in %s:\n  %v\n", args[1], err)
		return 1
	}

	drift := notes.Compare(docA, docB)
	switch {
	case drift.Identical():
		fmt.Printf("✓ %s and %s are identical\n", args[0], args[1])
	case drift.NearDuplicate():
		fmt.Printf("~ %s and %s list the same entries but summaries differ:\n", args[0], args[1])
		for _, diff := range drift.SummaryDiffs {
			fmt.Printf("  %s\n", diff)
		}
	default:
		fmt.Fprintf(os.Stderr, "✗ %s and %s have diverged:\n", args[0], args[1])
		for _, k := range drift.OnlyInA {
			fmt.Fprintf(os.Stderr, "  only in %s: %s\n", args[0], k)
		}
		for _, k := range drift.OnlyInB {
			fmt.Fprintf(os.Stderr, "  only in %s: %s\n", args[1], k)
		}
		for _, diff := range drift.SummaryDiffs {
			fmt.Fprintf(os.Stderr, "  summary drift: %s\n", diff)
		}
		return 1
	}
	return 0
}

func parseDocument(path string) (*notes.Document, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied document path
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return notes.Parse(f)
}

func loadAndValidate(path string) (*notes.Document, int) {
	doc, err := parseDocument(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in %s:\n  %v\n", path, err)
		return nil, 1
	}

	c, err := notes.BuildCatalog(doc, path, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in %s:\n  %v\n", path, err)
		return nil, 1
	}
	if err := c.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Validation error in %s:\n  %v\n", path, err)
		return nil, 1
	}

	counts := c.Counts()
	fmt.Printf("✓ %s is valid\n", path)
	for _, cat := range catalog.Categories() {
		fmt.Printf("  %-11s %d\n", cat, counts[cat])
	}
	fmt.Printf("  %-11s %d\n", "principles", len(c.Principles))
	return doc, 0
}

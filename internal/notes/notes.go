// SPDX-License-Identifier: MIT

// Package notes parses the plain-text pattern notes document that the
// catalog is indexed from. The format is line oriented: "## Heading"
// opens a section (a Gamma category or the SOLID principles), and
// "- Name: summary" adds one entry to the open section.
package notes

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/patlas/patlas/internal/catalog"
)

// Entry is one parsed glossary line.
type Entry struct {
	Name    string
	Summary string
	Section string // normalized section heading
}

// Document is the parsed notes file before catalog validation.
type Document struct {
	Title   string
	Entries []Entry
}

// sectionCategory maps normalized headings to catalog categories.
// The principles section is handled separately.
var sectionCategory = map[string]catalog.Category{
	"creational":  catalog.Creational,
	"structural":  catalog.Structural,
	"behavioural": catalog.Behavioural,
	"behavioral":  catalog.Behavioural,
}

const principlesSection = "principles"

// spellings maps historic slugs to their canonical form. The notes
// document spells "Adaptor"; the catalog answers to both.
var spellings = map[string]string{
	"adaptor": "adapter",
}

// Parse reads a notes document. It tolerates blank lines and lines that
// are neither headings nor entries (free prose), but rejects entries
// appearing before any section heading.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	section := ""
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "##"):
			section = strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "#")))
		case strings.HasPrefix(line, "#"):
			if doc.Title == "" {
				doc.Title = strings.TrimSpace(strings.TrimLeft(line, "#"))
			}
		case strings.HasPrefix(line, "- "):
			if section == "" {
				return nil, fmt.Errorf("notes: line %d: entry before any section heading", lineNo)
			}
			name, summary, ok := strings.Cut(line[2:], ":")
			if !ok {
				return nil, fmt.Errorf("notes: line %d: entry %q has no summary separator", lineNo, line)
			}
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("notes: line %d: entry has an empty name", lineNo)
			}
			doc.Entries = append(doc.Entries, Entry{
				Name:    name,
				Summary: strings.TrimSpace(summary),
				Section: section,
			})
		}
		// Anything else is free prose around the lists; ignore it.
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("notes: read: %w", err)
	}
	if len(doc.Entries) == 0 {
		return nil, fmt.Errorf("notes: document contains no entries")
	}
	return doc, nil
}

// BuildCatalog converts a parsed document into a catalog. Combined
// entries ("Strategy / Template Method") keep the full name; the first
// segment becomes the canonical slug and the rest become aliases.
// Catalog invariants are NOT checked here; call Catalog.Validate.
func BuildCatalog(doc *Document, sourcePath string, now time.Time) (*catalog.Catalog, error) {
	c := &catalog.Catalog{SourcePath: sourcePath, LoadedAt: now}

	for _, e := range doc.Entries {
		if e.Section == principlesSection {
			c.Principles = append(c.Principles, catalog.Principle{
				Slug:    catalog.Slugify(e.Name),
				Name:    e.Name,
				Summary: e.Summary,
			})
			continue
		}
		cat, ok := sectionCategory[e.Section]
		if !ok {
			return nil, fmt.Errorf("notes: entry %q in unknown section %q", e.Name, e.Section)
		}
		slug, aliases := slugAndAliases(e.Name)
		c.Patterns = append(c.Patterns, catalog.Pattern{
			Slug:     slug,
			Name:     e.Name,
			Category: cat,
			Summary:  e.Summary,
			Aliases:  aliases,
		})
	}
	return c, nil
}

func slugAndAliases(name string) (string, []string) {
	parts := strings.Split(name, "/")
	slugs := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := catalog.Slugify(p); s != "" {
			slugs = append(slugs, s)
		}
	}
	if len(slugs) == 0 {
		return "", nil
	}

	canonical := slugs[0]
	aliases := slugs[1:]
	if fixed, ok := spellings[canonical]; ok {
		aliases = append(aliases, canonical)
		canonical = fixed
	}
	if len(aliases) == 0 {
		return canonical, nil
	}
	return canonical, aliases
}

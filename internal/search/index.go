// SPDX-License-Identifier: MIT

// Package search provides an in-memory token index over the catalog.
// The index is rebuilt on every reindex and swapped in atomically by
// the jobs package.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/patlas/patlas/internal/catalog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result is one ranked search hit.
type Result struct {
	Kind     string           `json:"kind"` // "pattern" or "principle"
	Slug     string           `json:"slug"`
	Name     string           `json:"name"`
	Category catalog.Category `json:"category,omitempty"`
	Summary  string           `json:"summary"`
	Score    int              `json:"score"`
}

type doc struct {
	result Result
	// name holds tokens from the name, slug and aliases; body holds
	// tokens from the summary and category. Name hits outrank body hits.
	name map[string]struct{}
	body map[string]struct{}
}

// Index is an immutable inverted token index.
type Index struct {
	docs []doc
}

// normalizer strips diacritics after NFD decomposition and is applied
// to both documents and queries.
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s and strips diacritics.
func Normalize(s string) string {
	out, _, err := transform.String(normalizer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// Tokenize splits s into normalized tokens.
func Tokenize(s string) []string {
	return strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Build indexes every pattern and principle of c.
func Build(c *catalog.Catalog) *Index {
	ix := &Index{}
	add := func(r Result, names, body []string) {
		d := doc{
			result: r,
			name:   tokenSet(names),
			body:   tokenSet(body),
		}
		ix.docs = append(ix.docs, d)
	}

	for _, p := range c.Patterns {
		names := []string{p.Name, p.Slug}
		names = append(names, p.Aliases...)
		add(Result{
			Kind:     "pattern",
			Slug:     p.Slug,
			Name:     p.Name,
			Category: p.Category,
			Summary:  p.Summary,
		}, names, []string{p.Summary, string(p.Category)})
	}
	for _, p := range c.Principles {
		add(Result{
			Kind:    "principle",
			Slug:    p.Slug,
			Name:    p.Name,
			Summary: p.Summary,
		}, []string{p.Name, p.Slug}, []string{p.Summary})
	}
	return ix
}

func tokenSet(texts []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range texts {
		for _, tok := range Tokenize(t) {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Query returns hits ranked by the number of matching query tokens,
// with name and alias matches outranking summary matches. Single-token
// queries also match on token prefix so partial words ("deco") find
// their pattern. limit <= 0 means no limit.
func (ix *Index) Query(q string, limit int) []Result {
	qTokens := Tokenize(q)
	if len(qTokens) == 0 {
		return nil
	}
	prefix := len(qTokens) == 1

	var hits []Result
	for _, d := range ix.docs {
		score := 0
		for _, qt := range qTokens {
			switch {
			case has(d.name, qt):
				score += 4
			case has(d.body, qt):
				score += 2
			case prefix && hasPrefix(d.name, qt):
				score += 2
			case prefix && hasPrefix(d.body, qt):
				score++
			}
		}
		if score > 0 {
			r := d.result
			r.Score = score
			hits = append(hits, r)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func has(set map[string]struct{}, tok string) bool {
	_, ok := set[tok]
	return ok
}

func hasPrefix(set map[string]struct{}, q string) bool {
	for tok := range set {
		if strings.HasPrefix(tok, q) {
			return true
		}
	}
	return false
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.docs)
}

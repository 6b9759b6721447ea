// SPDX-License-Identifier: MIT

package notes

import "fmt"

// Drift describes how two copies of the notes document differ.
type Drift struct {
	OnlyInA      []string // "section/name" present in a only
	OnlyInB      []string // "section/name" present in b only
	SummaryDiffs []string // entries whose summaries differ (or one is empty)
}

// Identical reports byte-level equivalence of the entry lists.
func (d Drift) Identical() bool {
	return len(d.OnlyInA) == 0 && len(d.OnlyInB) == 0 && len(d.SummaryDiffs) == 0
}

// NearDuplicate reports whether the two copies enumerate the same
// entries, even when summaries drifted or one copy omits them. The
// historic second copy carries the summary section the first lacks;
// that alone must not count as divergence.
func (d Drift) NearDuplicate() bool {
	return len(d.OnlyInA) == 0 && len(d.OnlyInB) == 0
}

// Compare reports entry-level drift between two parsed documents.
func Compare(a, b *Document) Drift {
	key := func(e Entry) string { return e.Section + "/" + e.Name }

	inA := make(map[string]Entry, len(a.Entries))
	for _, e := range a.Entries {
		inA[key(e)] = e
	}
	inB := make(map[string]Entry, len(b.Entries))
	for _, e := range b.Entries {
		inB[key(e)] = e
	}

	var d Drift
	for _, e := range a.Entries {
		other, ok := inB[key(e)]
		if !ok {
			d.OnlyInA = append(d.OnlyInA, key(e))
			continue
		}
		if e.Summary != other.Summary {
			d.SummaryDiffs = append(d.SummaryDiffs, fmt.Sprintf("%s: %q != %q", key(e), e.Summary, other.Summary))
		}
	}
	for _, e := range b.Entries {
		if _, ok := inA[key(e)]; !ok {
			d.OnlyInB = append(d.OnlyInB, key(e))
		}
	}
	return d
}

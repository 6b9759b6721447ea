// SPDX-License-Identifier: MIT

package notes

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestCompareIdenticalCopies(t *testing.T) {
	a := mustParse(t, DefaultDocument)
	b := mustParse(t, DefaultDocument)

	d := Compare(a, b)
	assert.True(t, d.Identical())
	assert.True(t, d.NearDuplicate())
	if diff := cmp.Diff(a.Entries, b.Entries); diff != "" {
		t.Errorf("entries mismatch (-a +b):\n%s", diff)
	}
}

func TestCompareSummaryOnlyDriftIsNearDuplicate(t *testing.T) {
	// The second historic copy carries summaries the first omits.
	a := mustParse(t, "## Creational\n- Builder: .\n- Factory: .\n")
	b := mustParse(t, "## Creational\n- Builder: builds step by step.\n- Factory: creates without constructors.\n")

	d := Compare(a, b)
	assert.False(t, d.Identical())
	assert.True(t, d.NearDuplicate())
	assert.Len(t, d.SummaryDiffs, 2)
}

func TestCompareMissingEntryBreaksNearDuplicate(t *testing.T) {
	a := mustParse(t, "## Creational\n- Builder: builds.\n- Factory: creates.\n")
	b := mustParse(t, "## Creational\n- Builder: builds.\n")

	d := Compare(a, b)
	assert.False(t, d.NearDuplicate())
	assert.Equal(t, []string{"creational/Factory"}, d.OnlyInA)
	assert.Empty(t, d.OnlyInB)
}

// SPDX-License-Identifier: MIT

package search

import (
	"testing"

	"github.com/patlas/patlas/internal/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultIndex(t *testing.T) *Index {
	t.Helper()
	return Build(notes.DefaultCatalog())
}

func TestQueryByName(t *testing.T) {
	ix := defaultIndex(t)

	hits := ix.Query("observer", 0)
	require.NotEmpty(t, hits)
	assert.Equal(t, "observer", hits[0].Slug)
	assert.Equal(t, "pattern", hits[0].Kind)
}

func TestQueryBySummaryWords(t *testing.T) {
	ix := defaultIndex(t)

	hits := ix.Query("chain of handlers", 0)
	require.NotEmpty(t, hits)
	assert.Equal(t, "chain-of-responsibility", hits[0].Slug)
}

func TestQueryPrefixFallback(t *testing.T) {
	ix := defaultIndex(t)

	// "deco" is also a summary prefix for bridge ("decouples ...");
	// the name prefix must outrank it.
	hits := ix.Query("deco", 0)
	require.NotEmpty(t, hits)
	assert.Equal(t, "decorator", hits[0].Slug)
	for _, h := range hits[1:] {
		assert.Less(t, h.Score, hits[0].Score)
	}
}

func TestQueryNameMatchOutranksSummaryMatch(t *testing.T) {
	ix := defaultIndex(t)

	hits := ix.Query("builder", 0)
	require.NotEmpty(t, hits)
	assert.Equal(t, "builder", hits[0].Slug)
	if len(hits) > 1 {
		assert.Greater(t, hits[0].Score, hits[1].Score)
	}
}

func TestQueryFindsPrinciples(t *testing.T) {
	ix := defaultIndex(t)

	hits := ix.Query("liskov", 0)
	require.NotEmpty(t, hits)
	assert.Equal(t, "principle", hits[0].Kind)
	assert.Equal(t, "liskov-substitution", hits[0].Slug)
}

func TestQueryAliasIsIndexed(t *testing.T) {
	ix := defaultIndex(t)

	hits := ix.Query("adaptor", 0)
	require.NotEmpty(t, hits)
	assert.Equal(t, "adapter", hits[0].Slug)
}

func TestQueryLimit(t *testing.T) {
	ix := defaultIndex(t)

	all := ix.Query("object", 0)
	require.Greater(t, len(all), 2)
	limited := ix.Query("object", 2)
	assert.Len(t, limited, 2)
}

func TestQueryEmptyAndMiss(t *testing.T) {
	ix := defaultIndex(t)

	assert.Nil(t, ix.Query("", 0))
	assert.Empty(t, ix.Query("zzzzzz", 0))
}

func TestNormalizeStripsDiacritics(t *testing.T) {
	assert.Equal(t, "facade", Normalize("Façade"))
}

func TestIndexLen(t *testing.T) {
	ix := defaultIndex(t)
	assert.Equal(t, 21+5, ix.Len())
}

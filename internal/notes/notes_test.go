// SPDX-License-Identifier: MIT

package notes

import (
	"strings"
	"testing"
	"time"

	"github.com/patlas/patlas/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultDocument(t *testing.T) {
	doc, err := Parse(strings.NewReader(DefaultDocument))
	require.NoError(t, err)
	assert.Equal(t, "Design pattern notes — SOLID and the Gamma categorization", doc.Title)
	assert.Len(t, doc.Entries, 4+7+10+5)
}

func TestDefaultCatalogSatisfiesInvariants(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())

	counts := c.Counts()
	assert.Equal(t, 4, counts[catalog.Creational])
	assert.Equal(t, 7, counts[catalog.Structural])
	assert.Equal(t, 10, counts[catalog.Behavioural])
	assert.Len(t, c.Principles, 5)
}

func TestBuildCatalogAliases(t *testing.T) {
	c := DefaultCatalog()

	// "Adaptor" is canonically "adapter", reachable under both slugs.
	adapter, err := c.BySlug("adapter")
	require.NoError(t, err)
	assert.Equal(t, "Adaptor", adapter.Name)
	viaAlias, err := c.BySlug("adaptor")
	require.NoError(t, err)
	assert.Equal(t, adapter.Slug, viaAlias.Slug)

	// "Strategy / Template Method" is one entry with slug "strategy"
	// and alias "template-method".
	strategy, err := c.BySlug("strategy")
	require.NoError(t, err)
	assert.Equal(t, catalog.Behavioural, strategy.Category)
	viaTemplate, err := c.BySlug("template-method")
	require.NoError(t, err)
	assert.Equal(t, "strategy", viaTemplate.Slug)
}

func TestParseRejectsEntryBeforeSection(t *testing.T) {
	_, err := Parse(strings.NewReader("- Builder: builds\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before any section")
}

func TestParseRejectsEntryWithoutSummarySeparator(t *testing.T) {
	_, err := Parse(strings.NewReader("## Creational\n- Builder builds things\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no summary separator")
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	_, err := Parse(strings.NewReader("# title only\n\nprose\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entries")
}

func TestParseToleratesProseAndBlankLines(t *testing.T) {
	doc, err := Parse(strings.NewReader(`
# Notes

Some prose before anything.

## Creational

More prose inside a section.

- Builder: builds.
`))
	require.NoError(t, err)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "Builder", doc.Entries[0].Name)
	assert.Equal(t, "builds.", doc.Entries[0].Summary)
	assert.Equal(t, "creational", doc.Entries[0].Section)
}

func TestParseAcceptsAmericanBehavioralHeading(t *testing.T) {
	doc, err := Parse(strings.NewReader("## Behavioral\n- Observer: watches.\n"))
	require.NoError(t, err)
	c, err := BuildCatalog(doc, "test", time.Now())
	require.NoError(t, err)
	require.Len(t, c.Patterns, 1)
	assert.Equal(t, catalog.Behavioural, c.Patterns[0].Category)
}

func TestBuildCatalogRejectsUnknownSection(t *testing.T) {
	doc, err := Parse(strings.NewReader("## Mysterious\n- Thing: does stuff.\n"))
	require.NoError(t, err)
	_, err = BuildCatalog(doc, "test", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section")
}

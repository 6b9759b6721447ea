// SPDX-License-Identifier: MIT

package notes

import (
	_ "embed"
	"strings"
	"time"

	"github.com/patlas/patlas/internal/catalog"
)

// DefaultDocument is the built-in notes document. It is used when the
// configured document path does not exist yet, and by tests.
//
//go:embed patterns.txt
var DefaultDocument string

// DefaultCatalog parses and validates the embedded document. It panics
// on failure: a broken embedded document is a build defect.
func DefaultCatalog() *catalog.Catalog {
	doc, err := Parse(strings.NewReader(DefaultDocument))
	if err != nil {
		panic(err)
	}
	c, err := BuildCatalog(doc, "embedded", time.Now())
	if err != nil {
		panic(err)
	}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

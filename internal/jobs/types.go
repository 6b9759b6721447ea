// SPDX-License-Identifier: MIT

// Package jobs implements the reindex pipeline: parse the notes
// document, validate the catalog invariants, persist, swap the search
// index and export the JSON snapshot.
package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/patlas/patlas/internal/catalog"
	"github.com/patlas/patlas/internal/search"
	"github.com/patlas/patlas/internal/store"
	"github.com/rs/zerolog"
)

// ErrAlreadyRunning is returned when a reindex is requested while one
// is still in flight.
var ErrAlreadyRunning = errors.New("jobs: reindex already running")

// CatalogStore persists validated catalogs.
type CatalogStore interface {
	ReplaceCatalog(ctx context.Context, c *catalog.Catalog) error
}

// Deps holds all dependencies for the reindex operation.
type Deps struct {
	Logger       zerolog.Logger
	DocPath      string
	SnapshotPath string
	Catalogs     CatalogStore
	Jobs         store.JobStore
	Holder       *Holder
	Clock        func() time.Time
}

func (d Deps) clock() func() time.Time {
	if d.Clock != nil {
		return d.Clock
	}
	return time.Now
}

// Snapshot is the served view: a validated catalog plus its index.
type Snapshot struct {
	Catalog *catalog.Catalog
	Index   *search.Index
}

// Holder publishes the current snapshot to readers. Swaps are atomic;
// readers never observe a half-built catalog.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the live snapshot, or nil before the first reindex.
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Publish swaps snap in as the live snapshot. Besides the reindex
// pipeline this is used at startup to serve a catalog restored from
// the database before the first reindex completes.
func (h *Holder) Publish(snap *Snapshot) {
	h.current.Store(snap)
}

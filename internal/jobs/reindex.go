// SPDX-License-Identifier: MIT

package jobs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/patlas/patlas/internal/catalog"
	"github.com/patlas/patlas/internal/log"
	"github.com/patlas/patlas/internal/metrics"
	"github.com/patlas/patlas/internal/notes"
	"github.com/patlas/patlas/internal/search"
	"github.com/patlas/patlas/internal/store"
	"golang.org/x/sync/errgroup"
)

// Runner executes reindex runs, one at a time. A second call while a
// run is in flight fails fast with ErrAlreadyRunning.
type Runner struct {
	deps Deps
	busy atomic.Bool // serialize runs via atomic flag
}

// NewRunner wires a runner around its dependencies.
func NewRunner(deps Deps) *Runner {
	return &Runner{deps: deps}
}

// Busy reports whether a run is currently in flight.
func (r *Runner) Busy() bool {
	return r.busy.Load()
}

// Run executes one reindex: parse the notes document, validate the
// catalog invariants, persist to SQLite and export the JSON snapshot,
// then swap the live search index. On any failure the previous catalog
// stays live. The returned record is also written to the job store.
func (r *Runner) Run(ctx context.Context, trigger string) (*store.JobRecord, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer r.busy.Store(false)

	now := r.deps.clock()
	rec := &store.JobRecord{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		StartedAt: now(),
	}
	ctx = log.ContextWithJobID(ctx, rec.ID)
	logger := r.deps.Logger.With().Str("job_id", rec.ID).Str("trigger", trigger).Logger()
	logger.Info().Str("doc", r.deps.DocPath).Msg("reindex started")

	err := r.reindex(ctx, rec)
	rec.FinishedAt = now()
	seconds := rec.FinishedAt.Sub(rec.StartedAt).Seconds()
	metrics.RecordReindex(trigger, err, seconds)

	if err != nil {
		rec.Error = err.Error()
		logger.Error().Err(err).Float64("duration_s", seconds).Msg("reindex failed")
	} else {
		logger.Info().
			Int("patterns", rec.Patterns).
			Int("principles", rec.Principles).
			Float64("duration_s", seconds).
			Msg("reindex completed")
	}

	if r.deps.Jobs != nil {
		if putErr := r.deps.Jobs.PutJob(ctx, rec); putErr != nil {
			logger.Error().Err(putErr).Msg("failed to record job")
		}
	}
	return rec, err
}

func (r *Runner) reindex(ctx context.Context, rec *store.JobRecord) error {
	data, err := r.readDocument()
	if err != nil {
		return err
	}
	doc, err := notes.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	c, err := notes.BuildCatalog(doc, r.deps.DocPath, rec.StartedAt)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("jobs: catalog invalid: %w", err)
	}
	rec.Patterns = len(c.Patterns)
	rec.Principles = len(c.Principles)

	// Persist and export in parallel; both targets are independent.
	g, gctx := errgroup.WithContext(ctx)
	if r.deps.Catalogs != nil {
		g.Go(func() error { return r.deps.Catalogs.ReplaceCatalog(gctx, c) })
	}
	if r.deps.SnapshotPath != "" {
		g.Go(func() error { return WriteSnapshot(r.deps.SnapshotPath, c) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if r.deps.Holder != nil {
		r.deps.Holder.Publish(&Snapshot{Catalog: c, Index: search.Build(c)})
	}
	publishCounts(c)
	return nil
}

// readDocument reads the configured notes document, falling back to
// the embedded copy when none is configured or the file is absent.
func (r *Runner) readDocument() ([]byte, error) {
	if r.deps.DocPath == "" {
		return []byte(notes.DefaultDocument), nil
	}
	data, err := os.ReadFile(r.deps.DocPath)
	if os.IsNotExist(err) {
		r.deps.Logger.Warn().Str("doc", r.deps.DocPath).Msg("notes document missing, using embedded copy")
		return []byte(notes.DefaultDocument), nil
	}
	if err != nil {
		return nil, fmt.Errorf("jobs: read document: %w", err)
	}
	return data, nil
}

func publishCounts(c *catalog.Catalog) {
	byCategory := make(map[string]int, 3)
	for cat, n := range c.Counts() {
		byCategory[string(cat)] = n
	}
	metrics.RecordCatalogCounts(byCategory, len(c.Principles))
}

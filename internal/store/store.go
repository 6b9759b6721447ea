// SPDX-License-Identifier: MIT

// Package store persists reindex job state behind a pluggable backend.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no job record matches.
var ErrNotFound = errors.New("store: job not found")

// JobRecord captures one reindex run.
type JobRecord struct {
	ID         string    `json:"id"`
	Trigger    string    `json:"trigger"` // "startup", "api", "watch"
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Patterns   int       `json:"patterns"`
	Principles int       `json:"principles"`
	Error      string    `json:"error,omitempty"`
}

// Succeeded reports whether the run finished without error.
func (r JobRecord) Succeeded() bool {
	return !r.FinishedAt.IsZero() && r.Error == ""
}

// JobStore records reindex runs. Implementations must be safe for
// concurrent use.
type JobStore interface {
	// PutJob stores or overwrites a job record.
	PutJob(ctx context.Context, rec *JobRecord) error
	// GetJob fetches one record by ID.
	GetJob(ctx context.Context, id string) (*JobRecord, error)
	// LastJob returns the most recently started record.
	LastJob(ctx context.Context) (*JobRecord, error)
	// Close releases backend resources.
	Close() error
}

// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

// Deps contains the dependencies required by the daemon Manager.
type Deps struct {
	// Logger is the structured logger for the daemon
	Logger zerolog.Logger

	// APIHandler serves the API server
	APIHandler http.Handler

	// MetricsHandler serves Prometheus metrics (nil disables the
	// metrics server)
	MetricsHandler http.Handler
	// MetricsAddr is the metrics listen address
	MetricsAddr string

	// Watcher, when set, runs for the manager's lifetime. It is used
	// for the notes-document watcher; a returned error other than
	// context cancellation shuts the daemon down.
	Watcher func(ctx context.Context) error
}

// Validate checks that the required dependencies are present.
func (d *Deps) Validate() error {
	if d.Logger.GetLevel() == zerolog.Disabled {
		return ErrMissingLogger
	}
	if d.APIHandler == nil {
		return ErrMissingAPIHandler
	}
	return nil
}

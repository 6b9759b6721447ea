// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Watcher triggers a reindex when the notes document changes on disk.
// Editors produce bursts of write/rename events per save, so triggers
// are rate limited rather than acted on one-to-one.
type Watcher struct {
	path    string
	runner  *Runner
	logger  zerolog.Logger
	limiter *rate.Limiter
}

// NewWatcher watches path and drives runner. interval is the minimum
// spacing between reindex runs; zero means one run per 2 seconds.
func NewWatcher(path string, runner *Runner, logger zerolog.Logger, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{
		path:    filepath.Clean(path),
		runner:  runner,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Start blocks until ctx is cancelled. The parent directory is watched
// rather than the file itself so atomic saves (write temp + rename)
// are observed.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("jobs: create watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("jobs: watch %s: %w", dir, err)
	}
	w.logger.Info().Str("doc", w.path).Msg("watching notes document")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if !w.limiter.Allow() {
				continue
			}
			w.logger.Debug().Str("op", event.Op.String()).Msg("document changed")
			if _, err := w.runner.Run(ctx, "watch"); err != nil && !errors.Is(err, ErrAlreadyRunning) {
				w.logger.Error().Err(err).Msg("watch-triggered reindex failed")
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

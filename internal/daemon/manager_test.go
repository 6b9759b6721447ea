// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/patlas/patlas/internal/config"
	"github.com/patlas/patlas/internal/log"
	"github.com/rs/zerolog"
	"go.uber.org/goleak"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		ListenAddr:      "127.0.0.1:0",
		ReadTimeout:     1 * time.Second,
		WriteTimeout:    1 * time.Second,
		IdleTimeout:     10 * time.Second,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: 2 * time.Second,
	}
}

func TestNewManagerValidDeps(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if mgr == nil {
		t.Fatal("NewManager() returned nil manager")
	}
}

func TestNewManagerMissingLogger(t *testing.T) {
	_, err := NewManager(testServerConfig(), Deps{
		Logger:     zerolog.Nop(), // disabled logger
		APIHandler: http.NotFoundHandler(),
	})
	if !errors.Is(err, ErrMissingLogger) {
		t.Fatalf("NewManager() error = %v, want %v", err, ErrMissingLogger)
	}
}

func TestNewManagerMissingAPIHandler(t *testing.T) {
	_, err := NewManager(testServerConfig(), Deps{
		Logger: log.WithComponent("test"),
	})
	if !errors.Is(err, ErrMissingAPIHandler) {
		t.Fatalf("NewManager() error = %v, want %v", err, ErrMissingAPIHandler)
	}
}

func TestManagerStartStop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	mgr, err := NewManager(testServerConfig(), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- mgr.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}
}

func TestManagerRunsWatcherAndShutdownHooks(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	watcherStarted := make(chan struct{})
	watcherStopped := make(chan struct{})

	mgr, err := NewManager(testServerConfig(), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
		Watcher: func(ctx context.Context) error {
			close(watcherStarted)
			<-ctx.Done()
			close(watcherStopped)
			return ctx.Err()
		},
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	var hookOrder []string
	mgr.RegisterShutdownHook("first", func(context.Context) error {
		hookOrder = append(hookOrder, "first")
		return nil
	})
	mgr.RegisterShutdownHook("second", func(context.Context) error {
		hookOrder = append(hookOrder, "second")
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- mgr.Start(ctx)
	}()

	select {
	case <-watcherStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not start")
	}

	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}

	select {
	case <-watcherStopped:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher was not stopped during shutdown")
	}

	// Hooks run in reverse registration order.
	if len(hookOrder) != 2 || hookOrder[0] != "second" || hookOrder[1] != "first" {
		t.Errorf("hook order = %v, want [second first]", hookOrder)
	}
}

func TestManagerShutdownHookErrorsAreReported(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	mgr, err := NewManager(testServerConfig(), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	mgr.RegisterShutdownHook("broken", func(context.Context) error {
		return errors.New("cleanup failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- mgr.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		if err == nil || !strings.Contains(err.Error(), "cleanup failed") {
			t.Errorf("Start() error = %v, want hook failure", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}
}

func TestManagerShutdownNotStarted(t *testing.T) {
	mgr, err := NewManager(testServerConfig(), Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	if err := mgr.Shutdown(context.Background()); !errors.Is(err, ErrManagerNotStarted) {
		t.Errorf("Shutdown() error = %v, want %v", err, ErrManagerNotStarted)
	}
}

func TestManagerPropagatesListenErrors(t *testing.T) {
	// Occupy a port so the manager's bind fails.
	occupied := httptest.NewServer(http.NotFoundHandler())
	defer occupied.Close()

	cfg := testServerConfig()
	cfg.ListenAddr = occupied.Listener.Addr().String()

	mgr, err := NewManager(cfg, Deps{
		Logger:     log.WithComponent("test"),
		APIHandler: http.NotFoundHandler(),
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := mgr.Start(ctx); err == nil {
		t.Error("Start() expected error for port conflict, got nil")
	}
}

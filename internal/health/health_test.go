// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAlwaysHealthyWithoutVerbose(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(CheckerFunc{CheckerName: "failing", Fn: func(context.Context) error {
		return errors.New("down")
	}})

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Empty(t, resp.Checks)
}

func TestHealthVerboseReflectsCheckers(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(CheckerFunc{CheckerName: "ok", Fn: func(context.Context) error { return nil }})
	m.RegisterChecker(CheckerFunc{CheckerName: "bad", Fn: func(context.Context) error {
		return errors.New("down")
	}})

	resp := m.Health(context.Background(), true)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, StatusHealthy, resp.Checks["ok"].Status)
	assert.Equal(t, "down", resp.Checks["bad"].Error)
}

func TestServeReadyReturns503WhenUnready(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(CheckerFunc{CheckerName: "store", Fn: func(context.Context) error {
		return errors.New("store offline")
	}})

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest("GET", "/readyz", nil))

	assert.Equal(t, 503, rec.Code)
	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Ready)
}

func TestServeHealthReturns200(t *testing.T) {
	m := NewManager("v1")

	rec := httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest("GET", "/healthz?verbose=true", nil))

	assert.Equal(t, 200, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "v1", resp.Version)
}

// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureAttachesServiceFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "patlas-test", Version: "v0.0.0-test"})

	logger := WithComponent("unit")
	logger.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "patlas-test", entry["service"])
	assert.Equal(t, "v0.0.0-test", entry["version"])
	assert.Equal(t, "unit", entry["component"])
	assert.Equal(t, "hello", entry["message"])
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "patlas-test"})

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithJobID(ctx, "job-9")

	logger := WithComponentFromContext(ctx, "unit")
	logger.Info().Msg("correlated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "job-9", entry["job_id"])
}

func TestWithContextNilContextReturnsLoggerUnchanged(t *testing.T) {
	l := WithContext(nil, Base()) //nolint:staticcheck // nil context tolerated on purpose
	assert.NotNil(t, l)
	assert.Empty(t, RequestIDFromContext(nil)) //nolint:staticcheck
}

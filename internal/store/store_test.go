// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJobStore(t *testing.T, s JobStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.LastJob(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	first := &JobRecord{
		ID:        uuid.NewString(),
		Trigger:   "startup",
		StartedAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, s.PutJob(ctx, first))

	second := &JobRecord{
		ID:         uuid.NewString(),
		Trigger:    "api",
		StartedAt:  time.Now(),
		FinishedAt: time.Now().Add(time.Second),
		Patterns:   21,
		Principles: 5,
	}
	require.NoError(t, s.PutJob(ctx, second))

	got, err := s.GetJob(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "startup", got.Trigger)
	assert.False(t, got.Succeeded())

	last, err := s.LastJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, last.ID)
	assert.True(t, last.Succeeded())
	assert.Equal(t, 21, last.Patterns)

	_, err = s.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, s.PutJob(ctx, &JobRecord{}))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer func() { _ = s.Close() }()
	testJobStore(t, s)
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	testJobStore(t, s)
}

func TestBadgerStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	rec := &JobRecord{ID: uuid.NewString(), Trigger: "api", StartedAt: time.Now(), FinishedAt: time.Now()}
	require.NoError(t, s.PutJob(ctx, rec))
	require.NoError(t, s.Close())

	s, err = OpenBadgerStore(dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	last, err := s.LastJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, last.ID)
}

func TestFactory(t *testing.T) {
	s, err := NewJobStore("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
	_ = s.Close()

	s, err = NewJobStore("badger", t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &BadgerStore{}, s)
	_ = s.Close()

	_, err = NewJobStore("etcd", "")
	assert.Error(t, err)
}

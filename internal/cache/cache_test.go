package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	type payload struct {
		Total int `json:"total"`
	}
	require.NoError(t, store.SetJSON(ctx, "k", payload{Total: 7}, time.Minute))

	var got payload
	hit, err := store.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 7, got.Total)

	now = now.Add(2 * time.Minute)
	hit, err = store.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	hit, err = store.GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	bl := NewMemoryBlacklist()
	bl.now = func() time.Time { return now }

	require.NoError(t, bl.Add(ctx, "a", now.Add(time.Hour)))
	require.NoError(t, bl.Add(ctx, "expired", now.Add(-time.Hour)))

	ok, _ := bl.Contains(ctx, "a")
	assert.True(t, ok)
	ok, _ = bl.Contains(ctx, "expired")
	assert.False(t, ok)

	now = now.Add(2 * time.Hour)
	ok, _ = bl.Contains(ctx, "a")
	assert.False(t, ok)
}

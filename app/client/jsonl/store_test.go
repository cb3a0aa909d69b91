package jsonl

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendsPerCollection(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "nested", "journal.jsonl"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, "feedback", map[string]any{"feedback": "great"}))
	require.NoError(t, store.Insert(ctx, "analytics", map[string]any{"userId": "u1"}))
	require.NoError(t, store.Insert(ctx, "feedback", map[string]any{"feedback": "slow"}))

	docs, err := store.Documents("feedback")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "great", docs[0]["feedback"])
	assert.Equal(t, "slow", docs[1]["feedback"])

	docs, err = store.Documents("missing")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestOpen_KeepsExistingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Insert(context.Background(), "analytics", map[string]any{"n": 1}))

	second, err := Open(path)
	require.NoError(t, err)

	docs, err := second.Documents("analytics")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

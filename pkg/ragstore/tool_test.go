package ragstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieveToolReturnsPassages(t *testing.T) {
	store, err := New(Config{})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.AddDocument(ctx, "kb", "d1", "the agent loop is bounded by max_iterations", nil))

	rt := NewRetrieveTool(store, "kb")
	result, err := rt.Execute(ctx, map[string]any{"query": "iteration budget"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Content, "max_iterations")
}

func TestRetrieveToolNoMatches(t *testing.T) {
	store, err := New(Config{})
	require.NoError(t, err)

	rt := NewRetrieveTool(store, "empty")
	result, err := rt.Execute(context.Background(), map[string]any{"query": "anything"})
	require.NoError(t, err)
	assert.Equal(t, "no matching passages found", result.Content)
}

func TestRetrieveToolRequiresQuery(t *testing.T) {
	store, err := New(Config{})
	require.NoError(t, err)

	rt := NewRetrieveTool(store, "kb")
	result, err := rt.Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

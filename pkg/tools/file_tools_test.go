package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileEntireFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("line 1\nline 2\nline 3"), 0644))

	r := NewReadFile(ReadFileConfig{WorkingDirectory: dir})
	result, err := r.Execute(context.Background(), map[string]any{"path": "test.txt"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Content, "line 1")
	assert.Contains(t, result.Content, "line 3")
}

func TestReadFileLineRange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.txt"), []byte("line 1\nline 2\nline 3\nline 4"), 0644))

	r := NewReadFile(ReadFileConfig{WorkingDirectory: dir})
	result, err := r.Execute(context.Background(), map[string]any{
		"path": "test.txt", "start_line": float64(2), "end_line": float64(3),
	})
	require.NoError(t, err)
	assert.Contains(t, result.Content, "line 2")
	assert.Contains(t, result.Content, "line 3")
	assert.NotContains(t, result.Content, "line 4")
}

func TestReadFileNotFound(t *testing.T) {
	dir := t.TempDir()
	r := NewReadFile(ReadFileConfig{WorkingDirectory: dir})

	result, err := r.Execute(context.Background(), map[string]any{"path": "missing.txt"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestReadFileRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	r := NewReadFile(ReadFileConfig{WorkingDirectory: dir})

	result, err := r.Execute(context.Background(), map[string]any{"path": "../secret.txt"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "traversal")
}

func TestReadFileRejectsAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	r := NewReadFile(ReadFileConfig{WorkingDirectory: dir})

	result, err := r.Execute(context.Background(), map[string]any{"path": "/etc/passwd"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestWriteFileCreatesFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriteFile(WriteFileConfig{WorkingDirectory: dir})

	result, err := w.Execute(context.Background(), map[string]any{"path": "out.txt", "content": "hello"})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, result.Content, "created")

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteFileBacksUpExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out.txt"), []byte("old"), 0644))

	w := NewWriteFile(WriteFileConfig{WorkingDirectory: dir})
	result, err := w.Execute(context.Background(), map[string]any{"path": "out.txt", "content": "new"})
	require.NoError(t, err)
	assert.Contains(t, result.Content, "overwritten")

	backup, err := os.ReadFile(filepath.Join(dir, "out.txt.bak"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(backup))
}

func TestWriteFileNoBackupWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out.txt"), []byte("old"), 0644))

	w := NewWriteFile(WriteFileConfig{WorkingDirectory: dir})
	_, err := w.Execute(context.Background(), map[string]any{"path": "out.txt", "content": "new", "backup": false})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "out.txt.bak"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFileRejectsOversizedContent(t *testing.T) {
	dir := t.TempDir()
	w := NewWriteFile(WriteFileConfig{WorkingDirectory: dir, MaxFileSize: 4})

	result, err := w.Execute(context.Background(), map[string]any{"path": "out.txt", "content": "too long"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestWriteFileRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	w := NewWriteFile(WriteFileConfig{WorkingDirectory: dir})

	result, err := w.Execute(context.Background(), map[string]any{"path": "../out.txt", "content": "x"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

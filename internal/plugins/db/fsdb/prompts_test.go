package fsdb

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptsEntityGet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w1.prompt"), []byte("\n  Show the current time  \n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "w2.prompt"), []byte(" \n\t"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	prompts := NewPromptsEntity(dir)

	p, err := prompts.Get("w1")
	require.NoError(t, err)
	assert.Equal(t, "Show the current time", p.Content)
	assert.Equal(t, "w1", p.WidgetID)

	_, err = prompts.Get("w2")
	assert.True(t, errors.Is(err, ErrEmptyPrompt))

	_, err = prompts.Get("w3")
	require.Error(t, err)
	assert.True(t, IsMissing(err))

	names, err := prompts.GetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"w1", "w2"}, names)
}

func TestGetNamesMissingDir(t *testing.T) {
	prompts := NewPromptsEntity(filepath.Join(t.TempDir(), "absent"))
	names, err := prompts.GetNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

package poml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMarkup_AutoExistingFile(t *testing.T) {
	c := New()
	path := filepath.Join(t.TempDir(), "prompt.poml")
	require.NoError(t, os.WriteFile(path, []byte("<p>hi</p>"), 0o644))

	inputPath, tempPath, err := c.resolveMarkup(Auto(path))
	require.NoError(t, err)
	assert.Equal(t, path, inputPath)
	assert.Empty(t, tempPath, "existing files are used in place")
}

func TestResolveMarkup_AutoInlineFallback(t *testing.T) {
	c := New()

	// Looks like a path but does not exist: warned about, then treated as
	// literal markup text.
	inputPath, tempPath, err := c.resolveMarkup(Auto("prompts/missing.poml"))
	require.NoError(t, err)
	require.NotEmpty(t, tempPath)
	defer os.Remove(tempPath)

	assert.Equal(t, tempPath, inputPath)
	data, err := os.ReadFile(tempPath)
	require.NoError(t, err)
	assert.Equal(t, "prompts/missing.poml", string(data))
}

func TestResolveMarkup_TextNeverSniffsPaths(t *testing.T) {
	c := New()
	path := filepath.Join(t.TempDir(), "prompt.poml")
	require.NoError(t, os.WriteFile(path, []byte("<p>file</p>"), 0o644))

	// Even an existing path is staged verbatim when given as Text.
	inputPath, tempPath, err := c.resolveMarkup(Text(path))
	require.NoError(t, err)
	require.NotEmpty(t, tempPath)
	defer os.Remove(tempPath)

	data, err := os.ReadFile(inputPath)
	require.NoError(t, err)
	assert.Equal(t, path, string(data))
}

func TestResolveMarkup_Invalid(t *testing.T) {
	c := New()

	_, _, err := c.resolveMarkup(Input{})
	assert.Error(t, err, "absent markup")

	_, _, err = c.resolveMarkup(Data(map[string]any{"x": 1}))
	assert.Error(t, err, "structured markup payload")
}

func TestInput_IsZero(t *testing.T) {
	assert.True(t, Input{}.IsZero())
	assert.False(t, Text("").IsZero())
	assert.False(t, File("x").IsZero())
	assert.False(t, Data(nil).IsZero())
}

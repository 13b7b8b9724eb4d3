package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enabledTracer returns a tracer with local tracing active on a fresh run
// directory, plus the directory itself for fixture setup.
func enabledTracer(t *testing.T) (*Tracer, string) {
	t.Helper()
	tr := newTestTracer(nil)
	runDir, err := tr.Enable(func(o *ConfigureOptions) { o.TraceDir = t.TempDir() })
	require.NoError(t, err)
	require.NotEmpty(t, runDir)
	return tr, runDir
}

func writeRecord(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestLatestPrefix_HighestIndexWinsSourceExcluded(t *testing.T) {
	tr, runDir := enabledTracer(t)
	writeRecord(t, runDir, "0001.x.poml", "one")
	writeRecord(t, runDir, "0002.x.poml", "two")
	writeRecord(t, runDir, "0002.x.source.poml", "echo")
	writeRecord(t, runDir, "notes.txt", "ignored")

	assert.Equal(t, filepath.Join(runDir, "0002.x"), tr.LatestPrefix())
}

func TestLatestPrefix_NoMatches(t *testing.T) {
	tr, runDir := enabledTracer(t)
	writeRecord(t, runDir, "readme.md", "x")
	assert.Empty(t, tr.LatestPrefix())
}

func TestLatestPrefix_DisabledOrNoRunDir(t *testing.T) {
	tr := newTestTracer(nil)
	assert.Empty(t, tr.LatestPrefix())

	_, err := tr.Enable() // enabled but no directory resolved
	require.NoError(t, err)
	assert.Empty(t, tr.LatestPrefix())
}

func TestReadTracedFile(t *testing.T) {
	tr, runDir := enabledTracer(t)
	writeRecord(t, runDir, "0001.chat.poml", "<p>hi</p>")
	writeRecord(t, runDir, "0001.chat.context.json", `{"name":"world"}`)

	data, ok := tr.ReadTracedFile(".context.json")
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"world"}`, string(data))

	_, ok = tr.ReadTracedFile(".stylesheet.json")
	assert.False(t, ok, "absent sibling file")
}

func TestWriteArtifact(t *testing.T) {
	tr, runDir := enabledTracer(t)
	writeRecord(t, runDir, "0003.chat.poml", "<p>hi</p>")

	// Suffix separator is normalized.
	path, err := tr.WriteArtifact("response.txt", []byte("model output"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(runDir, "0003.chat.response.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "model output", string(data))
}

func TestWriteArtifact_NoRecordIsNoOp(t *testing.T) {
	tr, _ := enabledTracer(t)
	path, err := tr.WriteArtifact(".response.txt", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, path)
}

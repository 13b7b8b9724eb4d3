package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// recordPattern matches the renderer's numbered record files: a leading digit
// run, an arbitrary middle segment, the .poml extension, optionally preceded
// by a .source marker denoting an input echo rather than a primary record.
var recordPattern = regexp.MustCompile(`^(\d+.*?)(?:\.source)?\.poml$`)

// LatestPrefix returns the path prefix (run directory + non-extension
// portion) of the renderer's most recent record, identified by the maximum
// leading numeric index among the run directory's record files. Source echo
// files are excluded. Ties are renderer-assigned and not expected; if they
// occur the lexicographically last filename wins. Returns "" when tracing is
// disabled, no run directory exists, or nothing matches.
func (t *Tracer) LatestPrefix() string {
	t.mu.Lock()
	enabled, runDir := t.active[BackendLocal], t.runDir
	t.mu.Unlock()

	if !enabled || runDir == "" {
		return ""
	}

	entries, err := os.ReadDir(runDir)
	if err != nil {
		t.logger.Warn("failed to list run directory", "run_dir", runDir, "error", err)
		return ""
	}

	latestIdx := -1
	latestPrefix := ""
	for _, entry := range entries {
		m := recordPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		prefix := m[1]
		if strings.HasSuffix(prefix, ".source") {
			continue
		}
		idx, err := strconv.Atoi(strings.SplitN(prefix, ".", 2)[0])
		if err != nil {
			continue
		}
		// ReadDir sorts by filename, so >= keeps the lexicographically
		// last name on index ties.
		if idx >= latestIdx {
			latestIdx = idx
			latestPrefix = filepath.Join(runDir, prefix)
		}
	}
	return latestPrefix
}

// ReadTracedFile reads the most recent record's sibling file with the given
// suffix, recovering e.g. the exact markup (".poml"), context
// (".context.json") or stylesheet (".stylesheet.json") text the renderer
// consumed. ok is false when no record exists or the file is absent.
func (t *Tracer) ReadTracedFile(suffix string) (contents []byte, ok bool) {
	prefix := t.LatestPrefix()
	if prefix == "" {
		return nil, false
	}
	data, err := os.ReadFile(prefix + suffix)
	if err != nil {
		return nil, false
	}
	return data, true
}

// WriteArtifact attaches a supplementary artifact (e.g. a model's raw
// response) to the most recent record without the caller knowing its exact
// name. The suffix is prefixed with a separator if missing one. A no-op
// returning "" when no record is discoverable.
func (t *Tracer) WriteArtifact(suffix string, contents []byte) (string, error) {
	prefix := t.LatestPrefix()
	if prefix == "" {
		return "", nil
	}
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	path := prefix + suffix
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return path, nil
}

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// preamble parses the renderer CLI contract into shell variables:
// $in, $out, $ctx, $style, $chat, $tracedir.
const preamble = `#!/bin/sh
in="" out="" ctx="" style="" chat="" tracedir=""
prev=""
for a in "$@"; do
  case "$prev" in
    -f) in="$a" ;;
    -o) out="$a" ;;
    --context-file) ctx="$a" ;;
    --stylesheet-file) style="$a" ;;
    --chat) chat="$a" ;;
    --traceDir) tracedir="$a" ;;
  esac
  prev="$a"
done
`

// Script writes an executable shell script combining the argument parsing
// preamble with the given body and returns its path.
func Script(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-poml")
	if err := os.WriteFile(path, []byte(preamble+body+"\n"), 0o755); err != nil {
		t.Fatalf("writing fake renderer: %v", err)
	}
	return path
}

// payloadFile stages the payload on disk so the script can copy it to the
// output path without shell quoting concerns.
func payloadFile(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("writing payload: %v", err)
	}
	return path
}

// FakeRenderer returns a renderer script that writes payload to the output
// file and exits 0.
func FakeRenderer(t *testing.T, payload string) string {
	t.Helper()
	return Script(t, fmt.Sprintf(`cat %q > "$out"`, payloadFile(t, payload)))
}

// FailingRenderer returns a renderer script that writes message to stderr
// and exits with the given code without producing output.
func FailingRenderer(t *testing.T, code int, message string) string {
	t.Helper()
	return Script(t, fmt.Sprintf(`echo %q >&2
exit %d`, message, code))
}

// RecordingRenderer behaves like FakeRenderer but additionally records its
// argument vector, one argument per line, into argsFile.
func RecordingRenderer(t *testing.T, payload, argsFile string) string {
	t.Helper()
	return Script(t, fmt.Sprintf(`printf '%%s\n' "$@" > %q
cat %q > "$out"`, argsFile, payloadFile(t, payload)))
}

// TraceWritingRenderer behaves like FakeRenderer but also mimics the real
// engine's trace output: when --traceDir is passed it copies the markup to
// 0001.chat.poml and the context file (if any) to 0001.chat.context.json
// inside that directory.
func TraceWritingRenderer(t *testing.T, payload string) string {
	t.Helper()
	return Script(t, fmt.Sprintf(`if [ -n "$tracedir" ]; then
  cp "$in" "$tracedir/0001.chat.poml"
  if [ -n "$ctx" ]; then cp "$ctx" "$tracedir/0001.chat.context.json"; fi
  if [ -n "$style" ]; then cp "$style" "$tracedir/0001.chat.stylesheet.json"; fi
fi
cat %q > "$out"`, payloadFile(t, payload)))
}

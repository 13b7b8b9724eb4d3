package poml

import (
	"os"
	"regexp"
)

type inputKind int

const (
	inputAbsent inputKind = iota
	inputText
	inputFile
	inputAuto
	inputData
)

// Input is a tagged render input: inline text, a file path, or a structured
// payload. Resolving the variant once at the boundary keeps downstream logic
// switching on an explicit tag instead of re-inspecting raw values.
type Input struct {
	kind inputKind
	text string
	path string
	data map[string]any
}

// Text builds an inline text input. The text is staged into a temporary file
// for the renderer and never interpreted as a path.
func Text(text string) Input { return Input{kind: inputText, text: text} }

// File builds a file path input. The path must exist at render time.
func File(path string) Input { return Input{kind: inputFile, path: path} }

// Data builds a structured payload input, serialized to JSON for the
// renderer. Valid for context and stylesheet inputs.
func Data(data map[string]any) Input { return Input{kind: inputData, data: data} }

// Auto builds an input resolved at render time the way the upstream SDK
// treats bare strings: an existing file path is used as a file, anything
// else is treated as inline markup text. When the string merely looks like a
// path but does not exist, a warning is logged before falling back to
// inline text.
func Auto(value string) Input { return Input{kind: inputAuto, text: value} }

// IsZero reports whether the input is absent.
func (in Input) IsZero() bool { return in.kind == inputAbsent }

// pathLike conservatively matches strings that could plausibly be file
// paths, guarding against silent typos when inline text falls back.
var pathLike = regexp.MustCompile(`^[\w\-./]+$`)

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

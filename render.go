package poml

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pomlkit/poml/backend"
	"github.com/pomlkit/poml/core"
	"github.com/pomlkit/poml/format"
	"github.com/pomlkit/poml/renderer"
	"github.com/pomlkit/poml/trace"
)

// Request describes one render call.
type Request struct {
	// Markup is the POML source: inline text, a file path, or Auto.
	Markup Input
	// Context optionally binds template variables: a structured payload or
	// a JSON file path.
	Context Input
	// Stylesheet optionally restyles the markup: a structured payload or a
	// JSON file path.
	Stylesheet Input
	// Chat selects the renderer's chat mode (a speaker-tagged message list
	// instead of a single block of content).
	Chat bool
	// OutputFile names an explicit output location. When set the file is
	// kept for the caller; otherwise a temporary file is used and removed.
	OutputFile string
	// Format selects the result representation. Defaults to Structured.
	Format format.Format
	// ExtraArgs are appended to the renderer's argument list verbatim.
	ExtraArgs []string
}

// Result carries a render call's output. Raw always holds the renderer's
// output text; the other fields are populated according to the requested
// format.
type Result struct {
	Format     format.Format
	Raw        string
	Value      any                       // parsed output (all non-raw formats)
	Messages   []core.Message            // validated, openai_chat, langchain
	OpenAIChat []format.OpenAIMessage    // openai_chat
	LangChain  []format.LangChainMessage // langchain
}

// Render executes the renderer for the given request and converts its output
// into the requested format. Temporary files staged for the call are removed
// on every exit path; a caller-supplied OutputFile is never deleted.
func (c *Client) Render(ctx context.Context, req Request) (res *Result, err error) {
	start := time.Now()
	f := req.Format
	if f == "" {
		f = format.Structured
	}

	var entry *trace.Entry
	if c.tracer.Enabled() {
		entry = c.captureEntry(req)
	}
	// The record is appended even when the call fails; the result field is
	// only attached on success, before backend forwarding.
	defer func() {
		if entry != nil {
			c.tracer.Append(*entry)
		}
		c.logger.Info("render finished", "format", string(f), "duration", time.Since(start), "success", err == nil)
	}()

	var temps []string
	defer func() {
		for _, path := range temps {
			if rmErr := os.Remove(path); rmErr != nil {
				c.logger.Warn("failed to remove temp file", "path", path, "error", rmErr)
			}
		}
	}()

	inputPath, tempInput, err := c.resolveMarkup(req.Markup)
	if err != nil {
		return nil, err
	}
	if tempInput != "" {
		temps = append(temps, tempInput)
	}

	outputPath := req.OutputFile
	if outputPath == "" {
		tmp, err := createTemp("poml-out-*.json", nil)
		if err != nil {
			return nil, err
		}
		outputPath = tmp
		temps = append(temps, tmp)
	}

	args := renderer.Args{
		InputFile:  inputPath,
		OutputFile: outputPath,
		Chat:       req.Chat,
		Extra:      req.ExtraArgs,
	}

	args.ContextFile, err = c.stagePayload(req.Context, "poml-context-*.json", ErrContextNotFound, &temps)
	if err != nil {
		return nil, err
	}
	args.StylesheetFile, err = c.stagePayload(req.Stylesheet, "poml-stylesheet-*.json", ErrStylesheetNotFound, &temps)
	if err != nil {
		return nil, err
	}

	if c.tracer.Enabled() {
		args.TraceDir = c.tracer.RunDir()
	}

	// A failed run surfaces the exit code via *renderer.ExitError; the
	// output file is not read.
	if err := c.runner.Run(ctx, args); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("reading renderer output: %w", err)
	}
	raw := string(data)

	if f == format.Raw {
		return &Result{Format: f, Raw: raw}, nil
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("parsing renderer output: %w", err)
	}

	res = &Result{Format: f, Raw: raw, Value: value}
	switch f {
	case format.Structured:
		// Parsed value passes through unchanged.
	case format.Validated, format.OpenAIChat, format.LangChain:
		msgs, err := core.DecodeMessages(value, req.Chat)
		if err != nil {
			return nil, err
		}
		res.Messages = msgs
		switch f {
		case format.OpenAIChat:
			if res.OpenAIChat, err = format.ToOpenAIChat(msgs); err != nil {
				return nil, err
			}
		case format.LangChain:
			if res.LangChain, err = format.ToLangChain(msgs); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown output format: %q", f)
	}

	// Attach the parsed result and commit the record to the log before any
	// backend sees it. The deferred append is disarmed to avoid doubling.
	if entry != nil {
		entry.Result = value
		c.tracer.Append(*entry)
		entry = nil
	}

	if err := c.forwardBackends(ctx, inputPath, value); err != nil {
		return nil, err
	}
	return res, nil
}

// captureEntry snapshots the request's inputs into a trace record, resolving
// file payloads to their text where possible.
func (c *Client) captureEntry(req Request) *trace.Entry {
	entry := &trace.Entry{}

	switch req.Markup.kind {
	case inputFile:
		entry.MarkupPath = req.Markup.path
		if data, err := os.ReadFile(req.Markup.path); err == nil {
			entry.Markup = string(data)
		}
	case inputAuto:
		if fileExists(req.Markup.text) {
			entry.MarkupPath = req.Markup.text
			if data, err := os.ReadFile(req.Markup.text); err == nil {
				entry.Markup = string(data)
			}
		} else {
			entry.Markup = req.Markup.text
		}
	case inputText:
		entry.Markup = req.Markup.text
	}

	entry.Context, entry.ContextPath = capturePayload(req.Context)
	entry.Stylesheet, entry.StylesheetPath = capturePayload(req.Stylesheet)
	return entry
}

func capturePayload(in Input) (contents, path string) {
	switch in.kind {
	case inputData:
		if data, err := json.Marshal(in.data); err == nil {
			contents = string(data)
		}
	case inputFile, inputText, inputAuto:
		p := in.pathValue()
		if fileExists(p) {
			path = p
			if data, err := os.ReadFile(p); err == nil {
				contents = string(data)
			}
		}
	}
	return contents, path
}

// pathValue returns the string a path-bearing input names.
func (in Input) pathValue() string {
	if in.kind == inputFile {
		return in.path
	}
	return in.text
}

// resolveMarkup turns the markup input into a concrete file for the
// renderer. Inline text is written to a temporary file returned as tempPath
// for the caller to remove.
func (c *Client) resolveMarkup(in Input) (inputPath, tempPath string, err error) {
	switch in.kind {
	case inputFile:
		if !fileExists(in.path) {
			return "", "", fmt.Errorf("%w: %s", ErrMarkupNotFound, in.path)
		}
		return in.path, "", nil
	case inputAuto:
		if fileExists(in.text) {
			return in.text, "", nil
		}
		if pathLike.MatchString(in.text) {
			c.logger.Warn("markup looks like a file path but does not exist; treating it as inline POML text",
				"markup", in.text)
		}
		tmp, err := createTemp("poml-input-*.poml", []byte(in.text))
		if err != nil {
			return "", "", err
		}
		return tmp, tmp, nil
	case inputText:
		tmp, err := createTemp("poml-input-*.poml", []byte(in.text))
		if err != nil {
			return "", "", err
		}
		return tmp, tmp, nil
	case inputData:
		return "", "", fmt.Errorf("markup does not accept a structured payload")
	default:
		return "", "", fmt.Errorf("markup input is required")
	}
}

// stagePayload resolves a context/stylesheet input to a file path for the
// renderer: structured payloads are serialized into a temporary file
// (recorded in temps), path inputs must exist or the call fails with
// notFound.
func (c *Client) stagePayload(in Input, pattern string, notFound error, temps *[]string) (string, error) {
	switch in.kind {
	case inputAbsent:
		return "", nil
	case inputData:
		data, err := json.Marshal(in.data)
		if err != nil {
			return "", fmt.Errorf("serializing payload: %w", err)
		}
		tmp, err := createTemp(pattern, data)
		if err != nil {
			return "", err
		}
		*temps = append(*temps, tmp)
		return tmp, nil
	default:
		p := in.pathValue()
		if !fileExists(p) {
			return "", fmt.Errorf("%w: %s", notFound, p)
		}
		return p, nil
	}
}

// forwardBackends ships the traced call to every active non-local backend in
// fixed order. Each forward requires a discoverable local trace record. The
// markup text is recovered from the traced files, falling back to the
// resolved input path.
func (c *Client) forwardBackends(ctx context.Context, markupFallback string, result any) error {
	for _, b := range trace.ForwardOrder {
		if !c.tracer.Active(b) {
			continue
		}
		prefix := c.tracer.LatestPrefix()
		if prefix == "" {
			return fmt.Errorf("%s: %w", b, backend.ErrPrerequisiteMissing)
		}
		logger, ok := c.backends.Lookup(b)
		if !ok {
			return fmt.Errorf("%s: %w", b, backend.ErrNotRegistered)
		}

		rec := backend.CallRecord{
			Name:   filepath.Base(prefix),
			Markup: markupFallback,
			Result: result,
		}
		if data, ok := c.tracer.ReadTracedFile(".poml"); ok {
			rec.Markup = string(data)
		}
		if data, ok := c.tracer.ReadTracedFile(".context.json"); ok {
			var v map[string]any
			if err := json.Unmarshal(data, &v); err == nil {
				rec.Context = v
			}
		}
		if data, ok := c.tracer.ReadTracedFile(".stylesheet.json"); ok {
			var v map[string]any
			if err := json.Unmarshal(data, &v); err == nil {
				rec.Stylesheet = v
			}
		}

		start := time.Now()
		if err := logger.LogCall(ctx, rec); err != nil {
			c.logger.Error("backend forward failed", "backend", string(b), "record", rec.Name, "error", err)
			return fmt.Errorf("forwarding to %s: %w", b, err)
		}
		c.logger.Debug("backend forward completed", "backend", string(b), "record", rec.Name, "duration", time.Since(start))
	}
	return nil
}

// createTemp writes contents (may be nil) to a fresh temporary file and
// returns its path.
func createTemp(pattern string, contents []byte) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := f.Write(contents); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return f.Name(), nil
}

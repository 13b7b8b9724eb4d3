package backend

import (
	"context"
	"sync"

	"github.com/pomlkit/poml/logging"
	"github.com/pomlkit/poml/trace"
)

// CallRecord is the traced render call handed to a backend.
type CallRecord struct {
	// Name identifies the record, derived from the local trace prefix.
	Name string
	// Markup is the exact markup text the renderer consumed.
	Markup string
	// Context is the parsed context payload, nil if none was traced.
	Context map[string]any
	// Stylesheet is the parsed stylesheet payload, nil if none was traced.
	Stylesheet map[string]any
	// Result is the render result in the shape the caller requested.
	Result any
}

// Logger is the uniform logging entry point a backend implements.
type Logger interface {
	LogCall(ctx context.Context, rec CallRecord) error
}

// LoggerFunc adapts a plain function to the Logger interface.
type LoggerFunc func(ctx context.Context, rec CallRecord) error

// LogCall implements Logger.
func (f LoggerFunc) LogCall(ctx context.Context, rec CallRecord) error { return f(ctx, rec) }

// Registry maps trace backends to their registered Logger. Safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	loggers map[trace.Backend]Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{loggers: make(map[trace.Backend]Logger)}
}

// Register installs (or replaces) the Logger for a backend.
func (r *Registry) Register(b trace.Backend, l Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loggers[b] = l
}

// Lookup returns the Logger registered for a backend.
func (r *Registry) Lookup(b trace.Backend) (Logger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loggers[b]
	return l, ok
}

// SlogBackend is a Logger that emits the call record through the SDK's
// logging interface. Useful as a local debugging backend and as a template
// for real integrations.
type SlogBackend struct {
	Log logging.Logger
}

// LogCall implements Logger.
func (s SlogBackend) LogCall(_ context.Context, rec CallRecord) error {
	s.Log.Info("poml call",
		"record", rec.Name,
		"markup_len", len(rec.Markup),
		"has_context", rec.Context != nil,
		"has_stylesheet", rec.Stylesheet != nil,
		"result", rec.Result,
	)
	return nil
}

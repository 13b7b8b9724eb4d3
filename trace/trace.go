package trace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-envconfig"

	"github.com/pomlkit/poml/logging"
)

// Backend identifies a tracing destination.
type Backend string

const (
	// BackendLocal saves trace files to disk. It is the substrate all other
	// backends read from and is forced on whenever any backend is active.
	BackendLocal Backend = "local"
	// BackendWeave logs to Weights & Biases Weave.
	BackendWeave Backend = "weave"
	// BackendAgentOps logs to AgentOps.
	BackendAgentOps Backend = "agentops"
	// BackendMLflow logs to MLflow.
	BackendMLflow Backend = "mlflow"
)

// ForwardOrder is the fixed order in which non-local backends receive
// traced calls.
var ForwardOrder = []Backend{BackendWeave, BackendAgentOps, BackendMLflow}

// Entry is one in-memory trace record capturing a render call's inputs and
// eventual result. Entries are never persisted by this package; on-disk
// persistence is the renderer's job via numbered files in the run directory.
type Entry struct {
	ID             string    `json:"id"`
	Markup         string    `json:"markup,omitempty"`
	MarkupPath     string    `json:"markup_path,omitempty"`
	Context        string    `json:"context,omitempty"`
	ContextPath    string    `json:"context_path,omitempty"`
	Stylesheet     string    `json:"stylesheet,omitempty"`
	StylesheetPath string    `json:"stylesheet_path,omitempty"`
	Result         any       `json:"result,omitempty"`
	Time           time.Time `json:"time"`
}

type envSettings struct {
	// TraceDir is the fallback run directory. When set, the directory is
	// shared verbatim with the renderer process, which honors the same
	// variable, so no timestamped subdirectory is created for it.
	TraceDir string `env:"POML_TRACE"`
}

// Options configure a Tracer.
type Options struct {
	// Logger receives diagnostic output. Defaults to NoOpLogger.
	Logger logging.Logger
	// Lookuper overrides the environment source (tests).
	Lookuper envconfig.Lookuper
}

// Tracer is the process-wide tracing service. All mutation goes through
// Configure; reads return snapshots.
type Tracer struct {
	mu     sync.Mutex
	logger logging.Logger
	envDir string
	active map[Backend]bool
	runDir string
	log    []Entry
}

// New creates a Tracer. If the POML_TRACE environment variable is set, local
// tracing is enabled immediately against that directory, matching the
// renderer's own treatment of the variable.
func New(optFns ...func(o *Options)) *Tracer {
	opts := Options{
		Logger:   logging.NoOpLogger{},
		Lookuper: envconfig.OsLookuper(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var env envSettings
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &env,
		Lookuper: opts.Lookuper,
	}); err != nil {
		opts.Logger.Warn("failed to read trace environment", "error", err)
	}

	t := &Tracer{
		logger: opts.Logger,
		envDir: env.TraceDir,
		active: map[Backend]bool{},
	}
	if t.envDir != "" {
		if _, err := t.Configure([]Backend{BackendLocal}); err != nil {
			opts.Logger.Warn("failed to enable tracing from environment", "error", err)
		}
	}
	return t
}

// ConfigureOptions configure a single Configure call.
type ConfigureOptions struct {
	// TraceDir is an explicit base directory for local trace files. A
	// timestamped run subdirectory is created inside it.
	TraceDir string
}

// Configure recomputes the active backend set. A non-empty selection always
// forces local tracing on since every backend reads from the local trace
// files. When local tracing becomes active a run directory is resolved: a
// timestamped subdirectory of the explicit TraceDir option if given, else
// the POML_TRACE directory as-is, else none. When local tracing is inactive
// the run directory is cleared.
//
// Returns the resolved run directory ("" if none).
func (t *Tracer) Configure(backends []Backend, optFns ...func(o *ConfigureOptions)) (string, error) {
	var opts ConfigureOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	active := map[Backend]bool{}
	for _, b := range backends {
		active[b] = true
	}
	if len(active) > 0 {
		active[BackendLocal] = true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.active = active
	if !active[BackendLocal] {
		t.runDir = ""
		return "", nil
	}

	switch {
	case opts.TraceDir != "":
		runDir := filepath.Join(opts.TraceDir, timestamp(time.Now()))
		if err := os.MkdirAll(runDir, 0o755); err != nil {
			return "", fmt.Errorf("creating run directory: %w", err)
		}
		t.runDir = runDir
	case t.envDir != "":
		if err := os.MkdirAll(t.envDir, 0o755); err != nil {
			return "", fmt.Errorf("creating run directory: %w", err)
		}
		t.runDir = t.envDir
	default:
		t.runDir = ""
	}

	t.logger.Debug("tracing configured", "backends", backends, "run_dir", t.runDir)
	return t.runDir, nil
}

// Enable turns on local tracing only. Shorthand for Configure({local}).
func (t *Tracer) Enable(optFns ...func(o *ConfigureOptions)) (string, error) {
	return t.Configure([]Backend{BackendLocal}, optFns...)
}

// Disable turns off all tracing and clears the run directory.
func (t *Tracer) Disable() {
	_, _ = t.Configure(nil)
}

// Enabled reports whether any tracing is active.
func (t *Tracer) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active[BackendLocal]
}

// Active reports whether the given backend is active.
func (t *Tracer) Active(b Backend) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active[b]
}

// RunDir returns the current run directory ("" when local tracing is off or
// no directory was resolved).
func (t *Tracer) RunDir() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runDir
}

// RunName returns the run directory's base name, used as a version label
// when forwarding to backends. "" when no run directory is set.
func (t *Tracer) RunName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.runDir == "" {
		return ""
	}
	return filepath.Base(t.runDir)
}

// Append adds an entry to the in-memory log, assigning an ID and timestamp
// if unset.
func (t *Tracer) Append(e Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log = append(t.log, e)
}

// Log returns a snapshot copy of the collected entries. Callers never
// observe in-place mutation.
func (t *Tracer) Log() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.log))
	copy(out, t.log)
	return out
}

// ClearLog empties the collected entries.
func (t *Tracer) ClearLog() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.log = nil
}

// timestamp formats t as the fixed-width sortable run directory name:
// year, month, day, hour, minute, second, microsecond (20 digits).
func timestamp(now time.Time) string {
	return fmt.Sprintf("%s%06d", now.Format("20060102150405"), now.Nanosecond()/1000)
}

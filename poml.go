// Package poml provides a high-level façade over the POML renderer and the
// SDK's service abstractions (tracing, format conversion, backend
// forwarding) enabling applications to turn POML markup into
// consumer-ready message lists. Most applications interact with this
// package by:
//  1. Creating a Client via New() (optionally overriding the renderer
//     command, tracer or logger)
//  2. Optionally enabling tracing (SetTrace) and registering observability
//     backends
//  3. Rendering markup via Render with the output format consumers expect
//
// The façade delegates subprocess execution to renderer.CLI and state
// keeping to trace.Tracer while keeping setup and usage ergonomics concise.
// All defaults are safe for local development; a package-level default
// client mirrors the one-call usage style of the upstream SDKs.
package poml

import (
	"context"
	"sync"

	"github.com/pomlkit/poml/backend"
	"github.com/pomlkit/poml/logging"
	"github.com/pomlkit/poml/renderer"
	"github.com/pomlkit/poml/trace"
)

// Options configures a Client.
type Options struct {
	// Runner executes the external renderer. Defaults to a CLI runner
	// resolving the executable from POML_CLI or PATH.
	Runner renderer.Runner
	// Tracer holds tracing state. Defaults to a fresh Tracer honoring the
	// POML_TRACE environment variable.
	Tracer *trace.Tracer
	// Backends maps active trace backends to their logging entry points.
	Backends *backend.Registry
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Client orchestrates render calls: input staging, renderer invocation,
// output conversion, tracing and backend forwarding.
type Client struct {
	runner   renderer.Runner
	tracer   *trace.Tracer
	backends *backend.Registry
	logger   logging.Logger
}

// New creates a Client with optional overrides. Any unset service is
// initialized with its default implementation.
func New(optFns ...func(o *Options)) *Client {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.New(func(o *trace.Options) { o.Logger = opts.Logger })
	}
	if opts.Runner == nil {
		opts.Runner = renderer.NewCLI(func(o *renderer.Options) { o.Logger = opts.Logger })
	}
	if opts.Backends == nil {
		opts.Backends = backend.NewRegistry()
	}
	return &Client{
		runner:   opts.Runner,
		tracer:   opts.Tracer,
		backends: opts.Backends,
		logger:   opts.Logger,
	}
}

// Tracer exposes the client's tracing service.
func (c *Client) Tracer() *trace.Tracer { return c.tracer }

// Backends exposes the client's backend registry for integration wiring.
func (c *Client) Backends() *backend.Registry { return c.backends }

// SetTrace reconfigures tracing. See trace.Tracer.Configure.
func (c *Client) SetTrace(backends []trace.Backend, optFns ...func(o *trace.ConfigureOptions)) (string, error) {
	return c.tracer.Configure(backends, optFns...)
}

// GetTrace returns a snapshot of the collected trace log.
func (c *Client) GetTrace() []trace.Entry { return c.tracer.Log() }

// ClearTrace empties the collected trace log.
func (c *Client) ClearTrace() { c.tracer.ClearLog() }

// TraceArtifact attaches a supplementary artifact file to the most recent
// render call's trace record. See trace.Tracer.WriteArtifact.
func (c *Client) TraceArtifact(suffix string, contents []byte) (string, error) {
	return c.tracer.WriteArtifact(suffix, contents)
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
)

// Default returns the lazily constructed package-level client.
func Default() *Client {
	defaultOnce.Do(func() { defaultClient = New() })
	return defaultClient
}

// Render renders markup using the default client.
func Render(ctx context.Context, req Request) (*Result, error) {
	return Default().Render(ctx, req)
}

// SetTrace reconfigures tracing on the default client.
func SetTrace(backends []trace.Backend, optFns ...func(o *trace.ConfigureOptions)) (string, error) {
	return Default().SetTrace(backends, optFns...)
}

// GetTrace returns the default client's trace log snapshot.
func GetTrace() []trace.Entry { return Default().GetTrace() }

// ClearTrace empties the default client's trace log.
func ClearTrace() { Default().ClearTrace() }

// TraceArtifact attaches an artifact via the default client.
func TraceArtifact(suffix string, contents []byte) (string, error) {
	return Default().TraceArtifact(suffix, contents)
}

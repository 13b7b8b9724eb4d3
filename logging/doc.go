// Package logging provides a minimal logging interface and adapters for the
// POML SDK.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the render client, tracer and backends use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - PomlLogger with contextual helpers and render-specific log methods
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	client := poml.New(func(o *poml.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging

// Package trace manages the POML SDK's tracing state: which observability
// backends are active, where the current run directory lives on disk, and the
// in-memory log of render calls.
//
// Local tracing is the substrate every other backend reads from. When it is
// enabled the renderer writes numbered artifact files (markup, context,
// stylesheet) into a run directory; this package discovers the most recent
// record by filename convention and lets callers read those files or attach
// supplementary artifacts to them.
//
// The Tracer is safe for concurrent use; all state is guarded by an internal
// mutex. Construct one per process (or use the root package's default
// client, which owns one).
package trace

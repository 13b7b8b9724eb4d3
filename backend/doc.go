// Package backend defines the contract between the render client and
// observability backends (Weave, AgentOps, MLflow, ...).
//
// The client forwards every traced render call to each active backend
// through a single uniform entry point, LogCall, carrying the record name,
// the exact markup the renderer consumed, the context and stylesheet values
// (if any) and the render result. Backend internals are out of scope here;
// integrations register a Logger per backend in a Registry and the SDK never
// needs to know how the data is shipped.
//
// Every backend forward requires local tracing: the forwarded artifacts are
// read back from the latest local trace record. Forwarding without a
// discoverable record fails with ErrPrerequisiteMissing.
package backend

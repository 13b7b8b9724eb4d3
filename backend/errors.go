package backend

import "errors"

var (
	// ErrPrerequisiteMissing is returned when a backend forward is requested
	// but local tracing has not produced a discoverable record to forward.
	ErrPrerequisiteMissing = errors.New("backend forwarding requires local tracing with a discoverable record")

	// ErrNotRegistered is returned when a backend is active in the tracing
	// configuration but no Logger was registered for it.
	ErrNotRegistered = errors.New("no logger registered for backend")
)

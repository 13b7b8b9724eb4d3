package core

import "errors"

var (
	// ErrInvalidMessageShape is returned when the renderer's output does not
	// match the expected message contract (missing speaker, content of an
	// unexpected JSON type, a mapping content element without the multimedia
	// discriminant keys, ...).
	ErrInvalidMessageShape = errors.New("invalid message shape")

	// ErrUnknownSpeaker is returned when a speaker value outside the
	// recognized vocabulary is mapped to a consumer role.
	ErrUnknownSpeaker = errors.New("unknown speaker")

	// ErrUnsupportedContentPart is returned when a content part cannot be
	// represented in the requested output format.
	ErrUnsupportedContentPart = errors.New("unsupported content part")
)

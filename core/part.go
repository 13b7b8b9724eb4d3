package core

// Part represents a polymorphic segment of message content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string // Plain UTF-8 text
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// MultimediaPart is an inlined multimedia segment (image, audio, ...)
// carried as base64 with its MIME type.
type MultimediaPart struct {
	MimeType string // e.g. image/png, image/jpeg
	Base64   string // Base64 encoded payload
	Alt      string // Optional alternative text
}

// isPart implements the Part interface for MultimediaPart.
func (MultimediaPart) isPart() {}

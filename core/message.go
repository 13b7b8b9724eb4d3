package core

import (
	"encoding/json"
	"fmt"
)

// Speaker is the renderer's role vocabulary for a message.
type Speaker string

const (
	// SpeakerHuman marks content authored by the user.
	SpeakerHuman Speaker = "human"
	// SpeakerAssistant marks content authored by the model.
	SpeakerAssistant Speaker = "assistant"
	// SpeakerSystem marks instruction content.
	SpeakerSystem Speaker = "system"
)

// ParseSpeaker normalizes a raw speaker string. The legacy "ai" value emitted
// by some renderer stylesheets is an alias for "assistant"; the three
// canonical values pass through. Any other value is preserved verbatim with
// ok=false so callers can decide whether the context requires a recognized
// speaker.
func ParseSpeaker(s string) (Speaker, bool) {
	switch s {
	case "human", "assistant", "system":
		return Speaker(s), true
	case "ai":
		return SpeakerAssistant, true
	default:
		return Speaker(s), false
	}
}

// Message is one entry of the renderer's normalized output.
type Message struct {
	Speaker Speaker
	Content RichContent
}

// RichContent holds message content that is either scalar text or an ordered
// sequence of parts. The two shapes are distinguished on the wire (a JSON
// string vs. a JSON array) and must round-trip without collapsing one into
// the other.
type RichContent struct {
	text  string
	parts []Part
	list  bool
}

// TextContent builds scalar text content.
func TextContent(text string) RichContent {
	return RichContent{text: text}
}

// PartsContent builds sequence content from the given parts. An empty call
// yields an empty (but still sequence-shaped) content.
func PartsContent(parts ...Part) RichContent {
	if parts == nil {
		parts = []Part{}
	}
	return RichContent{parts: parts, list: true}
}

// IsText reports whether the content is scalar text.
func (c RichContent) IsText() bool { return !c.list }

// Text returns the scalar text. Empty for sequence content.
func (c RichContent) Text() string { return c.text }

// Parts returns a snapshot of the part sequence. Nil for scalar content.
func (c RichContent) Parts() []Part {
	if !c.list {
		return nil
	}
	out := make([]Part, len(c.parts))
	copy(out, c.parts)
	return out
}

// MarshalJSON writes scalar content as a JSON string and sequence content as
// a JSON array mirroring the renderer's wire shape.
func (c RichContent) MarshalJSON() ([]byte, error) {
	if !c.list {
		return json.Marshal(c.text)
	}
	elems := make([]any, 0, len(c.parts))
	for _, p := range c.parts {
		switch part := p.(type) {
		case TextPart:
			elems = append(elems, part.Text)
		case MultimediaPart:
			m := map[string]any{"type": part.MimeType, "base64": part.Base64}
			if part.Alt != "" {
				m["alt"] = part.Alt
			}
			elems = append(elems, m)
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedContentPart, p)
		}
	}
	return json.Marshal(elems)
}

// UnmarshalJSON parses either wire shape of rich content.
func (c *RichContent) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	rc, err := DecodeRichContent(v)
	if err != nil {
		return err
	}
	*c = rc
	return nil
}

// MarshalJSON writes the renderer's {speaker, content} wire shape.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Speaker Speaker     `json:"speaker"`
		Content RichContent `json:"content"`
	}{m.Speaker, m.Content})
}

// UnmarshalJSON parses the renderer's {speaker, content} wire shape.
func (m *Message) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	msg, err := decodeMessage(v)
	if err != nil {
		return err
	}
	*m = msg
	return nil
}

// DecodeRichContent coerces an already parsed JSON value into RichContent.
// Legal shapes are a string, or an array whose elements are strings or
// multimedia mappings carrying "type" and "base64" keys. Anything else fails
// with ErrInvalidMessageShape; unrecognized mappings are never dropped.
func DecodeRichContent(v any) (RichContent, error) {
	switch val := v.(type) {
	case string:
		return TextContent(val), nil
	case []any:
		parts := make([]Part, 0, len(val))
		for i, elem := range val {
			part, err := decodePart(elem)
			if err != nil {
				return RichContent{}, fmt.Errorf("content[%d]: %w", i, err)
			}
			parts = append(parts, part)
		}
		return PartsContent(parts...), nil
	default:
		return RichContent{}, fmt.Errorf("%w: content must be a string or array, got %T", ErrInvalidMessageShape, v)
	}
}

func decodePart(v any) (Part, error) {
	switch val := v.(type) {
	case string:
		return TextPart{Text: val}, nil
	case map[string]any:
		mime, okType := val["type"].(string)
		b64, okData := val["base64"].(string)
		if !okType || !okData {
			return nil, fmt.Errorf("%w: mapping part requires string \"type\" and \"base64\" keys", ErrInvalidMessageShape)
		}
		alt, _ := val["alt"].(string)
		return MultimediaPart{MimeType: mime, Base64: b64, Alt: alt}, nil
	default:
		return nil, fmt.Errorf("%w: part must be a string or mapping, got %T", ErrInvalidMessageShape, v)
	}
}

func decodeMessage(v any) (Message, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Message{}, fmt.Errorf("%w: message must be a mapping, got %T", ErrInvalidMessageShape, v)
	}
	rawSpeaker, ok := m["speaker"].(string)
	if !ok {
		return Message{}, fmt.Errorf("%w: missing speaker", ErrInvalidMessageShape)
	}
	rawContent, ok := m["content"]
	if !ok {
		return Message{}, fmt.Errorf("%w: missing content", ErrInvalidMessageShape)
	}
	content, err := DecodeRichContent(rawContent)
	if err != nil {
		return Message{}, err
	}
	// Speaker normalization happens here; unrecognized values are kept so
	// that shape-only consumers still see them. Role mapping rejects them.
	speaker, _ := ParseSpeaker(rawSpeaker)
	return Message{Speaker: speaker, Content: content}, nil
}

// DecodeMessages coerces the renderer's parsed JSON output into a message
// sequence. In chat mode the value must be an array of {speaker, content}
// mappings. Outside chat mode the whole value is wrapped as a single human
// message, validated only as rich content.
func DecodeMessages(v any, chat bool) ([]Message, error) {
	if !chat {
		content, err := DecodeRichContent(v)
		if err != nil {
			return nil, err
		}
		return []Message{{Speaker: SpeakerHuman, Content: content}}, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: chat output must be an array, got %T", ErrInvalidMessageShape, v)
	}
	messages := make([]Message, 0, len(seq))
	for i, elem := range seq {
		msg, err := decodeMessage(elem)
		if err != nil {
			return nil, fmt.Errorf("message[%d]: %w", i, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

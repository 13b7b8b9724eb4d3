package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeMessages_Chat(t *testing.T) {
	raw := `[{"speaker":"human","content":"hi"},{"speaker":"assistant","content":["see:",{"type":"image/png","base64":"AAAA","alt":"x"}]}]`
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	msgs, err := DecodeMessages(v, true)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Speaker != SpeakerHuman || !msgs[0].Content.IsText() || msgs[0].Content.Text() != "hi" {
		t.Fatalf("unexpected first message: %+v", msgs[0])
	}
	parts := msgs[1].Content.Parts()
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if tp, ok := parts[0].(TextPart); !ok || tp.Text != "see:" {
		t.Fatalf("unexpected text part: %+v", parts[0])
	}
	mm, ok := parts[1].(MultimediaPart)
	if !ok {
		t.Fatalf("expected multimedia part, got %T", parts[1])
	}
	if mm.MimeType != "image/png" || mm.Base64 != "AAAA" || mm.Alt != "x" {
		t.Fatalf("unexpected multimedia part: %+v", mm)
	}
}

func TestDecodeMessages_NonChatWrapsValue(t *testing.T) {
	msgs, err := DecodeMessages("plain prompt", false)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Speaker != SpeakerHuman {
		t.Fatalf("expected single human message, got %+v", msgs)
	}
	if msgs[0].Content.Text() != "plain prompt" {
		t.Fatalf("unexpected content: %q", msgs[0].Content.Text())
	}
}

func TestDecodeMessages_EmptySequence(t *testing.T) {
	msgs, err := DecodeMessages([]any{}, true)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty output, got %d messages", len(msgs))
	}
}

func TestDecodeMessages_ShapeErrors(t *testing.T) {
	cases := map[string]any{
		"not a sequence":        map[string]any{"speaker": "human"},
		"element not a mapping": []any{42},
		"missing speaker":       []any{map[string]any{"content": "hi"}},
		"missing content":       []any{map[string]any{"speaker": "human"}},
		"bad content type":      []any{map[string]any{"speaker": "human", "content": 42}},
		"unrecognized mapping part": []any{map[string]any{
			"speaker": "human",
			"content": []any{map[string]any{"kind": "video"}},
		}},
	}
	for name, v := range cases {
		if _, err := DecodeMessages(v, true); !errors.Is(err, ErrInvalidMessageShape) {
			t.Errorf("%s: expected ErrInvalidMessageShape, got %v", name, err)
		}
	}
}

func TestDecodeMessages_UnknownSpeakerPreserved(t *testing.T) {
	// Shape validation accepts any speaker string; only the role-mapping
	// conversions reject unrecognized values.
	msgs, err := DecodeMessages([]any{map[string]any{"speaker": "narrator", "content": "once"}}, true)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Speaker != Speaker("narrator") {
		t.Fatalf("expected narrator speaker preserved, got %+v", msgs)
	}
}

func TestParseSpeaker_LegacyAlias(t *testing.T) {
	s, ok := ParseSpeaker("ai")
	if !ok || s != SpeakerAssistant {
		t.Fatalf("expected ai to normalize to assistant, got %q ok=%v", s, ok)
	}
	if _, ok := ParseSpeaker("narrator"); ok {
		t.Fatal("expected narrator to be unrecognized")
	}
}

func TestRichContent_JSONRoundTrip(t *testing.T) {
	var m Message
	if err := json.Unmarshal([]byte(`{"speaker":"ai","content":["a",{"type":"image/png","base64":"QUJD"}]}`), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Speaker != SpeakerAssistant {
		t.Fatalf("expected normalized speaker, got %q", m.Speaker)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"speaker":"assistant","content":["a",{"base64":"QUJD","type":"image/png"}]}`
	if string(out) != want {
		t.Fatalf("round trip mismatch:\n got %s\nwant %s", out, want)
	}
	// Scalar text must stay scalar, not collapse into a one element array.
	var scalar Message
	if err := json.Unmarshal([]byte(`{"speaker":"human","content":"hi"}`), &scalar); err != nil {
		t.Fatalf("unmarshal scalar: %v", err)
	}
	out, _ = json.Marshal(scalar)
	if string(out) != `{"speaker":"human","content":"hi"}` {
		t.Fatalf("scalar round trip mismatch: %s", out)
	}
}

func TestRichContent_PartsSnapshot(t *testing.T) {
	c := PartsContent(TextPart{Text: "a"})
	parts := c.Parts()
	parts[0] = TextPart{Text: "mutated"}
	if c.Parts()[0].(TextPart).Text != "a" {
		t.Fatal("Parts should return a copy")
	}
}

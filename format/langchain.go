package format

import (
	"fmt"

	"github.com/pomlkit/poml/core"
)

// LangChainMessage is one LangChain message in wire shape. Unlike the OpenAI
// conversion the speaker is preserved verbatim as the message type.
type LangChainMessage struct {
	Type string        `json:"type"`
	Data LangChainData `json:"data"`
}

// LangChainData wraps the message content. Content is a plain string for
// scalar messages or a []any of typed part mappings.
type LangChainData struct {
	Content any `json:"content"`
}

// LangChainTextPart is the {type: "text"} content element.
type LangChainTextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// LangChainImagePart is the {type: "image"} base64 content element.
type LangChainImagePart struct {
	Type       string `json:"type"`
	SourceType string `json:"source_type"`
	Data       string `json:"data"`
	MimeType   string `json:"mime_type"`
}

// ToLangChain converts validated messages into LangChain wire shape. The
// speaker string becomes the message type unchanged; the speaker vocabulary
// is still validated so typos surface instead of producing unloadable
// messages downstream.
func ToLangChain(messages []core.Message) ([]LangChainMessage, error) {
	out := make([]LangChainMessage, 0, len(messages))
	for _, msg := range messages {
		if _, err := roleFor(msg.Speaker); err != nil {
			return nil, err
		}
		if msg.Content.IsText() {
			out = append(out, LangChainMessage{
				Type: string(msg.Speaker),
				Data: LangChainData{Content: msg.Content.Text()},
			})
			continue
		}
		parts := msg.Content.Parts()
		elems := make([]any, 0, len(parts))
		for _, p := range parts {
			switch part := p.(type) {
			case core.TextPart:
				elems = append(elems, LangChainTextPart{Type: "text", Text: part.Text})
			case core.MultimediaPart:
				elems = append(elems, LangChainImagePart{
					Type:       "image",
					SourceType: "base64",
					Data:       part.Base64,
					MimeType:   part.MimeType,
				})
			default:
				return nil, fmt.Errorf("%w: %T", core.ErrUnsupportedContentPart, p)
			}
		}
		out = append(out, LangChainMessage{
			Type: string(msg.Speaker),
			Data: LangChainData{Content: elems},
		})
	}
	return out, nil
}

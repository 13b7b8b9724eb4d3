package format

import (
	"fmt"

	"github.com/openai/openai-go"

	"github.com/pomlkit/poml/core"
)

// OpenAIMessage is one OpenAI chat completion message in wire shape. Content
// is a plain string for scalar messages or a []any of typed part mappings
// for multimodal messages.
type OpenAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// OpenAITextPart is the {type: "text"} content element.
type OpenAITextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OpenAIImagePart is the {type: "image_url"} content element carrying a
// base64 data URL.
type OpenAIImagePart struct {
	Type     string         `json:"type"`
	ImageURL OpenAIImageURL `json:"image_url"`
}

// OpenAIImageURL wraps the image URL field.
type OpenAIImageURL struct {
	URL string `json:"url"`
}

// DataURL renders a multimedia part as an RFC 2397 data URL.
func DataURL(p core.MultimediaPart) string {
	return fmt.Sprintf("data:%s;base64,%s", p.MimeType, p.Base64)
}

// ToOpenAIChat converts validated messages into OpenAI chat completion wire
// shape: human maps to user, text parts to {type: "text"} elements and
// multimedia parts to {type: "image_url"} data URLs.
func ToOpenAIChat(messages []core.Message) ([]OpenAIMessage, error) {
	out := make([]OpenAIMessage, 0, len(messages))
	for _, msg := range messages {
		role, err := roleFor(msg.Speaker)
		if err != nil {
			return nil, err
		}
		if msg.Content.IsText() {
			out = append(out, OpenAIMessage{Role: role, Content: msg.Content.Text()})
			continue
		}
		parts := msg.Content.Parts()
		elems := make([]any, 0, len(parts))
		for _, p := range parts {
			switch part := p.(type) {
			case core.TextPart:
				elems = append(elems, OpenAITextPart{Type: "text", Text: part.Text})
			case core.MultimediaPart:
				elems = append(elems, OpenAIImagePart{Type: "image_url", ImageURL: OpenAIImageURL{URL: DataURL(part)}})
			default:
				return nil, fmt.Errorf("%w: %T", core.ErrUnsupportedContentPart, p)
			}
		}
		out = append(out, OpenAIMessage{Role: role, Content: elems})
	}
	return out, nil
}

// ToOpenAIParams converts validated messages into ready-to-send request
// params for the official OpenAI client. Multimodal content is only legal on
// user messages; system and assistant messages flatten their text parts.
func ToOpenAIParams(messages []core.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		role, err := roleFor(msg.Speaker)
		if err != nil {
			return nil, err
		}
		switch role {
		case "user":
			if msg.Content.IsText() {
				out = append(out, openai.UserMessage(msg.Content.Text()))
				continue
			}
			parts := msg.Content.Parts()
			elems := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
			for _, p := range parts {
				switch part := p.(type) {
				case core.TextPart:
					elems = append(elems, openai.TextContentPart(part.Text))
				case core.MultimediaPart:
					elems = append(elems, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL: DataURL(part),
					}))
				default:
					return nil, fmt.Errorf("%w: %T", core.ErrUnsupportedContentPart, p)
				}
			}
			out = append(out, openai.UserMessage(elems))
		case "system":
			text, err := flattenText(msg.Content)
			if err != nil {
				return nil, err
			}
			out = append(out, openai.SystemMessage(text))
		case "assistant":
			text, err := flattenText(msg.Content)
			if err != nil {
				return nil, err
			}
			out = append(out, openai.AssistantMessage(text))
		}
	}
	return out, nil
}

// flattenText joins a message's text parts; multimedia parts are illegal in
// this position.
func flattenText(c core.RichContent) (string, error) {
	if c.IsText() {
		return c.Text(), nil
	}
	var text string
	for _, p := range c.Parts() {
		tp, ok := p.(core.TextPart)
		if !ok {
			return "", fmt.Errorf("%w: %T outside a user message", core.ErrUnsupportedContentPart, p)
		}
		text += tp.Text
	}
	return text, nil
}

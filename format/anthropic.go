package format

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/pomlkit/poml/core"
)

// ToAnthropicParams converts validated messages into ready-to-send pieces
// for the official Anthropic client: system messages become system text
// blocks (the Messages API carries them outside the turn list), other
// speakers become conversation turns with text and base64 image blocks.
func ToAnthropicParams(messages []core.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam, error) {
	var system []anthropic.TextBlockParam
	turns := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		if _, err := roleFor(msg.Speaker); err != nil {
			return nil, nil, err
		}
		if msg.Speaker == core.SpeakerSystem {
			text, err := flattenText(msg.Content)
			if err != nil {
				return nil, nil, err
			}
			system = append(system, anthropic.TextBlockParam{Text: text})
			continue
		}

		role := anthropic.MessageParamRoleUser
		if msg.Speaker == core.SpeakerAssistant {
			role = anthropic.MessageParamRoleAssistant
		}

		var blocks []anthropic.ContentBlockParamUnion
		if msg.Content.IsText() {
			blocks = append(blocks, anthropic.NewTextBlock(msg.Content.Text()))
		} else {
			for _, p := range msg.Content.Parts() {
				switch part := p.(type) {
				case core.TextPart:
					blocks = append(blocks, anthropic.NewTextBlock(part.Text))
				case core.MultimediaPart:
					blocks = append(blocks, anthropic.NewImageBlockBase64(part.MimeType, part.Base64))
				default:
					return nil, nil, fmt.Errorf("%w: %T", core.ErrUnsupportedContentPart, p)
				}
			}
		}
		turns = append(turns, anthropic.MessageParam{Role: role, Content: blocks})
	}
	return system, turns, nil
}

package format

import (
	"fmt"

	"github.com/pomlkit/poml/core"
)

// Format selects the representation a render call returns.
type Format string

const (
	// Raw returns the renderer's output text unmodified (e.g. for
	// pretty-printed inspection).
	Raw Format = "raw"
	// Structured returns the parsed JSON value unchanged.
	Structured Format = "structured"
	// Validated returns the coerced []core.Message sequence.
	Validated Format = "validated"
	// OpenAIChat returns OpenAI chat completion message mappings.
	OpenAIChat Format = "openai_chat"
	// LangChain returns LangChain message mappings.
	LangChain Format = "langchain"
)

// roleFor maps the renderer's speaker vocabulary onto OpenAI chat roles.
func roleFor(s core.Speaker) (string, error) {
	switch s {
	case core.SpeakerHuman:
		return "user", nil
	case core.SpeakerAssistant:
		return "assistant", nil
	case core.SpeakerSystem:
		return "system", nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnknownSpeaker, s)
	}
}

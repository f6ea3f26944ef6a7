package chatbot

import (
	"fmt"
	"time"

	"ppods-be/pkg/llm/factory"
)

const (
	KindCanned = "canned"
	KindOllama = "ollama"
)

// New builds the responder selected by kind. An empty kind means canned.
func New(kind, baseURL, model string, timeout time.Duration) (Responder, error) {
	switch kind {
	case "", KindCanned:
		return CannedResponder{}, nil
	case KindOllama:
		provider, err := factory.NewLLMProvider(kind, model, baseURL, timeout)
		if err != nil {
			return nil, err
		}
		return NewLLMResponder(provider, DefaultHistoryWindow), nil
	default:
		return nil, fmt.Errorf("unsupported chat responder: %s", kind)
	}
}

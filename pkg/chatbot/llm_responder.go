package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ppods-be/pkg/appstate"
	"ppods-be/pkg/llm"
)

const systemPrompt = `You are a supportive assistant helping people practice safe online dating interactions.
Keep answers short, plain and kind. Encourage clear boundaries, meeting in public places,
protecting personal information and trusting one's instincts. Never ask for personal details.`

// DefaultHistoryWindow is how many trailing transcript messages are sent to the model.
const DefaultHistoryWindow = 20

var ErrEmptyReply = errors.New("model returned an empty reply")

type LLMResponder struct {
	provider llm.LLMProvider
	window   int
}

var _ Responder = (*LLMResponder)(nil)

func NewLLMResponder(provider llm.LLMProvider, window int) *LLMResponder {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &LLMResponder{provider: provider, window: window}
}

// Welcome stays fixed so the first screen does not depend on the model being reachable.
func (r *LLMResponder) Welcome(context.Context) (string, error) {
	return WelcomeText, nil
}

func (r *LLMResponder) Reply(ctx context.Context, transcript []appstate.ChatMessage) (string, error) {
	reply, err := r.provider.Chat(ctx, BuildHistory(transcript, r.window), llm.WithTemperature(0.4))
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// BuildHistory maps the trailing window of the transcript to model messages,
// prefixed by the system prompt.
func BuildHistory(transcript []appstate.ChatMessage, window int) []llm.Message {
	if len(transcript) > window {
		transcript = transcript[len(transcript)-window:]
	}

	history := make([]llm.Message, 0, len(transcript)+1)
	history = append(history, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, m := range transcript {
		role := llm.RoleAssistant
		if m.IsUserMessage {
			role = llm.RoleUser
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	return history
}

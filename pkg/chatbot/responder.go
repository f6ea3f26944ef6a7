package chatbot

import (
	"context"

	"ppods-be/pkg/appstate"
)

const (
	WelcomeText = "Hello! I'm your AI assistant for practicing safe online dating interactions. How can I help you today?"
	ReplyText   = "I understand your concern. When dating online, it's important to maintain clear boundaries and trust your instincts. Would you like to practice some safe communication strategies?"
)

// Responder produces the assistant side of the practice chat.
type Responder interface {
	Welcome(ctx context.Context) (string, error)
	// Reply answers the last user message; transcript includes it.
	Reply(ctx context.Context, transcript []appstate.ChatMessage) (string, error)
}

// CannedResponder always answers with the same fixed strings.
type CannedResponder struct{}

var _ Responder = CannedResponder{}

func (CannedResponder) Welcome(context.Context) (string, error) {
	return WelcomeText, nil
}

func (CannedResponder) Reply(context.Context, []appstate.ChatMessage) (string, error) {
	return ReplyText, nil
}

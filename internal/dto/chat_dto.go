package dto

import (
	"ppods-be/pkg/appstate"
	"ppods-be/pkg/voice"
)

type SendChatMessageRequest struct {
	Text   string   `json:"text" validate:"required,max=4000"`
	Type   string   `json:"type" validate:"omitempty,oneof=text voice"`
	Speak  bool     `json:"speak"`
	Volume *float64 `json:"volume" validate:"omitempty,gte=0,lte=1"`
}

type SendChatMessageResponse struct {
	UserMessage appstate.ChatMessage `json:"user_message"`
	Reply       appstate.ChatMessage `json:"reply"`
	Speech      *voice.Info          `json:"speech,omitempty"`
}

type ConversationResponse struct {
	Messages []appstate.ChatMessage `json:"messages"`
	Started  bool                   `json:"started"`
}

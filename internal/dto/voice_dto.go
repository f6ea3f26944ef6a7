package dto

import (
	"ppods-be/pkg/voice"
)

type StartVoiceSessionRequest struct {
	Kind   string   `json:"kind" validate:"required,oneof=recognition recording synthesis"`
	Text   string   `json:"text" validate:"required_if=Kind synthesis,max=4000"`
	Volume *float64 `json:"volume" validate:"omitempty,gte=0,lte=1"`
}

type VoiceTranscriptRequest struct {
	Text  string `json:"text" validate:"max=4000"`
	Final bool   `json:"final"`
}

type VoiceTranscriptResponse struct {
	Session voice.Info               `json:"session"`
	Sent    bool                     `json:"sent"`
	Chat    *SendChatMessageResponse `json:"chat,omitempty"`
}

type VoiceSessionsResponse struct {
	Sessions []voice.Info `json:"sessions"`
}

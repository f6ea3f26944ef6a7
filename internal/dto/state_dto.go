package dto

import (
	"time"

	"ppods-be/pkg/appstate"
)

// StateResponse is the state snapshot plus the theme the view should render.
type StateResponse struct {
	appstate.State
	ResolvedTheme appstate.Theme `json:"resolvedTheme"`
}

func NewStateResponse(st appstate.State) StateResponse {
	return StateResponse{State: st, ResolvedTheme: st.ResolvedTheme()}
}

type UpdateThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark system"`
}

type UpdateSystemThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type AccessibilityResponse struct {
	AccessibilitySettings appstate.AccessibilitySettings `json:"accessibilitySettings"`
	IgnoredKeys           []string                       `json:"ignoredKeys,omitempty"`
}

type EmergencyToggleResponse struct {
	IsEmergencyMode bool   `json:"is_emergency_mode"`
	RedirectURL     string `json:"redirect_url,omitempty"`
}

type AddMessageRequest struct {
	ID            string     `json:"id" validate:"required,max=128"`
	Sender        string     `json:"sender" validate:"max=128"`
	Content       string     `json:"content"`
	Timestamp     *time.Time `json:"timestamp"`
	Type          string     `json:"type" validate:"required,oneof=text voice system"`
	IsUserMessage bool       `json:"isUserMessage"`
}

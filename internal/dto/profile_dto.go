package dto

import (
	"time"

	"ppods-be/pkg/appstate"
)

type ProfileResponse struct {
	Id                    string                         `json:"id"`
	Name                  string                         `json:"name"`
	AccessibilitySettings appstate.AccessibilitySettings `json:"accessibilitySettings"`
	Progress              appstate.Progress              `json:"progress"`
	CreatedAt             time.Time                      `json:"created_at"`
	UpdatedAt             time.Time                      `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Name                  *string        `json:"name" validate:"omitempty,min=1,max=255"`
	AccessibilitySettings map[string]any `json:"accessibilitySettings"`
}

type RecordProgressRequest struct {
	ScenarioID  string   `json:"scenario_id" validate:"required,max=128"`
	SafetyScore *float64 `json:"safety_score" validate:"required,gte=0,lte=100"`
}

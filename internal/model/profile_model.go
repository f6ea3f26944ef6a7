package model

import (
	"time"

	"ppods-be/pkg/appstate"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProfile Id is the identity provider's subject, not a generated UUID.
type UserProfile struct {
	Id                    string                                             `gorm:"type:varchar(128);primaryKey"`
	Name                  string                                             `gorm:"type:varchar(255);not null"`
	AccessibilitySettings datatypes.JSONType[appstate.AccessibilitySettings] `gorm:"not null"`
	CompletedScenarios    datatypes.JSONSlice[string]
	CurrentLevel          int            `gorm:"not null;default:1"`
	SafetyScore           float64        `gorm:"not null;default:0"`
	CreatedAt             time.Time      `gorm:"autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime"`
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

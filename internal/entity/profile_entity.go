package entity

import (
	"time"

	"ppods-be/pkg/appstate"
)

// ScenariosPerLevel is how many completed practice scenarios move a user up one level.
const ScenariosPerLevel = 5

type Profile struct {
	Id                    string
	Name                  string
	AccessibilitySettings appstate.AccessibilitySettings
	CompletedScenarios    []string
	CurrentLevel          int
	SafetyScore           float64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func NewProfile(id, name string) *Profile {
	return &Profile{
		Id:                    id,
		Name:                  name,
		AccessibilitySettings: appstate.DefaultAccessibilitySettings(),
		CompletedScenarios:    []string{},
		CurrentLevel:          1,
	}
}

// CompleteScenario records a finished scenario once and recomputes the level.
// It reports whether the scenario was new.
func (p *Profile) CompleteScenario(scenarioID string) bool {
	for _, id := range p.CompletedScenarios {
		if id == scenarioID {
			return false
		}
	}
	p.CompletedScenarios = append(p.CompletedScenarios, scenarioID)
	p.CurrentLevel = 1 + len(p.CompletedScenarios)/ScenariosPerLevel
	return true
}

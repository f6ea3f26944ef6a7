package mapper

import (
	"ppods-be/internal/entity"
	"ppods-be/internal/model"
	"ppods-be/pkg/appstate"

	"gorm.io/datatypes"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) ToEntity(p *model.UserProfile) *entity.Profile {
	if p == nil {
		return nil
	}
	completed := []string(p.CompletedScenarios)
	if completed == nil {
		completed = []string{}
	}
	return &entity.Profile{
		Id:                    p.Id,
		Name:                  p.Name,
		AccessibilitySettings: p.AccessibilitySettings.Data(),
		CompletedScenarios:    completed,
		CurrentLevel:          p.CurrentLevel,
		SafetyScore:           p.SafetyScore,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func (m *ProfileMapper) ToModel(p *entity.Profile) *model.UserProfile {
	if p == nil {
		return nil
	}
	return &model.UserProfile{
		Id:                    p.Id,
		Name:                  p.Name,
		AccessibilitySettings: datatypes.NewJSONType(p.AccessibilitySettings),
		CompletedScenarios:    datatypes.NewJSONSlice(p.CompletedScenarios),
		CurrentLevel:          p.CurrentLevel,
		SafetyScore:           p.SafetyScore,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

// ToAppState converts a stored profile into the shape the application store holds.
func (m *ProfileMapper) ToAppState(p *entity.Profile) *appstate.UserProfile {
	if p == nil {
		return nil
	}
	return &appstate.UserProfile{
		ID:                    p.Id,
		Name:                  p.Name,
		AccessibilitySettings: p.AccessibilitySettings,
		Progress: appstate.Progress{
			CompletedScenarios: append([]string{}, p.CompletedScenarios...),
			CurrentLevel:       p.CurrentLevel,
			SafetyScore:        p.SafetyScore,
		},
	}
}

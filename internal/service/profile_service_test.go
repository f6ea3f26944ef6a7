package service

import (
	"context"
	"testing"

	"ppods-be/internal/dto"
	"ppods-be/internal/pkg/logger"
	"ppods-be/internal/repository/memory"
	"ppods-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(t *testing.T, strict bool) (IProfileService, *memory.StoreRegistry, *recordingPublisher) {
	t.Helper()
	reg := newRegistry()
	pub := &recordingPublisher{}
	return NewProfileService(newUowFactory(t), reg, pub, strict, logger.NewNopLogger()), reg, pub
}

func score(v float64) *float64 { return &v }

func TestProfileServiceGetOrCreate(t *testing.T) {
	ctx := context.Background()
	svc, reg, _ := newProfileService(t, false)

	p, err := svc.GetOrCreate(ctx, "u1", "  Sam ")
	require.NoError(t, err)
	assert.Equal(t, "Sam", p.Name)
	assert.Equal(t, 16, p.AccessibilitySettings.FontSize)
	assert.Equal(t, 1, p.Progress.CurrentLevel)

	again, err := svc.GetOrCreate(ctx, "u1", "Someone Else")
	require.NoError(t, err)
	assert.Equal(t, "Sam", again.Name)

	user := reg.Get(ctx, "u1").Snapshot().User
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "Sam", user.Name)

	anon, err := svc.GetOrCreate(ctx, "u2", "")
	require.NoError(t, err)
	assert.Equal(t, defaultProfileName, anon.Name)
}

func TestProfileServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, reg, pub := newProfileService(t, false)

	_, err := svc.Update(ctx, "ghost", &dto.UpdateProfileRequest{})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = svc.GetOrCreate(ctx, "u1", "Sam")
	require.NoError(t, err)

	name := "Alex"
	p, err := svc.Update(ctx, "u1", &dto.UpdateProfileRequest{
		Name:                  &name,
		AccessibilitySettings: map[string]any{"fontSize": 4.0, "reducedMotion": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alex", p.Name)
	assert.Equal(t, 12, p.AccessibilitySettings.FontSize)
	assert.True(t, p.AccessibilitySettings.ReducedMotion)

	user := reg.Get(ctx, "u1").Snapshot().User
	assert.Equal(t, "Alex", user.Name)
	assert.True(t, user.AccessibilitySettings.ReducedMotion)
	assert.Equal(t, []string{events.TypeProfileUpdated}, pub.types())
}

func TestProfileServiceUpdateStrictKeys(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newProfileService(t, true)

	_, err := svc.GetOrCreate(ctx, "u1", "Sam")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "u1", &dto.UpdateProfileRequest{AccessibilitySettings: map[string]any{"sparkles": 1}})
	var keysErr *UnknownSettingsKeysError
	assert.ErrorAs(t, err, &keysErr)
}

func TestProfileServiceRecordProgress(t *testing.T) {
	ctx := context.Background()
	svc, reg, _ := newProfileService(t, false)

	_, err := svc.GetOrCreate(ctx, "u1", "Sam")
	require.NoError(t, err)

	scenarios := []string{"s1", "s2", "s2", "s3", "s4", "s5"}
	var last *dto.ProfileResponse
	for i, id := range scenarios {
		last, err = svc.RecordProgress(ctx, "u1", &dto.RecordProgressRequest{ScenarioID: id, SafetyScore: score(float64(50 + i))})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5"}, last.Progress.CompletedScenarios)
	assert.Equal(t, 2, last.Progress.CurrentLevel)
	assert.Equal(t, 55.0, last.Progress.SafetyScore)

	user := reg.Get(ctx, "u1").Snapshot().User
	assert.Equal(t, 2, user.Progress.CurrentLevel)
	assert.True(t, user.Progress.HasCompleted("s3"))
}

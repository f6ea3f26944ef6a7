package controller

import (
	"testing"

	"ppods-be/internal/dto"
	"ppods-be/pkg/appstate"

	"github.com/stretchr/testify/assert"
)

func TestStateRequiresAuth(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, "GET", "/api/state", "", nil)
	assert.Equal(t, 401, status)
	assert.False(t, body.Success)
}

func TestGetStateDefaults(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, "GET", "/api/state", "u1", nil)
	assert.Equal(t, 200, status)
	assert.True(t, body.Success)

	st := decodeData[dto.StateResponse](t, body)
	assert.Equal(t, appstate.ThemeSystem, st.Theme)
	assert.Equal(t, appstate.ThemeLight, st.SystemTheme)
	assert.Equal(t, appstate.ThemeLight, st.ResolvedTheme)
	assert.Equal(t, 16, st.AccessibilitySettings.FontSize)
	assert.Nil(t, st.User)
	assert.Empty(t, st.Messages)
}

func TestThemeEndpoints(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"theme dark", "/api/state/theme", map[string]string{"theme": "dark"}, 200},
		{"theme invalid", "/api/state/theme", map[string]string{"theme": "sepia"}, 400},
		{"theme missing", "/api/state/theme", map[string]string{}, 400},
		{"system dark", "/api/state/system-theme", map[string]string{"theme": "dark"}, 200},
		{"system rejects system", "/api/state/system-theme", map[string]string{"theme": "system"}, 400},
		{"malformed body", "/api/state/theme", "{", 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, "PUT", tt.path, "u1", tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.status == 200, body.Success)
		})
	}

	_, body := env.do(t, "GET", "/api/state", "u1", nil)
	st := decodeData[dto.StateResponse](t, body)
	assert.Equal(t, appstate.ThemeDark, st.Theme)
	assert.Equal(t, appstate.ThemeDark, st.SystemTheme)
}

func TestUpdateAccessibility(t *testing.T) {
	t.Run("lenient", func(t *testing.T) {
		env := newTestEnv(t, false)
		status, body := env.do(t, "PATCH", "/api/state/accessibility", "u1", map[string]any{
			"fontSize":      30,
			"screenReader":  true,
			"unknownOption": "x",
		})
		assert.Equal(t, 200, status)

		res := decodeData[dto.AccessibilityResponse](t, body)
		assert.Equal(t, 24, res.AccessibilitySettings.FontSize)
		assert.True(t, res.AccessibilitySettings.ScreenReader)
		assert.Equal(t, []string{"unknownOption"}, res.IgnoredKeys)
	})

	t.Run("strict", func(t *testing.T) {
		env := newTestEnv(t, true)
		status, body := env.do(t, "PATCH", "/api/state/accessibility", "u1", map[string]any{
			"fontSize":      20,
			"unknownOption": "x",
		})
		assert.Equal(t, 400, status)
		assert.False(t, body.Success)

		_, body = env.do(t, "GET", "/api/state", "u1", nil)
		assert.Equal(t, 16, decodeData[dto.StateResponse](t, body).AccessibilitySettings.FontSize)
	})
}

func TestToggleEmergency(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, "POST", "/api/state/emergency/toggle", "u1", nil)
	assert.Equal(t, 200, status)
	on := decodeData[dto.EmergencyToggleResponse](t, body)
	assert.True(t, on.IsEmergencyMode)
	assert.Equal(t, "https://www.plannedparenthood.org/", on.RedirectURL)

	_, body = env.do(t, "POST", "/api/state/emergency/toggle", "u1", nil)
	off := decodeData[dto.EmergencyToggleResponse](t, body)
	assert.False(t, off.IsEmergencyMode)
	assert.Empty(t, off.RedirectURL)
}

func TestMessagesEndpoints(t *testing.T) {
	env := newTestEnv(t, false)

	status, _ := env.do(t, "POST", "/api/state/messages", "u1", map[string]any{
		"id": "m1", "sender": "user", "content": "hi", "type": "text", "isUserMessage": true,
	})
	assert.Equal(t, 201, status)

	status, _ = env.do(t, "POST", "/api/state/messages", "u1", map[string]any{
		"id": "m2", "content": "bad", "type": "video",
	})
	assert.Equal(t, 400, status)

	status, body := env.do(t, "GET", "/api/state/messages", "u1", nil)
	assert.Equal(t, 200, status)
	msgs := decodeData[[]appstate.ChatMessage](t, body)
	if assert.Len(t, msgs, 1) {
		assert.Equal(t, "m1", msgs[0].ID)
		assert.True(t, msgs[0].IsUserMessage)
	}
}

func TestClearUser(t *testing.T) {
	env := newTestEnv(t, false)

	status, _ := env.do(t, "GET", "/api/profile", "u1", nil)
	assert.Equal(t, 200, status)
	_, body := env.do(t, "GET", "/api/state", "u1", nil)
	assert.NotNil(t, decodeData[dto.StateResponse](t, body).User)

	status, body = env.do(t, "DELETE", "/api/state/user", "u1", nil)
	assert.Equal(t, 200, status)
	assert.Nil(t, decodeData[dto.StateResponse](t, body).User)
}

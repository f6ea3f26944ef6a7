package controller

import (
	"testing"

	"ppods-be/internal/dto"
	"ppods-be/pkg/voice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceEndpoints(t *testing.T) {
	env := newTestEnv(t, false)

	status, _ := env.do(t, "POST", "/api/voice/sessions", "u1", map[string]any{"kind": "camera"})
	assert.Equal(t, 400, status)

	status, _ = env.do(t, "POST", "/api/voice/sessions", "u1", map[string]any{"kind": "synthesis"})
	assert.Equal(t, 400, status)

	status, body := env.do(t, "POST", "/api/voice/sessions", "u1", map[string]any{"kind": "recognition"})
	require.Equal(t, 201, status)
	session := decodeData[voice.Info](t, body)

	status, _ = env.do(t, "POST", "/api/voice/sessions/"+session.ID+"/transcript", "u2", map[string]any{"text": "hi", "final": true})
	assert.Equal(t, 404, status)

	status, _ = env.do(t, "POST", "/api/voice/sessions/"+session.ID+"/transcript", "u1", map[string]any{"text": "is this safe", "final": true})
	assert.Equal(t, 200, status)

	status, body = env.do(t, "POST", "/api/voice/sessions/"+session.ID+"/transcript", "u1", map[string]any{"text": "send", "final": true})
	assert.Equal(t, 200, status)
	res := decodeData[dto.VoiceTranscriptResponse](t, body)
	assert.True(t, res.Sent)
	require.NotNil(t, res.Chat)
	assert.Equal(t, "is this safe", res.Chat.UserMessage.Content)

	status, _ = env.do(t, "DELETE", "/api/voice/sessions/"+session.ID, "u1", nil)
	assert.Equal(t, 404, status)
}

func TestVoiceRecordingRejectsTranscript(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, "POST", "/api/voice/sessions", "u1", map[string]any{"kind": "recording"})
	require.Equal(t, 201, status)
	session := decodeData[voice.Info](t, body)

	status, _ = env.do(t, "POST", "/api/voice/sessions/"+session.ID+"/transcript", "u1", map[string]any{"text": "x", "final": true})
	assert.Equal(t, 409, status)

	status, body = env.do(t, "GET", "/api/voice/sessions", "u1", nil)
	assert.Equal(t, 200, status)
	assert.Len(t, decodeData[dto.VoiceSessionsResponse](t, body).Sessions, 1)

	status, _ = env.do(t, "DELETE", "/api/voice/sessions/"+session.ID, "u1", nil)
	assert.Equal(t, 200, status)
}

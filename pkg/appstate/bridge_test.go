package appstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"ppods-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapBackend struct {
	blobs    map[string][]byte
	readErr  error
	writeErr error
}

func newMapBackend() *mapBackend {
	return &mapBackend{blobs: make(map[string][]byte)}
}

func (b *mapBackend) Read(_ context.Context, key string) ([]byte, error) {
	if b.readErr != nil {
		return nil, b.readErr
	}
	data, ok := b.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (b *mapBackend) Write(_ context.Context, key string, data []byte) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	b.blobs[key] = append([]byte(nil), data...)
	return nil
}

func sampleState() State {
	st := DefaultState()
	st.User = &UserProfile{
		ID:                    "user-1",
		Name:                  "Ana",
		AccessibilitySettings: AccessibilitySettings{HighContrast: true, FontSize: 20},
		Progress: Progress{
			CompletedScenarios: []string{"scam-101", "boundaries-1"},
			CurrentLevel:       2,
			SafetyScore:        87.5,
		},
	}
	st.Messages = []ChatMessage{
		{ID: "1", Sender: "assistant", Content: "Hello!", Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), Type: MessageTypeSystem},
		{ID: "2", Sender: "user", Content: "hi", Timestamp: time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC), Type: MessageTypeVoice, IsUserMessage: true},
	}
	st.IsEmergencyMode = true
	st.Theme = ThemeDark
	st.SystemTheme = ThemeDark
	st.AccessibilitySettings = AccessibilitySettings{FontSize: 12, ReducedMotion: true, SignLanguage: true}
	return st
}

func TestBridgeRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := newMapBackend()
	b := NewBridge(backend, StorageKey("user-1"), logger.NewNopLogger())

	for _, st := range []State{DefaultState(), sampleState()} {
		b.Save(ctx, st)
		assert.Equal(t, st, b.Load(ctx))
	}
}

func TestBridgeLoadMissingReturnsDefaults(t *testing.T) {
	b := NewBridge(newMapBackend(), StorageName, logger.NewNopLogger())
	assert.Equal(t, DefaultState(), b.Load(context.Background()))
}

func TestBridgeLoadCorruptReturnsDefaults(t *testing.T) {
	blobs := map[string]string{
		"not json":          `{{{`,
		"array":             `[1,2,3]`,
		"future version":    `{"version":99,"state":{"theme":"dark"}}`,
		"envelope no state": `{"version":1}`,
		"bad theme":         `{"version":1,"state":{"theme":"sepia","systemTheme":"light","accessibilitySettings":{"fontSize":16},"messages":[]}}`,
		"bad system theme":  `{"version":1,"state":{"theme":"dark","systemTheme":"system","accessibilitySettings":{"fontSize":16},"messages":[]}}`,
		"font out of range": `{"version":1,"state":{"theme":"dark","systemTheme":"light","accessibilitySettings":{"fontSize":40},"messages":[]}}`,
		"bad message type":  `{"version":1,"state":{"theme":"dark","systemTheme":"light","accessibilitySettings":{"fontSize":16},"messages":[{"id":"1","type":"video"}]}}`,
		"message no id":     `{"version":1,"state":{"theme":"dark","systemTheme":"light","accessibilitySettings":{"fontSize":16},"messages":[{"type":"text"}]}}`,
		"wrong field type":  `{"version":1,"state":{"isEmergencyMode":"yes"}}`,
	}

	for name, blob := range blobs {
		t.Run(name, func(t *testing.T) {
			backend := newMapBackend()
			backend.blobs[StorageName] = []byte(blob)
			b := NewBridge(backend, StorageName, logger.NewNopLogger())

			assert.Equal(t, DefaultState(), b.Load(context.Background()))
		})
	}
}

func TestBridgeLoadReadErrorReturnsDefaults(t *testing.T) {
	backend := newMapBackend()
	backend.readErr = errors.New("disk on fire")
	b := NewBridge(backend, StorageName, logger.NewNopLogger())

	assert.Equal(t, DefaultState(), b.Load(context.Background()))
}

func TestBridgeSaveSwallowsWriteErrors(t *testing.T) {
	backend := newMapBackend()
	backend.writeErr = errors.New("quota exceeded")
	b := NewBridge(backend, StorageName, logger.NewNopLogger())

	assert.NotPanics(t, func() { b.Save(context.Background(), sampleState()) })

	// the in-memory store stays authoritative
	s := NewStore(DefaultState(), b)
	s.ToggleEmergencyMode(context.Background())
	assert.True(t, s.Snapshot().IsEmergencyMode)
}

func TestDecodeStateMigratesVersionlessLayouts(t *testing.T) {
	tests := []struct {
		name string
		blob string
		want func() State
	}{
		{
			name: "browser envelope version 0",
			blob: `{"state":{"user":null,"messages":[],"isEmergencyMode":true,"theme":"dark","systemTheme":"light",
				"accessibilitySettings":{"highContrast":true,"fontSize":30,"voiceCommands":false,"screenReader":false,"signLanguage":false,"reducedMotion":false}},"version":0}`,
			want: func() State {
				st := DefaultState()
				st.IsEmergencyMode = true
				st.Theme = ThemeDark
				st.AccessibilitySettings = AccessibilitySettings{HighContrast: true, FontSize: 24}
				return st
			},
		},
		{
			name: "bare state object with missing fields",
			blob: `{"isEmergencyMode":false,"accessibilitySettings":{"screenReader":true}}`,
			want: func() State {
				st := DefaultState()
				st.AccessibilitySettings = AccessibilitySettings{ScreenReader: true, FontSize: DefaultFontSize}
				return st
			},
		},
		{
			name: "messages null",
			blob: `{"state":{"messages":null,"theme":"light"}}`,
			want: func() State {
				st := DefaultState()
				st.Theme = ThemeLight
				return st
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeState([]byte(tt.blob))
			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestEncodeStateWritesVersion(t *testing.T) {
	data, err := EncodeState(State{Theme: ThemeLight, SystemTheme: ThemeLight, AccessibilitySettings: DefaultAccessibilitySettings()})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":1`)
	assert.Contains(t, string(data), `"messages":[]`)
}

func TestDecodeStateErrors(t *testing.T) {
	_, err := DecodeState([]byte(`{"version":2,"state":{}}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = DecodeState([]byte(`nope`))
	assert.ErrorIs(t, err, ErrCorruptState)
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "ppods-storage", StorageKey(""))
	assert.Equal(t, "ppods-storage:abc", StorageKey("abc"))
}

package appstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ppods-be/internal/pkg/logger"
)

const (
	// StorageName is the logical name the state blob is persisted under.
	StorageName = "ppods-storage"

	// SchemaVersion is written into every saved envelope. Version 0 is the
	// versionless layout written by the original browser client.
	SchemaVersion = 1
)

var (
	ErrNotFound           = errors.New("appstate: blob not found")
	ErrCorruptState       = errors.New("appstate: corrupt persisted state")
	ErrUnsupportedVersion = errors.New("appstate: unsupported schema version")
)

// Backend stores opaque blobs under string keys.
// Read returns ErrNotFound when nothing was saved under key.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// StorageKey scopes StorageName to one user.
func StorageKey(userID string) string {
	if userID == "" {
		return StorageName
	}
	return StorageName + ":" + userID
}

type envelope struct {
	Version int   `json:"version"`
	State   State `json:"state"`
}

// Bridge serializes a State to a Backend and back. It never surfaces errors:
// loading falls back to DefaultState and saving failures are logged.
type Bridge struct {
	backend Backend
	key     string
	logger  logger.ILogger
}

func NewBridge(backend Backend, key string, log logger.ILogger) *Bridge {
	return &Bridge{backend: backend, key: key, logger: log}
}

func (b *Bridge) Key() string { return b.key }

func (b *Bridge) Load(ctx context.Context) State {
	data, err := b.backend.Read(ctx, b.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			b.logger.Debug("StateBridge", "No persisted state, using defaults", map[string]interface{}{"key": b.key})
		} else {
			b.logger.Error("StateBridge", "Failed to read persisted state", map[string]interface{}{"key": b.key, "error": err.Error()})
		}
		return DefaultState()
	}

	state, err := DecodeState(data)
	if err != nil {
		b.logger.Warn("StateBridge", "Discarding unreadable persisted state", map[string]interface{}{"key": b.key, "error": err.Error()})
		return DefaultState()
	}
	return state
}

func (b *Bridge) Save(ctx context.Context, state State) {
	data, err := EncodeState(state)
	if err != nil {
		b.logger.Error("StateBridge", "Failed to encode state", map[string]interface{}{"key": b.key, "error": err.Error()})
		return
	}
	if err := b.backend.Write(ctx, b.key, data); err != nil {
		b.logger.Error("StateBridge", "Failed to persist state", map[string]interface{}{"key": b.key, "error": err.Error()})
	}
}

func EncodeState(state State) ([]byte, error) {
	if state.Messages == nil {
		state.Messages = []ChatMessage{}
	}
	return json.Marshal(envelope{Version: SchemaVersion, State: state})
}

// DecodeState parses a persisted blob, migrating older layouts, and rejects anything
// that does not describe a well-formed State.
func DecodeState(data []byte) (State, error) {
	var head struct {
		Version *int            `json:"version"`
		State   json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	version := 0
	if head.Version != nil {
		version = *head.Version
	}
	raw := []byte(head.State)
	if head.State == nil {
		if head.Version != nil {
			return State{}, fmt.Errorf("%w: envelope without state", ErrCorruptState)
		}
		// Bare state object from before the envelope existed.
		raw = data
	}

	if version < 0 || version > SchemaVersion {
		return State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	state := DefaultState()
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if version == 0 {
		migrateV0(&state)
	}
	if state.Messages == nil {
		state.Messages = []ChatMessage{}
	}
	if err := validate(state); err != nil {
		return State{}, err
	}
	return state, nil
}

// migrateV0 fills what the browser client never enforced.
func migrateV0(st *State) {
	if st.Theme == "" {
		st.Theme = ThemeSystem
	}
	if st.SystemTheme == "" {
		st.SystemTheme = ThemeLight
	}
	if st.AccessibilitySettings.FontSize == 0 {
		st.AccessibilitySettings.FontSize = DefaultFontSize
	}
	st.AccessibilitySettings.FontSize = ClampFontSize(st.AccessibilitySettings.FontSize)
	if st.User != nil {
		st.User.AccessibilitySettings.FontSize = ClampFontSize(st.User.AccessibilitySettings.FontSize)
	}
}

func validate(st State) error {
	if !st.Theme.IsValidPreference() {
		return fmt.Errorf("%w: theme %q", ErrCorruptState, st.Theme)
	}
	if !st.SystemTheme.IsValidSystemTheme() {
		return fmt.Errorf("%w: systemTheme %q", ErrCorruptState, st.SystemTheme)
	}
	fs := st.AccessibilitySettings.FontSize
	if fs < MinFontSize || fs > MaxFontSize {
		return fmt.Errorf("%w: fontSize %d", ErrCorruptState, fs)
	}
	for i, m := range st.Messages {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: message %d", ErrCorruptState, i)
		}
	}
	return nil
}

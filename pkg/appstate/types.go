package appstate

import (
	"errors"
	"time"
)

var (
	ErrInvalidTheme   = errors.New("appstate: invalid theme")
	ErrInvalidMessage = errors.New("appstate: invalid chat message")
)

// Theme is both the user preference (light, dark, system) and the host signal (light, dark).
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) IsValidPreference() bool {
	return t == ThemeLight || t == ThemeDark || t == ThemeSystem
}

func (t Theme) IsValidSystemTheme() bool {
	return t == ThemeLight || t == ThemeDark
}

type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeVoice  MessageType = "voice"
	MessageTypeSystem MessageType = "system"
)

func (t MessageType) IsValid() bool {
	return t == MessageTypeText || t == MessageTypeVoice || t == MessageTypeSystem
}

// ChatMessage is one entry of the chat transcript. Messages are never changed once appended.
type ChatMessage struct {
	ID            string      `json:"id"`
	Sender        string      `json:"sender"`
	Content       string      `json:"content"`
	Timestamp     time.Time   `json:"timestamp"`
	Type          MessageType `json:"type"`
	IsUserMessage bool        `json:"isUserMessage"`
}

func (m ChatMessage) Validate() error {
	if m.ID == "" || !m.Type.IsValid() {
		return ErrInvalidMessage
	}
	return nil
}

type Progress struct {
	CompletedScenarios []string `json:"completedScenarios"`
	CurrentLevel       int      `json:"currentLevel"`
	SafetyScore        float64  `json:"safetyScore"`
}

// HasCompleted reports whether scenarioID is already in the completed set.
func (p Progress) HasCompleted(scenarioID string) bool {
	for _, id := range p.CompletedScenarios {
		if id == scenarioID {
			return true
		}
	}
	return false
}

// UserProfile is the local mirror of the profile held by the identity/profile service.
type UserProfile struct {
	ID                    string                `json:"id"`
	Name                  string                `json:"name"`
	AccessibilitySettings AccessibilitySettings `json:"accessibilitySettings"`
	Progress              Progress              `json:"progress"`
}

func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	if u.Progress.CompletedScenarios != nil {
		c.Progress.CompletedScenarios = append([]string(nil), u.Progress.CompletedScenarios...)
	}
	return &c
}

// State is the root aggregate owned by a Store.
type State struct {
	User                  *UserProfile          `json:"user"`
	Messages              []ChatMessage         `json:"messages"`
	IsEmergencyMode       bool                  `json:"isEmergencyMode"`
	Theme                 Theme                 `json:"theme"`
	SystemTheme           Theme                 `json:"systemTheme"`
	AccessibilitySettings AccessibilitySettings `json:"accessibilitySettings"`
}

func DefaultState() State {
	return State{
		Messages:              []ChatMessage{},
		Theme:                 ThemeSystem,
		SystemTheme:           ThemeLight,
		AccessibilitySettings: DefaultAccessibilitySettings(),
	}
}

// ResolvedTheme is the light/dark mode to render after applying the system indirection.
func (s State) ResolvedTheme() Theme {
	if s.Theme == ThemeSystem {
		return s.SystemTheme
	}
	return s.Theme
}

// Clone returns a deep copy that shares nothing mutable with s.
func (s State) Clone() State {
	c := s
	c.User = s.User.Clone()
	c.Messages = make([]ChatMessage, len(s.Messages))
	copy(c.Messages, s.Messages)
	return c
}

package voice

import (
	"context"
	"errors"
	"strings"
	"time"
)

type Kind string

const (
	KindRecognition Kind = "recognition"
	KindRecording   Kind = "recording"
	KindSynthesis   Kind = "synthesis"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindRecognition, KindRecording, KindSynthesis:
		return true
	}
	return false
}

var (
	ErrInvalidKind     = errors.New("invalid voice session kind")
	ErrSessionNotFound = errors.New("voice session not found")
	ErrWrongKind       = errors.New("operation not supported for this session kind")
)

// Utterance describes what a synthesis session speaks.
type Utterance struct {
	Text   string  `json:"text"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

func NewUtterance(text string, volume float64) *Utterance {
	if volume < 0 || volume > 1 {
		volume = 1
	}
	return &Utterance{Text: text, Rate: 0.9, Pitch: 1, Volume: volume}
}

// Info is a read-only view of a session.
type Info struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Kind       Kind       `json:"kind"`
	StartedAt  time.Time  `json:"started_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	StoppedAt  *time.Time `json:"stopped_at,omitempty"`
	Transcript string     `json:"transcript,omitempty"`
	Interim    string     `json:"interim,omitempty"`
	Utterance  *Utterance `json:"utterance,omitempty"`
}

// Session is one held speech capability. Its context is cancelled when the
// session is stopped, replaced or expires. Fields are guarded by Manager.mu.
type Session struct {
	id        string
	userID    string
	kind      Kind
	startedAt time.Time
	expiresAt time.Time
	stoppedAt *time.Time
	finals    []string
	interim   string
	utterance *Utterance

	ctx    context.Context
	cancel context.CancelFunc
}

// Done is closed when the capability must be released.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

func (s *Session) ID() string { return s.id }

func (s *Session) transcript() string {
	return strings.Join(s.finals, " ")
}

func (s *Session) info() Info {
	in := Info{
		ID:         s.id,
		UserID:     s.userID,
		Kind:       s.kind,
		StartedAt:  s.startedAt,
		ExpiresAt:  s.expiresAt,
		Transcript: s.transcript(),
		Interim:    s.interim,
	}
	if s.stoppedAt != nil {
		t := *s.stoppedAt
		in.StoppedAt = &t
	}
	if s.utterance != nil {
		u := *s.utterance
		in.Utterance = &u
	}
	return in
}

// IsSendCommand reports whether a final recognition result is the spoken "send" command.
func IsSendCommand(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), "send")
}

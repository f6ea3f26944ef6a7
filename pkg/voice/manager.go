package voice

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ppods-be/internal/pkg/logger"

	"github.com/google/uuid"
)

const DefaultMaxSession = 5 * time.Minute

type sessionKey struct {
	userID string
	kind   Kind
}

// TranscriptResult is the outcome of feeding one recognition result into a session.
type TranscriptResult struct {
	Session Info `json:"session"`
	// Submitted holds the accumulated transcript when the result was the send command.
	Submitted string `json:"submitted,omitempty"`
	Sent      bool   `json:"sent"`
}

// Manager holds at most one active session per user and kind.
type Manager struct {
	mu          sync.Mutex
	active      map[sessionKey]*Session
	byID        map[string]*Session
	maxDuration time.Duration
	now         func() time.Time
	logger      logger.ILogger
}

func NewManager(maxDuration time.Duration, log logger.ILogger) *Manager {
	if maxDuration <= 0 {
		maxDuration = DefaultMaxSession
	}
	return &Manager{
		active:      make(map[sessionKey]*Session),
		byID:        make(map[string]*Session),
		maxDuration: maxDuration,
		now:         time.Now,
		logger:      log,
	}
}

// Start registers a new session, stopping the user's previous session of the same kind first.
// utterance is only kept for synthesis sessions.
func (m *Manager) Start(userID string, kind Kind, utterance *Utterance) (*Session, Info, error) {
	if !kind.IsValid() {
		return nil, Info{}, ErrInvalidKind
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := sessionKey{userID: userID, kind: kind}
	if prev, ok := m.active[key]; ok {
		m.stopLocked(prev, "replaced")
	}

	now := m.now()
	ctx, cancel := context.WithTimeout(context.Background(), m.maxDuration)
	s := &Session{
		id:        uuid.NewString(),
		userID:    userID,
		kind:      kind,
		startedAt: now,
		expiresAt: now.Add(m.maxDuration),
		ctx:       ctx,
		cancel:    cancel,
	}
	if kind == KindSynthesis && utterance != nil {
		u := *utterance
		s.utterance = &u
	}

	m.active[key] = s
	m.byID[s.id] = s

	context.AfterFunc(ctx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.stopLocked(s, "expired")
	})

	m.logger.Debug("VoiceManager", "Session started", map[string]interface{}{
		"user_id":    userID,
		"kind":       string(kind),
		"session_id": s.id,
	})

	return s, s.info(), nil
}

// Get returns the session only if it belongs to userID and is still active.
func (m *Manager) Get(userID, id string) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookupLocked(userID, id)
	if err != nil {
		return Info{}, err
	}
	return s.info(), nil
}

func (m *Manager) Stop(userID, id string) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookupLocked(userID, id)
	if err != nil {
		return Info{}, err
	}
	m.stopLocked(s, "stopped")
	return s.info(), nil
}

// StopKind stops the user's active session of kind, if any.
func (m *Manager) StopKind(userID string, kind Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.active[sessionKey{userID: userID, kind: kind}]
	if !ok {
		return false
	}
	m.stopLocked(s, "stopped")
	return true
}

// StopAll releases every capability the user holds and returns how many were stopped.
func (m *Manager) StopAll(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key, s := range m.active {
		if key.userID == userID {
			m.stopLocked(s, "released")
			n++
		}
	}
	return n
}

func (m *Manager) Active(userID string) []Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Info
	for key, s := range m.active {
		if key.userID == userID {
			out = append(out, s.info())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Transcript feeds a recognition result into the session. Interim results replace
// the pending interim text and final results accumulate. A final send command stops
// the session and returns the accumulated transcript for submission.
func (m *Manager) Transcript(userID, id, text string, final bool) (TranscriptResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookupLocked(userID, id)
	if err != nil {
		return TranscriptResult{}, err
	}
	if s.kind != KindRecognition {
		return TranscriptResult{}, ErrWrongKind
	}

	if !final {
		s.interim = strings.TrimSpace(text)
		return TranscriptResult{Session: s.info()}, nil
	}

	s.interim = ""
	if IsSendCommand(text) {
		submitted := s.transcript()
		m.stopLocked(s, "sent")
		return TranscriptResult{Session: s.info(), Submitted: submitted, Sent: true}, nil
	}

	if t := strings.TrimSpace(text); t != "" {
		s.finals = append(s.finals, t)
	}
	return TranscriptResult{Session: s.info()}, nil
}

func (m *Manager) lookupLocked(userID, id string) (*Session, error) {
	s, ok := m.byID[id]
	if !ok || s.userID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) stopLocked(s *Session, reason string) {
	if s.stoppedAt != nil {
		return
	}
	now := m.now()
	s.stoppedAt = &now

	key := sessionKey{userID: s.userID, kind: s.kind}
	if m.active[key] == s {
		delete(m.active, key)
	}
	delete(m.byID, s.id)
	s.cancel()

	m.logger.Debug("VoiceManager", "Session ended", map[string]interface{}{
		"user_id":    s.userID,
		"kind":       string(s.kind),
		"session_id": s.id,
		"reason":     reason,
	})
}

package appstate

import (
	"context"
	"sort"
	"sync"
)

// Persister receives committed snapshots. Save must not fail the caller. Calls are
// serialized per store and run outside the state lock; when commits race, an older
// snapshot is skipped once a newer one has been saved.
type Persister interface {
	Save(ctx context.Context, state State)
}

// Listener observes committed snapshots. It runs while the store is locked and
// must not call back into the Store.
type Listener func(State)

// Store is the single source of truth for one session's UI-bound state.
//
// Every operation mutates and notifies under one lock, so observers only ever see
// whole updates and in call order. The snapshot is then written through the
// persister under a separate lock, so slow storage never blocks readers.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[uint64]Listener
	nextID    uint64
	seq       uint64

	saveMu    sync.Mutex
	savedSeq  uint64
	persister Persister
}

// NewStore wraps an already loaded state. persister may be nil for a purely in-memory store.
func NewStore(initial State, persister Persister) *Store {
	if initial.Messages == nil {
		initial.Messages = []ChatMessage{}
	}
	return &Store{
		state:     initial.Clone(),
		persister: persister,
		listeners: make(map[uint64]Listener),
	}
}

// OpenStore loads the last persisted state through bridge and keeps persisting into it.
func OpenStore(ctx context.Context, bridge *Bridge) *Store {
	return NewStore(bridge.Load(ctx), bridge)
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// View calls fn with a snapshot while holding the lock, so nothing fn hands to an
// observer can be overtaken by a later commit's notification. fn must not call back
// into the Store.
func (s *Store) View(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state.Clone())
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) SetUser(ctx context.Context, user *UserProfile) {
	s.commit(ctx, func(st *State) {
		st.User = user.Clone()
	})
}

// AddMessage appends msg to the transcript. Earlier entries are never touched.
// The timestamp is stored in UTC without a monotonic reading so it survives a
// save/load round trip unchanged.
func (s *Store) AddMessage(ctx context.Context, msg ChatMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	msg.Timestamp = msg.Timestamp.UTC().Round(0)
	s.commit(ctx, func(st *State) {
		st.Messages = append(st.Messages, msg)
	})
	return nil
}

// AddMessageIfEmpty appends msg only while the transcript is empty and reports
// whether it did. The check and the append happen atomically.
func (s *Store) AddMessageIfEmpty(ctx context.Context, msg ChatMessage) (bool, error) {
	if err := msg.Validate(); err != nil {
		return false, err
	}
	msg.Timestamp = msg.Timestamp.UTC().Round(0)
	added := s.commitIf(ctx, func(st *State) bool {
		if len(st.Messages) > 0 {
			return false
		}
		st.Messages = append(st.Messages, msg)
		return true
	})
	return added, nil
}

// ToggleEmergencyMode flips the emergency flag and returns its new value.
func (s *Store) ToggleEmergencyMode(ctx context.Context) bool {
	var active bool
	s.commit(ctx, func(st *State) {
		st.IsEmergencyMode = !st.IsEmergencyMode
		active = st.IsEmergencyMode
	})
	return active
}

func (s *Store) SetTheme(ctx context.Context, theme Theme) error {
	if !theme.IsValidPreference() {
		return ErrInvalidTheme
	}
	s.commit(ctx, func(st *State) {
		st.Theme = theme
	})
	return nil
}

// SetSystemTheme records the host light/dark signal. Only the OS preference watcher calls it.
func (s *Store) SetSystemTheme(ctx context.Context, theme Theme) error {
	if !theme.IsValidSystemTheme() {
		return ErrInvalidTheme
	}
	s.commit(ctx, func(st *State) {
		st.SystemTheme = theme
	})
	return nil
}

func (s *Store) UpdateAccessibilitySettings(ctx context.Context, patch SettingsPatch) AccessibilitySettings {
	var merged AccessibilitySettings
	s.commit(ctx, func(st *State) {
		st.AccessibilitySettings = patch.Apply(st.AccessibilitySettings)
		merged = st.AccessibilitySettings
	})
	return merged
}

func (s *Store) commit(ctx context.Context, mutate func(*State)) {
	s.commitIf(ctx, func(st *State) bool {
		mutate(st)
		return true
	})
}

// commitIf applies mutate and, when it reports a change, notifies listeners under
// the state lock and then persists. mutate must leave the state untouched when it
// returns false.
func (s *Store) commitIf(ctx context.Context, mutate func(*State) bool) bool {
	s.mu.Lock()
	if !mutate(&s.state) {
		s.mu.Unlock()
		return false
	}
	snapshot := s.state.Clone()
	s.seq++
	seq := s.seq

	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s.listeners[id](snapshot.Clone())
	}
	s.mu.Unlock()

	s.persist(ctx, seq, snapshot)
	return true
}

func (s *Store) persist(ctx context.Context, seq uint64, snapshot State) {
	if s.persister == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if seq <= s.savedSeq {
		return
	}
	s.persister.Save(ctx, snapshot)
	s.savedSeq = seq
}

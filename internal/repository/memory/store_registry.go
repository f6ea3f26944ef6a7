package memory

import (
	"context"
	"sync"
	"time"
	"weak"

	"ppods-be/internal/pkg/logger"
	"ppods-be/pkg/appstate"

	"github.com/patrickmn/go-cache"
)

// ChangeListener observes every committed change of any user's store.
type ChangeListener func(userID string, state appstate.State)

// StoreRegistry keeps one live application store per signed-in user. Stores idle
// for longer than the TTL are dropped; their state is already persisted, so the
// next access reloads it through the bridge. A dropped store that a request still
// holds is revived instead, so a user never has two stores at once.
type StoreRegistry struct {
	mu        sync.Mutex
	cache     *cache.Cache
	held      map[string]weak.Pointer[appstate.Store]
	backend   appstate.Backend
	ttl       time.Duration
	logger    logger.ILogger
	listeners []ChangeListener
}

func NewStoreRegistry(backend appstate.Backend, idleTTL time.Duration, log logger.ILogger) *StoreRegistry {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	c := cache.New(idleTTL, idleTTL/2)
	c.OnEvicted(func(userID string, _ interface{}) {
		log.Debug("StoreRegistry", "Store evicted", map[string]interface{}{"user_id": userID})
	})
	return &StoreRegistry{
		cache:   c,
		held:    make(map[string]weak.Pointer[appstate.Store]),
		backend: backend,
		ttl:     idleTTL,
		logger:  log,
	}
}

// OnChange registers a listener attached to every store opened afterwards.
func (r *StoreRegistry) OnChange(l ChangeListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Get returns the user's store, loading it from the backend on first access.
func (r *StoreRegistry) Get(ctx context.Context, userID string) *appstate.Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(userID); found {
		st := x.(*appstate.Store)
		r.cache.Set(userID, st, cache.DefaultExpiration)
		return st
	}

	if st := r.held[userID].Value(); st != nil {
		r.cache.Set(userID, st, cache.DefaultExpiration)
		r.logger.Debug("StoreRegistry", "Store revived", map[string]interface{}{"user_id": userID})
		return st
	}
	r.sweepLocked()

	bridge := appstate.NewBridge(r.backend, appstate.StorageKey(userID), r.logger)
	st := appstate.OpenStore(ctx, bridge)
	for _, l := range r.listeners {
		l := l
		st.Subscribe(func(s appstate.State) { l(userID, s) })
	}
	r.cache.Set(userID, st, cache.DefaultExpiration)
	r.held[userID] = weak.Make(st)

	r.logger.Debug("StoreRegistry", "Store opened", map[string]interface{}{"user_id": userID, "key": bridge.Key()})
	return st
}

// Peek returns the user's store only if it is already live.
func (r *StoreRegistry) Peek(userID string) (*appstate.Store, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*appstate.Store), true
	}
	return nil, false
}

// sweepLocked forgets collected stores once dead entries may dominate the map.
func (r *StoreRegistry) sweepLocked() {
	if len(r.held) <= 2*r.cache.ItemCount()+64 {
		return
	}
	for id, p := range r.held {
		if p.Value() == nil {
			delete(r.held, id)
		}
	}
}

func (r *StoreRegistry) Evict(userID string) {
	r.cache.Delete(userID)
}

func (r *StoreRegistry) Len() int {
	return r.cache.ItemCount()
}

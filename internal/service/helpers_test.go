package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ppods-be/internal/pkg/logger"
	"ppods-be/internal/repository/memory"
	"ppods-be/internal/repository/unitofwork"
	"ppods-be/pkg/database"
	"ppods-be/pkg/events"
	"ppods-be/pkg/persistence"
	"ppods-be/pkg/voice"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func newRegistry() *memory.StoreRegistry {
	return memory.NewStoreRegistry(persistence.NewMemoryBackend(), time.Minute, logger.NewNopLogger())
}

func newVoiceManager() *voice.Manager {
	return voice.NewManager(time.Minute, logger.NewNopLogger())
}

func newUowFactory(t *testing.T) unitofwork.RepositoryFactory {
	t.Helper()
	db, err := database.NewGormDB(database.DriverSQLite, filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return unitofwork.NewRepositoryFactory(db)
}

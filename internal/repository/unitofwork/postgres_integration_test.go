package unitofwork

import (
	"context"
	"log"
	"os"
	"testing"

	"ppods-be/internal/entity"
	"ppods-be/internal/repository/specification"
	"ppods-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresProfileRoundTrip(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" || os.Getenv("DB_DRIVER") != database.DriverPostgres {
		t.Skip("Skipping integration test: postgres DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDB(database.DriverPostgres, dsn)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	ctx := context.Background()
	id := "it-" + uuid.NewString()

	uow := NewRepositoryFactory(db).NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	p := entity.NewProfile(id, "Integration")
	p.CompleteScenario("s1")
	require.NoError(t, uow.ProfileRepository().Create(ctx, p))

	locked, err := uow.ProfileRepository().FindOne(ctx, specification.ByID{ID: id}, specification.ForUpdate{})
	require.NoError(t, err)
	require.NotNil(t, locked)
	require.NoError(t, uow.Commit())

	repo := NewRepositoryFactory(db).NewUnitOfWork(ctx).ProfileRepository()
	got, err := repo.FindOne(ctx, specification.ByID{ID: id})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"s1"}, got.CompletedScenarios)

	require.NoError(t, repo.Delete(ctx, id))
	gone, err := repo.FindOne(ctx, specification.ByID{ID: id})
	require.NoError(t, err)
	assert.Nil(t, gone)
}

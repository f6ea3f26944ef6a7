package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"ppods-be/internal/pkg/logger"
	"ppods-be/internal/pkg/serverutils"
	"ppods-be/internal/repository/memory"
	"ppods-be/internal/repository/unitofwork"
	"ppods-be/internal/service"
	"ppods-be/pkg/chatbot"
	"ppods-be/pkg/database"
	"ppods-be/pkg/events"
	"ppods-be/pkg/persistence"
	"ppods-be/pkg/voice"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-secret"

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, events.Event) error { return nil }

type testEnv struct {
	app      *fiber.App
	registry *memory.StoreRegistry
	voice    *voice.Manager
}

func newTestEnv(t *testing.T, strict bool) *testEnv {
	t.Helper()
	log := logger.NewNopLogger()

	db, err := database.NewGormDB(database.DriverSQLite, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	reg := memory.NewStoreRegistry(persistence.NewMemoryBackend(), time.Minute, log)
	vm := voice.NewManager(time.Minute, log)
	pub := nopPublisher{}

	stateSvc := service.NewStateService(reg, pub, "https://www.plannedparenthood.org/", strict, log)
	chatSvc := service.NewChatService(reg, chatbot.CannedResponder{}, vm, 0, log)
	profileSvc := service.NewProfileService(unitofwork.NewRepositoryFactory(db), reg, pub, strict, log)
	voiceSvc := service.NewVoiceService(vm, chatSvc, log)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	auth := serverutils.NewJwtMiddleware(testSecret)

	NewStateController(stateSvc).RegisterRoutes(api, auth)
	NewChatController(chatSvc).RegisterRoutes(api, auth)
	NewProfileController(profileSvc).RegisterRoutes(api, auth)
	NewVoiceController(voiceSvc).RegisterRoutes(api, auth)

	return &testEnv{app: app, registry: reg, voice: vm}
}

func token(t *testing.T, userID, name string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"name":    name,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body any) (int, envelope) {
	t.Helper()

	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, userID, "Sam"))
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

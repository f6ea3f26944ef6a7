package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ppods-be/internal/config"
	"ppods-be/internal/controller"
	"ppods-be/internal/handler"
	"ppods-be/internal/pkg/logger"
	"ppods-be/internal/pkg/serverutils"
	"ppods-be/internal/repository/memory"
	"ppods-be/internal/repository/unitofwork"
	"ppods-be/internal/service"
	"ppods-be/internal/websocket"
	"ppods-be/pkg/appstate"
	"ppods-be/pkg/chatbot"
	"ppods-be/pkg/persistence"
	"ppods-be/pkg/voice"

	pktNats "ppods-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	StateController   controller.IStateController
	ChatController    controller.IChatController
	ProfileController controller.IProfileController
	VoiceController   controller.IVoiceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	StateStreamHandler *handler.StateStreamHandler
	WebSocketHub       *websocket.Hub

	AuthMiddleware fiber.Handler
	Logger         logger.ILogger

	closers []func() error
}

// NewContainer wires every component. Optional infrastructure (NATS, Redis) is
// skipped when its URL is empty and degraded to a warning when unreachable.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	uowFactory := unitofwork.NewRepositoryFactory(db)

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, pubSub.Close)

	// 3. Infrastructure
	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, rdb.Close)
	}

	backend, err := NewStateBackend(cfg.Store, db, rdb)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using state backend: %s", cfg.Store.Backend)

	// 4. Stores and push
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run(ctx)

	registry := memory.NewStoreRegistry(backend, cfg.Store.IdleTTL, sysLogger)
	registry.OnChange(wsHub.SendState)

	// 5. Services
	voiceManager := voice.NewManager(cfg.Voice.MaxSession, sysLogger)

	responder, err := chatbot.New(cfg.Chat.Responder, cfg.Chat.OllamaBaseURL, cfg.Chat.LLMModel, cfg.Chat.LLMTimeout)
	if err != nil {
		return nil, fmt.Errorf("chat responder: %w", err)
	}
	log.Printf("[INFO] Using chat responder: %s", cfg.Chat.Responder)

	publisherService := service.NewPublisherService(cfg.Emergency.Topic, pubSub, forwarder, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Emergency.Topic, voiceManager, sysLogger)

	stateService := service.NewStateService(registry, publisherService, cfg.Emergency.SafeExitURL, cfg.Store.StrictSettingsKeys, sysLogger)
	chatService := service.NewChatService(registry, responder, voiceManager, cfg.Chat.ReplyDelay, sysLogger)
	profileService := service.NewProfileService(uowFactory, registry, publisherService, cfg.Store.StrictSettingsKeys, sysLogger)
	voiceService := service.NewVoiceService(voiceManager, chatService, sysLogger)

	// 6. Controllers
	c.StateController = controller.NewStateController(stateService)
	c.ChatController = controller.NewChatController(chatService)
	c.ProfileController = controller.NewProfileController(profileService)
	c.VoiceController = controller.NewVoiceController(voiceService)
	c.StateStreamHandler = handler.NewStateStreamHandler(registry, wsHub, wsLogger)
	c.WebSocketHub = wsHub
	c.ConsumerService = consumerService
	c.AuthMiddleware = serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret)

	return c, nil
}

// NewStateBackend picks the blob backend named by STORE_BACKEND.
func NewStateBackend(cfg config.StoreConfig, db *gorm.DB, rdb *redis.Client) (appstate.Backend, error) {
	switch cfg.Backend {
	case "file":
		return persistence.NewFileBackend(cfg.Dir), nil
	case "redis":
		if rdb == nil {
			return nil, errors.New("STORE_BACKEND=redis requires REDIS_URL")
		}
		return persistence.NewRedisBackend(rdb, cfg.RedisTTL), nil
	case "postgres", "database":
		return persistence.NewGormBackend(db), nil
	case "memory":
		return persistence.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.Backend)
	}
}

// Shutdown releases the optional infrastructure in reverse order.
func (c *Container) Shutdown() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	_ = c.Logger.Sync()
	return errors.Join(errs...)
}

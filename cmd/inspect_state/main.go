package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"ppods-be/internal/bootstrap"
	"ppods-be/internal/config"
	"ppods-be/internal/pkg/logger"
	"ppods-be/internal/repository/specification"
	"ppods-be/internal/repository/unitofwork"
	"ppods-be/pkg/appstate"
	"ppods-be/pkg/database"
	"ppods-be/pkg/events"
	pktNats "ppods-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func main() {
	userID := flag.String("user", "", "user id whose persisted state is dumped")
	listProfiles := flag.Bool("profiles", false, "list stored profiles")
	limit := flag.Int("limit", 20, "max profiles to list")
	tailEvents := flag.Bool("events", false, "tail the NATS event stream until interrupted")
	eventType := flag.String("type", "", "event type filter for -events")
	flag.Parse()

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	if *userID != "" {
		dumpState(ctx, cfg, db, *userID)
	}

	if *listProfiles {
		uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
		profiles, err := uow.ProfileRepository().FindAll(ctx,
			specification.OrderBy{Field: "updated_at", Desc: true},
			specification.Pagination{Limit: *limit},
		)
		if err != nil {
			color.Red("Failed to list profiles: %v", err)
			os.Exit(1)
		}
		color.Yellow("\n[PROFILES] %d found", len(profiles))
		for _, p := range profiles {
			fmt.Printf("%s  %-20s level=%d completed=%d score=%.1f\n",
				p.Id, p.Name, p.CurrentLevel, len(p.CompletedScenarios), p.SafetyScore)
		}
	}

	if *tailEvents {
		if cfg.App.NatsURL == "" {
			color.Red("NATS_URL is not set")
			os.Exit(1)
		}
		sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		defer sub.Close()

		color.Cyan("\nTailing events (Ctrl+C to stop)")
		err = sub.Tail(ctx, *eventType, func(_ context.Context, evt events.BaseEvent) error {
			color.Green("%s  %s", evt.OccurredAt.Format("15:04:05"), evt.Type)
			prettyPrint(evt.Data)
			return nil
		})
		if err != nil {
			color.Red("Tail stopped: %v", err)
			os.Exit(1)
		}
	}

	if *userID == "" && !*listProfiles && !*tailEvents {
		flag.Usage()
	}
}

func dumpState(ctx context.Context, cfg *config.Config, db *gorm.DB, userID string) {
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
	}

	backend, err := bootstrap.NewStateBackend(cfg.Store, db, rdb)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	key := appstate.StorageKey(userID)
	color.Cyan("INSPECTING STATE: %s (backend %s)", key, cfg.Store.Backend)

	raw, err := backend.Read(ctx, key)
	if err != nil {
		color.Red("No persisted blob: %v", err)
		return
	}
	fmt.Printf("Raw blob length: %d bytes\n", len(raw))

	if _, err := appstate.DecodeState(raw); err != nil {
		color.Red("Blob does not decode (%v); the app would start from defaults", err)
	}

	st := appstate.NewBridge(backend, key, logger.NewNopLogger()).Load(ctx)
	color.Yellow("\n[STATE] resolved theme: %s", st.ResolvedTheme())
	prettyPrint(st)
}

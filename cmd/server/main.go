package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/aladhan"
	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/db"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/minaret/internal/logging"
	"github.com/Nixie-Tech-LLC/minaret/internal/redis"
	"github.com/Nixie-Tech-LLC/minaret/internal/settings"
	"github.com/Nixie-Tech-LLC/minaret/internal/timetable"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// optional Postgres for settings and admins
	var store db.Store
	if cfg.AdminEnabled() {
		conn, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("db connect")
		}
		defer conn.Close()

		if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("db migrate")
		}
		store = db.NewStore(conn)
		bootstrapAdmin(ctx, store, cfg)
	} else {
		log.Warn().Msg("DATABASE_URL not set, using default iqamah settings and disabling admin API")
	}

	// optional Redis in front of the provider
	var rdb *goredis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(cfg.Redis.Address, cfg.Redis.Username, cfg.Redis.Password)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Address).Msg("redis unreachable, continuing; cache misses will go upstream")
		}
	}

	gateway := redis.NewCache(
		aladhan.NewClient(cfg.Prayer.AladhanBaseURL, cfg.Prayer.AladhanTimeout),
		rdb,
		cfg.Prayer.DayCacheTTL,
		cfg.Prayer.MonthCacheTTL,
	)

	var settingsStore settings.Store
	if store != nil {
		settingsStore = store
	}
	provider := settings.NewProvider(settingsStore, cfg.Prayer.SettingsTTL)
	aggregator := timetable.New(gateway, provider)

	var notifier *middleware.Notifier
	if cfg.MQTT.BrokerURL != "" {
		notifier, err = middleware.NewNotifier(cfg.MQTT.BrokerURL, "minaret-"+hostname(), cfg.MQTT.Topic)
		if err != nil {
			log.Warn().Err(err).Msg("MQTT unavailable, settings changes will not be broadcast")
		}
		defer notifier.Close()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	RegisterRoutes(r, Services{
		Config:    cfg,
		Store:     store,
		Settings:  provider,
		Timetable: aggregator,
		Notifier:  notifier,
		Storage:   InitStorage(cfg.Storage),
		Redis:     rdb,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// bootstrapAdmin creates or resets the admin named by ADMIN_EMAIL.
func bootstrapAdmin(ctx context.Context, store db.Store, cfg *config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	hash, err := middleware.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("hash admin password")
	}
	id, err := store.UpsertAdmin(ctx, cfg.AdminEmail, hash, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin")
	}
	log.Info().Int("admin_id", id).Str("email", cfg.AdminEmail).Msg("admin account ready")
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "server"
	}
	return h
}

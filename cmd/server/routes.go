package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/db"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/minaret/internal/http/api/admin/auth/endpoints"
	controlapi "github.com/Nixie-Tech-LLC/minaret/internal/http/api/admin/control/endpoints"
	prayerapi "github.com/Nixie-Tech-LLC/minaret/internal/http/api/prayer/endpoints"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/minaret/internal/settings"
	"github.com/Nixie-Tech-LLC/minaret/internal/storage"
	"github.com/Nixie-Tech-LLC/minaret/internal/timetable"
)

// Services are the wired dependencies the routes need. Store, Notifier and
// Redis may be nil.
type Services struct {
	Config    *config.Config
	Store     db.Store
	Settings  *settings.Provider
	Timetable *timetable.Aggregator
	Notifier  *middleware.Notifier
	Storage   storage.Storage
	Redis     *goredis.Client
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, s Services) {
	// CORS; the timetable is embedded on third-party pages
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			middleware.RequestIDHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			middleware.RequestIDHeader,
		},
		AllowCredentials: false,
	}))

	r.GET("/healthz", healthz(s))

	site := prayerapi.Defaults{
		Location: s.Config.Prayer.Home,
		Method:   s.Config.Prayer.Method,
		School:   -1,
	}

	api.MountGroup(r, api.GroupConfig{Prefix: "/api"},
		prayerapi.PrayerTimesModule(s.Timetable, site),
	)

	if s.Store == nil {
		return
	}

	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"},
		authapi.AuthPublicModule(s.Config.JWTSecret, s.Store),
	)

	var publisher controlapi.Publisher
	if s.Notifier != nil {
		publisher = s.Notifier
	}

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: s.Config.JWTSecret,
		Admins:    s.Store,
	},
		authapi.AuthSessionModule(s.Config.JWTSecret, s.Store),
		controlapi.SettingsModule(controlapi.NewSettingsController(s.Store, s.Settings, publisher, s.Timetable, site)),
		controlapi.TimetableModule(controlapi.NewExportController(s.Timetable, s.Storage, site)),
	)

	if !s.Config.Storage.UseSpaces {
		r.Static(exportsRoute, s.Config.Storage.ExportDir)
	}
}

func healthz(s Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "disabled", "redis": "disabled"}
		status := http.StatusOK

		if s.Store != nil {
			if err := s.Store.Ping(ctx); err != nil {
				checks["database"] = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				checks["database"] = "ok"
			}
		}
		// redis is an optimisation, so failures degrade but never fail the check
		if s.Redis != nil {
			if err := s.Redis.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
			} else {
				checks["redis"] = "ok"
			}
		}

		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
	}
}

package endpoints

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/admin/control/packets"
	prayer "github.com/Nixie-Tech-LLC/minaret/internal/http/api/prayer/endpoints"
	prayerpackets "github.com/Nixie-Tech-LLC/minaret/internal/http/api/prayer/packets"
	"github.com/Nixie-Tech-LLC/minaret/internal/iqamah"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/timetable"
)

const notifyTimeout = 15 * time.Second

// SettingsStore persists the two singleton configuration records.
type SettingsStore interface {
	GetIqamahSettings(ctx context.Context) (*model.IqamahConfiguration, error)
	SaveIqamahSettings(ctx context.Context, cfg model.IqamahConfiguration) (*model.IqamahConfiguration, error)
	GetTarawihSettings(ctx context.Context) (*model.TarawihConfiguration, error)
	SaveTarawihSettings(ctx context.Context, cfg model.TarawihConfiguration) (*model.TarawihConfiguration, error)
}

// Invalidator drops cached configuration.
type Invalidator interface {
	Invalidate()
}

// Publisher broadcasts a payload to connected screens.
type Publisher interface {
	Publish(payload []byte) error
}

type SettingsController struct {
	store     SettingsStore
	cache     Invalidator
	notifier  Publisher
	timetable prayer.Computer
	site      prayer.Defaults
	now       func() time.Time

	// notified, when set, runs after each broadcast attempt.
	notified func()
}

func NewSettingsController(store SettingsStore, cache Invalidator, notifier Publisher, tt prayer.Computer, site prayer.Defaults) *SettingsController {
	return &SettingsController{
		store:     store,
		cache:     cache,
		notifier:  notifier,
		timetable: tt,
		site:      site,
		now:       time.Now,
	}
}

// SettingsModule mounts the authenticated /settings endpoints.
func SettingsModule(ctl *SettingsController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/settings/iqamah", ctl.getIqamah)
		c.PUT("/settings/iqamah", ctl.updateIqamah)
		c.GET("/settings/tarawih", ctl.getTarawih)
		c.PUT("/settings/tarawih", ctl.updateTarawih)
	})
}

func (s *SettingsController) currentIqamah(ctx context.Context) (model.IqamahConfiguration, error) {
	stored, err := s.store.GetIqamahSettings(ctx)
	if err != nil {
		return model.IqamahConfiguration{}, err
	}
	if stored == nil {
		return iqamah.DefaultIqamah(), nil
	}
	return *stored, nil
}

func (s *SettingsController) currentTarawih(ctx context.Context) (model.TarawihConfiguration, error) {
	stored, err := s.store.GetTarawihSettings(ctx)
	if err != nil {
		return model.TarawihConfiguration{}, err
	}
	if stored == nil {
		return iqamah.DefaultTarawih(), nil
	}
	return *stored, nil
}

// GET /api/admin/settings/iqamah
func (s *SettingsController) getIqamah(ctx *gin.Context, _ *model.Admin) (any, *api.APIError) {
	cfg, err := s.currentIqamah(ctx.Request.Context())
	if err != nil {
		return nil, api.Internal("could not load iqamah settings", err)
	}
	return packets.IqamahSettingsResponse{Settings: cfg}, nil
}

// PUT /api/admin/settings/iqamah
func (s *SettingsController) updateIqamah(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	var request packets.UpdateIqamahRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest("invalid iqamah settings", gin.H{"message": err.Error()})
	}

	cfg, err := s.currentIqamah(ctx.Request.Context())
	if err != nil {
		return nil, api.Internal("could not load iqamah settings", err)
	}
	apply(&cfg.Fajr, request.Fajr)
	apply(&cfg.Dhuhr, request.Dhuhr)
	apply(&cfg.Asr, request.Asr)
	apply(&cfg.Maghrib, request.Maghrib)
	apply(&cfg.Isha, request.Isha)

	if err := iqamah.Validate(cfg); err != nil {
		return nil, api.BadRequest(err.Error(), gin.H{})
	}

	cfg.UpdatedAt = s.now().UTC()
	saved, err := s.store.SaveIqamahSettings(ctx.Request.Context(), cfg)
	if err != nil {
		return nil, api.Internal("could not save iqamah settings", err)
	}

	log.Info().Int("admin_id", admin.ID).Interface("iqamah", saved).Msg("iqamah settings updated")
	s.changed()
	return packets.IqamahSettingsResponse{Settings: *saved}, nil
}

// GET /api/admin/settings/tarawih
func (s *SettingsController) getTarawih(ctx *gin.Context, _ *model.Admin) (any, *api.APIError) {
	cfg, err := s.currentTarawih(ctx.Request.Context())
	if err != nil {
		return nil, api.Internal("could not load tarawih settings", err)
	}
	return packets.TarawihSettingsResponse{Settings: cfg}, nil
}

// PUT /api/admin/settings/tarawih
func (s *SettingsController) updateTarawih(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	var request packets.UpdateTarawihRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest("invalid tarawih settings", gin.H{"message": err.Error()})
	}

	cfg, err := s.currentTarawih(ctx.Request.Context())
	if err != nil {
		return nil, api.Internal("could not load tarawih settings", err)
	}
	if request.Enabled != nil {
		cfg.Enabled = *request.Enabled
	}
	apply(&cfg.Time, request.Time)

	if err := iqamah.ValidateRule(cfg.Time); err != nil {
		return nil, api.BadRequest("tarawih: "+err.Error(), gin.H{})
	}

	cfg.UpdatedAt = s.now().UTC()
	saved, err := s.store.SaveTarawihSettings(ctx.Request.Context(), cfg)
	if err != nil {
		return nil, api.Internal("could not save tarawih settings", err)
	}

	log.Info().Int("admin_id", admin.ID).Bool("enabled", saved.Enabled).Str("time", saved.Time).Msg("tarawih settings updated")
	s.changed()
	return packets.TarawihSettingsResponse{Settings: *saved}, nil
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// changed drops the settings cache and pushes today's timetable to screens
// in the background.
func (s *SettingsController) changed() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
	if s.notifier == nil || s.timetable == nil {
		return
	}

	today := s.now()
	go func() {
		if s.notified != nil {
			defer s.notified()
		}
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		res, err := s.timetable.Compute(ctx, timetable.Request{
			Location: s.site.Location,
			Method:   s.site.Method,
			School:   s.site.School,
			Range:    timetable.RangeDay,
			Date:     time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			log.Warn().Err(err).Msg("skipping timetable broadcast")
			return
		}

		payload, err := json.Marshal(prayerpackets.FromResult(res))
		if err != nil {
			log.Error().Err(err).Msg("failed to encode timetable broadcast")
			return
		}
		if err := s.notifier.Publish(payload); err != nil {
			log.Warn().Err(err).Msg("failed to broadcast timetable")
		}
	}()
}

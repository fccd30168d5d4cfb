// Package settings serves the iqamah and tarawih configuration to the
// timetable. Reads are cached for a short TTL and always succeed: a missing
// or unreadable record yields the built-in defaults.
package settings

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/iqamah"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

const DefaultTTL = time.Minute

// Store is the persisted source of both singleton records. A nil record
// with a nil error means nothing is stored.
type Store interface {
	GetIqamahSettings(ctx context.Context) (*model.IqamahConfiguration, error)
	GetTarawihSettings(ctx context.Context) (*model.TarawihConfiguration, error)
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Provider hands out configuration snapshots. It is safe for concurrent use.
type Provider struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	iqamah  *entry[model.IqamahConfiguration]
	tarawih *entry[model.TarawihConfiguration]
}

// NewProvider builds a Provider. A nil store always yields defaults.
func NewProvider(store Store, ttl time.Duration) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{store: store, ttl: ttl, now: time.Now}
}

// Iqamah returns the current iqamah configuration.
func (p *Provider) Iqamah(ctx context.Context) model.IqamahConfiguration {
	p.mu.Lock()
	if p.iqamah != nil && p.now().Before(p.iqamah.expiresAt) {
		v := p.iqamah.value
		p.mu.Unlock()
		return v
	}
	p.mu.Unlock()

	cfg := iqamah.DefaultIqamah()
	if p.store != nil {
		stored, err := p.store.GetIqamahSettings(ctx)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("failed to read iqamah settings, using defaults")
			return cfg
		case stored != nil:
			cfg = withIqamahDefaults(*stored)
		}
	}

	p.mu.Lock()
	p.iqamah = &entry[model.IqamahConfiguration]{value: cfg, expiresAt: p.now().Add(p.ttl)}
	p.mu.Unlock()
	return cfg
}

// Tarawih returns the current tarawih configuration.
func (p *Provider) Tarawih(ctx context.Context) model.TarawihConfiguration {
	p.mu.Lock()
	if p.tarawih != nil && p.now().Before(p.tarawih.expiresAt) {
		v := p.tarawih.value
		p.mu.Unlock()
		return v
	}
	p.mu.Unlock()

	cfg := iqamah.DefaultTarawih()
	if p.store != nil {
		stored, err := p.store.GetTarawihSettings(ctx)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("failed to read tarawih settings, using defaults")
			return cfg
		case stored != nil:
			cfg = *stored
			if cfg.Time == "" {
				cfg.Time = iqamah.DefaultTarawih().Time
			}
		}
	}

	p.mu.Lock()
	p.tarawih = &entry[model.TarawihConfiguration]{value: cfg, expiresAt: p.now().Add(p.ttl)}
	p.mu.Unlock()
	return cfg
}

// Invalidate drops cached values so the next read goes to the store.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.iqamah = nil
	p.tarawih = nil
	p.mu.Unlock()
}

func withIqamahDefaults(cfg model.IqamahConfiguration) model.IqamahConfiguration {
	def := iqamah.DefaultIqamah()
	if cfg.Fajr == "" {
		cfg.Fajr = def.Fajr
	}
	if cfg.Dhuhr == "" {
		cfg.Dhuhr = def.Dhuhr
	}
	if cfg.Asr == "" {
		cfg.Asr = def.Asr
	}
	if cfg.Maghrib == "" {
		cfg.Maghrib = def.Maghrib
	}
	if cfg.Isha == "" {
		cfg.Isha = def.Isha
	}
	return cfg
}

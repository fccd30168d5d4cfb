package db

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/iqamah"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// GetIqamahSettings returns the singleton row, creating it with defaults on
// first read.
func (s *pgStore) GetIqamahSettings(ctx context.Context) (*model.IqamahConfiguration, error) {
	def := iqamah.DefaultIqamah()
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO iqamah_settings (id, fajr, dhuhr, asr, maghrib, isha, updated_at)
	VALUES (1, $1, $2, $3, $4, $5, now())
	ON CONFLICT (id) DO NOTHING;`,
		def.Fajr, def.Dhuhr, def.Asr, def.Maghrib, def.Isha)
	if err != nil {
		log.Error().Err(err).Msg("seeding iqamah_settings failed")
		return nil, err
	}

	var cfg model.IqamahConfiguration
	const q = `
	SELECT fajr, dhuhr, asr, maghrib, isha, updated_at
	  FROM iqamah_settings
	 WHERE id = 1;`
	if err := s.db.GetContext(ctx, &cfg, q); err != nil {
		log.Error().Err(err).Msg("GetIqamahSettings failed")
		return nil, err
	}
	return &cfg, nil
}

func (s *pgStore) SaveIqamahSettings(ctx context.Context, cfg model.IqamahConfiguration) (*model.IqamahConfiguration, error) {
	var out model.IqamahConfiguration
	const q = `
	INSERT INTO iqamah_settings (id, fajr, dhuhr, asr, maghrib, isha, updated_at)
	VALUES (1, $1, $2, $3, $4, $5, now())
	ON CONFLICT (id) DO UPDATE
	   SET fajr = EXCLUDED.fajr,
	       dhuhr = EXCLUDED.dhuhr,
	       asr = EXCLUDED.asr,
	       maghrib = EXCLUDED.maghrib,
	       isha = EXCLUDED.isha,
	       updated_at = EXCLUDED.updated_at
	RETURNING fajr, dhuhr, asr, maghrib, isha, updated_at;`
	if err := s.db.GetContext(ctx, &out, q, cfg.Fajr, cfg.Dhuhr, cfg.Asr, cfg.Maghrib, cfg.Isha); err != nil {
		log.Error().Err(err).Msg("SaveIqamahSettings failed")
		return nil, err
	}
	return &out, nil
}

// GetTarawihSettings returns the singleton row, creating it with defaults on
// first read.
func (s *pgStore) GetTarawihSettings(ctx context.Context) (*model.TarawihConfiguration, error) {
	def := iqamah.DefaultTarawih()
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO tarawih_settings (id, enabled, time, updated_at)
	VALUES (1, $1, $2, now())
	ON CONFLICT (id) DO NOTHING;`, def.Enabled, def.Time)
	if err != nil {
		log.Error().Err(err).Msg("seeding tarawih_settings failed")
		return nil, err
	}

	var cfg model.TarawihConfiguration
	if err := s.db.GetContext(ctx, &cfg, `SELECT enabled, time, updated_at FROM tarawih_settings WHERE id = 1;`); err != nil {
		log.Error().Err(err).Msg("GetTarawihSettings failed")
		return nil, err
	}
	return &cfg, nil
}

func (s *pgStore) SaveTarawihSettings(ctx context.Context, cfg model.TarawihConfiguration) (*model.TarawihConfiguration, error) {
	var out model.TarawihConfiguration
	const q = `
	INSERT INTO tarawih_settings (id, enabled, time, updated_at)
	VALUES (1, $1, $2, now())
	ON CONFLICT (id) DO UPDATE
	   SET enabled = EXCLUDED.enabled,
	       time = EXCLUDED.time,
	       updated_at = EXCLUDED.updated_at
	RETURNING enabled, time, updated_at;`
	if err := s.db.GetContext(ctx, &out, q, cfg.Enabled, cfg.Time); err != nil {
		log.Error().Err(err).Msg("SaveTarawihSettings failed")
		return nil, err
	}
	return &out, nil
}

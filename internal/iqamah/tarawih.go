package iqamah

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// Ramadan is the ninth month of the Hijri calendar.
const Ramadan = 9

// DefaultTarawih is used when no configuration has been stored.
func DefaultTarawih() model.TarawihConfiguration {
	return model.TarawihConfiguration{
		Enabled: false,
		Time:    "+15",
	}
}

// ShouldShowTarawih is true when the toggle is on or the day falls in
// Ramadan. The toggle can force the entry on but never off.
func ShouldShowTarawih(cfg model.TarawihConfiguration, hijriMonth int) bool {
	return cfg.Enabled || hijriMonth == Ramadan
}

// ResolveTarawih resolves the tarawih rule against that day's Isha.
func ResolveTarawih(cfg model.TarawihConfiguration, isha string) string {
	res := ResolveRule(cfg.Time, isha)
	if !res.Resolved {
		log.Warn().Str("rule", cfg.Time).Str("isha", isha).Msg("tarawih rule unresolved, using configured value")
	}
	return res.Value
}

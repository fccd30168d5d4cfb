// Package iqamah turns congregation rules into concrete clock times for a
// given day's adhan times.
package iqamah

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/clock"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

// MaxOffset bounds relative rules accepted by Validate.
const MaxOffset = 180

// DefaultIqamah is used when no configuration has been stored.
func DefaultIqamah() model.IqamahConfiguration {
	return model.IqamahConfiguration{
		Fajr:    "6:45 AM",
		Dhuhr:   "1:15 PM",
		Asr:     "4:15 PM",
		Maghrib: "+5",
		Isha:    "7:45 PM",
	}
}

// IsRelative reports whether a rule is of the "+N" form.
func IsRelative(rule string) bool {
	return strings.HasPrefix(strings.TrimSpace(rule), "+")
}

// ResolveRule applies one rule against an adhan time. Absolute rules pass
// through verbatim; relative rules are added to the adhan time. A relative
// rule that cannot be applied comes back Unresolved holding the rule.
func ResolveRule(rule, adhan string) clock.Result {
	r := strings.TrimSpace(rule)
	if !strings.HasPrefix(r, "+") {
		return clock.Resolved(rule)
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(r[1:]))
	if err != nil {
		return clock.Unresolved(rule)
	}

	shifted := clock.Shift(adhan, minutes)
	if !shifted.Resolved {
		return clock.Unresolved(rule)
	}
	return shifted
}

// Resolve produces the five iqamah times for a day. Each prayer is resolved
// on its own; the configuration is not modified.
func Resolve(cfg model.IqamahConfiguration, adhan model.AdhanTimes) model.IqamahTimes {
	at := func(prayer string) string {
		rule := cfg.Rule(prayer)
		res := ResolveRule(rule, adhan.Of(prayer))
		if !res.Resolved {
			log.Warn().
				Str("prayer", prayer).
				Str("rule", rule).
				Str("adhan", adhan.Of(prayer)).
				Msg("iqamah rule unresolved, using configured value")
		}
		return res.Value
	}

	return model.IqamahTimes{
		Fajr:    at(model.Fajr),
		Dhuhr:   at(model.Dhuhr),
		Asr:     at(model.Asr),
		Maghrib: at(model.Maghrib),
		Isha:    at(model.Isha),
	}
}

// ValidateRule checks a rule as submitted by an administrator.
func ValidateRule(rule string) error {
	r := strings.TrimSpace(rule)
	if r == "" {
		return fmt.Errorf("rule is empty")
	}
	if strings.HasPrefix(r, "+") {
		n, err := strconv.Atoi(strings.TrimSpace(r[1:]))
		if err != nil {
			return fmt.Errorf("relative rule %q must be +N minutes", rule)
		}
		if n < 0 || n > MaxOffset {
			return fmt.Errorf("relative rule %q must be between +0 and +%d", rule, MaxOffset)
		}
		return nil
	}
	if _, ok := clock.Parse(r); !ok {
		return fmt.Errorf("absolute rule %q must look like 6:45 AM or 18:45", rule)
	}
	return nil
}

// Validate checks every rule of a configuration.
func Validate(cfg model.IqamahConfiguration) error {
	for _, prayer := range model.CongregationalPrayers {
		if err := ValidateRule(cfg.Rule(prayer)); err != nil {
			return fmt.Errorf("%s: %w", prayer, err)
		}
	}
	return nil
}

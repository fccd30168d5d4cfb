package aladhan

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

const (
	// DateLayout is the canonical date format used across the service.
	DateLayout = "2006-01-02"
	// providerDateLayout is what Aladhan puts in URLs and gregorian.date.
	providerDateLayout = "02-01-2006"
)

// StripZone removes a trailing zone label such as " (BST)" and returns the
// bare "HH:MM" value.
func StripZone(raw string) string {
	s := strings.TrimSpace(raw)
	if idx := strings.IndexAny(s, " ("); idx != -1 {
		s = s[:idx]
	}
	return s
}

// ProviderDate formats a date the way Aladhan expects it in a path.
func ProviderDate(date time.Time) string {
	return date.Format(providerDateLayout)
}

// CanonicalDate converts Aladhan's "DD-MM-YYYY" into "YYYY-MM-DD".
func CanonicalDate(providerDate string) (string, error) {
	t, err := time.Parse(providerDateLayout, strings.TrimSpace(providerDate))
	if err != nil {
		return "", fmt.Errorf("invalid provider date %q: %w", providerDate, err)
	}
	return t.Format(DateLayout), nil
}

func normalizeTimings(t Timings) model.AdhanTimes {
	return model.AdhanTimes{
		Fajr:    StripZone(t.Fajr),
		Sunrise: StripZone(t.Sunrise),
		Dhuhr:   StripZone(t.Dhuhr),
		Asr:     StripZone(t.Asr),
		Maghrib: StripZone(t.Maghrib),
		Isha:    StripZone(t.Isha),
	}
}

// Normalize turns one provider record into an AstronomicalDay. fallbackDate
// is used when the record carries no gregorian date.
func Normalize(d Data, fallbackDate string) (model.AstronomicalDay, error) {
	date := fallbackDate
	if d.Date.Gregorian.Date != "" {
		var err error
		if date, err = CanonicalDate(d.Date.Gregorian.Date); err != nil {
			return model.AstronomicalDay{}, err
		}
	}
	if date == "" {
		return model.AstronomicalDay{}, fmt.Errorf("record has no gregorian date")
	}

	timings := normalizeTimings(d.Timings)
	for _, prayer := range model.CongregationalPrayers {
		if timings.Of(prayer) == "" {
			return model.AstronomicalDay{}, fmt.Errorf("record for %s is missing %s", date, prayer)
		}
	}

	return model.AstronomicalDay{
		Date:       date,
		Timings:    timings,
		HijriMonth: d.Date.Hijri.Month.Number,
		Hijri:      d.Date.Hijri.Format(),
	}, nil
}

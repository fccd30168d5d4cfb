package model

import (
	"fmt"
	"math"
)

// Prayer names in daily order. Sunrise is not a prayer and has no iqamah.
const (
	Fajr    = "fajr"
	Sunrise = "sunrise"
	Dhuhr   = "dhuhr"
	Asr     = "asr"
	Maghrib = "maghrib"
	Isha    = "isha"
)

// CongregationalPrayers are the five prayers that carry an iqamah.
var CongregationalPrayers = []string{Fajr, Dhuhr, Asr, Maghrib, Isha}

// Location is a point in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MaxMethod is the highest calculation method id the provider defines.
const MaxMethod = 23

func (l Location) Validate() error {
	if !finite(l.Latitude) || !finite(l.Longitude) {
		return fmt.Errorf("location (%v, %v) is not a finite coordinate", l.Latitude, l.Longitude)
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", l.Latitude)
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", l.Longitude)
	}
	return nil
}

// AdhanTimes holds one day's astronomical prayer times as bare "HH:MM"
// 24-hour strings.
type AdhanTimes struct {
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise,omitempty"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

// Of returns the adhan time for a prayer name, or "" for unknown names.
func (a AdhanTimes) Of(prayer string) string {
	switch prayer {
	case Fajr:
		return a.Fajr
	case Sunrise:
		return a.Sunrise
	case Dhuhr:
		return a.Dhuhr
	case Asr:
		return a.Asr
	case Maghrib:
		return a.Maghrib
	case Isha:
		return a.Isha
	}
	return ""
}

// AstronomicalDay is one normalised upstream record.
type AstronomicalDay struct {
	Date       string     `json:"date"` // YYYY-MM-DD
	Timings    AdhanTimes `json:"timings"`
	HijriMonth int        `json:"hijri_month"`
	Hijri      string     `json:"hijri,omitempty"`
}

// IqamahTimes are the resolved congregation times for one day.
type IqamahTimes struct {
	Fajr    string `json:"fajr"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

// DayResult is the assembled record for one date at one location.
type DayResult struct {
	Date  string `json:"date"`
	Hijri string `json:"hijri,omitempty"`
	AdhanTimes
	Qibla   *int        `json:"qibla,omitempty"`
	Iqama   IqamahTimes `json:"iqama"`
	Tarawih string      `json:"tarawih,omitempty"`
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

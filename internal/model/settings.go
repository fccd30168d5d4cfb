package model

import "time"

// IqamahConfiguration is the singleton congregation-times record. Each rule
// is either an absolute clock time ("6:45 AM") or "+N" minutes after adhan.
type IqamahConfiguration struct {
	Fajr      string    `db:"fajr" json:"fajr"`
	Dhuhr     string    `db:"dhuhr" json:"dhuhr"`
	Asr       string    `db:"asr" json:"asr"`
	Maghrib   string    `db:"maghrib" json:"maghrib"`
	Isha      string    `db:"isha" json:"isha"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Rule returns the configured rule for a prayer name.
func (c IqamahConfiguration) Rule(prayer string) string {
	switch prayer {
	case Fajr:
		return c.Fajr
	case Dhuhr:
		return c.Dhuhr
	case Asr:
		return c.Asr
	case Maghrib:
		return c.Maghrib
	case Isha:
		return c.Isha
	}
	return ""
}

// TarawihConfiguration controls the extra post-Isha congregation entry.
type TarawihConfiguration struct {
	Enabled   bool      `db:"enabled" json:"enabled"`
	Time      string    `db:"time" json:"time"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

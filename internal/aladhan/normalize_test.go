package aladhan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStripZone(t *testing.T) {
	tests := map[string]string{
		"05:17":        "05:17",
		"05:17 (BST)":  "05:17",
		"05:17(EEST)":  "05:17",
		" 19:10 (+03)": "19:10",
		"":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripZone(in), in)
	}
}

func TestDateTranslation(t *testing.T) {
	assert.Equal(t, "05-03-2026", ProviderDate(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))

	got, err := CanonicalDate("05-03-2026")
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-05", got)

	_, err = CanonicalDate("2026-03-05")
	assert.Error(t, err)
}

func TestHijriDate_Format(t *testing.T) {
	tests := []struct {
		name string
		h    HijriDate
		want string
	}{
		{
			name: "full date",
			h:    HijriDate{Day: "1", Month: HijriMonth{Number: 9, En: "Ramadan"}, Year: "1447", Designation: HijriDesignation{Abbreviated: "AH"}},
			want: "1 Ramadan 1447 AH",
		},
		{
			name: "missing abbreviation defaults to AH",
			h:    HijriDate{Day: "1", Month: HijriMonth{En: "Muharram"}, Year: "1448"},
			want: "1 Muharram 1448 AH",
		},
		{name: "missing day", h: HijriDate{Month: HijriMonth{En: "Ramadan"}, Year: "1447"}, want: ""},
		{name: "empty", h: HijriDate{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.h.Format())
		})
	}
}

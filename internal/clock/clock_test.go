package clock

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddOffset(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		minutes int
		want    string
	}{
		{"identity at zero", "6:45 AM", 0, "6:45 AM"},
		{"midnight rollover", "11:58 PM", 5, "12:03 AM"},
		{"minute carry", "5:57 AM", 10, "6:07 AM"},
		{"noon crossing", "11:55 AM", 10, "12:05 PM"},
		{"lowercase suffix", "7:30 pm", 15, "7:45 PM"},
		{"no space before suffix", "7:30PM", 0, "7:30 PM"},
		{"24h input", "18:07", 5, "6:12 PM"},
		{"24h midnight", "00:00", 0, "12:00 AM"},
		{"24h noon", "12:00", 0, "12:00 PM"},
		{"24h late rollover", "23:59", 2, "12:01 AM"},
		{"negative offset", "12:03 AM", -5, "11:58 PM"},
		{"large offset wraps", "1:00 PM", 24 * 60, "1:00 PM"},
		{"surrounding whitespace", " 05:17 ", 0, "5:17 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddOffset(tt.in, tt.minutes))
		})
	}
}

func TestAddOffset_UnrecognisedInputUnchanged(t *testing.T) {
	for _, in := range []string{"", "sunset", "25:00", "13:00 PM", "6:60 AM", "6.45 AM", "after isha"} {
		assert.Equal(t, in, AddOffset(in, 5), "input %q", in)
		assert.False(t, Shift(in, 5).Resolved, "input %q", in)
	}
}

func TestShift_ReportsResolution(t *testing.T) {
	r := Shift("17:39", 5)
	assert.True(t, r.Resolved)
	assert.Equal(t, "5:44 PM", r.String())

	r = Shift("bad", 5)
	assert.False(t, r.Resolved)
	assert.Equal(t, "bad", r.Value)
}

func TestAddOffset_AlwaysTwelveHour(t *testing.T) {
	for minute := 0; minute < 24*60; minute += 7 {
		in := Format12(minute)
		for offset := 0; offset < 60; offset += 13 {
			out := AddOffset(in, offset)
			parts := strings.SplitN(out, " ", 2)
			if !assert.Len(t, parts, 2, out) {
				continue
			}
			assert.Contains(t, []string{"AM", "PM"}, parts[1])

			got, ok := Parse(out)
			assert.True(t, ok, out)
			hour := strings.SplitN(parts[0], ":", 2)[0]
			assert.NotEqual(t, "0", hour)
			assert.LessOrEqual(t, len(hour), 2)
			assert.Equal(t, (minute+offset)%(24*60), got)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12:00 AM", 0, true},
		{"12:30 PM", 12*60 + 30, true},
		{"1:15 PM", 13*60 + 15, true},
		{"05:17", 5*60 + 17, true},
		{"0:00 AM", 0, false},
		{"24:00", 0, false},
	}
	for _, tt := range tests {
		got, ok := Parse(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

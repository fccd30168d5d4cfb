package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minaret/internal/aladhan"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

func fakeAladhan(t *testing.T) (*httptest.Server, *[]string) {
	var (
		mu    sync.Mutex
		paths []string
	)
	day := func(date string) aladhan.Data {
		return aladhan.Data{
			Timings: aladhan.Timings{
				Fajr: "04:31 (BST)", Sunrise: "06:02 (BST)", Dhuhr: "12:58 (BST)",
				Asr: "16:40 (BST)", Maghrib: "19:54 (BST)", Isha: "21:20 (BST)",
			},
			Date: aladhan.DateInfo{Gregorian: aladhan.GregorianDate{Date: date}},
		}
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		mu.Unlock()
		if strings.HasPrefix(r.URL.Path, "/timings/") {
			json.NewEncoder(w).Encode(aladhan.Response{Code: 200, Data: day(strings.TrimPrefix(r.URL.Path, "/timings/"))})
			return
		}
		var year, month int
		fmt.Sscanf(r.URL.Path, "/calendar/%d/%d", &year, &month)
		days := make([]aladhan.Data, 30)
		for i := range days {
			days[i] = day(fmt.Sprintf("%02d-%02d-%04d", i+1, month, year))
		}
		json.NewEncoder(w).Encode(aladhan.CalendarResponse{Code: 200, Data: days})
	}))
	t.Cleanup(srv.Close)
	t.Setenv("ALADHAN_BASE_URL", srv.URL)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("USE_SPACES", "")
	t.Setenv("LOG_LEVEL", "error")
	return srv, &paths
}

func run(t *testing.T, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDayCommand(t *testing.T) {
	_, paths := fakeAladhan(t)

	out, err := run(t, "day", "--date", "2026-06-01", "--latitude", "51.5074", "--longitude", "-0.1278", "--method", "15", "--compact")
	require.NoError(t, err)

	var body struct {
		PrayerTimes model.DayResult `json:"prayerTimes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "2026-06-01", body.PrayerTimes.Date)
	assert.Equal(t, "19:54", body.PrayerTimes.Maghrib)
	assert.Equal(t, "7:59 PM", body.PrayerTimes.Iqama.Maghrib)
	require.NotNil(t, body.PrayerTimes.Qibla)
	assert.InDelta(t, 119, *body.PrayerTimes.Qibla, 1)

	require.Len(t, *paths, 1)
	assert.Contains(t, (*paths)[0], "/timings/01-06-2026")
	assert.Contains(t, (*paths)[0], "method=15")
}

func TestWeekAndMonthCommands(t *testing.T) {
	_, paths := fakeAladhan(t)

	out, err := run(t, "week", "--date", "2026-06-01")
	require.NoError(t, err)
	var week struct {
		Data  []model.DayResult `json:"data"`
		Qibla int               `json:"qibla"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &week))
	assert.Len(t, week.Data, 7)
	assert.Equal(t, "2026-06-07", week.Data[6].Date)

	*paths = nil
	out, err = run(t, "month", "--date", "2026-06")
	require.NoError(t, err)
	var month struct {
		Data []model.DayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &month))
	assert.Len(t, month.Data, 30)
	assert.Len(t, *paths, 1)
}

func TestCommandValidation(t *testing.T) {
	fakeAladhan(t)

	_, err := run(t, "day", "--date", "June 1st")
	assert.Error(t, err)

	_, err = run(t, "day", "--latitude", "100")
	assert.Error(t, err)

	_, err = run(t, "day", "--school", "2")
	assert.Error(t, err)

	_, err = run(t, "day", "--latitude", "NaN")
	assert.Error(t, err)

	_, err = run(t, "day", "--method", "24")
	assert.Error(t, err)
}

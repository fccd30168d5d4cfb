package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	prayer "github.com/Nixie-Tech-LLC/minaret/internal/http/api/prayer/endpoints"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/minaret/internal/iqamah"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/timetable"
)

const secret = "control-secret"

var site = prayer.Defaults{Location: model.Location{Latitude: 41.8781, Longitude: -87.6298}, Method: 2, School: -1}

type memStore struct {
	mu      sync.Mutex
	iqamah  *model.IqamahConfiguration
	tarawih *model.TarawihConfiguration
	fail    error
}

func (m *memStore) GetIqamahSettings(context.Context) (*model.IqamahConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.iqamah, m.fail
}

func (m *memStore) SaveIqamahSettings(_ context.Context, cfg model.IqamahConfiguration) (*model.IqamahConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	m.iqamah = &cfg
	return &cfg, nil
}

func (m *memStore) GetTarawihSettings(context.Context) (*model.TarawihConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tarawih, m.fail
}

func (m *memStore) SaveTarawihSettings(_ context.Context, cfg model.TarawihConfiguration) (*model.TarawihConfiguration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	m.tarawih = &cfg
	return &cfg, nil
}

type admins struct{}

func (admins) GetAdminByID(_ context.Context, id int) (*model.Admin, error) {
	if id != 1 {
		return nil, errors.New("not found")
	}
	return &model.Admin{ID: 1, Email: "admin@masjid.org"}, nil
}

type invalidations struct{ n int }

func (i *invalidations) Invalidate() { i.n++ }

type recorder struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (r *recorder) Publish(p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, p)
	return nil
}

type fakeComputer struct {
	requests []timetable.Request
	err      error
}

func (f *fakeComputer) Compute(_ context.Context, req timetable.Request) (timetable.Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return timetable.Result{}, f.err
	}
	q := 49
	day := model.DayResult{Date: req.Date.Format("2006-01-02"), AdhanTimes: model.AdhanTimes{Isha: "19:10"}, Qibla: &q}
	if req.Range == timetable.RangeDay {
		return timetable.Result{Range: timetable.RangeDay, Day: &day, Qibla: q}, nil
	}
	days := make([]model.DayResult, 31)
	return timetable.Result{Range: req.Range, Days: days, Qibla: q}, nil
}

type savedObject struct {
	name, contentType string
	body              []byte
}

type fakeStorage struct {
	saved []savedObject
}

func (f *fakeStorage) SaveObject(_ context.Context, name, contentType string, body []byte) (string, error) {
	f.saved = append(f.saved, savedObject{name, contentType, body})
	return "/exports/" + name, nil
}

type harness struct {
	router   *gin.Engine
	store    *memStore
	cache    *invalidations
	notifier *recorder
	computer *fakeComputer
	storage  *fakeStorage
	done     chan struct{}
	token    string
}

func setup(t *testing.T) *harness {
	gin.SetMode(gin.TestMode)
	h := &harness{
		store:    &memStore{},
		cache:    &invalidations{},
		notifier: &recorder{},
		computer: &fakeComputer{},
		storage:  &fakeStorage{},
		done:     make(chan struct{}, 4),
	}

	settingsCtl := NewSettingsController(h.store, h.cache, h.notifier, h.computer, site)
	settingsCtl.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	settingsCtl.notified = func() { h.done <- struct{}{} }

	exportCtl := NewExportController(h.computer, h.storage, site)

	h.router = gin.New()
	api.MountGroup(h.router, api.GroupConfig{Prefix: "/api/admin", Auth: true, SecretKey: secret, Admins: admins{}},
		SettingsModule(settingsCtl),
		TimetableModule(exportCtl),
	)

	tok, err := middleware.GenerateJWT(1, secret)
	require.NoError(t, err)
	h.token = tok
	return h
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.token)
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) waitBroadcast(t *testing.T) {
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast did not run")
	}
}

func TestGetIqamah_DefaultsWhenEmpty(t *testing.T) {
	h := setup(t)

	w := h.do(http.MethodGet, "/api/admin/settings/iqamah", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Settings model.IqamahConfiguration `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	def := iqamah.DefaultIqamah()
	assert.Equal(t, def.Fajr, body.Settings.Fajr)
	assert.Equal(t, def.Maghrib, body.Settings.Maghrib)
}

func TestUpdateIqamah_MergesAndNotifies(t *testing.T) {
	h := setup(t)

	w := h.do(http.MethodPut, "/api/admin/settings/iqamah", gin.H{"maghrib": "+10", "isha": "20:00"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	h.waitBroadcast(t)

	require.NotNil(t, h.store.iqamah)
	assert.Equal(t, "+10", h.store.iqamah.Maghrib)
	assert.Equal(t, "20:00", h.store.iqamah.Isha)
	assert.Equal(t, iqamah.DefaultIqamah().Fajr, h.store.iqamah.Fajr)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), h.store.iqamah.UpdatedAt)
	assert.Equal(t, 1, h.cache.n)

	h.notifier.mu.Lock()
	defer h.notifier.mu.Unlock()
	require.Len(t, h.notifier.payloads, 1)
	assert.Contains(t, string(h.notifier.payloads[0]), `"prayerTimes"`)
	assert.Equal(t, timetable.RangeDay, h.computer.requests[0].Range)
	assert.Equal(t, site.Location, h.computer.requests[0].Location)
}

func TestUpdateIqamah_RejectsBadRules(t *testing.T) {
	h := setup(t)

	for _, body := range []gin.H{
		{"fajr": "+181"},
		{"dhuhr": "+abc"},
		{"asr": "25:00"},
		{"isha": ""},
	} {
		w := h.do(http.MethodPut, "/api/admin/settings/iqamah", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Nil(t, h.store.iqamah)
	assert.Zero(t, h.cache.n)
}

func TestUpdateTarawih(t *testing.T) {
	h := setup(t)

	w := h.do(http.MethodPut, "/api/admin/settings/tarawih", gin.H{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	h.waitBroadcast(t)

	assert.True(t, h.store.tarawih.Enabled)
	assert.Equal(t, iqamah.DefaultTarawih().Time, h.store.tarawih.Time)

	w = h.do(http.MethodPut, "/api/admin/settings/tarawih", gin.H{"time": "+200"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/api/admin/settings/tarawih", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"enabled":true`)
}

func TestSettings_StoreFailure(t *testing.T) {
	h := setup(t)
	h.store.fail = errors.New("connection refused")

	w := h.do(http.MethodGet, "/api/admin/settings/iqamah", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestSettings_RequireAuth(t *testing.T) {
	h := setup(t)
	h.token = "garbage"

	w := h.do(http.MethodGet, "/api/admin/settings/iqamah", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExportMonth(t *testing.T) {
	h := setup(t)

	w := h.do(http.MethodPost, "/api/admin/timetables/export", gin.H{"month": "2026-03", "method": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		URL   string `json:"url"`
		Month string `json:"month"`
		Days  int    `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2026-03", body.Month)
	assert.Equal(t, 31, body.Days)
	assert.NotEmpty(t, body.URL)

	require.Len(t, h.storage.saved, 1)
	assert.Equal(t, "application/json", h.storage.saved[0].contentType)
	assert.Contains(t, string(h.storage.saved[0].body), `"data"`)

	req := h.computer.requests[0]
	assert.Equal(t, timetable.RangeMonth, req.Range)
	assert.Equal(t, 4, req.Method)
	assert.Equal(t, time.March, req.Date.Month())
}

func TestExportMonth_Errors(t *testing.T) {
	h := setup(t)

	w := h.do(http.MethodPost, "/api/admin/timetables/export", gin.H{"month": "March"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/admin/timetables/export", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/api/admin/timetables/export", gin.H{"month": "2026-03", "method": 24})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, h.computer.requests)

	h.computer.err = errors.New("aladhan returned status 502: bad gateway")
	w = h.do(http.MethodPost, "/api/admin/timetables/export", gin.H{"month": "2026-03"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, h.storage.saved)
}

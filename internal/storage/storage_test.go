package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilename(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC)

	assert.Equal(t, "march_2026_timetable_20260301_140509.json", normalizeFilename("march 2026 timetable.json", now))
	assert.Equal(t, "masjid-al-noor_20260301_140509.json", normalizeFilename("masjid-al-noor!?.json", now))
	assert.Equal(t, "timetable_20260301_140509.json", normalizeFilename("@@@.json", now))
}

func TestLocalStorage_SaveObject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	ls := NewLocalStorage(dir, "/exports/")
	ls.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	url, err := ls.SaveObject(context.Background(), "2026-03.json", "application/json", []byte(`{"data":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "/exports/2026-03_20260301_000000.json", url)

	got, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/exports/")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[]}`, string(got))
}

func TestLocalStorage_CancelledContext(t *testing.T) {
	ls := NewLocalStorage(t.TempDir(), "/exports")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ls.SaveObject(ctx, "x.json", "application/json", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

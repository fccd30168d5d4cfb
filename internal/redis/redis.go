// Package redis caches upstream prayer timings. Day lookups and month
// lookups are kept under separate keys with their own expirations.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/aladhan"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

const (
	DefaultDayTTL   = time.Hour
	DefaultMonthTTL = 24 * time.Hour
)

// Upstream is the source the cache sits in front of.
type Upstream interface {
	Day(ctx context.Context, date time.Time, q aladhan.Query) (model.AstronomicalDay, error)
	Month(ctx context.Context, year int, month time.Month, q aladhan.Query) ([]model.AstronomicalDay, error)
}

// NewClient opens a client for the given server. The connection is lazy.
func NewClient(address, username, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
}

// Cache is a read-through cache over an Upstream. Redis failures are logged
// and the upstream is used directly; upstream errors are never cached.
type Cache struct {
	next     Upstream
	rdb      *redis.Client
	dayTTL   time.Duration
	monthTTL time.Duration
}

// NewCache wraps next. A nil rdb disables caching.
func NewCache(next Upstream, rdb *redis.Client, dayTTL, monthTTL time.Duration) *Cache {
	if dayTTL <= 0 {
		dayTTL = DefaultDayTTL
	}
	if monthTTL <= 0 {
		monthTTL = DefaultMonthTTL
	}
	return &Cache{next: next, rdb: rdb, dayTTL: dayTTL, monthTTL: monthTTL}
}

// DayKey includes everything that changes the upstream answer for a day.
func DayKey(date time.Time, q aladhan.Query) string {
	return fmt.Sprintf("prayer:day:%s:%.6f:%.6f:%d:%d",
		date.Format(aladhan.DateLayout), q.Location.Latitude, q.Location.Longitude, q.Method, q.School)
}

// MonthKey includes everything that changes the upstream answer for a month.
func MonthKey(year int, month time.Month, q aladhan.Query) string {
	return fmt.Sprintf("prayer:month:%04d-%02d:%.6f:%.6f:%d:%d",
		year, int(month), q.Location.Latitude, q.Location.Longitude, q.Method, q.School)
}

func (c *Cache) Day(ctx context.Context, date time.Time, q aladhan.Query) (model.AstronomicalDay, error) {
	key := DayKey(date, q)

	var cached model.AstronomicalDay
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	day, err := c.next.Day(ctx, date, q)
	if err != nil {
		return model.AstronomicalDay{}, err
	}
	c.store(ctx, key, day, c.dayTTL)
	return day, nil
}

func (c *Cache) Month(ctx context.Context, year int, month time.Month, q aladhan.Query) ([]model.AstronomicalDay, error) {
	key := MonthKey(year, month, q)

	var cached []model.AstronomicalDay
	if c.load(ctx, key, &cached) && len(cached) > 0 {
		return cached, nil
	}

	days, err := c.next.Month(ctx, year, month, q)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, days, c.monthTTL)
	return days, nil
}

func (c *Cache) load(ctx context.Context, key string, out any) bool {
	if c.rdb == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return false
	}
	log.Debug().Str("key", key).Msg("cache hit")
	return true
}

func (c *Cache) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if c.rdb == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to encode cache entry")
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to add key to redis")
	}
}

// Package timetable assembles day, week and month prayer timetables from
// upstream adhan times and the local iqamah/tarawih configuration.
package timetable

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Nixie-Tech-LLC/minaret/internal/aladhan"
	"github.com/Nixie-Tech-LLC/minaret/internal/iqamah"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/qibla"
)

const weekDays = 7

// Range selects how many days a request covers.
type Range string

const (
	RangeDay   Range = "day"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
)

// ParseRange accepts "day", "week" or "month"; empty means day.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeDay, nil
	case RangeDay, RangeWeek, RangeMonth:
		return r, nil
	}
	return "", fmt.Errorf("invalid range %q: must be day, week or month", s)
}

// ParseAnchor parses the anchor date. Month ranges also accept "YYYY-MM".
// An empty string means today.
func ParseAnchor(r Range, s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse(aladhan.DateLayout, s); err == nil {
		return t, nil
	}
	if r == RangeMonth {
		if t, err := time.Parse("2006-01", s); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM or YYYY-MM-DD", s)
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// Gateway supplies normalised astronomical days.
type Gateway interface {
	Day(ctx context.Context, date time.Time, q aladhan.Query) (model.AstronomicalDay, error)
	Month(ctx context.Context, year int, month time.Month, q aladhan.Query) ([]model.AstronomicalDay, error)
}

// Settings supplies the congregation configuration.
type Settings interface {
	Iqamah(ctx context.Context) model.IqamahConfiguration
	Tarawih(ctx context.Context) model.TarawihConfiguration
}

// Request is one timetable query.
type Request struct {
	Location model.Location
	Method   int
	School   int
	Range    Range
	Date     time.Time
}

func (r Request) query() aladhan.Query {
	return aladhan.Query{Location: r.Location, Method: r.Method, School: r.School}
}

// Result holds either a single day (day range) or a list of days.
type Result struct {
	Range Range
	Day   *model.DayResult
	Days  []model.DayResult
	Qibla int
}

type Aggregator struct {
	gateway  Gateway
	settings Settings
}

func New(gateway Gateway, settings Settings) *Aggregator {
	return &Aggregator{gateway: gateway, settings: settings}
}

// Compute runs a request of any range. Any upstream failure fails the whole
// request; no partial results are returned.
func (a *Aggregator) Compute(ctx context.Context, req Request) (Result, error) {
	if err := req.Location.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Range: req.Range, Qibla: qibla.Bearing(req.Location.Latitude, req.Location.Longitude)}

	var err error
	switch req.Range {
	case RangeDay, "":
		var day model.DayResult
		day, err = a.Day(ctx, req)
		if err == nil {
			day.Qibla = &res.Qibla
			res.Day = &day
			res.Range = RangeDay
		}
	case RangeWeek:
		res.Days, err = a.Week(ctx, req)
	case RangeMonth:
		res.Days, err = a.Month(ctx, req)
	default:
		return Result{}, fmt.Errorf("unsupported range %q", req.Range)
	}
	if err != nil {
		log.Error().Err(err).
			Str("range", string(req.Range)).
			Str("date", req.Date.Format(aladhan.DateLayout)).
			Msg("timetable computation failed")
		return Result{}, err
	}
	return res, nil
}

// Day resolves the anchor date alone.
func (a *Aggregator) Day(ctx context.Context, req Request) (model.DayResult, error) {
	iq, tw := a.snapshot(ctx)

	day, err := a.gateway.Day(ctx, req.Date, req.query())
	if err != nil {
		return model.DayResult{}, fmt.Errorf("fetch %s: %w", req.Date.Format(aladhan.DateLayout), err)
	}
	return Assemble(day, iq, tw), nil
}

// Week resolves seven consecutive days starting at the anchor. The days are
// fetched concurrently and returned in date order.
func (a *Aggregator) Week(ctx context.Context, req Request) ([]model.DayResult, error) {
	iq, tw := a.snapshot(ctx)
	q := req.query()

	out := make([]model.DayResult, weekDays)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < weekDays; i++ {
		date := req.Date.AddDate(0, 0, i)
		g.Go(func() error {
			day, err := a.gateway.Day(gctx, date, q)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", date.Format(aladhan.DateLayout), err)
			}
			out[i] = Assemble(day, iq, tw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Month resolves the anchor's calendar month with a single upstream call.
func (a *Aggregator) Month(ctx context.Context, req Request) ([]model.DayResult, error) {
	iq, tw := a.snapshot(ctx)

	days, err := a.gateway.Month(ctx, req.Date.Year(), req.Date.Month(), req.query())
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.Date.Format("2006-01"), err)
	}

	out := make([]model.DayResult, 0, len(days))
	for _, d := range days {
		out = append(out, Assemble(d, iq, tw))
	}
	return out, nil
}

func (a *Aggregator) snapshot(ctx context.Context) (model.IqamahConfiguration, model.TarawihConfiguration) {
	return a.settings.Iqamah(ctx), a.settings.Tarawih(ctx)
}

// Assemble builds the day record from one astronomical day and the
// configuration in force.
func Assemble(day model.AstronomicalDay, iq model.IqamahConfiguration, tw model.TarawihConfiguration) model.DayResult {
	out := model.DayResult{
		Date:       day.Date,
		Hijri:      day.Hijri,
		AdhanTimes: day.Timings,
		Iqama:      iqamah.Resolve(iq, day.Timings),
	}
	if iqamah.ShouldShowTarawih(tw, day.HijriMonth) {
		out.Tarawih = iqamah.ResolveTarawih(tw, day.Timings.Isha)
	}
	return out
}

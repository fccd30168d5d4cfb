package endpoints

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/prayer/packets"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/timetable"
)

// Computer runs timetable requests.
type Computer interface {
	Compute(ctx context.Context, req timetable.Request) (timetable.Result, error)
}

// Defaults fill in parameters the caller leaves out.
type Defaults struct {
	Location model.Location
	Method   int
	School   int // < 0 leaves the provider default
}

type PrayerTimesController struct {
	timetable Computer
	defaults  Defaults
	now       func() time.Time
}

func NewPrayerTimesController(tt Computer, defaults Defaults) *PrayerTimesController {
	return &PrayerTimesController{timetable: tt, defaults: defaults, now: time.Now}
}

// PrayerTimesModule mounts the public timetable endpoint.
func PrayerTimesModule(tt Computer, defaults Defaults) api.Module {
	ctl := NewPrayerTimesController(tt, defaults)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/prayer-times", ctl.getPrayerTimes)
	})
}

// BuildRequest validates query parameters and applies defaults. It does not
// touch the upstream.
func (p *PrayerTimesController) BuildRequest(query packets.PrayerTimesQuery) (timetable.Request, error) {
	rng, err := timetable.ParseRange(query.Range)
	if err != nil {
		return timetable.Request{}, err
	}

	date, err := timetable.ParseAnchor(rng, query.Date, p.now())
	if err != nil {
		return timetable.Request{}, err
	}

	req := timetable.Request{
		Location: p.defaults.Location,
		Method:   p.defaults.Method,
		School:   p.defaults.School,
		Range:    rng,
		Date:     date,
	}
	if query.Latitude != nil {
		req.Location.Latitude = *query.Latitude
	}
	if query.Longitude != nil {
		req.Location.Longitude = *query.Longitude
	}
	if query.Method != nil {
		req.Method = *query.Method
	}
	if query.School != nil {
		req.School = *query.School
	}

	if err := req.Location.Validate(); err != nil {
		return timetable.Request{}, err
	}
	return req, nil
}

// GET /api/prayer-times
func (p *PrayerTimesController) getPrayerTimes(ctx *gin.Context) (any, *api.APIError) {
	var query packets.PrayerTimesQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, api.BadRequest("invalid query parameters", gin.H{"message": err.Error()})
	}

	req, err := p.BuildRequest(query)
	if err != nil {
		return nil, api.BadRequest(err.Error(), gin.H{})
	}

	res, err := p.timetable.Compute(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).
			Str("range", string(req.Range)).
			Float64("latitude", req.Location.Latitude).
			Float64("longitude", req.Location.Longitude).
			Msg("failed to compute prayer times")
		return nil, api.Internal(fmt.Sprintf("failed to fetch prayer times for range %s", req.Range), err)
	}

	return packets.FromResult(res), nil
}

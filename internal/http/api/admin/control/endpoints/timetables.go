package endpoints

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/admin/control/packets"
	prayer "github.com/Nixie-Tech-LLC/minaret/internal/http/api/prayer/endpoints"
	prayerpackets "github.com/Nixie-Tech-LLC/minaret/internal/http/api/prayer/packets"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/storage"
	"github.com/Nixie-Tech-LLC/minaret/internal/timetable"
)

type ExportController struct {
	timetable prayer.Computer
	storage   storage.Storage
	site      prayer.Defaults
	now       func() time.Time
}

func NewExportController(tt prayer.Computer, store storage.Storage, site prayer.Defaults) *ExportController {
	return &ExportController{timetable: tt, storage: store, site: site, now: time.Now}
}

// TimetableModule mounts the authenticated /timetables endpoints.
func TimetableModule(ctl *ExportController) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/timetables/export", ctl.exportMonth)
	})
}

// POST /api/admin/timetables/export
func (e *ExportController) exportMonth(ctx *gin.Context, admin *model.Admin) (any, *api.APIError) {
	var request packets.ExportTimetableRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest("invalid export request", gin.H{"message": err.Error()})
	}

	anchor, err := timetable.ParseAnchor(timetable.RangeMonth, request.Month, e.now())
	if err != nil {
		return nil, api.BadRequest(err.Error(), gin.H{})
	}

	req := timetable.Request{
		Location: e.site.Location,
		Method:   e.site.Method,
		School:   e.site.School,
		Range:    timetable.RangeMonth,
		Date:     anchor,
	}
	if request.Latitude != nil {
		req.Location.Latitude = *request.Latitude
	}
	if request.Longitude != nil {
		req.Location.Longitude = *request.Longitude
	}
	if request.Method != nil {
		req.Method = *request.Method
	}
	if request.School != nil {
		req.School = *request.School
	}
	if err := req.Location.Validate(); err != nil {
		return nil, api.BadRequest(err.Error(), gin.H{})
	}

	res, err := e.timetable.Compute(ctx.Request.Context(), req)
	if err != nil {
		return nil, api.Internal("failed to fetch prayer times for range month", err)
	}

	body, err := json.MarshalIndent(prayerpackets.FromResult(res), "", "  ")
	if err != nil {
		return nil, api.Internal("could not encode timetable", err)
	}

	month := anchor.Format("2006-01")
	name := fmt.Sprintf("timetable %s %.4f %.4f.json", month, req.Location.Latitude, req.Location.Longitude)
	url, err := e.storage.SaveObject(ctx.Request.Context(), name, "application/json", body)
	if err != nil {
		return nil, api.Internal("could not store timetable", err)
	}

	log.Info().Int("admin_id", admin.ID).Str("month", month).Str("url", url).Msg("timetable exported")
	return packets.ExportTimetableResponse{URL: url, Month: month, Days: len(res.Days), Qibla: res.Qibla}, nil
}

package packets

import (
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/timetable"
)

// RESPONSES FOR /api/prayer-times

// DayResponse is the day-range shape; qibla sits inside prayerTimes.
type DayResponse struct {
	PrayerTimes model.DayResult `json:"prayerTimes"`
}

// RangeResponse is the week/month shape; qibla is given once.
type RangeResponse struct {
	Data  []model.DayResult `json:"data"`
	Qibla int               `json:"qibla"`
}

// FromResult picks the response shape for the result's range.
func FromResult(res timetable.Result) any {
	if res.Day != nil {
		return DayResponse{PrayerTimes: *res.Day}
	}
	data := res.Days
	if data == nil {
		data = []model.DayResult{}
	}
	return RangeResponse{Data: data, Qibla: res.Qibla}
}

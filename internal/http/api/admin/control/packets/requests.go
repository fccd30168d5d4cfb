package packets

// BODY FOR PUT /api/admin/settings/iqamah
//
// Omitted fields keep their stored rule. Each rule is a clock time
// ("6:45 AM", "18:30") or "+N" minutes after adhan.
type UpdateIqamahRequest struct {
	Fajr    *string `json:"fajr"`
	Dhuhr   *string `json:"dhuhr"`
	Asr     *string `json:"asr"`
	Maghrib *string `json:"maghrib"`
	Isha    *string `json:"isha"`
}

// BODY FOR PUT /api/admin/settings/tarawih
type UpdateTarawihRequest struct {
	Enabled *bool   `json:"enabled"`
	Time    *string `json:"time"`
}

// BODY FOR POST /api/admin/timetables/export
//
// Month is "YYYY-MM". Location and method default to the site's.
type ExportTimetableRequest struct {
	Month     string   `json:"month" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Method    *int     `json:"method" binding:"omitempty,min=0,max=23"`
	School    *int     `json:"school" binding:"omitempty,oneof=0 1"`
}

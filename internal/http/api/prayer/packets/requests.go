package packets

// QUERY FOR GET /api/prayer-times
//
// Pointers distinguish "absent" (use the configured default) from zero.
type PrayerTimesQuery struct {
	Latitude  *float64 `form:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `form:"longitude" binding:"omitempty,min=-180,max=180"`
	Date      string   `form:"date"`
	Method    *int     `form:"method" binding:"omitempty,min=0,max=23"`
	School    *int     `form:"school" binding:"omitempty,oneof=0 1"`
	Range     string   `form:"range"`
}

package packets

import "github.com/Nixie-Tech-LLC/minaret/internal/model"

type IqamahSettingsResponse struct {
	Settings model.IqamahConfiguration `json:"settings"`
}

type TarawihSettingsResponse struct {
	Settings model.TarawihConfiguration `json:"settings"`
}

type ExportTimetableResponse struct {
	URL   string `json:"url"`
	Month string `json:"month"`
	Days  int    `json:"days"`
	Qibla int    `json:"qibla"`
}

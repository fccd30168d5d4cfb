package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/storage"
)

const exportsRoute = "/exports"

// InitStorage selects and returns the configured storage backend
func InitStorage(cfg config.StorageConfig) storage.Storage {
	if cfg.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesCDNURL,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.SpacesCDNURL).Msg("using DigitalOcean Spaces for timetable exports")
		return spacesStorage
	}

	log.Info().Str("dir", cfg.ExportDir).Msg("using local storage for timetable exports")
	return storage.NewLocalStorage(cfg.ExportDir, exportsRoute)
}

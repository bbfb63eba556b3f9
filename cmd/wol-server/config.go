package main

import (
	"github.com/fgeck/wol-server/internal/config"
	"github.com/fgeck/wol-server/internal/models"
	"github.com/rs/zerolog/log"
)

// loadConfig reads the configuration from --env-file, if given, and the
// process environment, then validates it.
func loadConfig() (*models.ServerConfig, error) {
	parser := config.NewParser()

	var (
		cfg *models.ServerConfig
		err error
	)
	if envFile != "" {
		cfg, err = parser.LoadFile(envFile)
	} else {
		cfg, err = parser.LoadEnv()
	}
	if err != nil {
		log.Error().Err(err).Str("file", envFile).Msg("failed to load config")
		return nil, err
	}

	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return nil, err
	}

	return cfg, nil
}

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  `Validate the configuration without starting the server. Secrets are never printed.`,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	// Check if file exists
	if envFile != "" {
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			log.Error().Str("file", envFile).Msg("env file not found")
			return fmt.Errorf("env file not found: %s", envFile)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.TLS.Enabled {
		for _, path := range []string{cfg.TLS.CertFile, cfg.TLS.KeyFile} {
			if _, err := os.Stat(path); err != nil {
				log.Error().Err(err).Str("file", path).Msg("TLS file not readable")
				return fmt.Errorf("TLS file %s: %w", path, err)
			}
		}
	}

	// Print configuration summary
	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  Listen: %s:%d\n", cfg.Listen.Host, cfg.Listen.Port)
	fmt.Printf("  TLS: %v\n", cfg.TLS.Enabled)
	if cfg.TLS.Enabled {
		fmt.Printf("  Certificate: %s\n", cfg.TLS.CertFile)
		fmt.Printf("  Key: %s\n", cfg.TLS.KeyFile)
	}
	fmt.Println()
	fmt.Println("Authentication:")
	fmt.Printf("  Cookie: %s\n", cfg.Auth.CookieName)
	fmt.Printf("  Secrets: (configured)\n")
	fmt.Println()
	fmt.Println("Rate Limit:")
	fmt.Printf("  Requests per second: %g\n", cfg.RateLimit.RequestsPerSecond)
	fmt.Printf("  Burst: %d\n", cfg.RateLimit.Burst)

	return nil
}

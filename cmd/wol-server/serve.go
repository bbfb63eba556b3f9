package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/wol-server/internal/server"
	"github.com/fgeck/wol-server/internal/services/auth"
	"github.com/fgeck/wol-server/internal/services/probe"
	"github.com/fgeck/wol-server/internal/services/transport"
	"github.com/fgeck/wol-server/internal/services/wol"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP(S) server",
	Long: `Start the server and handle requests until SIGINT or SIGTERM:
1. Load and validate configuration
2. Load the TLS certificate and key (if TLS is enabled)
3. Listen on WOL_LISTEN_ADDR:WOL_PORT
4. Shut down gracefully on signal`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log.Info().
		Str("listen", cfg.Listen.Host).
		Int("port", cfg.Listen.Port).
		Bool("tls", cfg.TLS.Enabled).
		Msg("configuration loaded")

	var tlsConfig *tls.Config
	if cfg.TLS.Enabled {
		tlsConfig, err = transport.NewFileTransport(log.Logger, cfg.TLS.CertFile, cfg.TLS.KeyFile).TLSConfig()
		if err != nil {
			log.Error().Err(err).Msg("failed to load TLS credentials")
			return err
		}
	} else {
		log.Warn().Msg("TLS is disabled, cookies are sent in plaintext")
	}

	srv, err := server.New(server.Deps{
		Config:    *cfg,
		Wake:      wol.New(log.Logger),
		Auth:      auth.New(log.Logger, cfg.Auth),
		Probe:     probe.New(log.Logger),
		TLSConfig: tlsConfig,
		Logger:    log.Logger,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create server")
		return err
	}

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	if err := srv.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		return err
	}

	return nil
}

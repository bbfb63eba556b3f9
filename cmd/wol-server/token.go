package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fgeck/wol-server/internal/config"
	"github.com/fgeck/wol-server/internal/models"
	"github.com/fgeck/wol-server/internal/services/auth"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var prompt bool

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the cookie token for the configured secrets",
	Long: `Print the value clients must send in the auth cookie.

The secrets are read from the environment (or --env-file), or typed in
without echo with --prompt.`,
	RunE: printToken,
}

func init() {
	tokenCmd.Flags().BoolVarP(&prompt, "prompt", "p", false, "read the secrets from the terminal")
}

func printToken(cmd *cobra.Command, args []string) error {
	var (
		secrets models.AuthConfig
		err     error
	)
	if prompt {
		secrets, err = promptSecrets()
	} else {
		secrets, err = loadSecrets()
	}
	if err != nil {
		return err
	}

	if strings.Contains(strings.TrimSpace(secrets.SecretValue), ".") {
		return fmt.Errorf("%s must not contain '.'", config.EnvSecretValue)
	}

	token, err := auth.New(log.Logger, secrets).Token()
	if err != nil {
		log.Error().Err(err).Msg("cannot build token")
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

// loadSecrets reads only the auth settings so a token can be issued before
// TLS files exist.
func loadSecrets() (models.AuthConfig, error) {
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
		return models.AuthConfig{}, err
	}

	return cfg.Auth, nil
}

func promptSecrets() (models.AuthConfig, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return models.AuthConfig{}, errors.New("--prompt requires an interactive terminal")
	}

	key, err := readSecret(fd, "Secret key: ")
	if err != nil {
		return models.AuthConfig{}, err
	}
	value, err := readSecret(fd, "Secret value: ")
	if err != nil {
		return models.AuthConfig{}, err
	}

	return models.AuthConfig{SecretKey: key, SecretValue: value}, nil
}

func readSecret(fd int, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return string(b), nil
}

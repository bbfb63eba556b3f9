// Package config provides configuration loading from the environment and
// dotenv files.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fgeck/wol-server/internal/models"
	"github.com/spf13/viper"
)

// Environment variables read by the parser.
const (
	EnvPort         = "WOL_PORT"
	EnvListenAddr   = "WOL_LISTEN_ADDR"
	EnvTLS          = "WOL_TLS"
	EnvServerCert   = "WOL_SERVER_CERT"
	EnvServerKey    = "WOL_SERVER_KEY"
	EnvSecretKey    = "COOKIE_SECRET_KEY"
	EnvSecretValue  = "COOKIE_SECRET_VALUE"
	EnvCookieName   = "WOL_COOKIE_NAME"
	EnvRateLimitRPS = "WOL_RATE_LIMIT_RPS"
	EnvRateBurst    = "WOL_RATE_LIMIT_BURST"
)

// Keys lists every variable the parser knows about.
var Keys = []string{
	EnvPort, EnvListenAddr, EnvTLS, EnvServerCert, EnvServerKey,
	EnvSecretKey, EnvSecretValue, EnvCookieName, EnvRateLimitRPS, EnvRateBurst,
}

const shutdownTimeout = 10 * time.Second

// Parser handles configuration loading.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser. Process environment
// variables always take precedence over values read from a file.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault(key(EnvPort), "9888")
	v.SetDefault(key(EnvListenAddr), "0.0.0.0")
	v.SetDefault(key(EnvTLS), "true")
	v.SetDefault(key(EnvCookieName), "wol-cookie")
	v.SetDefault(key(EnvRateLimitRPS), "2")
	v.SetDefault(key(EnvRateBurst), "5")

	return &Parser{v: v}
}

// LoadEnv loads configuration from the process environment only.
func (p *Parser) LoadEnv() (*models.ServerConfig, error) {
	return p.parse()
}

// LoadFile loads configuration from a dotenv file at path.
func (p *Parser) LoadFile(path string) (*models.ServerConfig, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from dotenv content (useful for testing).
func (p *Parser) LoadReader(content string) (*models.ServerConfig, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.ServerConfig, error) {
	cfg := &models.ServerConfig{}

	port, err := strconv.Atoi(p.get(EnvPort))
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", EnvPort, err)
	}

	cfg.Listen = models.ListenConfig{
		Host:            p.get(EnvListenAddr),
		Port:            port,
		ShutdownTimeout: shutdownTimeout,
	}

	tlsEnabled, err := strconv.ParseBool(p.get(EnvTLS))
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false: %w", EnvTLS, err)
	}

	cfg.TLS = models.TLSConfig{
		Enabled:  tlsEnabled,
		CertFile: p.expandEnv(p.get(EnvServerCert)),
		KeyFile:  p.expandEnv(p.get(EnvServerKey)),
	}

	cfg.Auth = models.AuthConfig{
		SecretKey:   p.get(EnvSecretKey),
		SecretValue: p.get(EnvSecretValue),
		CookieName:  p.get(EnvCookieName),
	}

	rps, err := strconv.ParseFloat(p.get(EnvRateLimitRPS), 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", EnvRateLimitRPS, err)
	}
	burst, err := strconv.Atoi(p.get(EnvRateBurst))
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", EnvRateBurst, err)
	}

	cfg.RateLimit = models.RateLimitConfig{
		RequestsPerSecond: rps,
		Burst:             burst,
	}

	return cfg, nil
}

func (p *Parser) get(env string) string {
	return strings.TrimSpace(p.v.GetString(key(env)))
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

func key(env string) string {
	return strings.ToLower(env)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.ServerConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.Listen.Port < 1 || cfg.Listen.Port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535", EnvPort)
	}

	if net.ParseIP(cfg.Listen.Host) == nil {
		return fmt.Errorf("%s must be an IP address", EnvListenAddr)
	}

	if cfg.Auth.SecretKey == "" {
		return fmt.Errorf("%s is required", EnvSecretKey)
	}

	if cfg.Auth.SecretValue == "" {
		return fmt.Errorf("%s is required", EnvSecretValue)
	}

	if strings.Contains(cfg.Auth.SecretValue, ".") {
		return fmt.Errorf("%s must not contain '.'", EnvSecretValue)
	}

	if cfg.Auth.CookieName == "" {
		return fmt.Errorf("%s must not be empty", EnvCookieName)
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			return fmt.Errorf("%s is required when TLS is enabled", EnvServerCert)
		}
		if cfg.TLS.KeyFile == "" {
			return fmt.Errorf("%s is required when TLS is enabled", EnvServerKey)
		}
	}

	if cfg.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("%s must be positive", EnvRateLimitRPS)
	}

	if cfg.RateLimit.Burst < 1 {
		return fmt.Errorf("%s must be at least 1", EnvRateBurst)
	}

	return nil
}

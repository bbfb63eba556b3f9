// Package auth verifies the signed cookie that gates the wake endpoints.
//
// A token has the form "value.signature" where signature is the hex encoded
// HMAC-SHA256 of the configured secret value keyed with the configured secret
// key, and value must equal the secret value. The token never changes for a
// given pair of secrets, so it behaves as a long-lived bearer credential.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/fgeck/wol-server/internal/models"
	"github.com/rs/zerolog"
)

// DefaultCookieName is the cookie that carries the token.
const DefaultCookieName = "wol-cookie"

const separator = "."

// Reasons a token is rejected.
var (
	ErrNoToken           = errors.New("token not found")
	ErrMalformedToken    = errors.New("invalid token format")
	ErrSignatureMismatch = errors.New("invalid signature")
	ErrValueMismatch     = errors.New("invalid token value")
	ErrNotConfigured     = errors.New("token secrets are not configured")
)

// Service defines the interface for request authentication.
type Service interface {
	Verify(token string) bool
	Check(token string) error
	VerifyRequest(r *http.Request) bool
	CheckRequest(r *http.Request) error
}

// Impl implements the auth Service interface.
type Impl struct {
	secretKey   string
	secretValue string
	cookieName  string
	logger      zerolog.Logger
}

// New creates a new authenticator for the given secrets. The secrets are
// trimmed once here and never change afterwards.
func New(logger zerolog.Logger, cfg models.AuthConfig) *Impl {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = DefaultCookieName
	}

	return &Impl{
		secretKey:   strings.TrimSpace(cfg.SecretKey),
		secretValue: strings.TrimSpace(cfg.SecretValue),
		cookieName:  cookieName,
		logger:      logger,
	}
}

// CookieName returns the name of the cookie read by VerifyRequest.
func (s *Impl) CookieName() string {
	return s.cookieName
}

// Verify reports whether token is valid.
func (s *Impl) Verify(token string) bool {
	return s.Check(token) == nil
}

// Check returns nil for a valid token and the rejection reason otherwise.
func (s *Impl) Check(token string) error {
	if token == "" {
		s.logger.Warn().Msg("token not found")
		return ErrNoToken
	}

	parts := strings.Split(token, separator)
	if len(parts) != 2 {
		s.logger.Warn().Int("parts", len(parts)).Msg("invalid token format")
		return ErrMalformedToken
	}
	value, signature := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	if s.secretKey == "" || s.secretValue == "" {
		s.logger.Error().Msg("token secrets are not configured")
		return ErrNotConfigured
	}

	expected := Sign(s.secretKey, s.secretValue)
	if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
		s.logger.Warn().Msg("invalid signature")
		s.logger.Debug().
			Str("computed", expected).
			Str("provided", signature).
			Msg("signature mismatch")
		return ErrSignatureMismatch
	}

	if subtle.ConstantTimeCompare([]byte(value), []byte(s.secretValue)) != 1 {
		s.logger.Warn().Msg("invalid token value")
		return ErrValueMismatch
	}

	return nil
}

// VerifyRequest reports whether r carries a valid token cookie.
func (s *Impl) VerifyRequest(r *http.Request) bool {
	return s.CheckRequest(r) == nil
}

// CheckRequest is Check applied to the token cookie of r.
func (s *Impl) CheckRequest(r *http.Request) error {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		s.logger.Warn().Str("cookie", s.cookieName).Msg("cookie not found")
		return ErrNoToken
	}
	return s.Check(cookie.Value)
}

// Token returns the token accepted for the configured secrets.
func (s *Impl) Token() (string, error) {
	if s.secretKey == "" || s.secretValue == "" {
		return "", ErrNotConfigured
	}
	return s.secretValue + separator + Sign(s.secretKey, s.secretValue), nil
}

// Sign returns the hex encoded HMAC-SHA256 of value keyed with key.
func Sign(key, value string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

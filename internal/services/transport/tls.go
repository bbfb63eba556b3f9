// Package transport loads the TLS credentials of the HTTP listener.
package transport

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// SecureTransport produces the TLS configuration a listener serves with.
type SecureTransport interface {
	TLSConfig() (*tls.Config, error)
}

var _ SecureTransport = (*FileTransport)(nil)

// FileTransport serves a PEM certificate chain and private key read from disk.
type FileTransport struct {
	certFile string
	keyFile  string
	logger   zerolog.Logger
}

// NewFileTransport creates a transport for the given PEM files. Nothing is
// read until TLSConfig is called.
func NewFileTransport(logger zerolog.Logger, certFile, keyFile string) *FileTransport {
	return &FileTransport{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   logger,
	}
}

// TLSConfig loads the key pair and returns a server configuration restricted
// to TLS 1.2+ with forward-secret AEAD cipher suites.
func (t *FileTransport) TLSConfig() (*tls.Config, error) {
	if err := checkFile(t.certFile); err != nil {
		return nil, fmt.Errorf("server certificate: %w", err)
	}
	if err := checkFile(t.keyFile); err != nil {
		return nil, fmt.Errorf("server key: %w", err)
	}

	t.logger.Debug().Str("cert", t.certFile).Str("key", t.keyFile).Msg("loading server certificates")

	cert, err := tls.LoadX509KeyPair(t.certFile, t.keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificates: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		},
		NextProtos: []string{"http/1.1"},
	}, nil
}

func checkFile(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

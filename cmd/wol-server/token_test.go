package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fgeck/wol-server/internal/config"
	"github.com/fgeck/wol-server/internal/services/auth"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range config.Keys {
		t.Setenv(k, "")
	}
}

func runToken(t *testing.T) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	err := printToken(cmd, nil)
	return strings.TrimSpace(out.String()), err
}

func TestPrintToken_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("COOKIE_SECRET_KEY", "k")
	t.Setenv("COOKIE_SECRET_VALUE", "v")

	token, err := runToken(t)

	require.NoError(t, err)
	assert.Equal(t, "v."+auth.Sign("k", "v"), token)
}

func TestPrintToken_FromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("COOKIE_SECRET_KEY=file-key\nCOOKIE_SECRET_VALUE=file-value\n"), 0o600))

	envFile = path
	t.Cleanup(func() { envFile = "" })

	token, err := runToken(t)

	require.NoError(t, err)
	assert.Equal(t, "file-value."+auth.Sign("file-key", "file-value"), token)
}

func TestPrintToken_MissingSecrets(t *testing.T) {
	clearEnv(t)

	_, err := runToken(t)

	assert.ErrorIs(t, err, auth.ErrNotConfigured)
}

func TestPrintToken_SeparatorInValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("COOKIE_SECRET_KEY", "k")
	t.Setenv("COOKIE_SECRET_VALUE", "a.b")

	_, err := runToken(t)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must not contain '.'")
}

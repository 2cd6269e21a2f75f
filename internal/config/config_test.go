package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tom-bartk/tuicub-server/internal/auth"
	"github.com/tom-bartk/tuicub-server/internal/config"
)

func TestLoadFallsBackToDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("TUICUBSERV_CONF", filepath.Join(t.TempDir(), "does-not-exist.toml"))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDBURL, cfg.DBURL)
	assert.Equal(t, config.DefaultLogfilePath, cfg.LogfilePath)
	assert.Equal(t, config.DefaultMessagesHost, cfg.MessagesHost)
	assert.Equal(t, config.DefaultMessagesPort, cfg.MessagesPort)
	assert.Equal(t, auth.HashSecret(config.DefaultSecret), cfg.MessagesSecretHash)
	assert.Equal(t, auth.HashSecret(config.DefaultSecret), cfg.EventsSecretHash)
}

func TestLoadReadsTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[db]
url = "postgresql://custom/db"

[logging]
logfile = "/var/log/tuicub.log"

[messages]
host = "bus.internal"
port = 9999
secret = "shh"

[events]
secret = "alsoshh"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	t.Setenv("TUICUBSERV_CONF", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgresql://custom/db", cfg.DBURL)
	assert.Equal(t, "/var/log/tuicub.log", cfg.LogfilePath)
	assert.Equal(t, "bus.internal", cfg.MessagesHost)
	assert.Equal(t, 9999, cfg.MessagesPort)
	assert.Equal(t, auth.HashSecret("shh"), cfg.MessagesSecretHash)
	assert.Equal(t, auth.HashSecret("alsoshh"), cfg.EventsSecretHash)
}

func TestLoadSecretsAreHashedNotPlaintext(t *testing.T) {
	t.Setenv("TUICUBSERV_CONF", filepath.Join(t.TempDir(), "missing.toml"))
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.NotEqual(t, config.DefaultSecret, cfg.MessagesSecretHash)
}

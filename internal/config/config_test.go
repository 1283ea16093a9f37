package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[storage]
driver = "memory"

[database]
host = "db"
password = "from-file"

[booking]
promote_batch = 5
retry_base_delay_ms = 50
timezone = "Asia/Kolkata"
`)
	t.Setenv("EFFIQ_DB_PASSWORD", "secret")
	t.Setenv("EFFIQ_DB_PORT", "6543")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 5, cfg.Booking.PromoteBatch)
	assert.Equal(t, 50*time.Millisecond, cfg.Booking.RetryBaseDelay())
	assert.Equal(t, int64(100), cfg.Booking.EmergencyFeeSelf)
	assert.Contains(t, cfg.Database.DSN(), "host=db port=6543")

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "[storage]\ndriver = \"mongo\""},
		{"queue without redis", "[notifications]\ndelivery = \"queue\""},
		{"bad timezone", "[booking]\ntimezone = \"Mars/Olympus\""},
		{"zero batch", "[booking]\npromote_batch = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("EFFIQ_HTTP_PORT", "eighty")

	_, err := Load(writeConfig(t, ""))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

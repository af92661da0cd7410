package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/solve3/go-solve3/common/types"
)

func TestLoadConfig(t *testing.T) {
	vip := viper.New()
	err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), vip)
	require.ErrorContains(t, err, "failed to read config file")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), *cfg)
	require.Equal(t, 300*time.Second, cfg.Engine.DefaultValidPeriod)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[main]
data-folder = "/var/lib/solve3"
metrics = true
db-busy-timeout = "250ms"

[engine]
default-valid-period = "10m"
pool = "0x00000000000000000000000000000000000000ff"

[logging]
engine = "debug"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/solve3", cfg.DataDir)
	require.Equal(t, filepath.Join("/var/lib/solve3", "state.sql"), cfg.DatabasePath())
	require.Equal(t, filepath.Join("/var/lib/solve3", "solve3.lock"), cfg.LockPath())
	require.True(t, cfg.CollectMetrics)
	require.Equal(t, 250*time.Millisecond, cfg.DatabaseBusyTimeout)
	require.Equal(t, 10*time.Minute, cfg.Engine.DefaultValidPeriod)
	require.Equal(t, types.BytesToAddress([]byte{0xff}), cfg.Engine.Pool)
	require.Equal(t, "debug", cfg.Logging.Engine)
	// untouched values keep defaults
	require.Equal(t, DefaultConfig().Engine.SignersCacheSize, cfg.Engine.SignersCacheSize)
	require.Equal(t, path, cfg.ConfigFile)
}

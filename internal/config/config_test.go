package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wtfsayo/beerscape/internal/config"
)

func TestLoadFromFileMissing(t *testing.T) {
	cfg, err := config.LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	require.Equal(t, 10_000, cfg.App.Target)
	require.EqualValues(t, 1, cfg.App.MinID)
	require.EqualValues(t, 4_000_000, cfg.App.MaxID)
	require.Equal(t, 10, cfg.App.Concurrency)
	require.Equal(t, 10*time.Second, cfg.App.RequestTimeout())
}

func TestLoadFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(`
[application]
target = 50
min_id = 10
max_id = 100
concurrency = 3
request_delay_ms = 5
`), 0o644))

	cfg, err := config.LoadFromFile(p)
	require.NoError(t, err)

	require.Equal(t, 50, cfg.App.Target)
	require.EqualValues(t, 10, cfg.App.MinID)
	require.EqualValues(t, 100, cfg.App.MaxID)
	require.Equal(t, 3, cfg.App.Concurrency)
	require.Equal(t, 5*time.Millisecond, cfg.App.RequestDelay())
	require.EqualValues(t, 91, cfg.App.RangeSize())

	// untouched fields keep their defaults
	require.Equal(t, 3, cfg.App.MaxRetries)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	cfg.App.Target = 0
	require.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.App.MinID = 10
	cfg.App.MaxID = 5
	require.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.App.Concurrency = 0
	require.Error(t, cfg.Validate())
}

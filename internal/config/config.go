package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/trim21/errgo"
)

type Application struct {
	BaseURL     string `toml:"base_url"`
	DownloadDir string `toml:"download_dir"`
	UserAgent   string `toml:"user_agent"`

	Target int    `toml:"target"`
	MinID  uint32 `toml:"min_id"`
	MaxID  uint32 `toml:"max_id"`

	Concurrency int `toml:"concurrency"`
	MaxRetries  int `toml:"max_retries"`

	RetryBackoffMinMS int `toml:"retry_backoff_min_ms"`
	RetryBackoffMaxMS int `toml:"retry_backoff_max_ms"`
	RequestDelayMS    int `toml:"request_delay_ms"`
	RequestTimeoutMS  int `toml:"request_timeout_ms"`
}

type Config struct {
	App Application `toml:"application"`
}

func Default() Config {
	return Config{
		App: Application{
			BaseURL:           "https://redacted-recipes.com/download.php",
			DownloadDir:       "recipes",
			UserAgent:         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148",
			Target:            10_000,
			MinID:             1,
			MaxID:             4_000_000,
			Concurrency:       10,
			MaxRetries:        3,
			RetryBackoffMinMS: 500,
			RetryBackoffMaxMS: 2000,
			RequestDelayMS:    100,
			RequestTimeoutMS:  10_000,
		},
	}
}

// LoadFromFile reads path on top of defaults. A missing file is not an
// error, the defaults already describe a working setup.
func LoadFromFile(path string) (Config, error) {
	var cfg = Default()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, errgo.Wrap(err, "failed to parse config file")
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.App.Target <= 0 {
		return fmt.Errorf("config: target must be positive, got %d", c.App.Target)
	}

	if c.App.MinID > c.App.MaxID {
		return fmt.Errorf("config: min_id %d > max_id %d", c.App.MinID, c.App.MaxID)
	}

	if c.App.Concurrency <= 0 {
		return fmt.Errorf("config: concurrency must be positive, got %d", c.App.Concurrency)
	}

	if c.App.MaxRetries < 0 {
		return fmt.Errorf("config: max_retries must not be negative, got %d", c.App.MaxRetries)
	}

	return nil
}

func (a Application) RetryBackoffMin() time.Duration {
	return time.Duration(a.RetryBackoffMinMS) * time.Millisecond
}

func (a Application) RetryBackoffMax() time.Duration {
	return time.Duration(a.RetryBackoffMaxMS) * time.Millisecond
}

func (a Application) RequestDelay() time.Duration {
	return time.Duration(a.RequestDelayMS) * time.Millisecond
}

func (a Application) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutMS) * time.Millisecond
}

// RangeSize is the number of ids in [MinID, MaxID].
func (a Application) RangeSize() uint64 {
	return uint64(a.MaxID) - uint64(a.MinID) + 1
}

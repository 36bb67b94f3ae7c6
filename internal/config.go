package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime configuration, loaded from the environment.
// The backend origin is a single configured value; the one-shot nl2sql
// endpoint can be pointed at a different origin when the deployment
// splits them.
type Config struct {
	APIURL      string        `env:"REPORTCTL_API_URL" envDefault:"http://127.0.0.1:8000"`
	NL2SQLURL   string        `env:"REPORTCTL_NL2SQL_URL"`
	PageSize    int           `env:"REPORTCTL_PAGE_SIZE" envDefault:"50"`
	HTTPTimeout time.Duration `env:"REPORTCTL_HTTP_TIMEOUT" envDefault:"60s"`
	StateDir    string        `env:"REPORTCTL_STATE_DIR"`
}

// LoadConfig parses the environment and fills in derived defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.NL2SQLURL == "" {
		cfg.NL2SQLURL = cfg.APIURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.StateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.StateDir = filepath.Join(homeDir, ".reportctl")
	}
	return cfg, nil
}

// StatePath returns the path of the local state database
func (c *Config) StatePath() string {
	return filepath.Join(c.StateDir, "state.db")
}

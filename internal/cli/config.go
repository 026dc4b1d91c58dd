package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edvin/crmpanel/internal/session"
)

const (
	// AppName names the config directory under $XDG_CONFIG_HOME.
	AppName        = "crmctl"
	configFileName = "config.yaml"

	DefaultAPIURL = "http://localhost:8080"
)

// Config is the optional config.yaml next to the session state.
type Config struct {
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/crmctl/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := session.ConfigDir(AppName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig reads path. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{APIURL: DefaultAPIURL}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("parse config %s: timeout must not be negative", path)
	}
	return cfg, nil
}

// Override applies CRM_API_URL and then the -api flag, each only when set.
func (c *Config) Override(envURL, flagURL string) {
	if envURL != "" {
		c.APIURL = envURL
	}
	if flagURL != "" {
		c.APIURL = flagURL
	}
}

// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 30 * time.Second
	// defaultRefreshInterval is the fallback dashboard refresh interval.
	defaultRefreshInterval = 10 * time.Second
	// defaultTimespan is the lookback window used when the config omits one.
	defaultTimespan = "1h"
)

// Config represents the top-level application configuration.
type Config struct {
	APIBase        string   `json:"apiBase"`
	Project        string   `json:"project,omitempty"`
	Projects       []string `json:"projects,omitempty"`
	Token          string   `json:"token,omitempty"`
	TokenFile      string   `json:"tokenFile,omitempty"`
	Timespan       string   `json:"timespan,omitempty"`
	RefreshSeconds int      `json:"refresh,omitempty"`
	TimeoutSeconds int      `json:"timeout,omitempty"`
	LogFile        string   `json:"logFile,omitempty"`
	Debug          bool     `json:"debug"`
	Charts         []Chart  `json:"charts"`
	ConfigPath     string   `json:"-"`
}

// Chart describes a single dashboard chart backed by one metric.
type Chart struct {
	Title  string   `json:"title,omitempty"`
	Metric string   `json:"metric"`
	Kind   string   `json:"kind,omitempty"`
	Unit   string   `json:"unit,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

// DisplayTitle returns the chart's configured title, falling back to the metric name.
func (c Chart) DisplayTitle() string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	return c.Metric
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the dashboard refresh interval, applying the default if not set.
func (c Config) RefreshInterval() time.Duration {
	if c.RefreshSeconds <= 0 {
		return defaultRefreshInterval
	}
	return time.Duration(c.RefreshSeconds) * time.Second
}

// DefaultTimespan returns the configured lookback window, applying a default if not set.
func (c Config) DefaultTimespan() string {
	if ts := strings.TrimSpace(c.Timespan); ts != "" {
		return ts
	}
	return defaultTimespan
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "metricdeck.log"
}

// ProjectList returns the selectable projects, folding the single-project field
// into the list when no explicit list is configured.
func (c Config) ProjectList() []string {
	if len(c.Projects) > 0 {
		return c.Projects
	}
	if strings.TrimSpace(c.Project) != "" {
		return []string{c.Project}
	}
	return nil
}

// BearerToken resolves the API token from the config, preferring the inline
// token over the token file.
func (c Config) BearerToken() (string, error) {
	if t := strings.TrimSpace(c.Token); t != "" {
		return t, nil
	}
	if c.TokenFile == "" {
		return "", errors.New("config must set either token or tokenFile")
	}
	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		return "", fmt.Errorf("could not read token file %q: %w", c.TokenFile, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %q is empty", c.TokenFile)
	}
	return token, nil
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads and validates the configuration
// from a specific file path.
func loadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := validate(data); err != nil {
		return Config{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(config.APIBase) == "" {
		return Config{}, errors.New("config must set apiBase")
	}
	if len(config.Charts) == 0 {
		return Config{}, errors.New("config must contain at least one chart")
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}

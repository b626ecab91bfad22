// Package config loads horoscope settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/horoscope/internal/selection"
)

const (
	configPathEnv = "HOROSCOPE_CONFIG"
	apiURLEnv     = "HOROSCOPE_API_URL"
	apiKeyEnv     = "HOROSCOPE_API_KEY"
	adsURLEnv     = "HOROSCOPE_ADS_URL"
	logLevelEnv   = "HOROSCOPE_LOG_LEVEL"
	logFileEnv    = "HOROSCOPE_LOG_FILE"
	datasetEnv    = "HOROSCOPE_DATASET"
)

// Config holds every setting the app and its commands read.
type Config struct {
	Log         LogConfig       `yaml:"log"`
	API         APIConfig       `yaml:"api"`
	Ads         AdsConfig       `yaml:"ads"`
	Selection   SelectionConfig `yaml:"selection"`
	Dataset     DatasetConfig   `yaml:"dataset"`
	Astrologers []Astrologer    `yaml:"astrologers"`
}

// LogConfig controls the zap file logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// APIConfig is the endpoint questions are submitted to.
type APIConfig struct {
	Method  string            `yaml:"method"`
	URL     string            `yaml:"url"`
	Params  map[string]string `yaml:"params"`
	APIKey  string            `yaml:"apiKey"`
	Timeout time.Duration     `yaml:"timeout"`
}

// AdsConfig points at the interstitial ad server. An empty BaseURL
// disables ads.
type AdsConfig struct {
	BaseURL      string        `yaml:"baseUrl"`
	QuestionUnit string        `yaml:"questionUnit"`
	Timeout      time.Duration `yaml:"timeout"`
}

// SelectionConfig is the sign picker policy. Capacity 0 lifts the cap.
type SelectionConfig struct {
	Capacity      int  `yaml:"capacity"`
	AllowSameSign bool `yaml:"allowSameSign"`
}

// DatasetConfig locates an optional compatibility dataset override.
type DatasetConfig struct {
	OverridePath string `yaml:"overridePath"`
}

// Astrologer is an entry in the roster a question can be addressed to.
// School is a translation key that may reference %{word}.
type Astrologer struct {
	Name   string `yaml:"name"`
	School string `yaml:"school"`
	Photo  string `yaml:"photo"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		API: APIConfig{
			Method:  "POST",
			URL:     "https://api.horoscope.example/v1/astrologers/questions",
			Timeout: 15 * time.Second,
		},
		Ads: AdsConfig{
			QuestionUnit: "astrologers-interstitial",
			Timeout:      20 * time.Second,
		},
		Selection: SelectionConfig{Capacity: selection.PairSize},
		Astrologers: []Astrologer{
			{Name: "Maria", School: "Western %{word}"},
			{Name: "Lucia", School: "Vedic %{word}"},
			{Name: "Chen", School: "Chinese %{word}"},
			{Name: "Amara", School: "Hellenistic %{word}"},
		},
	}
}

// DefaultPath returns $HOROSCOPE_CONFIG, else
// $XDG_CONFIG_HOME/horoscope/config.yaml.
func DefaultPath() string {
	if p := os.Getenv(configPathEnv); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "horoscope", "config.yaml")
}

// Load reads path over the defaults, then applies HOROSCOPE_* environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiURLEnv); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.API.APIKey = v
	}
	if v, ok := os.LookupEnv(adsURLEnv); ok {
		c.Ads.BaseURL = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(logFileEnv); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(datasetEnv); v != "" {
		c.Dataset.OverridePath = v
	}
}

// Validate checks the settings the app cannot run without.
func (c Config) Validate() error {
	var problems []string

	u, err := url.Parse(c.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("api.url %q must be an absolute URL", c.API.URL))
	}
	if c.Ads.BaseURL != "" {
		if u, err := url.Parse(c.Ads.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("ads.baseUrl %q must be an absolute URL", c.Ads.BaseURL))
		}
	}
	if c.Selection.Capacity < 0 {
		problems = append(problems, "selection.capacity must not be negative")
	}
	if len(c.Astrologers) == 0 {
		problems = append(problems, "astrologers must list at least one entry")
	}
	for i, a := range c.Astrologers {
		if strings.TrimSpace(a.Name) == "" {
			problems = append(problems, fmt.Sprintf("astrologers[%d].name is empty", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Policy converts the selection settings.
func (s SelectionConfig) Policy() selection.Policy {
	return selection.Policy{Capacity: s.Capacity, AllowSameSign: s.AllowSameSign}
}

// Values returns the API query parameters as url.Values.
func (a APIConfig) Values() url.Values {
	if len(a.Params) == 0 {
		return nil
	}
	v := make(url.Values, len(a.Params))
	for k, p := range a.Params {
		v.Set(k, p)
	}
	return v
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{configPathEnv, apiURLEnv, apiKeyEnv, logLevelEnv, logFileEnv, datasetEnv} {
		t.Setenv(k, "")
	}
	// LookupEnv distinguishes unset from empty, so unset it for real.
	t.Setenv(adsURLEnv, "")
	os.Unsetenv(adsURLEnv)
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 2, cfg.Selection.Policy().Capacity)
	assert.False(t, cfg.Selection.Policy().AllowSameSign)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
api:
  url: https://questions.example.test/ask
  timeout: 3s
  params:
    lang: en
ads:
  baseUrl: https://ads.example.test
selection:
  capacity: 0
  allowSameSign: true
astrologers:
  - name: Zed
    school: "Vedic %{word}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://questions.example.test/ask", cfg.API.URL)
	assert.Equal(t, "POST", cfg.API.Method, "unset keys keep their defaults")
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "en", cfg.API.Values().Get("lang"))
	assert.Equal(t, "https://ads.example.test", cfg.Ads.BaseURL)
	assert.Equal(t, "astrologers-interstitial", cfg.Ads.QuestionUnit)
	assert.Equal(t, 0, cfg.Selection.Capacity)
	assert.True(t, cfg.Selection.AllowSameSign)
	require.Len(t, cfg.Astrologers, 1)
	assert.Equal(t, "Zed", cfg.Astrologers[0].Name)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(apiURLEnv, "https://env.example.test/q")
	t.Setenv(apiKeyEnv, "k")
	t.Setenv(adsURLEnv, "https://ads.env.test")
	t.Setenv(logLevelEnv, "debug")
	t.Setenv(datasetEnv, "/tmp/overrides.yaml")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.test/q", cfg.API.URL)
	assert.Equal(t, "k", cfg.API.APIKey)
	assert.Equal(t, "https://ads.env.test", cfg.Ads.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/overrides.yaml", cfg.Dataset.OverridePath)
}

func TestEmptyAdsEnvDisablesAds(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "ads:\n  baseUrl: https://ads.example.test\n")
	t.Setenv(adsURLEnv, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Ads.BaseURL)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	tests := map[string]string{
		"relative api url": "api:\n  url: /questions\n",
		"bad ads url":      "ads:\n  baseUrl: ads.local\n",
		"negative cap":     "selection:\n  capacity: -1\n",
		"empty roster":     "astrologers: []\n",
		"nameless":         "astrologers:\n  - school: x\n",
		"bad yaml":         "api: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg/horoscope/config.yaml", DefaultPath())

	t.Setenv(configPathEnv, "/etc/horoscope.yaml")
	assert.Equal(t, "/etc/horoscope.yaml", DefaultPath())
}

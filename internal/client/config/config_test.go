package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000/api", c.APIURL)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 4*time.Hour, c.InstallCooldown)
	assert.Equal(t, "1.0", c.ConsentVersion)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvAPIURL, "https://env.example/api")
	t.Setenv(EnvAnalyticsWriteKey, "wk_env")

	path := filepath.Join(t.TempDir(), "nexo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: https://file.example/api\ninstall_cooldown: 24h\n"), 0o600))

	cfg, err := LoadConfig([]string{"shell", "-c", path, "-i", "7"})
	require.NoError(t, err)

	assert.Equal(t, "https://file.example/api", cfg.APIURL, "file overrides env")
	assert.Equal(t, "wk_env", cfg.AnalyticsWriteKey)
	assert.Equal(t, 24*time.Hour, cfg.InstallCooldown)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)

	cfg, err = LoadConfig([]string{"-c", path, "--api", "https://flag.example"})
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example", cfg.APIURL, "flags override file")
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("NEXO_ANALYTICS_URL=https://collector.example/track\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv(EnvAnalyticsURL) })

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://collector.example/track", cfg.AnalyticsURL)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig([]string{"-c", "missing.json"})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-i", "abc"})
	require.Error(t, err)

	_, err = LoadConfig([]string{"-i", "0"})
	require.Error(t, err)
}

func TestParseEnv(t *testing.T) {
	env := map[string]string{
		EnvAPIURL:       "https://api.nexo.chat",
		EnvDatabasePath: "/tmp/nexo.db",
		EnvLocale:       "es",
		EnvStandalone:   "true",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg, lookup)

	want := Config{}
	want.LoadDefaults()
	want.APIURL = "https://api.nexo.chat"
	want.DatabasePath = "/tmp/nexo.db"
	want.Locale = "es"
	want.Standalone = true

	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_EmptyValuesKeepDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()
	parseEnv(&cfg, func(string) (string, bool) { return "", true })

	want := Config{}
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(want, cfg))
}

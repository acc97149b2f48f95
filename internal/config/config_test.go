package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, TrendSourceStore, cfg.Classifier.TrendSource)
	assert.Equal(t, int64(10*1024*1024), cfg.FileStore.MaxFileSize)
	assert.Equal(t, 720*time.Hour, cfg.Retention.MaxAge)
	assert.Zero(t, cfg.Retention.Interval)
	assert.False(t, cfg.Keycloak.Enabled())
	assert.Empty(t, cfg.Redis.Host)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9000
classifier:
  base_url: http://ml:5000
  trend_source: classifier
redis:
  host: redis
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("PUMPGUARD_CLASSIFIER__TIMEOUT", "5s")
	t.Setenv("PUMPGUARD_SERVER__PORT", "9100")

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "http://ml:5000", cfg.Classifier.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, TrendSourceClassifier, cfg.Classifier.TrendSource)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr())
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{
				TimescaleDB: PostgresConfig{Host: "ts"},
				AppDB:       PostgresConfig{Host: "pg"},
			},
			Classifier: ClassifierConfig{BaseURL: "http://ml", Timeout: time.Second, TrendSource: TrendSourceStore},
			FileStore:  FileStoreConfig{BasePath: "/tmp", MaxFileSize: 1},
		}
	}
	require.NoError(t, validateConfig(valid()))

	cases := map[string]func(*Config){
		"no timescale host": func(c *Config) { c.Database.TimescaleDB.Host = "" },
		"no classifier":     func(c *Config) { c.Classifier.BaseURL = "" },
		"bad trend source":  func(c *Config) { c.Classifier.TrendSource = "browser" },
		"zero max size":     func(c *Config) { c.FileStore.MaxFileSize = 0 },
		"negative interval": func(c *Config) { c.Retention.Interval = -time.Second },
		"keycloak no realm": func(c *Config) { c.Keycloak.URL = "http://kc" },
	}
	for name, mutate := range cases {
		cfg := valid()
		mutate(cfg)
		assert.Error(t, validateConfig(cfg), name)
	}
}

func TestPostgresDSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "pumps", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=pumps sslmode=disable", c.DSN())
}

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg := fromViper(newTestViper())

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "https://dati.unibo.it/api/action/datastore_search", cfg.Datastore.URL)
	assert.Equal(t, "Europe/Rome", cfg.Datastore.Timezone)
	assert.Equal(t, 30*time.Second, cfg.Datastore.Timeout)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DATASTORE_TIMEOUT", "5s")
	t.Setenv("STORAGE_DRIVER", "MinIO")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("CACHE_TTL", "not-a-duration")

	cfg := fromViper(newTestViper())

	assert.Equal(t, 5*time.Second, cfg.Datastore.Timeout)
	assert.Equal(t, StorageDriverMinIO, cfg.Storage.Driver)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
}

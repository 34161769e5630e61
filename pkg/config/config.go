package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	StorageDriverLocal = "local"
	StorageDriverMinIO = "minio"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Log       LogConfig
	Datastore DatastoreConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Exports   ExportsConfig
	Metrics   MetricsConfig
	CORS      CORSConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// DatastoreConfig points at the open-data query endpoint.
type DatastoreConfig struct {
	URL      string
	Timeout  time.Duration
	Timezone string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig tunes the response caches in front of the datastore.
type CacheConfig struct {
	TTL        time.Duration
	MemorySize int
}

// StorageConfig selects where exported calendars are written.
type StorageConfig struct {
	Driver string
	Dir    string
	MinIO  MinIOConfig
}

type MinIOConfig struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ExportsConfig controls signed download links for stored exports.
type ExportsConfig struct {
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

// MetricsConfig configures where the command line tool dumps its metrics.
type MetricsConfig struct {
	Textfile string
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Datastore = DatastoreConfig{
		URL:      v.GetString("DATASTORE_URL"),
		Timeout:  parseDuration(v.GetString("DATASTORE_TIMEOUT"), 30*time.Second),
		Timezone: v.GetString("DATASTORE_TIMEZONE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		TTL:        parseDuration(v.GetString("CACHE_TTL"), 6*time.Hour),
		MemorySize: v.GetInt("CACHE_MEMORY_SIZE"),
	}

	cfg.Storage = StorageConfig{
		Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		Dir:    v.GetString("STORAGE_DIR"),
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			Region:    v.GetString("MINIO_REGION"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
	}

	cfg.Exports = ExportsConfig{
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
	}

	cfg.Metrics = MetricsConfig{Textfile: v.GetString("METRICS_TEXTFILE")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("DATASTORE_URL", "https://dati.unibo.it/api/action/datastore_search")
	v.SetDefault("DATASTORE_TIMEOUT", "30s")
	v.SetDefault("DATASTORE_TIMEZONE", "Europe/Rome")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("CACHE_TTL", "6h")
	v.SetDefault("CACHE_MEMORY_SIZE", 256)

	v.SetDefault("STORAGE_DRIVER", StorageDriverLocal)
	v.SetDefault("STORAGE_DIR", ".")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_REGION", "us-east-1")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "calendars")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")

	v.SetDefault("METRICS_TEXTFILE", "")
	v.SetDefault("ALLOWED_ORIGINS", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

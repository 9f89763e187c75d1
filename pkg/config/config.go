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

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Cache    CacheConfig
	Roster   RosterConfig
	Photos   PhotosConfig
	Drive    DriveConfig
	Jobs     JobsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig controls redis caching of read-mostly lists.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RosterConfig bounds bulk student uploads.
type RosterConfig struct {
	MaxFileBytes   int64
	PasswordLength int
}

// PhotosConfig configures local photo storage and signed download links.
type PhotosConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	MaxFileBytes    int64
	AllowedMIMEs    []string
	PublicURLBase   string
}

// DriveConfig holds the Google OAuth client used for Drive photo uploads.
type DriveConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	StateTTL     time.Duration
}

// Enabled reports whether Drive credentials are configured.
func (d DriveConfig) Enabled() bool {
	return d.ClientID != "" && d.ClientSecret != "" && d.RedirectURL != ""
}

// JobsConfig tunes the background completion recompute queue.
type JobsConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// ClientConfig is read by rosterctl.
type ClientConfig struct {
	BaseURL   string
	Token     string
	UserType  string
	Timeout   time.Duration
	LogLevel  string
	LogFormat string
}

func newViper() (*viper.Viper, error) {
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
	return v, nil
}

func Load() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:        v.GetString("REDIS_HOST"),
		Port:        v.GetInt("REDIS_PORT"),
		Password:    v.GetString("REDIS_PASSWORD"),
		DB:          v.GetInt("REDIS_DB"),
		PoolSize:    v.GetInt("REDIS_POOL_SIZE"),
		DialTimeout: parseDuration(v.GetString("REDIS_DIAL_TIMEOUT"), 2*time.Second),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.Roster = RosterConfig{
		MaxFileBytes:   positiveInt64(v.GetInt64("ROSTER_MAX_FILE_SIZE"), 5*1024*1024),
		PasswordLength: v.GetInt("ROSTER_PASSWORD_LENGTH"),
	}
	if cfg.Roster.PasswordLength < 8 {
		cfg.Roster.PasswordLength = 12
	}

	cfg.Photos = PhotosConfig{
		StorageDir:      v.GetString("PHOTOS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("PHOTOS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("PHOTOS_SIGNED_URL_TTL"), 24*time.Hour),
		MaxFileBytes:    positiveInt64(v.GetInt64("PHOTOS_MAX_FILE_SIZE"), 10*1024*1024),
		AllowedMIMEs:    splitAndTrim(v.GetString("PHOTOS_ALLOWED_MIME_TYPES")),
		PublicURLBase:   v.GetString("PHOTOS_PUBLIC_URL_BASE"),
	}

	cfg.Drive = DriveConfig{
		ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  v.GetString("GOOGLE_REDIRECT_URI"),
		StateTTL:     parseDuration(v.GetString("DRIVE_STATE_TTL"), 10*time.Minute),
	}

	cfg.Jobs = JobsConfig{
		Workers:    v.GetInt("JOBS_WORKERS"),
		MaxRetries: v.GetInt("JOBS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("JOBS_RETRY_DELAY"), 2*time.Second),
	}

	return cfg, nil
}

// LoadClient reads the rosterctl settings from the environment and .env.
func LoadClient() (*ClientConfig, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return &ClientConfig{
		BaseURL:   strings.TrimRight(v.GetString("YEARBOOK_API_URL"), "/"),
		Token:     v.GetString("YEARBOOK_TOKEN"),
		UserType:  v.GetString("YEARBOOK_USER_TYPE"),
		Timeout:   parseDuration(v.GetString("YEARBOOK_TIMEOUT"), 30*time.Second),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("YEARBOOK_LOG_FORMAT"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "yearbook")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "2s")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "yearbook-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("ROSTER_MAX_FILE_SIZE", 5*1024*1024)
	v.SetDefault("ROSTER_PASSWORD_LENGTH", 12)

	v.SetDefault("PHOTOS_STORAGE_DIR", "./uploads")
	v.SetDefault("PHOTOS_SIGNED_URL_SECRET", "dev_photos_secret")
	v.SetDefault("PHOTOS_SIGNED_URL_TTL", "24h")
	v.SetDefault("PHOTOS_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("PHOTOS_ALLOWED_MIME_TYPES", "image/jpeg,image/png,image/webp")
	v.SetDefault("PHOTOS_PUBLIC_URL_BASE", "http://localhost:8080/api/photos/")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URI", "")
	v.SetDefault("DRIVE_STATE_TTL", "10m")

	v.SetDefault("JOBS_WORKERS", 2)
	v.SetDefault("JOBS_MAX_RETRIES", 3)
	v.SetDefault("JOBS_RETRY_DELAY", "2s")

	v.SetDefault("YEARBOOK_API_URL", "http://localhost:8080/api")
	v.SetDefault("YEARBOOK_TOKEN", "")
	v.SetDefault("YEARBOOK_USER_TYPE", "")
	v.SetDefault("YEARBOOK_TIMEOUT", "30s")
	v.SetDefault("YEARBOOK_LOG_FORMAT", "console")
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

func positiveInt64(value, fallback int64) int64 {
	if value <= 0 {
		return fallback
	}
	return value
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

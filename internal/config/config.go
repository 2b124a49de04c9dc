package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config holds the server configuration read from the environment.
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string

	JWTSecret string `json:"-"` // Never serialize
	TokenTTL  time.Duration

	FeedCacheTTL time.Duration

	Storage StorageConfig

	// Location defines what a calendar day is for diaries and assessments.
	Location *time.Location

	QuestionnaireFile string
	CORSOrigins       string

	LogLevel string
	LogDev   bool
}

// StorageConfig configures the S3-compatible photo bucket.
type StorageConfig struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
	URLTTL    time.Duration
}

// Load reads the configuration, falling back to local development defaults.
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "moodiary"),
		RedisAddr:         strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),
		HTTPPort:          getEnv("PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		QuestionnaireFile: os.Getenv("QUESTIONNAIRE_FILE"),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "*"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Storage: StorageConfig{
			Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
			Bucket:    getEnv("S3_BUCKET", "diary-photos"),
			Region:    getEnv("S3_REGION", "us-east-1"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.FeedCacheTTL, err = getDuration("FEED_CACHE_TTL", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Storage.URLTTL, err = getDuration("PHOTO_URL_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.LogDev, err = getBool("LOG_DEV", false); err != nil {
		return nil, err
	}

	tz := getEnv("TIMEZONE", "Asia/Tokyo")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("config: TIMEZONE %q: %w", tz, err)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

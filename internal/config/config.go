package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultJWTAccessTTL = "15m"
	defaultUploadURLTTL = "15m"
	defaultReapGrace    = "1h"
	defaultMaxFiles     = "30"
	defaultMaxCourses   = "10"
	defaultMaxStorage   = "5GB"
	defaultMaxFileSize  = "50MB"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultKafkaTopic   = "file.process"
	defaultMinIOBucket  = "luma-files"
)

// Config is the full runtime configuration, loaded once at startup.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret    string
	JWTAccessTTL time.Duration

	// Upload admission limits.
	MaxFilesPerCourse int64
	MaxCoursesPerUser int64
	MaxStoragePerUser int64 // bytes, aggregate across all of a user's courses
	MaxFileSize       int64 // bytes, single file

	UploadURLTTL time.Duration
	ReapGrace    time.Duration

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	KafkaBrokers []string
	KafkaTopic   string

	InternalToken string
}

func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.UploadURLTTL, err = parseDurationEnv("UPLOAD_URL_TTL", defaultUploadURLTTL)
	if err != nil {
		return nil, err
	}
	cfg.ReapGrace, err = parseDurationEnv("REAP_GRACE", defaultReapGrace)
	if err != nil {
		return nil, err
	}

	cfg.MaxFilesPerCourse, err = parseIntEnv("MAX_FILES_PER_COURSE", defaultMaxFiles)
	if err != nil {
		return nil, err
	}
	cfg.MaxCoursesPerUser, err = parseIntEnv("MAX_COURSES_PER_USER", defaultMaxCourses)
	if err != nil {
		return nil, err
	}
	cfg.MaxStoragePerUser, err = parseByteSizeEnv("MAX_STORAGE_PER_USER", defaultMaxStorage)
	if err != nil {
		return nil, err
	}
	cfg.MaxFileSize, err = parseByteSizeEnv("MAX_FILE_SIZE", defaultMaxFileSize)
	if err != nil {
		return nil, err
	}

	cfg.MinIOEndpoint = strings.TrimSpace(os.Getenv("MINIO_ENDPOINT"))
	cfg.MinIOAccessKey = strings.TrimSpace(os.Getenv("MINIO_ACCESS_KEY"))
	cfg.MinIOSecretKey = strings.TrimSpace(os.Getenv("MINIO_SECRET_KEY"))
	cfg.MinIOBucket = getEnv("MINIO_BUCKET", defaultMinIOBucket)
	cfg.MinIOUseSSL = strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true")

	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", defaultKafkaTopic)

	cfg.InternalToken = strings.TrimSpace(os.Getenv("LUMA_INTERNAL_TOKEN"))

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	return d, nil
}

func parseIntEnv(key, fallback string) (int64, error) {
	raw := getEnv(key, fallback)
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s=%q: must be positive", key, raw)
	}
	return n, nil
}

// parseByteSizeEnv accepts either a plain byte count ("5368709120") or a
// human-friendly suffix form ("5GB", "50MB", "512KB").
func parseByteSizeEnv(key, fallback string) (int64, error) {
	raw := strings.TrimSpace(getEnv(key, fallback))
	upper := strings.ToUpper(raw)

	mult := int64(1)
	switch {
	case strings.HasSuffix(upper, "GB"):
		mult = 1 << 30
		upper = strings.TrimSuffix(upper, "GB")
	case strings.HasSuffix(upper, "MB"):
		mult = 1 << 20
		upper = strings.TrimSuffix(upper, "MB")
	case strings.HasSuffix(upper, "KB"):
		mult = 1 << 10
		upper = strings.TrimSuffix(upper, "KB")
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(upper), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	bytes := int64(n * float64(mult))
	if bytes <= 0 {
		return 0, fmt.Errorf("invalid %s=%q: must be positive", key, raw)
	}
	return bytes, nil
}

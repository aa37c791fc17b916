// Package config loads server and CLI settings from the environment, with
// an optional .env file in the working directory.
package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Image backends.
const (
	ImagesLocal = "local"
	ImagesS3    = "s3"
)

// Config holds all configuration for the application.
type Config struct {
	Env        Environment
	ServerAddr string

	StoreBackend string
	SQLitePath   string
	DBURL        string
	RedisURL     string

	ImageBackend string
	ImageDir     string
	S3Bucket     string
	AWSRegion    string

	VisionBaseURL      string
	OpenAIAPIKey       string
	VisionModel        string
	VisionTimeout      time.Duration
	RekognitionEnabled bool

	CORSOrigins []string
	// Location for day boundaries; time.Local unless TZ_NAME is set.
	Location      *time.Location
	MigrationsDir string
}

// Load reads .env (a missing file is fine), then the environment, applies
// defaults and validates. Every problem is reported in one ValidationErrors.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[config] Error loading .env: %v", err)
	}

	var errs ValidationErrors
	cfg := &Config{
		Env:           GetEnvironment(),
		ServerAddr:    getenv("SERVER_ADDR", "localhost:3000"),
		StoreBackend:  strings.ToLower(getenv("STORE_BACKEND", StoreSQLite)),
		SQLitePath:    getenv("SQLITE_PATH", "nutrivision.db"),
		DBURL:         os.Getenv("DB_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		ImageBackend:  strings.ToLower(getenv("IMAGE_BACKEND", ImagesLocal)),
		ImageDir:      getenv("IMAGE_DIR", "images"),
		S3Bucket:      os.Getenv("S3_BUCKET_NAME"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		VisionBaseURL: getenv("VISION_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		VisionModel:   getenv("VISION_MODEL", "gpt-4o-mini"),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),
		Location:      time.Local,
		MigrationsDir: getenv("MIGRATIONS_DIR", "db"),
	}

	timeout, err := time.ParseDuration(getenv("VISION_TIMEOUT", "30s"))
	if err != nil {
		errs.add("VISION_TIMEOUT", "%v", err)
	}
	cfg.VisionTimeout = timeout

	if v := os.Getenv("REKOGNITION_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			errs.add("REKOGNITION_ENABLED", "must be a boolean (got %q)", v)
		}
		cfg.RekognitionEnabled = enabled
	}

	if name := os.Getenv("TZ_NAME"); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			errs.add("TZ_NAME", "%v", err)
		} else {
			cfg.Location = loc
		}
	}

	if err := cfg.Validate(); err != nil {
		var more ValidationErrors
		if errors.As(err, &more) {
			errs = append(errs, more...)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

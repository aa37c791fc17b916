package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors reports every problem found at once.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

func (es *ValidationErrors) add(field, format string, args ...any) {
	*es = append(*es, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks that each selected backend has what it needs.
func (c *Config) Validate() error {
	var errs ValidationErrors

	switch c.StoreBackend {
	case StoreSQLite:
		if c.SQLitePath == "" {
			errs.add("SQLITE_PATH", "required for the sqlite store")
		}
	case StorePostgres:
		if c.DBURL == "" {
			errs.add("DB_URL", "required for the postgres store")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			errs.add("REDIS_URL", "required for the redis store")
		}
	case StoreMemory:
	default:
		errs.add("STORE_BACKEND", "must be one of sqlite, postgres, redis, memory (got %q)", c.StoreBackend)
	}

	switch c.ImageBackend {
	case ImagesLocal:
		if c.ImageDir == "" {
			errs.add("IMAGE_DIR", "required for local image storage")
		}
	case ImagesS3:
		if c.S3Bucket == "" {
			errs.add("S3_BUCKET_NAME", "required for s3 image storage")
		}
		if c.AWSRegion == "" {
			errs.add("AWS_REGION", "required for s3 image storage")
		}
	default:
		errs.add("IMAGE_BACKEND", "must be local or s3 (got %q)", c.ImageBackend)
	}

	if c.RekognitionEnabled && c.AWSRegion == "" {
		errs.add("AWS_REGION", "required when REKOGNITION_ENABLED is set")
	}
	if c.Env.IsProduction() && c.OpenAIAPIKey == "" {
		errs.add("OPENAI_API_KEY", "required in production")
	}
	if c.VisionTimeout <= 0 {
		errs.add("VISION_TIMEOUT", "must be positive")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultMaxUploadMB = 20

// Config holds application configuration.
type Config struct {
	Port              string
	Env               string
	CORSAllowOrigin   []string
	ObjectStoreType   string
	LocalStoreDir     string
	AWSRegion         string
	S3Bucket          string
	S3Prefix          string
	SSEKMSKeyID       string
	DatabaseURL       string
	SummarizerURL     string
	SummarizerTimeout time.Duration
	TranslatorURL     string
	TranslatorTimeout time.Duration
	MaxUploadBytes    int64
	QueueURL          string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		Env:               env,
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:   normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:       getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:       dbURL,
		SummarizerURL:     getEnv("SUMMARIZER_URL", "http://localhost:5001"),
		SummarizerTimeout: envSeconds("SUMMARIZER_TIMEOUT_SECONDS", 120*time.Second),
		TranslatorURL:     getEnv("TRANSLATOR_URL", ""),
		TranslatorTimeout: envSeconds("TRANSLATOR_TIMEOUT_SECONDS", 30*time.Second),
		MaxUploadBytes:    envMB("MAX_UPLOAD_MB", defaultMaxUploadMB),
		QueueURL:          strings.TrimSpace(os.Getenv("LD_SQS_QUEUE_URL")),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		log.Printf("config: %s invalid, using default: %q", key, raw)
		return def
	}
	return time.Duration(parsed) * time.Second
}

func envMB(key string, defMB int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defMB << 20
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		log.Printf("config: %s invalid, using default: %q", key, raw)
		return defMB << 20
	}
	return parsed << 20
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

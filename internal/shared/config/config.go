package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	// Model artifacts are read through an object store.
	ModelStoreType string
	ModelDir       string
	ModelKey       string
	StopwordsKey   string
	StopwordsPath  string
	AWSRegion      string
	S3Bucket       string
	S3Prefix       string

	LexiconPath    string
	WordCloudScale int
	MaxUploadBytes int64
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ModelStoreType:  normalizeStoreType(getEnv("MODEL_STORE", "local")),
		ModelDir:        getEnv("MODEL_DIR", "./models"),
		ModelKey:        getEnv("MODEL_KEY", "pipeline.json"),
		StopwordsKey:    getEnv("STOPWORDS_KEY", ""),
		StopwordsPath:   getEnv("STOPWORDS_PATH", ""),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("MODEL_S3_BUCKET", ""),
		S3Prefix:        getEnv("MODEL_S3_PREFIX", ""),
		LexiconPath:     getEnv("LEXICON_PATH", ""),
		WordCloudScale:  getEnvInt("WORDCLOUD_SCALE", 2),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 5),
	}

	if cfg.ModelStoreType == "s3" && cfg.S3Bucket == "" {
		log.Printf("MODEL_S3_BUCKET is required when MODEL_STORE=s3")
	}
	return cfg
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v <= 0 {
		log.Printf("invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return v
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

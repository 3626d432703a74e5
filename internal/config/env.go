package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by the CLI and the server
const (
	EnvGeminiAPIKey             = "GEMINI_API_KEY"
	EnvSerpAPIKey               = "SERP_API_KEY"
	EnvScopusAPIKey             = "SCOPUS_API_KEY"
	EnvMaxConcurrentGenerations = "MAX_CONCURRENT_GENERATIONS"
	EnvMaxUploadBytes           = "MAX_UPLOAD_BYTES"
	EnvServerURL                = "RESUME_OPTIMIZER_URL"
)

// EnvString gets an environment variable as a string with a default value.
func EnvString(key string, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// EnvInt gets an environment variable as an integer with a default value.
// Unparseable values fall back to the default.
func EnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(EnvString(key, "")); err == nil {
		return n
	}
	return defaultValue
}

// EnvInt64 is EnvInt for byte sizes and other 64-bit values.
func EnvInt64(key string, defaultValue int64) int64 {
	if n, err := strconv.ParseInt(EnvString(key, ""), 10, 64); err == nil {
		return n
	}
	return defaultValue
}

// EnvBool gets an environment variable as a boolean with a default value.
func EnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(EnvString(key, "")); err == nil {
		return b
	}
	return defaultValue
}

// EnvDuration gets an environment variable as a time.Duration ("90s", "5m").
func EnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(EnvString(key, "")); err == nil {
		return d
	}
	return defaultValue
}

// FromEnv builds a Config from the process environment. Call godotenv.Load
// first to pick up a local .env file.
func FromEnv() Config {
	return Config{
		ServerURL:                EnvString(EnvServerURL, ""),
		APIKey:                   EnvString(EnvGeminiAPIKey, ""),
		SerpAPIKey:               EnvString(EnvSerpAPIKey, ""),
		ScopusAPIKey:             EnvString(EnvScopusAPIKey, ""),
		MaxConcurrentGenerations: EnvInt(EnvMaxConcurrentGenerations, 0),
		MaxUploadBytes:           EnvInt64(EnvMaxUploadBytes, 0),
	}
}

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/insightstudio/structsight/internal/logger"
)

// Config carries all process-level settings. It is populated once at
// startup from environment variables and never mutated afterwards.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string

	// LogMode selects the logger encoder: "development" or "production".
	LogMode string

	// UploadDir is where accepted uploads are stored before analysis.
	UploadDir string

	// MaxUploadBytes caps the request body size for image uploads.
	MaxUploadBytes int64

	// CatalogPath optionally points at a YAML material catalog that
	// replaces the embedded default. Empty means use the default.
	CatalogPath string

	// Seed, when SeedSet is true, pins the random source used by every
	// analysis so results are reproducible across requests.
	Seed    int64
	SeedSet bool

	// DisableJitter turns off the completion-percentage perturbation
	// independently of seeding.
	DisableJitter bool
}

// FromEnv reads configuration from the environment, logging each value
// that falls back to its default.
func FromEnv(log *logger.Logger) Config {
	cfg := Config{
		Addr:           getEnv("STRUCTSIGHT_ADDR", ":8080", log),
		LogMode:        getEnv("STRUCTSIGHT_LOG_MODE", "development", log),
		UploadDir:      getEnv("STRUCTSIGHT_UPLOAD_DIR", "uploads", log),
		MaxUploadBytes: getEnvAsInt64("STRUCTSIGHT_MAX_UPLOAD_BYTES", 16<<20, log),
		CatalogPath:    getEnv("STRUCTSIGHT_CATALOG_PATH", "", log),
		DisableJitter:  getEnvAsBool("STRUCTSIGHT_DISABLE_JITTER", false, log),
	}
	if raw, ok := os.LookupEnv("STRUCTSIGHT_SEED"); ok {
		if seed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
			cfg.Seed = seed
			cfg.SeedSet = true
		} else {
			log.Warn("ignoring unparseable STRUCTSIGHT_SEED", "value", raw)
		}
	}
	return cfg
}

func getEnv(key, def string, log *logger.Logger) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	log.Debug("env var unset, using default", "key", key, "default", def)
	return def
}

func getEnvAsInt64(key string, def int64, log *logger.Logger) int64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		log.Debug("env var unset, using default", "key", key, "default", def)
		return def
	}
	val, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		log.Warn("unparseable env var, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return val
}

func getEnvAsBool(key string, def bool, log *logger.Logger) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		log.Warn("unparseable env var, using default", "key", key, "value", raw, "default", def)
		return def
	}
}

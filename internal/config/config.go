package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const (
	StorageMemory    = "memory"
	StorageSQLite    = "sqlite"
	StorageFirestore = "firestore"
)

type Config struct {
	Mode Mode

	Port     string
	LogLevel string

	// Gemini API (local mode) or Vertex AI (gcp mode)
	APIKey       string
	GCPProjectID string
	GCPLocation  string
	ModelName    string

	StorageBackend string // "memory", "sqlite" or "firestore"
	SQLitePath     string
	UseMockLLM     bool // true = use mock even with credentials

	TranscriptLimit int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".healthners", "healthners.db")
	}
	return filepath.Join(home, ".healthners", "healthners.db")
}

// Load reads .env (if present) and the environment, and builds the config.
func Load() (*Config, error) {
	// Variables already set in the environment win over .env
	_ = godotenv.Load()

	modeStr := getEnv("HEALTHNERS_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	apiKey := getEnv("HEALTHNERS_API_KEY", os.Getenv("GEMINI_API_KEY"))

	cfg := &Config{
		Mode: mode,

		Port:     getEnv("HEALTHNERS_PORT", "8080"),
		LogLevel: getEnv("HEALTHNERS_LOG_LEVEL", "info"),

		APIKey:       apiKey,
		GCPProjectID: getEnv("HEALTHNERS_GCP_PROJECT", ""),
		GCPLocation:  getEnv("HEALTHNERS_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("HEALTHNERS_MODEL_NAME", "gemini-2.0-flash"),

		StorageBackend: getEnv("HEALTHNERS_STORAGE_BACKEND", StorageSQLite),
		SQLitePath:     getEnv("HEALTHNERS_SQLITE_PATH", defaultSQLitePath()),
		UseMockLLM:     getBoolEnv("HEALTHNERS_USE_MOCK_LLM", mode == ModeLocal && apiKey == ""),

		TranscriptLimit: getIntEnv("HEALTHNERS_TRANSCRIPT_LIMIT", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combinations Load cannot default away.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageMemory, StorageSQLite, StorageFirestore:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if c.Mode == ModeGCP && c.GCPProjectID == "" {
		return fmt.Errorf("HEALTHNERS_GCP_PROJECT must be set in gcp mode")
	}
	if c.StorageBackend == StorageFirestore && c.GCPProjectID == "" {
		return fmt.Errorf("HEALTHNERS_GCP_PROJECT is required for Firestore storage backend")
	}
	if c.Mode == ModeLocal && !c.UseMockLLM && c.APIKey == "" {
		return fmt.Errorf("HEALTHNERS_API_KEY must be set unless HEALTHNERS_USE_MOCK_LLM=1")
	}
	if c.TranscriptLimit < 2 {
		return fmt.Errorf("HEALTHNERS_TRANSCRIPT_LIMIT must be at least 2, got %d", c.TranscriptLimit)
	}
	return nil
}

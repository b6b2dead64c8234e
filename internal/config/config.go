package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Generation providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderGRPC   = "grpc"
	ProviderNone   = "none"
)

// Persistence drivers.
const (
	DriverSQLite   = "sqlite"
	DriverSupabase = "supabase"
	DriverNone     = "none"
)

// Session drivers.
const (
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LexiconFile string // empty uses the built-in lexicon

	// Generation service
	GenerationProvider    string
	GenerationAPIKey      string
	GenerationBaseURL     string
	GenerationModel       string
	GenerationTemperature float64
	GenerationMaxTokens   int
	GenerationTimeout     time.Duration
	GenerationGRPCAddr    string

	// Persistence store
	PersistenceDriver   string
	SQLitePath          string
	SupabaseURL         string
	SupabaseKey         string
	SupabaseTurnsTable  string
	SupabaseStatesTable string
	PersistTimeout      time.Duration

	// Session cache
	SessionDriver string
	RedisURL      string
	SessionTTL    time.Duration

	CacheWarmInterval time.Duration // zero disables the warm job
	MetricsEnabled    bool
}

// Load loads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LexiconFile: getEnv("LEXICON_FILE", ""),

		GenerationProvider:    getEnv("GENERATION_PROVIDER", ProviderOpenAI),
		GenerationAPIKey:      getEnv("GENERATION_API_KEY", ""),
		GenerationBaseURL:     getEnv("GENERATION_BASE_URL", "https://api.mistral.ai/v1/"),
		GenerationModel:       getEnv("GENERATION_MODEL", "mistral-small-latest"),
		GenerationTemperature: getFloatEnv("GENERATION_TEMPERATURE", 0.7),
		GenerationMaxTokens:   getIntEnv("GENERATION_MAX_TOKENS", 300),
		GenerationTimeout:     getDurationEnv("GENERATION_TIMEOUT", 15*time.Second),
		GenerationGRPCAddr:    getEnv("GENERATION_GRPC_ADDR", "localhost:50051"),

		PersistenceDriver:   getEnv("PERSISTENCE_DRIVER", DriverSQLite),
		SQLitePath:          getEnv("SQLITE_PATH", "emostate.db"),
		SupabaseURL:         getEnv("SUPABASE_URL", ""),
		SupabaseKey:         getEnv("SUPABASE_KEY", ""),
		SupabaseTurnsTable:  getEnv("SUPABASE_TURNS_TABLE", "conversations"),
		SupabaseStatesTable: getEnv("SUPABASE_STATES_TABLE", "consciousness_states"),
		PersistTimeout:      getDurationEnv("PERSIST_TIMEOUT", 10*time.Second),

		SessionDriver: getEnv("SESSION_DRIVER", SessionMemory),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		SessionTTL:    getDurationEnv("SESSION_TTL", 24*time.Hour),

		CacheWarmInterval: getDurationEnv("CACHE_WARM_INTERVAL", 5*time.Minute),
		MetricsEnabled:    getBoolEnv("METRICS_ENABLED", true),
	}
}

// Validate checks enumerations and the credentials each driver needs.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: PORT is empty", ErrInvalid)
	}

	switch c.GenerationProvider {
	case ProviderOpenAI, ProviderGemini:
		if c.GenerationAPIKey == "" {
			return fmt.Errorf("%w: GENERATION_API_KEY is required for provider %q", ErrInvalid, c.GenerationProvider)
		}
	case ProviderGRPC:
		if c.GenerationGRPCAddr == "" {
			return fmt.Errorf("%w: GENERATION_GRPC_ADDR is required for provider grpc", ErrInvalid)
		}
	case ProviderNone:
	default:
		return fmt.Errorf("%w: unknown GENERATION_PROVIDER %q", ErrInvalid, c.GenerationProvider)
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("%w: GENERATION_TIMEOUT must be positive", ErrInvalid)
	}

	switch c.PersistenceDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH is required for driver sqlite", ErrInvalid)
		}
	case DriverSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("%w: SUPABASE_URL and SUPABASE_KEY are required for driver supabase", ErrInvalid)
		}
	case DriverNone:
	default:
		return fmt.Errorf("%w: unknown PERSISTENCE_DRIVER %q", ErrInvalid, c.PersistenceDriver)
	}
	if c.PersistTimeout <= 0 {
		return fmt.Errorf("%w: PERSIST_TIMEOUT must be positive", ErrInvalid)
	}

	switch c.SessionDriver {
	case SessionMemory:
	case SessionRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for session driver redis", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown SESSION_DRIVER %q", ErrInvalid, c.SessionDriver)
	}

	if c.CacheWarmInterval < 0 {
		return fmt.Errorf("%w: CACHE_WARM_INTERVAL must not be negative", ErrInvalid)
	}
	return nil
}

// IsProduction reports whether logs should be JSON.
func (c *Config) IsProduction() bool { return c.Environment == "production" }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("15s") or a bare number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultValue
}

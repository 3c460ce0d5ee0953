package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	StoreDriver        string
	IsProduction       bool
	EnableDBCheck      bool
	JWTSecret          string
	PersistenceTimeout time.Duration
	RateLimit          string
	CORSAllowedOrigins []string
	KafkaBrokers       []string
	KafkaTopic         string
	MigrationsPath     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("PERSISTENCE_TIMEOUT", "5s")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "refinance.application-events")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")

	// Environment variables override defaults and .env values.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		StoreDriver:        strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		KafkaBrokers:       splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:         v.GetString("KAFKA_TOPIC"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	timeoutStr := v.GetString("PERSISTENCE_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		timeout = 5 * time.Second
		log.Printf("Warning: Invalid value for PERSISTENCE_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.PersistenceTimeout = timeout

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORE_DRIVER is %s", StoreDriverPostgres)
		}
	case StoreDriverMemory:
		log.Println("Warning: using the in-memory application store. Data is lost on restart.")
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if len(cfg.KafkaBrokers) == 0 {
		log.Println("Warning: KAFKA_BROKERS not set. Downstream events will only be logged.")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// BaseCurrencyCode is the pivot currency for cross-rate composition.
	BaseCurrencyCode string

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "finbooks-app")
	viper.SetDefault("BASE_CURRENCY_CODE", "USD")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if !viper.IsSet("JWT_SECRET") {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION (%q). Defaulting to 1h.\n", viper.GetString("JWT_EXPIRY_DURATION"))
		jwtExpiry = time.Hour
	}
	cfg.JWTExpiryDuration = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.BaseCurrencyCode = viper.GetString("BASE_CURRENCY_CODE")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

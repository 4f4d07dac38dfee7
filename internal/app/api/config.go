package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port           string
	PostgresDSN    string
	RedisAddr      string
	JWTSecret      string
	SlipDir        string
	SlipPublicBase string
	WarehouseLat   float64
	WarehouseLng   float64
	BaseFee        float64
	DefaultLocale  string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:           envDefault("PORT", "8080"),
		PostgresDSN:    strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:      strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SlipDir:        envDefault("SLIP_DIR", "./uploads/slips"),
		SlipPublicBase: envDefault("SLIP_PUBLIC_BASE", "/static/slips"),
		DefaultLocale:  envDefault("DEFAULT_LOCALE", "th"),
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	var err error
	// Bangkok; overridable per deployment.
	if cfg.WarehouseLat, err = envFloat("WAREHOUSE_LAT", 13.7563); err != nil {
		return Config{}, err
	}
	if cfg.WarehouseLng, err = envFloat("WAREHOUSE_LNG", 100.5018); err != nil {
		return Config{}, err
	}
	if cfg.BaseFee, err = envFloat("DELIVERY_BASE_FEE", 20); err != nil {
		return Config{}, err
	}
	if cfg.BaseFee < 0 {
		return Config{}, fmt.Errorf("DELIVERY_BASE_FEE must not be negative")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return value, nil
}

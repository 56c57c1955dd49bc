package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	RedisURL    string

	// ParamsPath points to a YAML parameter snapshot. Empty means the
	// built-in baseline snapshot.
	ParamsPath string

	DiscountRate       float64
	HurdleRate         float64
	DispositionCostPct float64

	DefaultScenarios  int
	MaxScenarios      int
	SimWorkers        int
	DegradedThreshold float64

	CacheTTL            time.Duration
	FrontendURLEndsWith string
	HealthAdminKey      string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATABASE_URL", "proforma.db")
	viper.SetDefault("DISCOUNT_RATE", 0.10)
	viper.SetDefault("HURDLE_RATE", 0.08)
	viper.SetDefault("DISPOSITION_COST_PCT", 0.05)
	viper.SetDefault("DEFAULT_SCENARIOS", 1000)
	viper.SetDefault("MAX_SCENARIOS", 10000)
	viper.SetDefault("DEGRADED_THRESHOLD", 0.05)
	viper.SetDefault("CACHE_TTL", "1h")

	return &Config{
		Env:                 viper.GetString("APP_ENV"),
		Port:                viper.GetString("PORT"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		ParamsPath:          viper.GetString("PARAMS_PATH"),
		DiscountRate:        viper.GetFloat64("DISCOUNT_RATE"),
		HurdleRate:          viper.GetFloat64("HURDLE_RATE"),
		DispositionCostPct:  viper.GetFloat64("DISPOSITION_COST_PCT"),
		DefaultScenarios:    viper.GetInt("DEFAULT_SCENARIOS"),
		MaxScenarios:        viper.GetInt("MAX_SCENARIOS"),
		SimWorkers:          viper.GetInt("SIM_WORKERS"),
		DegradedThreshold:   viper.GetFloat64("DEGRADED_THRESHOLD"),
		CacheTTL:            viper.GetDuration("CACHE_TTL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}

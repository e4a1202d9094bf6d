package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultReportWindowStart = "2020-08-14T19:11:26.737Z"
	defaultReportWindowEnd   = "2020-08-20T19:11:26.737Z"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type AuthConfig struct {
	AccessSecret string
}

type PaymentsConfig struct {
	// AllowOverdraft keeps paying a job when the client balance is lower
	// than the job price. The response still reports success.
	AllowOverdraft     bool
	DepositRatePercent int
}

type ReportConfig struct {
	WindowStart time.Time
	WindowEnd   time.Time
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Payments    PaymentsConfig
	Report      ReportConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 7090)
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("PAYMENTS_ALLOW_OVERDRAFT", false)
	v.SetDefault("DEPOSIT_RATE_PERCENT", 25)
	v.SetDefault("REPORT_WINDOW_START", defaultReportWindowStart)
	v.SetDefault("REPORT_WINDOW_END", defaultReportWindowEnd)

	_ = v.ReadInConfig()

	lifetime, err := time.ParseDuration(strings.TrimSpace(v.GetString("DB_CONN_MAX_LIFETIME")))
	if err != nil {
		return nil, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}
	windowStart, err := time.Parse(time.RFC3339, strings.TrimSpace(v.GetString("REPORT_WINDOW_START")))
	if err != nil {
		return nil, fmt.Errorf("REPORT_WINDOW_START: %w", err)
	}
	windowEnd, err := time.Parse(time.RFC3339, strings.TrimSpace(v.GetString("REPORT_WINDOW_END")))
	if err != nil {
		return nil, fmt.Errorf("REPORT_WINDOW_END: %w", err)
	}

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Payments: PaymentsConfig{
			AllowOverdraft:     v.GetBool("PAYMENTS_ALLOW_OVERDRAFT"),
			DepositRatePercent: v.GetInt("DEPOSIT_RATE_PERCENT"),
		},
		Report: ReportConfig{
			WindowStart: windowStart.UTC(),
			WindowEnd:   windowEnd.UTC(),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Payments.DepositRatePercent <= 0 {
		return fmt.Errorf("DEPOSIT_RATE_PERCENT must be positive")
	}
	if !cfg.Report.WindowStart.Before(cfg.Report.WindowEnd) {
		return fmt.Errorf("REPORT_WINDOW_START must be before REPORT_WINDOW_END")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://ledger@localhost/ledger")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.Payments.AllowOverdraft)
	assert.Equal(t, 25, cfg.Payments.DepositRatePercent)
	assert.Equal(t, time.Date(2020, 8, 14, 19, 11, 26, 737000000, time.UTC), cfg.Report.WindowStart)
	assert.Equal(t, time.Date(2020, 8, 20, 19, 11, 26, 737000000, time.UTC), cfg.Report.WindowEnd)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://ledger@localhost/ledger")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PAYMENTS_ALLOW_OVERDRAFT", "true")
	t.Setenv("DEPOSIT_RATE_PERCENT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.Payments.AllowOverdraft)
	assert.Equal(t, 10, cfg.Payments.DepositRatePercent)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing dsn", env: map[string]string{"DB_DSN": ""}},
		{name: "bad lifetime", env: map[string]string{"DB_CONN_MAX_LIFETIME": "soon"}},
		{name: "bad window", env: map[string]string{"REPORT_WINDOW_START": "yesterday"}},
		{name: "inverted window", env: map[string]string{
			"REPORT_WINDOW_START": "2021-01-02T00:00:00Z",
			"REPORT_WINDOW_END":   "2021-01-01T00:00:00Z",
		}},
		{name: "zero deposit rate", env: map[string]string{"DEPOSIT_RATE_PERCENT": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DSN", "postgres://ledger@localhost/ledger")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	App       AppConfig
	Payroll   PayrollConfig
	Scheduler SchedulerConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Env            string
	LogLevel       string
	ServiceAccount string
}

// PayrollConfig holds the engine-wide calculation constants.
type PayrollConfig struct {
	WorkerCount          int
	MonthlyBaseHours     decimal.Decimal
	OvertimeMultiplier   decimal.Decimal
	DefaultInsuranceRate decimal.Decimal
	Currency             string
}

// SchedulerConfig holds the background job intervals.
type SchedulerConfig struct {
	Enabled                bool
	DailyRecomputeInterval time.Duration
	SummaryRefreshInterval time.Duration
}

func Load() (*Config, error) {
	// .env is optional; environment variables take precedence anyway.
	_ = godotenv.Load()

	config := &Config{}

	config.App = AppConfig{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServiceAccount: getEnv("SERVICE_ACCOUNT", "payroll-engine"),
	}

	workerCount, err := strconv.Atoi(getEnv("WORKER_COUNT", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_COUNT: %w", err)
	}
	monthlyBaseHours, err := getEnvDecimal("MONTHLY_BASE_HOURS", "240")
	if err != nil {
		return nil, err
	}
	overtimeMultiplier, err := getEnvDecimal("OVERTIME_MULTIPLIER", "1.5")
	if err != nil {
		return nil, err
	}
	insuranceRate, err := getEnvDecimal("DEFAULT_INSURANCE_RATE", "2")
	if err != nil {
		return nil, err
	}

	config.Payroll = PayrollConfig{
		WorkerCount:          workerCount,
		MonthlyBaseHours:     monthlyBaseHours,
		OvertimeMultiplier:   overtimeMultiplier,
		DefaultInsuranceRate: insuranceRate,
		Currency:             getEnv("CURRENCY", "SAR"),
	}

	dailyInterval, err := time.ParseDuration(getEnv("DAILY_RECOMPUTE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DAILY_RECOMPUTE_INTERVAL: %w", err)
	}
	summaryInterval, err := time.ParseDuration(getEnv("SUMMARY_REFRESH_INTERVAL", "6h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_REFRESH_INTERVAL: %w", err)
	}

	config.Scheduler = SchedulerConfig{
		Enabled:                getEnv("SCHEDULER_ENABLED", "true") == "true",
		DailyRecomputeInterval: dailyInterval,
		SummaryRefreshInterval: summaryInterval,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Payroll.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1")
	}
	if !c.Payroll.MonthlyBaseHours.IsPositive() {
		return fmt.Errorf("MONTHLY_BASE_HOURS must be positive")
	}
	if !c.Payroll.OvertimeMultiplier.IsPositive() {
		return fmt.Errorf("OVERTIME_MULTIPLIER must be positive")
	}
	if c.Payroll.DefaultInsuranceRate.IsNegative() {
		return fmt.Errorf("DEFAULT_INSURANCE_RATE must not be negative")
	}
	if c.App.ServiceAccount == "" {
		return fmt.Errorf("SERVICE_ACCOUNT is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDecimal(key, fallback string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(getEnv(key, fallback))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

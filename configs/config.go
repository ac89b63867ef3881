package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
}

func (r R2) Enabled() bool {
	return r.AccountID != "" && r.AccessKey != "" && r.SecretKey != "" && r.BucketName != ""
}

type SMTP struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	FromName string
}

type StatsAPI struct {
	URL        string
	Key        string
	Host       string
	Timeout    time.Duration
	MaxRetries int
}

// Validate reports a missing or malformed provider endpoint. Without one every
// fetch would fail and be replaced by fallback metrics.
func (s StatsAPI) Validate() error {
	if s.URL == "" {
		return errors.New("STATS_API_URL is not set")
	}
	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("STATS_API_URL is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("STATS_API_URL %q must be an absolute http(s) url", s.URL)
	}
	return nil
}

type Config struct {
	Port        string
	PostgresURI string
	RedisURI    string
	FrontendURL string
	SecretKey   string
	CookieName  string
	StatsAPI    StatsAPI
	SMTP        SMTP
	R2          R2

	// SettlementCron is a robfig/cron spec; empty disables the periodic settlement.
	SettlementCron string

	// Percentages deducted from the gross campaign earnings on invoices.
	PlatformFeePercent   string
	WithholdingPercent   string
	InvoiceCurrency      string
	SyncWorkerConcurrent int
}

func LoadConfig() *Config {
	return &Config{
		Port:        getEnv("PORT", "3000"),
		PostgresURI: getEnv("POSTGRES_URI", ""),
		RedisURI:    getEnv("REDIS_URI", ""),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:   getEnv("SECRET_KEY", ""),
		CookieName:  getEnv("COOKIE_NAME", ""),
		StatsAPI: StatsAPI{
			URL:        getEnv("STATS_API_URL", ""),
			Key:        getEnv("STATS_API_KEY", ""),
			Host:       getEnv("STATS_API_HOST", ""),
			Timeout:    getEnvDuration("STATS_API_TIMEOUT", 30*time.Second),
			MaxRetries: getEnvInt("STATS_API_RETRIES", 2),
		},
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			FromName: getEnv("SMTP_FROM_NAME", ""),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
		},
		SettlementCron:       getEnv("SETTLEMENT_CRON", ""),
		PlatformFeePercent:   getEnv("PLATFORM_FEE_PERCENT", "10"),
		WithholdingPercent:   getEnv("WITHHOLDING_PERCENT", "0"),
		InvoiceCurrency:      getEnv("INVOICE_CURRENCY", "INR"),
		SyncWorkerConcurrent: getEnvInt("SYNC_WORKER_CONCURRENCY", 4),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	AppEnv           string
	Port             string
	JWTSecret        string
	CorsOrigins      string
	HostelTimezone   string
	ReportWindow     time.Duration
	WakeUpDeadline   string
	OverdueSweepCron string
	RunSeeder        bool
)

// =======================
// ENV LOADER
// =======================

// LoadEnv memuat .env (kalau ada) lalu membaca seluruh setting aplikasi.
// Returns a note for the caller to log once the logger exists.
func LoadEnv() string {
	note := "running with platform environment"
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" && os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			note = ".env not found, using system environment"
		} else {
			note = ".env loaded"
		}
	}

	AppEnv = GetEnv("APP_ENV", "development")
	Port = GetEnv("PORT", "3000")
	JWTSecret = GetEnv("JWT_SECRET")
	CorsOrigins = GetEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")
	HostelTimezone = GetEnv("HOSTEL_TIMEZONE", "Asia/Karachi")
	ReportWindow = GetEnvDuration("REPORT_WINDOW", 18*time.Hour)
	WakeUpDeadline = GetEnv("WAKE_UP_DEADLINE", "05:30")
	OverdueSweepCron = GetEnv("OVERDUE_SWEEP_CRON", "*/10 * * * *")
	RunSeeder = GetEnvBool("SEED", false)
	return note
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// =======================
// DATABASE DSN
// =======================
func DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=hostelixpro",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE", "disable"),
	)
}

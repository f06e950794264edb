package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env           string
	LogLevel      string
	Port          string
	AllowedOrigin string
	DatabaseURL   string
	AutoMigrate   bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ReportCacheTTLSeconds int
	ReportTimezone        string
	ExcludedOrderStatuses []string

	COGSFallbackRate  float64
	SpaMargin         float64
	FrontOfficeMargin float64

	MinMarginPercent float64
	MaxMassGrams     float64
	MaxVolumeML      float64
	MaxCountUnits    float64
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	ttl, err := strconv.Atoi(getEnv("REPORT_CACHE_TTL_SECONDS", "300"))
	if err != nil || ttl < 0 {
		ttl = 300
	}

	tz := getEnv("REPORT_TIMEZONE", "UTC")
	if _, err := time.LoadLocation(tz); err != nil {
		tz = "UTC"
	}

	cfg := Config{
		Env:           strings.ToLower(getEnv("ENV", "production")),
		LogLevel:      strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		Port:          getEnv("PORT", "8080"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AutoMigrate:   getEnvBool("AUTO_MIGRATE", false),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		ReportCacheTTLSeconds: ttl,
		ReportTimezone:        tz,
		ExcludedOrderStatuses: getEnvList("EXCLUDED_ORDER_STATUSES", []string{"cancelled"}),

		COGSFallbackRate:  getEnvRate("COGS_FALLBACK_RATE", 0.30),
		SpaMargin:         getEnvFraction("SPA_MARGIN", 0.80),
		FrontOfficeMargin: getEnvFraction("FRONT_OFFICE_MARGIN", 1.00),

		MinMarginPercent: getEnvPositive("MIN_MARGIN_PERCENT", 30),
		MaxMassGrams:     getEnvPositive("MAX_MASS_GRAMS", 1000),
		MaxVolumeML:      getEnvPositive("MAX_VOLUME_ML", 1000),
		MaxCountUnits:    getEnvPositive("MAX_COUNT_UNITS", 20),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

// Location is the zone report days are cut in. Load already validated the name.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) ReportCacheTTL() time.Duration {
	return time.Duration(c.ReportCacheTTLSeconds) * time.Second
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getEnvBool(key string, fallback bool) bool {
	val, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return val
}

// getEnvFraction reads a rate in [0, 1].
func getEnvFraction(key string, fallback float64) float64 {
	val, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || math.IsNaN(val) || val < 0 || val > 1 {
		return fallback
	}
	return val
}

// getEnvRate reads a rate in (0, 1]. Zero falls back like any other invalid
// value since the service reads an unset rate as zero.
func getEnvRate(key string, fallback float64) float64 {
	val := getEnvFraction(key, fallback)
	if val == 0 {
		return fallback
	}
	return val
}

func getEnvPositive(key string, fallback float64) float64 {
	val, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) || val <= 0 {
		return fallback
	}
	return val
}

func getEnvList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

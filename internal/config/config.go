package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	DriverFile     = "file"
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port          string
	AllowedOrigin string

	StoreDriver string
	DataDir     string
	BoltPath    string
	DatabaseURL string

	RedisAddr             string
	RedisPassword         string
	RedisDB               int
	ReportCacheTTLSeconds int

	Timezone            string
	USDLBP              float64
	Margin              float64
	Profit              float64
	PriceRecalcSchedule string

	LogLevel     string
	LogFile      string
	LogMaxSizeMB int
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() Config {
	_ = godotenv.Load()

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	defaultDriver := DriverFile
	if databaseURL != "" {
		defaultDriver = DriverPostgres
	}

	cfg := Config{
		Port:          getEnv("PORT", "5000"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", defaultDriver)),
		DataDir:     getEnv("DATA_DIR", "./data"),
		BoltPath:    getEnv("BOLT_PATH", "./data/dukkan.db"),
		DatabaseURL: databaseURL,

		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getInt("REDIS_DB", 0),
		ReportCacheTTLSeconds: getInt("REPORT_CACHE_TTL_SECONDS", 30),

		Timezone:            getEnv("TIMEZONE", "Asia/Beirut"),
		USDLBP:              getFloat("USDLBP", 0),
		Margin:              getFloat("MARGIN", 1),
		Profit:              getFloat("PROFIT", 1),
		PriceRecalcSchedule: strings.TrimSpace(os.Getenv("PRICE_RECALC_SCHEDULE")),

		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:      os.Getenv("LOG_FILE"),
		LogMaxSizeMB: getInt("LOG_MAX_SIZE_MB", 20),
	}
	if cfg.ReportCacheTTLSeconds < 1 {
		cfg.ReportCacheTTLSeconds = 30
	}
	if cfg.LogMaxSizeMB < 1 {
		cfg.LogMaxSizeMB = 20
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) ReportCacheTTL() time.Duration {
	return time.Duration(c.ReportCacheTTLSeconds) * time.Second
}

// Location resolves Timezone, falling back to UTC when the zone is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key string, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	n, err := cast.ToIntE(val)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	f, err := cast.ToFloat64E(val)
	if err != nil {
		return fallback
	}
	return f
}

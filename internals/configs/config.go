package configs

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration resolved from the environment.
type Config struct {
	AppName string
	Port    string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	CORSOrigins []string
	LogLevel    string
	LogFormat   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GeocodingURL    string
	GeocodingAPIKey string

	UploadDir     string
	PublicBaseURL string

	Timezone            string
	MaintenanceCron     string
	GenerationDaysAhead int
}

// =======================
// ENV LOADER
// =======================

// LoadEnv loads a .env file when one exists. It reports whether a file was read.
func LoadEnv() bool {
	if _, err := os.Stat(".env"); err != nil {
		return false
	}
	return godotenv.Load() == nil
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getInt(key string, def int) int {
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

func getDuration(key string, def time.Duration) time.Duration {
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

func splitList(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads the configuration. JWT secrets are mandatory.
func Load() (*Config, error) {
	cfg := &Config{
		AppName: GetEnv("APP_NAME", "cleanops"),
		Port:    GetEnv("PORT", "3000"),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBHost:      GetEnv("DB_HOST", "localhost"),
		DBPort:      GetEnv("DB_PORT", "5432"),
		DBUser:      GetEnv("DB_USERNAME", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      GetEnv("DB_NAME", "cleanops"),
		DBSSLMode:   GetEnv("DB_SSLMODE", "disable"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:        getDuration("JWT_ACCESS_TTL", 24*time.Hour),
		RefreshTTL:       getDuration("JWT_REFRESH_TTL", 7*24*time.Hour),

		CORSOrigins: splitList(GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3001")),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		LogFormat:   GetEnv("LOG_FORMAT", "json"),

		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		GeocodingURL:    strings.TrimSpace(os.Getenv("GEOCODING_URL")),
		GeocodingAPIKey: os.Getenv("GEOCODING_API_KEY"),

		UploadDir:     GetEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),

		Timezone:            GetEnv("APP_TIMEZONE", "UTC"),
		MaintenanceCron:     GetEnv("CRON_MAINTENANCE", "0 3 * * *"),
		GenerationDaysAhead: getInt("GENERATION_DAYS_AHEAD", 30),
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if strings.TrimSpace(cfg.JWTRefreshSecret) == "" {
		return nil, errors.New("JWT_REFRESH_SECRET is not set")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	if cfg.GenerationDaysAhead < 1 || cfg.GenerationDaysAhead > 366 {
		cfg.GenerationDaysAhead = 30
	}
	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a URL built from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	q.Set("application_name", c.AppName)
	u.RawQuery = q.Encode()
	return u.String()
}

// Location is the calendar used for "today"; Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Driver     string // postgres | sqlite
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
}

// DSN builds the postgres connection string shared by sqlx and GORM.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.User, c.Password, c.Host, c.Port, c.Name)
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type Config struct {
	AppEnv                string
	HTTPAddr              string
	Database              DatabaseConfig
	Redis                 RedisConfig
	Session               SessionConfig
	NotificationRetention time.Duration
	LoginRatePerMinute    int
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP
	TrustProxy bool
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("PG_HOST", "localhost"),
			Port:       getEnv("PG_PORT", "5432"),
			User:       getEnv("PG_USER", "club"),
			Password:   getEnv("PG_PASSWORD", "club"),
			Name:       getEnv("PG_DB", "clubhouse"),
			SQLitePath: getEnv("SQLITE_PATH", "clubhouse.db"),
		},
		Redis: RedisConfig{
			Enabled:  getBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "change-me-in-production"),
			TTL:    getDuration("SESSION_TTL", 7*24*time.Hour),
		},
		NotificationRetention: getDuration("NOTIFICATION_RETENTION", 30*24*time.Hour),
		LoginRatePerMinute:    getInt("LOGIN_RATE_PER_MIN", 10),
		TrustProxy:            getBool("TRUST_PROXY", false),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return fallback
	}
	return v
}

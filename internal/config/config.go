package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	LogLevel   string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	KafkaBrokers []string
	KafkaTopic   string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8000),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DBHost:     EnvDefault("DB_HOST", "localhost"),
		DBPort:     EnvDefault("DB_PORT", "5432"),
		DBUser:     EnvDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     EnvDefault("DB_NAME", "auth_db"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_ACCESS_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),
		AccessTTL:        EnvDurationDefault("JWT_ACCESS_EXPIRY", 15*time.Minute),
		RefreshTTL:       EnvDurationDefault("JWT_REFRESH_EXPIRY", 7*24*time.Hour),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "user_events"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

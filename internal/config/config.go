package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Identity IdentityConfig
	Log      LogConfig
	Chat     ChatConfig
}

type ServerConfig struct {
	Port           string
	Environment    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// IdentityConfig describes how access tokens from the identity backend are verified.
// Exactly one of JWTSecret or PublicKeyPath is expected.
type IdentityConfig struct {
	JWTSecret     string
	PublicKeyPath string
	Issuer        string
	Audience      string
	CookieName    string
}

type LogConfig struct {
	Level   string
	Console bool
}

type ChatConfig struct {
	Stream       string
	MaxStreamLen int64
}

func Load() (*Config, error) {
	// .env is optional outside development
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "chatbots"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Identity: IdentityConfig{
			JWTSecret:     getEnv("IDENTITY_JWT_SECRET", ""),
			PublicKeyPath: getEnv("IDENTITY_PUBLIC_KEY_PATH", ""),
			Issuer:        getEnv("IDENTITY_ISSUER", ""),
			Audience:      getEnv("IDENTITY_AUDIENCE", "authenticated"),
			CookieName:    getEnv("IDENTITY_COOKIE_NAME", "sb-access-token"),
		},
		Log: LogConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Console: getBoolEnv("LOG_CONSOLE", false),
		},
		Chat: ChatConfig{
			Stream:       getEnv("CHAT_STREAM", "chat:inbound"),
			MaxStreamLen: int64(getIntEnv("CHAT_STREAM_MAXLEN", 10000)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the gateway cannot run safely with
func (c *Config) Validate() error {
	if c.Identity.JWTSecret == "" && c.Identity.PublicKeyPath == "" {
		return errors.New("one of IDENTITY_JWT_SECRET or IDENTITY_PUBLIC_KEY_PATH is required")
	}
	if c.Identity.JWTSecret != "" && c.Identity.PublicKeyPath != "" {
		return errors.New("IDENTITY_JWT_SECRET and IDENTITY_PUBLIC_KEY_PATH are mutually exclusive")
	}
	if c.Chat.Stream == "" {
		return errors.New("CHAT_STREAM must not be empty")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Environment, "development")
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

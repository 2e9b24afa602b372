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

const (
	// DefaultAPIURL is used when API_URL is not set.
	DefaultAPIURL = "https://localhost:7114/api"

	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"

	ContentBackendREST      = "rest"
	ContentBackendFirestore = "firestore"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Session  SessionConfig
	Content  ContentConfig
	Firebase FirebaseConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	CORSOrigins     []string
	RefreshSchedule string
}

type APIConfig struct {
	URL       string
	AssetBase string
	Origin    string
	Timeout   time.Duration
	RateLimit float64
}

type SessionConfig struct {
	Backend       string
	File          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type ContentConfig struct {
	Backend string
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", ""),
		},
		API: APIConfig{
			URL:       getEnv("API_URL", DefaultAPIURL),
			AssetBase: getEnv("API_BASE_URL", ""),
			Origin:    getEnv("SITE_ORIGIN", "http://localhost:8080"),
			Timeout:   getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),
			RateLimit: getEnvAsFloat("API_RATE_LIMIT", 0),
		},
		Session: SessionConfig{
			Backend:       getEnv("SESSION_BACKEND", SessionBackendFile),
			File:          getEnv("SESSION_FILE", defaultSessionFile()),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
		Content: ContentConfig{
			Backend: getEnv("CONTENT_BACKEND", ContentBackendREST),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.API.URL == "" {
		return fmt.Errorf("API_URL is required")
	}

	switch c.Session.Backend {
	case SessionBackendFile:
		if c.Session.File == "" {
			return fmt.Errorf("SESSION_FILE is required when SESSION_BACKEND=file")
		}
	case SessionBackendRedis:
		if c.Session.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.Session.Backend)
	}

	switch c.Content.Backend {
	case ContentBackendREST:
	case ContentBackendFirestore:
		if c.Firebase.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required when CONTENT_BACKEND=firestore")
		}
	default:
		return fmt.Errorf("unknown CONTENT_BACKEND %q", c.Content.Backend)
	}

	if c.API.RateLimit < 0 {
		return fmt.Errorf("API_RATE_LIMIT must not be negative")
	}

	return nil
}

// IsProduction reports whether APP_ENV selects production behavior.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".portfolio-session.json"
	}
	return dir + string(os.PathSeparator) + "portfolio" + string(os.PathSeparator) + "session.json"
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

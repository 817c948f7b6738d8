// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Services    ServicesConfig
	Session     SessionConfig
	Cache       CacheConfig
	Feed        FeedConfig
	I18n        I18nConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	TemplateGlob string
	StaticDir    string
}

// ServicesConfig holds one base URL per backend service boundary.
// Each API client gets exactly one of these.
type ServicesConfig struct {
	AuthURL    string
	ProfileURL string
	PostURL    string
	SocialURL  string
	Timeout    int // per-request timeout in seconds
}

type SessionConfig struct {
	CookieName string
	TTL        int // in hours
	Secure     bool
}

type CacheConfig struct {
	ProfileTTL      int // in seconds
	CleanupInterval int // in seconds
}

type FeedConfig struct {
	PostLimit int
}

type I18nConfig struct {
	DefaultLocale string
	LocalesPath   string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3000"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			TemplateGlob: getEnv("TEMPLATE_GLOB", "./web/templates/*.tmpl"),
			StaticDir:    getEnv("STATIC_DIR", "./web/static"),
		},
		Services: ServicesConfig{
			AuthURL:    getEnv("AUTH_SERVICE_URL", "http://localhost:9000/api"),
			ProfileURL: getEnv("PROFILE_SERVICE_URL", "http://localhost:8082"),
			PostURL:    getEnv("POST_SERVICE_URL", "http://localhost:8081"),
			SocialURL:  getEnv("SOCIAL_SERVICE_URL", "http://localhost:9100/api/social"),
			Timeout:    getEnvAsInt("SERVICE_TIMEOUT", 10),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", "fs_session"),
			TTL:        getEnvAsInt("SESSION_TTL", 24), // 24 hours
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Cache: CacheConfig{
			ProfileTTL:      getEnvAsInt("PROFILE_CACHE_TTL", 30),
			CleanupInterval: getEnvAsInt("CACHE_CLEANUP_INTERVAL", 300),
		},
		Feed: FeedConfig{
			PostLimit: getEnvAsInt("FEED_POST_LIMIT", 50),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
			LocalesPath:   getEnv("LOCALES_PATH", "./internal/i18n/locales"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"AUTH_SERVICE_URL":    c.Services.AuthURL,
		"PROFILE_SERVICE_URL": c.Services.ProfileURL,
		"POST_SERVICE_URL":    c.Services.PostURL,
		"SOCIAL_SERVICE_URL":  c.Services.SocialURL,
	} {
		if raw == "" {
			return fmt.Errorf("%s is required", name)
		}
		if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
		}
	}

	if c.Environment == "production" && !c.Session.Secure {
		return fmt.Errorf("session cookie must be secure in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const insecureSessionSecret = "dev_secret"

type Config struct {
	Port string

	DB DatabaseConfig

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	CSRFKey       string

	Redis RedisConfig

	Upload UploadConfig
	Google GoogleOAuthConfig

	// Populated from the optional YAML file named by CONFIG_FILE.
	WasteTypes []string
	Admins     []string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// fileConfig is the shape of the YAML overlay.
type fileConfig struct {
	WasteTypes []string `yaml:"waste_types"`
	Admins     []string `yaml:"admins"`
}

var defaultWasteTypes = []string{"plastic", "glass", "metal", "paper", "organic", "electronic", "hazardous", "mixed"}

// Load reads .env (if present), the environment and the optional YAML overlay.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		DB: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", ""),
			User:       getEnv("DB_USER", "root"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "waste_management"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "waste_management.db"),
		},
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 168*time.Hour),
		CookieSecure:  getEnvAsBool("COOKIE_SECURE", false),
		CSRFKey:       getEnv("CSRF_KEY", ""),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Upload: loadUploadConfig(),
		Google: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		},
		WasteTypes: defaultWasteTypes,
	}

	if cfg.SessionSecret == "" {
		log.Println("WARNING: SESSION_SECRET not set, using insecure development secret")
		cfg.SessionSecret = insecureSessionSecret
	}

	if cfg.CSRFKey != "" && len(cfg.CSRFKey) != 32 {
		return nil, fmt.Errorf("CSRF_KEY must be exactly 32 bytes, got %d", len(cfg.CSRFKey))
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if len(fc.WasteTypes) > 0 {
		c.WasteTypes = fc.WasteTypes
	}
	for _, email := range fc.Admins {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			c.Admins = append(c.Admins, email)
		}
	}
	return nil
}

// InsecureSecret reports whether the session secret is the development fallback.
func (c *Config) InsecureSecret() bool {
	return c.SessionSecret == insecureSessionSecret
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil && value > 0 {
		return value
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// UserConfig is one login account. Password may be a bcrypt hash ("$2...")
// or plain text for local development.
type UserConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	TenantID string `yaml:"tenant"`
	Role     string `yaml:"role"`
}

// CORSConfig mirrors the Access-Control-Allow-* headers
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowedOrigins"`
	AllowedMethods string `yaml:"allowedMethods"`
	AllowedHeaders string `yaml:"allowedHeaders"`
}

// Config holds everything the server needs at startup
type Config struct {
	MongoURI   string        `yaml:"mongoUri"`
	MongoDB    string        `yaml:"mongoDatabase"`
	RedisAddr  string        `yaml:"redisAddr"`
	HTTPPort   string        `yaml:"httpPort"`
	JWTSecret  string        `yaml:"jwtSecret"`
	TokenTTL   time.Duration `yaml:"tokenTtl"`
	SessionTTL time.Duration `yaml:"sessionTtl"` // idle fill sessions expire after this
	LogLevel   string        `yaml:"logLevel"`
	CORS       CORSConfig    `yaml:"cors"`
	Users      []UserConfig  `yaml:"users"`
}

// Default returns the development defaults
func Default() *Config {
	return &Config{
		MongoURI:   "mongodb://localhost:27017",
		MongoDB:    "formflow",
		RedisAddr:  "localhost:6379",
		HTTPPort:   "8080",
		JWTSecret:  "super-secret-key-change-in-production",
		TokenTTL:   12 * time.Hour,
		SessionTTL: 24 * time.Hour,
		LogLevel:   "info",
		CORS: CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET, POST, PUT, DELETE, OPTIONS",
			AllowedHeaders: "Content-Type, Authorization",
		},
		Users: []UserConfig{
			{Username: "admin", Password: "password123", TenantID: "default", Role: "author"},
		},
	}
}

// Load reads the optional YAML file named by FORMFLOW_CONFIG, then applies
// environment overrides on top.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("FORMFLOW_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDB = getEnv("MONGO_DATABASE", c.MongoDB)
	c.RedisAddr = strings.TrimPrefix(getEnv("REDIS_URI", c.RedisAddr), "redis://")
	c.HTTPPort = getEnv("PORT", c.HTTPPort)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.CORS.AllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
	c.CORS.AllowedMethods = getEnv("CORS_ALLOWED_METHODS", c.CORS.AllowedMethods)
	c.CORS.AllowedHeaders = getEnv("CORS_ALLOWED_HEADERS", c.CORS.AllowedHeaders)

	var err error
	if c.TokenTTL, err = getDuration("TOKEN_TTL", c.TokenTTL); err != nil {
		return err
	}
	if c.SessionTTL, err = getDuration("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}

	// single-account override, kept for parity with docker-compose setups
	if username := os.Getenv("HOST_USERNAME"); username != "" {
		c.Users = []UserConfig{{
			Username: username,
			Password: getEnv("HOST_PASSWORD", "password123"),
			TenantID: getEnv("HOST_TENANT", "default"),
			Role:     "author",
		}}
	}
	return nil
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	seen := make(map[string]bool, len(c.Users))
	for _, u := range c.Users {
		if u.Username == "" || u.TenantID == "" {
			return fmt.Errorf("user entries need a username and a tenant")
		}
		if u.Role != "author" && u.Role != "respondent" {
			return fmt.Errorf("user %s: unknown role %q", u.Username, u.Role)
		}
		if seen[u.Username] {
			return fmt.Errorf("user %s configured twice", u.Username)
		}
		seen[u.Username] = true
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

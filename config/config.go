// Package config loads runtime settings: an optional YAML file named by
// CONFIG_FILE, then environment variables (a local .env is read first).
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string         `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Firebase FirebaseConfig `yaml:"firebase"`
	CORS     CORSConfig     `yaml:"cors"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	AdminAPIKey     string        `yaml:"admin_api_key"`
	SuperAdminEmail string        `yaml:"super_admin_email"`
}

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsJSON string `yaml:"credentials_json"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		Database: DatabaseConfig{Driver: "postgres", Port: "5432"},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour},
		CORS:     CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// Load reads .env (if present), the YAML file at CONFIG_FILE (if set) and
// then the environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", path)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")

	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")

	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Auth.AdminAPIKey, "ADMIN_API_KEY")
	setString(&c.Auth.SuperAdminEmail, "SUPER_ADMIN_EMAIL")
	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "JWT_TTL")
		}
		c.Auth.TokenTTL = d
	}

	setString(&c.Firebase.ProjectID, "FIREBASE_PROJECT_ID")
	setString(&c.Firebase.CredentialsJSON, "FIREBASE_CREDENTIALS_JSON")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
	return nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.Database.URL == "" && c.Database.Name == "" {
		return errors.New("DATABASE_URL or DB_NAME must be set")
	}
	return nil
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// Package config handles configuration for the blog server: defaults, an
// optional YAML file, environment variables and finally command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoSecretKey = errors.New("config: secret key is required")
	ErrSessionTTL  = errors.New("config: session ttl must be positive")
	ErrAdminID     = errors.New("config: admin id must be positive")
)

// Config holds runtime settings for the blog server.
//
// SecretKey signs session tokens and must be supplied out-of-band
// (QUILL_SECRET_KEY, or FLASK_KEY for deployments migrated from the old app).
type Config struct {
	Addr                string        `yaml:"addr"`
	DatabasePath        string        `yaml:"database_path"`
	SessionDir          string        `yaml:"session_dir"`
	SecretKey           string        `yaml:"secret_key"`
	SessionTTL          time.Duration `yaml:"session_ttl"`
	AdminID             uint          `yaml:"admin_id"`
	OpenCommentDeletion bool          `yaml:"open_comment_deletion"`
	SecureCookies       bool          `yaml:"secure_cookies"`
	SentryDSN           string        `yaml:"sentry_dsn"`
	Environment         string        `yaml:"environment"`
}

// LoadDefaults populates Config with development defaults.
// SecretKey is intentionally left empty.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabasePath = "data/posts.db"
	c.SessionDir = "data/sessions"
	c.SessionTTL = 30 * 24 * time.Hour
	c.AdminID = 1
	c.Environment = "development"
}

// Validate reports the first setting that makes the server unusable.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrNoSecretKey
	}
	if c.SessionTTL <= 0 {
		return ErrSessionTTL
	}
	if c.AdminID == 0 {
		return ErrAdminID
	}
	return nil
}

// Load builds a Config from defaults, then the YAML file named by -config or
// QUILL_CONFIG, then the environment, then the remaining flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("quill", flag.ContinueOnError)
	configFile := fs.String("config", os.Getenv("QUILL_CONFIG"), "path to a YAML config file")
	addr := fs.String("addr", "", "HTTP listen address")
	dbPath := fs.String("db", "", "path to the SQLite database file")
	sessionDir := fs.String("sessions", "", "directory of the session store")
	adminID := fs.Uint("admin-id", 0, "id of the administrator account")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configFile != "" {
		if err := cfg.loadFile(*configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *sessionDir != "" {
		cfg.SessionDir = *sessionDir
	}
	if *adminID != 0 {
		cfg.AdminID = *adminID
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv("FLASK_KEY"); v != "" {
		c.SecretKey = v
	}
	if v := os.Getenv("QUILL_SECRET_KEY"); v != "" {
		c.SecretKey = v
	}
	if v := os.Getenv("QUILL_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("QUILL_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("QUILL_SESSION_DIR"); v != "" {
		c.SessionDir = v
	}
	if v := os.Getenv("QUILL_SENTRY_DSN"); v != "" {
		c.SentryDSN = v
	}
	if v := os.Getenv("QUILL_ENVIRONMENT"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("QUILL_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QUILL_SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if v := os.Getenv("QUILL_ADMIN_ID"); v != "" {
		id, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			return fmt.Errorf("QUILL_ADMIN_ID: %w", err)
		}
		c.AdminID = uint(id)
	}
	if v := os.Getenv("QUILL_OPEN_COMMENT_DELETION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QUILL_OPEN_COMMENT_DELETION: %w", err)
		}
		c.OpenCommentDeletion = b
	}
	if v := os.Getenv("QUILL_SECURE_COOKIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QUILL_SECURE_COOKIES: %w", err)
		}
		c.SecureCookies = b
	}
	return nil
}

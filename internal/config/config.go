// Package config loads service settings from defaults, an optional YAML
// file, a .env file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/objstore"
)

// Config holds all runtime settings.
type Config struct {
	Addr             string   `yaml:"addr"`
	DBPath           string   `yaml:"db"`
	StorageDir       string   `yaml:"storage_dir"`
	Bucket           string   `yaml:"bucket"`
	PublicBaseURL    string   `yaml:"public_base_url"`
	SignupSecret     string   `yaml:"signup_secret"`
	ViewerDomain     string   `yaml:"viewer_domain"`
	ViewerCookieDays int      `yaml:"viewer_cookie_days"`
	TimeZone         string   `yaml:"time_zone"`
	Env              string   `yaml:"env"`
	CORSOrigins      []string `yaml:"cors_origins"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:             ":8080",
		DBPath:           "lostfound.sqlite3",
		StorageDir:       "storage",
		Bucket:           objstore.DefaultBucket,
		SignupSecret:     auth.DefaultSignupSecret,
		ViewerDomain:     auth.DefaultViewerDomain,
		ViewerCookieDays: auth.ViewerCookieDays,
		TimeZone:         "Asia/Tokyo",
		Env:              "development",
	}
}

// Load builds the configuration. path may be empty; envFile may name a
// dotenv file that is allowed to be missing.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening config file: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decoding config file: %w", err)
		}
	}

	if envFile != "" {
		// Variables already set in the environment win over the file.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Addr, "LF_ADDR")
	setString(&c.DBPath, "LF_DB")
	setString(&c.StorageDir, "LF_STORAGE_DIR")
	setString(&c.PublicBaseURL, "LF_BASE_URL")
	setString(&c.SignupSecret, "SIGNUP_SECRET")
	setString(&c.ViewerDomain, "LF_VIEWER_DOMAIN")
	setString(&c.TimeZone, "LF_TZ")
	setString(&c.Env, "LF_ENV")

	if v := os.Getenv("LF_VIEWER_COOKIE_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LF_VIEWER_COOKIE_DAYS: %w", err)
		}
		c.ViewerCookieDays = n
	}
	if v := os.Getenv("LF_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	if c.StorageDir == "" {
		return errors.New("storage directory is required")
	}
	if !strings.HasPrefix(c.ViewerDomain, "@") {
		return fmt.Errorf("viewer domain %q must start with '@'", c.ViewerDomain)
	}
	if c.ViewerCookieDays <= 0 {
		return fmt.Errorf("viewer cookie days must be positive, got %d", c.ViewerCookieDays)
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("unknown time zone %q: %w", c.TimeZone, err)
	}
	if c.SignupSecret == "" {
		return errors.New("signup secret is required")
	}
	if !c.IsDevelopment() && c.SignupSecret == auth.DefaultSignupSecret {
		return errors.New("SIGNUP_SECRET must be changed outside development")
	}
	return nil
}

// Location returns the display time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ViewerCookieMaxAge is the viewer cookie lifetime.
func (c *Config) ViewerCookieMaxAge() time.Duration {
	return time.Duration(c.ViewerCookieDays) * 24 * time.Hour
}

package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/filex"
	"github.com/dmitrijs2005/gophdiary/internal/logging"
	"github.com/spf13/pflag"
)

// Config holds runtime settings for the diary client.
type Config struct {
	// APIURL is the base URL of the Remote Entry Store.
	APIURL string `envconfig:"API_URL"`
	// AuthURL is the base URL of the GoTrue-compatible auth server.
	AuthURL       string `envconfig:"AUTH_URL"`
	AuthAPIKey    string `envconfig:"AUTH_API_KEY"`
	OAuthProvider string `envconfig:"OAUTH_PROVIDER"`
	// CallbackAddr is the loopback address receiving the OAuth redirect.
	CallbackAddr string `envconfig:"CALLBACK_ADDR"`

	RequestTimeout      time.Duration `envconfig:"REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `envconfig:"ONLINE_CHECK_INTERVAL"`

	// DataDir holds the local SQLite store (session, preferences).
	DataDir string `envconfig:"DATA_DIR"`

	LogFormat string `envconfig:"LOG_FORMAT"`
	LogLevel  string `envconfig:"LOG_LEVEL"`

	S3Region    string `envconfig:"S3_REGION"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8080"
	c.AuthURL = "http://127.0.0.1:9999"
	c.OAuthProvider = "github"
	c.CallbackAddr = "127.0.0.1:0"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DataDir = "~/.gophdiary"
	c.LogFormat = logging.FormatConsole
	c.LogLevel = "warn"
}

// LoadConfig builds a Config from defaults, the environment, an optional
// JSON file and finally the flags in fs that were set explicitly. Later
// sources take precedence over earlier ones. fs must have been prepared with
// RegisterFlags and parsed.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	path, err := fs.GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("config flag: %w", err)
	}
	if err := parseJSON(cfg, path); err != nil {
		return nil, err
	}

	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{"api url": c.APIURL, "auth url": c.AuthURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if !slices.Contains([]string{logging.FormatJSON, logging.FormatConsole, logging.FormatText}, c.LogFormat) {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// LocalStorePath creates DataDir if needed and returns the path of the local
// SQLite database inside it.
func (c *Config) LocalStorePath() (string, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return "", fmt.Errorf("data dir: %w", err)
	}
	return filepath.Join(dir, "diary.db"), nil
}

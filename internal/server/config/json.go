package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophdiary/internal/flagx"
	"github.com/dmitrijs2005/gophdiary/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "30s" strings
// or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	JWTSecret        string         `json:"jwt_secret"`
	JWTAudience      *string        `json:"jwt_audience"`
	AllowedOrigins   []string       `json:"allowed_origins"`
	LogFormat        string         `json:"log_format"`
	LogLevel         string         `json:"log_level"`
	DBConnectTimeout timex.Duration `json:"db_connect_timeout"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
}

// parseJSON overlays the file named by -c/-config. Absent keys keep their
// current values; jwt_audience may be set to "" explicitly.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var c JsonConfig
	if err := json.Unmarshal(raw, &c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.JWTSecret, c.JWTSecret)
	setString(&cfg.LogFormat, c.LogFormat)
	setString(&cfg.LogLevel, c.LogLevel)
	if c.JWTAudience != nil {
		cfg.JWTAudience = *c.JWTAudience
	}
	if c.AllowedOrigins != nil {
		cfg.AllowedOrigins = c.AllowedOrigins
	}
	if c.DBConnectTimeout.Duration != 0 {
		cfg.DBConnectTimeout = c.DBConnectTimeout.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		cfg.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophdiary/internal/flagx"
)

// serverFlags are the flags parseFlags understands; everything else in args
// is ignored.
var serverFlags = []string{"-a", "-d", "-s", "-aud", "-origins", "-log-format", "-log-level", "-db-timeout"}

// parseFlags overlays command-line flags:
//
//	-a string           HTTP bind address (":8080")
//	-d string           PostgreSQL DSN
//	-s string           JWT HMAC secret
//	-aud string         required JWT audience ("" disables the check)
//	-origins string     comma-separated CORS origins
//	-log-format string  json, console or text
//	-log-level string   debug, info, warn or error
//	-db-timeout dur     start-up database wait
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.EndpointAddrHTTP, "a", cfg.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "JWT secret")
	fs.StringVar(&cfg.JWTAudience, "aud", cfg.JWTAudience, "required JWT audience")
	origins := fs.String("origins", strings.Join(cfg.AllowedOrigins, ","), "allowed CORS origins")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.DurationVar(&cfg.DBConnectTimeout, "db-timeout", cfg.DBConnectTimeout, "database connect timeout")

	if err := fs.Parse(flagx.FilterArgs(args, withLongForms(serverFlags))); err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	cfg.AllowedOrigins = splitList(*origins)
	return nil
}

// withLongForms adds the "--name" spelling of every "-name" flag.
func withLongForms(names []string) []string {
	out := make([]string, 0, 2*len(names))
	for _, n := range names {
		out = append(out, n, "-"+n)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

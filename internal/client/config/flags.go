package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	flagConfig              = "config"
	flagAPIURL              = "api-url"
	flagAuthURL             = "auth-url"
	flagAuthAPIKey          = "auth-api-key"
	flagOAuthProvider       = "oauth-provider"
	flagCallbackAddr        = "callback-addr"
	flagRequestTimeout      = "request-timeout"
	flagOnlineCheckInterval = "online-check-interval"
	flagDataDir             = "data-dir"
	flagLogFormat           = "log-format"
	flagLogLevel            = "log-level"
	flagS3Region            = "s3-region"
	flagS3Endpoint          = "s3-endpoint"
)

// RegisterFlags defines the configuration flags on fs, typically the
// persistent flag set of the root command.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(flagConfig, "c", "", "path to JSON config file")
	fs.StringP(flagAPIURL, "a", d.APIURL, "base URL of the entry API")
	fs.String(flagAuthURL, d.AuthURL, "base URL of the auth server")
	fs.String(flagAuthAPIKey, "", "public API key of the auth server")
	fs.String(flagOAuthProvider, d.OAuthProvider, "OAuth provider used for sign-in")
	fs.String(flagCallbackAddr, d.CallbackAddr, "loopback address for the OAuth redirect")
	fs.Duration(flagRequestTimeout, d.RequestTimeout, "timeout of a single API call")
	fs.DurationP(flagOnlineCheckInterval, "i", d.OnlineCheckInterval, "online check interval")
	fs.String(flagDataDir, d.DataDir, "directory of the local store")
	fs.String(flagLogFormat, d.LogFormat, "log format: json, console or text")
	fs.String(flagLogLevel, d.LogLevel, "log level: debug, info, warn or error")
	fs.String(flagS3Region, "", "region of the S3 store used by s3:// imports")
	fs.String(flagS3Endpoint, "", "endpoint of an S3-compatible store")
}

// applyFlags copies the flags that were set on the command line into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error

	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case flagAPIURL:
			cfg.APIURL = f.Value.String()
		case flagAuthURL:
			cfg.AuthURL = f.Value.String()
		case flagAuthAPIKey:
			cfg.AuthAPIKey = f.Value.String()
		case flagOAuthProvider:
			cfg.OAuthProvider = f.Value.String()
		case flagCallbackAddr:
			cfg.CallbackAddr = f.Value.String()
		case flagRequestTimeout:
			cfg.RequestTimeout, err = fs.GetDuration(f.Name)
		case flagOnlineCheckInterval:
			cfg.OnlineCheckInterval, err = fs.GetDuration(f.Name)
		case flagDataDir:
			cfg.DataDir = f.Value.String()
		case flagLogFormat:
			cfg.LogFormat = f.Value.String()
		case flagLogLevel:
			cfg.LogLevel = f.Value.String()
		case flagS3Region:
			cfg.S3Region = f.Value.String()
		case flagS3Endpoint:
			cfg.S3Endpoint = f.Value.String()
		}
	})

	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}

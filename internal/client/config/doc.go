// Package config loads runtime configuration for the diary client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with GOPHDIARY_, after loading an
//     optional .env file from the working directory.
//  3. Optional JSON file selected with -c or --config.
//  4. Command-line flags that were set explicitly.
//
// # Environment
//
//	GOPHDIARY_API_URL, GOPHDIARY_AUTH_URL, GOPHDIARY_AUTH_API_KEY,
//	GOPHDIARY_OAUTH_PROVIDER, GOPHDIARY_CALLBACK_ADDR,
//	GOPHDIARY_REQUEST_TIMEOUT, GOPHDIARY_ONLINE_CHECK_INTERVAL,
//	GOPHDIARY_DATA_DIR, GOPHDIARY_LOG_FORMAT, GOPHDIARY_LOG_LEVEL,
//	GOPHDIARY_S3_REGION, GOPHDIARY_S3_ENDPOINT,
//	GOPHDIARY_S3_ACCESS_KEY, GOPHDIARY_S3_SECRET_KEY
//
// # JSON schema
//
//	{
//	  "api_url": "https://diary.example.com",
//	  "auth_url": "https://project.supabase.co",
//	  "auth_api_key": "public-anon-key",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "data_dir": "~/.gophdiary"
//	}
//
// S3 credentials are read from the environment or the JSON file only, never
// from flags.
package config

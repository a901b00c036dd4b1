package config

import (
	"flag"
	"io"
)

// parseFlags overlays command-line flags onto cfg. Unknown flags are errors.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("gallery", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configFile string
	fs.StringVar(&configFile, "c", "", "path to JSON config file")
	fs.StringVar(&configFile, "config", "", "path to JSON config file")

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.OpsAddr, "ops-addr", cfg.OpsAddr, "gRPC ops listen address (empty or \"off\" disables)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.SessionKey, "session-key", cfg.SessionKey, "session cookie signing key")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "session cookie lifetime")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", cfg.SecureCookies, "mark cookies Secure")
	fs.DurationVar(&cfg.LoginWindow, "login-window", cfg.LoginWindow, "failed login counting window")
	fs.IntVar(&cfg.LoginMaxFails, "login-max-fails", cfg.LoginMaxFails, "failed logins before lockout")
	fs.DurationVar(&cfg.LoginBlockFor, "login-block-for", cfg.LoginBlockFor, "lockout duration")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file with rotation (empty: stderr)")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "S3 bucket for poster objects")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "S3 base endpoint (for S3-compatible stores)")
	fs.StringVar(&cfg.S3AccessKey, "s3-access-key", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "s3-secret-key", cfg.S3SecretKey, "S3 secret key")
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "development mode (enables gRPC reflection)")

	return fs.Parse(args)
}

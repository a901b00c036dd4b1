package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv applies non-empty environment variables over cfg.
func parseEnv(cfg *Config, getenv func(string) string) error {
	strs := map[string]*string{
		"SERVER_ADDRESS": &cfg.HTTPAddr,
		"OPS_ADDRESS":    &cfg.OpsAddr,
		"DATABASE_DSN":   &cfg.DatabaseDSN,
		"SESSION_KEY":    &cfg.SessionKey,
		"LOG_LEVEL":      &cfg.LogLevel,
		"LOG_FILE":       &cfg.LogFile,
		"S3_BUCKET":      &cfg.S3Bucket,
		"S3_REGION":      &cfg.S3Region,
		"S3_ENDPOINT":    &cfg.S3Endpoint,
		"S3_ACCESS_KEY":  &cfg.S3AccessKey,
		"S3_SECRET_KEY":  &cfg.S3SecretKey,
	}
	for k, dst := range strs {
		if v := getenv(k); v != "" {
			*dst = v
		}
	}

	if v := getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}
	if v := getenv("SECURE_COOKIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: SECURE_COOKIES: %w", err)
		}
		cfg.SecureCookies = b
	}
	return nil
}

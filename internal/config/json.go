package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Duration accepts Go duration strings ("15m") or integer nanoseconds in JSON.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		d.Duration = time.Duration(x)
	case string:
		p, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		d.Duration = p
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
	return nil
}

// jsonConfig is the file shape. Absent keys leave the current value untouched.
type jsonConfig struct {
	HTTPAddr      *string   `json:"http_addr"`
	OpsAddr       *string   `json:"ops_addr"`
	DatabaseDSN   *string   `json:"database_dsn"`
	SessionKey    *string   `json:"session_key"`
	SessionTTL    *Duration `json:"session_ttl"`
	SecureCookies *bool     `json:"secure_cookies"`
	LoginWindow   *Duration `json:"login_window"`
	LoginMaxFails *int      `json:"login_max_fails"`
	LoginBlockFor *Duration `json:"login_block_for"`
	LogLevel      *string   `json:"log_level"`
	LogFile       *string   `json:"log_file"`
	S3Bucket      *string   `json:"s3_bucket"`
	S3Region      *string   `json:"s3_region"`
	S3Endpoint    *string   `json:"s3_endpoint"`
	S3AccessKey   *string   `json:"s3_access_key"`
	S3SecretKey   *string   `json:"s3_secret_key"`
	Dev           *bool     `json:"dev"`
}

// configPath finds the JSON file: -c/-config in args win over CONFIG.
func configPath(args []string, getenv func(string) string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		for _, name := range []string{"-c", "--c", "-config", "--config"} {
			if a == name && i+1 < len(args) {
				return args[i+1]
			}
			if v, ok := strings.CutPrefix(a, name+"="); ok {
				return v
			}
		}
	}
	return getenv("CONFIG")
}

func parseJSON(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var c jsonConfig
	if err := json.Unmarshal(b, &c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setStr(&cfg.HTTPAddr, c.HTTPAddr)
	setStr(&cfg.OpsAddr, c.OpsAddr)
	setStr(&cfg.DatabaseDSN, c.DatabaseDSN)
	setStr(&cfg.SessionKey, c.SessionKey)
	setDur(&cfg.SessionTTL, c.SessionTTL)
	if c.SecureCookies != nil {
		cfg.SecureCookies = *c.SecureCookies
	}
	setDur(&cfg.LoginWindow, c.LoginWindow)
	if c.LoginMaxFails != nil {
		cfg.LoginMaxFails = *c.LoginMaxFails
	}
	setDur(&cfg.LoginBlockFor, c.LoginBlockFor)
	setStr(&cfg.LogLevel, c.LogLevel)
	setStr(&cfg.LogFile, c.LogFile)
	setStr(&cfg.S3Bucket, c.S3Bucket)
	setStr(&cfg.S3Region, c.S3Region)
	setStr(&cfg.S3Endpoint, c.S3Endpoint)
	setStr(&cfg.S3AccessKey, c.S3AccessKey)
	setStr(&cfg.S3SecretKey, c.S3SecretKey)
	if c.Dev != nil {
		cfg.Dev = *c.Dev
	}
	return nil
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDur(dst *time.Duration, v *Duration) {
	if v != nil {
		*dst = v.Duration
	}
}

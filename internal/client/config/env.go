package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// EnvPrefix prefixes every environment variable read by the client.
const EnvPrefix = "MSV_"

// swapped in tests
var lookupEnv = os.LookupEnv

// parseEnv overlays cfg with MSV_* variables. Names mirror the YAML keys,
// upper-cased, with nested keys joined by "_" (MSV_EXPORT_S3_BUCKET).
func parseEnv(cfg *Config) error {
	strs := map[string]*string{
		"SERVER_URL":           &cfg.ServerURL,
		"STORAGE":              &cfg.Storage,
		"DATA_DIR":             &cfg.DataDir,
		"REDIS_ADDR":           &cfg.RedisAddr,
		"REDIS_PASSWORD":       &cfg.RedisPassword,
		"LOG_LEVEL":            &cfg.LogLevel,
		"LOG_FORMAT":           &cfg.LogFormat,
		"EXPORT_DIR":           &cfg.Export.Dir,
		"EXPORT_S3_BUCKET":     &cfg.Export.S3Bucket,
		"EXPORT_S3_REGION":     &cfg.Export.S3Region,
		"EXPORT_S3_ENDPOINT":   &cfg.Export.S3Endpoint,
		"EXPORT_S3_ACCESS_KEY": &cfg.Export.S3AccessKey,
		"EXPORT_S3_SECRET_KEY": &cfg.Export.S3SecretKey,
		"MOCKAPI_ADDR":         &cfg.MockAPI.Addr,
		"MOCKAPI_JWT_SECRET":   &cfg.MockAPI.JWTSecret,
	}
	for name, dst := range strs {
		if v, ok := lookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"REQUEST_TIMEOUT":       &cfg.RequestTimeout,
		"ONLINE_CHECK_INTERVAL": &cfg.OnlineCheckInterval,
	}
	for name, dst := range durations {
		if v, ok := lookupEnv(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
			}
			*dst = d
		}
	}

	if v, ok := lookupEnv(EnvPrefix + "DEV_FALLBACK"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEV_FALLBACK: %w", EnvPrefix, err)
		}
		cfg.DevFallback = b
	}
	return nil
}

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

const appName = "marketsupervisor"

// Storage backends for the token and state snapshot.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds runtime settings for the msv CLI and the mock backend.
//
// Units: RequestTimeout and OnlineCheckInterval are time.Duration values
// and are written as Go duration strings ("10s") in YAML and env.
type Config struct {
	ServerURL           string        `yaml:"server_url"`
	RequestTimeout      time.Duration `yaml:"request_timeout"`
	OnlineCheckInterval time.Duration `yaml:"online_check_interval"`
	DevFallback         bool          `yaml:"dev_fallback"`

	Storage       string `yaml:"storage"`
	DataDir       string `yaml:"data_dir"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Export  ExportConfig  `yaml:"export"`
	MockAPI MockAPIConfig `yaml:"mockapi"`
}

// ExportConfig selects where exported search results go. With S3Bucket set
// exports are uploaded; otherwise they are written to Dir.
type ExportConfig struct {
	Dir         string `yaml:"dir"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
}

type MockAPIConfig struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"jwt_secret"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DevFallback = false
	c.Storage = StorageSQLite
	c.DataDir = filepath.Join(xdg.DataHome, appName)
	c.RedisAddr = "127.0.0.1:6379"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.Export = ExportConfig{S3Region: "us-east-1"}
	c.MockAPI = MockAPIConfig{Addr: ":5000", JWTSecret: "dev-secret"}
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url must be an http(s) URL, got %q", c.ServerURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online_check_interval must be positive")
	}
	switch c.Storage {
	case StorageSQLite, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	return nil
}

// DBPath is the SQLite file used by the sqlite storage backend.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "msv.db")
}

// ExportDir is where file exports are written.
func (c *Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return filepath.Join(c.DataDir, "exports")
}

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags are the persistent command-line overrides. Only flags the user
// actually set take effect.
type Flags struct {
	fs *pflag.FlagSet

	ConfigFile          string
	serverURL           string
	requestTimeout      time.Duration
	onlineCheckInterval time.Duration
	devFallback         bool
	storage             string
	dataDir             string
	logLevel            string
	logFormat           string
}

// RegisterFlags adds the config flags to fs.
//
//	-c, --config string            YAML config file
//	-a, --server string            backend base URL
//	    --timeout duration         per-request timeout
//	-i, --online-check duration    online status probe interval
//	    --dev-fallback             create local records when the backend is down
//	    --storage string           sqlite, redis or memory
//	    --data-dir string          directory for the local database and exports
//	    --log-level string
//	    --log-format string        text or json
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	var d Config
	d.LoadDefaults()

	f := &Flags{fs: fs}
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "YAML config file")
	fs.StringVarP(&f.serverURL, "server", "a", d.ServerURL, "backend base URL")
	fs.DurationVar(&f.requestTimeout, "timeout", d.RequestTimeout, "per-request timeout")
	fs.DurationVarP(&f.onlineCheckInterval, "online-check", "i", d.OnlineCheckInterval, "online status probe interval")
	fs.BoolVar(&f.devFallback, "dev-fallback", d.DevFallback, "create local records when the backend is unreachable")
	fs.StringVar(&f.storage, "storage", d.Storage, "local storage backend: sqlite, redis or memory")
	fs.StringVar(&f.dataDir, "data-dir", d.DataDir, "directory for the local database and exports")
	fs.StringVar(&f.logLevel, "log-level", d.LogLevel, "debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", d.LogFormat, "text or json")
	return f
}

func (f *Flags) apply(cfg *Config) {
	if f == nil || f.fs == nil {
		return
	}
	set := func(name string, fn func()) {
		if f.fs.Changed(name) {
			fn()
		}
	}
	set("server", func() { cfg.ServerURL = f.serverURL })
	set("timeout", func() { cfg.RequestTimeout = f.requestTimeout })
	set("online-check", func() { cfg.OnlineCheckInterval = f.onlineCheckInterval })
	set("dev-fallback", func() { cfg.DevFallback = f.devFallback })
	set("storage", func() { cfg.Storage = f.storage })
	set("data-dir", func() { cfg.DataDir = f.dataDir })
	set("log-level", func() { cfg.LogLevel = f.logLevel })
	set("log-format", func() { cfg.LogFormat = f.logFormat })
}

package config

import "strings"

// Load builds a Config from defaults, then the YAML file, then MSV_*
// environment variables, then the flags the user set. Later sources win.
// The file is flags.ConfigFile, falling back to DefaultFile.
func Load(flags *Flags) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := ""
	if flags != nil {
		path = flags.ConfigFile
	}
	if path == "" {
		path = DefaultFile()
	}
	if err := parseYAML(cfg, path); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	flags.apply(cfg)
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Package config loads runtime configuration for the msv CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional YAML file selected with -c/--config, or config.yaml under
//     $XDG_CONFIG_HOME/marketsupervisor.
//  3. MSV_* environment variables.
//  4. Command-line flags (see RegisterFlags), which override earlier values.
//
// # YAML schema
//
// Durations are Go duration strings:
//
//	server_url: http://localhost:5000
//	request_timeout: 10s
//	online_check_interval: 3s
//	storage: sqlite
//	log_format: json
//	export:
//	  s3_bucket: msv-exports
//	  s3_endpoint: http://127.0.0.1:9000
package config

// Package config loads huntsched's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/huntsched/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Fields
//
//	server_url = "http://127.0.0.1:9705"   # Huntarr web UI address
//	base_path = ""                          # reverse-proxy prefix, e.g. "huntarr"
//	request_timeout = 10                    # seconds, abort timeout for schedule calls
//	log_file = "~/.local/state/huntsched/huntsched.log"
//	log_level = "info"
//
// Missing config files are NOT an error. Tilde expansion applies to the
// config path and log_file.
package config

// Package config handles loading and saving the monarchctl configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/monarchctl/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. Keys missing from the file keep their defaults
//
// Command-line flags and MONARCH_* environment variables are layered on top
// by the cli package; this package only knows about the file.
//
// # Configuration Fields
//
//	host = "192.168.1.50"        # device address, optionally host:port
//	user = "admin"
//	password = "admin"
//	poll = true                  # query GetStatus periodically
//	poll_interval_ms = 10000     # clamped to >= 2000 by the poller
//	log_file = "~/.local/state/monarchctl/monarchctl.log"
//	log_level = "info"
//	metrics_addr = ":9742"
//
// A Config value is immutable once handed to an instance; reconfiguration
// replaces it wholesale.
package config

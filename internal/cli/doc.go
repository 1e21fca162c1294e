// Package cli implements the monarchctl command line.
//
// Settings come from the TOML config file and are overridden by persistent
// flags and MONARCH_* environment variables (MONARCH_HOST,
// MONARCH_POLL_INTERVAL_MS, ...). Only values that were explicitly set
// take part in the override.
package cli

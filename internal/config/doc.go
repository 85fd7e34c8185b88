// Package config loads, validates, and normalizes the TOML configuration for
// the enrichment tool.
package config

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateServices(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateServices() error {
	if strings.TrimSpace(c.MusicBrainz.BaseURL) == "" {
		return errors.New("musicbrainz.base_url must be set")
	}
	if strings.TrimSpace(c.MusicBrainz.UserAgent) == "" {
		return errors.New("musicbrainz.user_agent must be set")
	}
	if strings.TrimSpace(c.CoverArt.BaseURL) == "" {
		return errors.New("coverart.base_url must be set")
	}
	if strings.TrimSpace(c.ITunes.BaseURL) == "" {
		return errors.New("itunes.base_url must be set")
	}
	return ensurePositiveMap(map[string]int{
		"musicbrainz.timeout_seconds": c.MusicBrainz.TimeoutSeconds,
		"coverart.timeout_seconds":    c.CoverArt.TimeoutSeconds,
		"itunes.timeout_seconds":      c.ITunes.TimeoutSeconds,
	})
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.AutoAcceptThreshold < 0 || c.Enrichment.AutoAcceptThreshold > 1 {
		return errors.New("enrichment.auto_accept_threshold must be between 0 and 1")
	}
	if c.Enrichment.ReviewThreshold < 0 || c.Enrichment.ReviewThreshold > 1 {
		return errors.New("enrichment.review_threshold must be between 0 and 1")
	}
	if c.Enrichment.ReviewThreshold >= c.Enrichment.AutoAcceptThreshold {
		return errors.New("enrichment.review_threshold must be less than enrichment.auto_accept_threshold")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

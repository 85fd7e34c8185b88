package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// MusicBrainz contains configuration for the reference-lookup service.
type MusicBrainz struct {
	BaseURL        string  `toml:"base_url"`
	UserAgent      string  `toml:"user_agent"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	CandidateLimit int     `toml:"candidate_limit"`
}

// CoverArt contains configuration for the Cover Art Archive service.
type CoverArt struct {
	BaseURL        string  `toml:"base_url"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// ITunes contains configuration for the iTunes Search fallback service.
type ITunes struct {
	BaseURL        string  `toml:"base_url"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Enrichment contains the decision-engine tuning knobs.
type Enrichment struct {
	AutoAcceptThreshold float64 `toml:"auto_accept_threshold"`
	ReviewThreshold     float64 `toml:"review_threshold"`
	CheckpointInterval  int     `toml:"checkpoint_interval"`
	SkipArtwork         bool    `toml:"skip_artwork"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the enrichment tool.
type Config struct {
	Paths       Paths       `toml:"paths"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	CoverArt    CoverArt    `toml:"coverart"`
	ITunes      ITunes      `toml:"itunes"`
	Enrichment  Enrichment  `toml:"enrichment"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/crate/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("crate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ArtworkDir returns the directory enriched artwork files are written to.
func (c *Config) ArtworkDir() string {
	return filepath.Join(c.Paths.OutputDir, "artwork")
}

// StateDBPath returns the sqlite path for the processing state store.
func (c *Config) StateDBPath() string {
	return filepath.Join(c.Paths.OutputDir, "state.db")
}

// LogFilePath returns the log file destination.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "crate.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.MusicBrainz.BaseURL = strings.TrimRight(strings.TrimSpace(c.MusicBrainz.BaseURL), "/")
	c.CoverArt.BaseURL = strings.TrimRight(strings.TrimSpace(c.CoverArt.BaseURL), "/")
	c.ITunes.BaseURL = strings.TrimRight(strings.TrimSpace(c.ITunes.BaseURL), "/")

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.MusicBrainz.RatePerSecond <= 0 {
		c.MusicBrainz.RatePerSecond = defaultMusicBrainzRate
	}
	if c.CoverArt.RatePerSecond <= 0 {
		c.CoverArt.RatePerSecond = defaultCoverArtRate
	}
	if c.ITunes.RatePerSecond <= 0 {
		c.ITunes.RatePerSecond = defaultITunesRate
	}
	if c.MusicBrainz.CandidateLimit <= 0 {
		c.MusicBrainz.CandidateLimit = defaultMusicBrainzCandidateLim
	}
	if c.Enrichment.CheckpointInterval <= 0 {
		c.Enrichment.CheckpointInterval = defaultCheckpointInterval
	}

	return nil
}

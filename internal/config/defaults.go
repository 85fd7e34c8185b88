package config

const (
	defaultOutputDir = "~/crate/output"
	defaultLogDir    = "~/crate/logs"

	defaultMusicBrainzBaseURL       = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzUserAgent     = "crate/1.0 (https://github.com/crate/crate)"
	defaultMusicBrainzRate          = 1.0
	defaultMusicBrainzTimeout       = 10
	defaultMusicBrainzCandidateLim  = 5
	defaultCoverArtBaseURL          = "https://coverartarchive.org"
	defaultCoverArtRate             = 1.0
	defaultCoverArtTimeout          = 15
	defaultITunesBaseURL            = "https://itunes.apple.com/search"
	defaultITunesRate               = 2.0
	defaultITunesTimeout            = 10
	defaultAutoAcceptThreshold      = 0.85
	defaultReviewThreshold          = 0.50
	defaultCheckpointInterval       = 25
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with default values. Paths are kept in
// their raw form until normalize runs.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:        defaultMusicBrainzBaseURL,
			UserAgent:      defaultMusicBrainzUserAgent,
			RatePerSecond:  defaultMusicBrainzRate,
			TimeoutSeconds: defaultMusicBrainzTimeout,
			CandidateLimit: defaultMusicBrainzCandidateLim,
		},
		CoverArt: CoverArt{
			BaseURL:        defaultCoverArtBaseURL,
			RatePerSecond:  defaultCoverArtRate,
			TimeoutSeconds: defaultCoverArtTimeout,
		},
		ITunes: ITunes{
			BaseURL:        defaultITunesBaseURL,
			RatePerSecond:  defaultITunesRate,
			TimeoutSeconds: defaultITunesTimeout,
		},
		Enrichment: Enrichment{
			AutoAcceptThreshold: defaultAutoAcceptThreshold,
			ReviewThreshold:     defaultReviewThreshold,
			CheckpointInterval:  defaultCheckpointInterval,
			SkipArtwork:         false,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

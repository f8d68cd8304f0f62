package config

// Fallback policies for files where no boundary is detected.
const (
	OnMissingBoundarySkip    = "skip"
	OnMissingBoundaryHardCut = "hard_cut"
)

const (
	defaultInputDir           = "~/episplit/input"
	defaultOutputDir          = "~/episplit/output"
	defaultStagingDir         = "~/.local/share/episplit/staging"
	defaultLogDir             = "~/.local/share/episplit/logs"
	defaultCatalogPath        = "episode_list.csv"
	defaultIntroDuration      = 47.0
	defaultTargetTime         = 710.0
	defaultTimeMargin         = 60.0
	defaultDarknessThreshold  = 0.15
	defaultMinBlackDuration   = 0.2
	defaultMaxBlackDuration   = 4.0
	defaultFuzzyThreshold     = 0.75
	defaultToolTimeoutSeconds = 600
	defaultWorkers            = 1
	defaultLogFormat          = "auto"
	defaultLogLevel           = "info"
)

func defaultVideoExtensions() []string {
	return []string{".mkv", ".mp4", ".avi"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:    defaultInputDir,
			OutputDir:   defaultOutputDir,
			StagingDir:  defaultStagingDir,
			LogDir:      defaultLogDir,
			CatalogPath: defaultCatalogPath,
		},
		Split: Split{
			IntroDuration:     defaultIntroDuration,
			TargetTime:        defaultTargetTime,
			TimeMargin:        defaultTimeMargin,
			DarknessThreshold: defaultDarknessThreshold,
			MinBlackDuration:  defaultMinBlackDuration,
			MaxBlackDuration:  defaultMaxBlackDuration,
			OnMissingBoundary: OnMissingBoundarySkip,
		},
		Matching: Matching{
			FuzzyThreshold: defaultFuzzyThreshold,
		},
		Tools: Tools{
			FFmpeg:         "ffmpeg",
			FFprobe:        "ffprobe",
			TimeoutSeconds: defaultToolTimeoutSeconds,
		},
		Workflow: Workflow{
			Workers:         defaultWorkers,
			VideoExtensions: defaultVideoExtensions(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

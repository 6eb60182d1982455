package config

const (
	defaultStagingDir = "~/.local/share/discmapper/staging"
	defaultLogDir     = "~/.local/share/discmapper/logs"

	defaultMakeMKVBinary     = "makemkvcon"
	defaultOpticalDrive      = "/dev/sr0"
	defaultOpticalMountPoint = "/media/cdrom"
	defaultRipTimeoutSeconds = 10800

	// Dirty-mode rip floor so menu loops and trailers never hit disk.
	defaultMinLengthMinutes       = 6
	defaultMinLengthBufferMinutes = 2

	defaultManifestBufferMinutes = 12
	defaultTypicalBufferMinutes  = 8
	defaultSpecialDeltaMinutes   = 10
	defaultSkipPenaltyMinutes    = 2.0
	defaultMaxMeanErrorMinutes   = 4.0

	defaultMinMainMinutes           = 45
	defaultDurationToleranceSeconds = 2
	defaultMultiCutThresholdSeconds = 180

	defaultPollIntervalSeconds  = 3
	defaultDiscSettleSeconds    = 5
	defaultPostRipSettleSeconds = 3
	defaultEjectDelaySeconds    = 2
	defaultMaxWaitMinutes       = 30

	defaultTVMazeBaseURL        = "https://api.tvmaze.com"
	defaultTVMazeTimeoutSeconds = 30

	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		MakeMKV: MakeMKV{
			Binary:                 defaultMakeMKVBinary,
			Device:                 defaultOpticalDrive,
			DriveIndex:             0,
			MountPoint:             defaultOpticalMountPoint,
			RipTimeoutSeconds:      defaultRipTimeoutSeconds,
			MinLengthMinutes:       defaultMinLengthMinutes,
			ManifestMinLength:      true,
			MinLengthBufferMinutes: defaultMinLengthBufferMinutes,
		},
		Matching: Matching{
			ManifestBufferMinutes: defaultManifestBufferMinutes,
			TypicalBufferMinutes:  defaultTypicalBufferMinutes,
			SpecialDeltaMinutes:   defaultSpecialDeltaMinutes,
			SkipPenaltyMinutes:    defaultSkipPenaltyMinutes,
			MaxMeanErrorMinutes:   defaultMaxMeanErrorMinutes,
		},
		Keeper: Keeper{
			MinMainMinutes:           defaultMinMainMinutes,
			DurationToleranceSeconds: defaultDurationToleranceSeconds,
			MultiCutThresholdSeconds: defaultMultiCutThresholdSeconds,
		},
		Timing: Timing{
			PollIntervalSeconds:  defaultPollIntervalSeconds,
			DiscSettleSeconds:    defaultDiscSettleSeconds,
			PostRipSettleSeconds: defaultPostRipSettleSeconds,
			EjectDelaySeconds:    defaultEjectDelaySeconds,
			MaxWaitMinutes:       defaultMaxWaitMinutes,
		},
		Policy: Policy{
			MoveMode:            "move",
			WriteSidecars:       true,
			ArchiveRawOnSuccess: true,
			VerifyDiscStructure: true,
			EjectOnSuccess:      true,
			EjectOnError:        false,
			SafeCommit:          true,
		},
		Naming: Naming{
			IncludeYear:        true,
			IncludeIMDBID:      true,
			AppendPackageIndex: true,
		},
		TVMaze: TVMaze{
			Enabled:        true,
			BaseURL:        defaultTVMazeBaseURL,
			TimeoutSeconds: defaultTVMazeTimeoutSeconds,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

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
	if err := c.validateMakeMKV(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateKeeper(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validatePolicy(); err != nil {
		return err
	}
	return c.validateTVMaze()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateMakeMKV() error {
	if strings.TrimSpace(c.MakeMKV.Binary) == "" {
		return errors.New("makemkv.binary must be set")
	}
	if strings.TrimSpace(c.MakeMKV.Device) == "" {
		return errors.New("makemkv.device must be set")
	}
	if c.MakeMKV.DriveIndex < 0 {
		return errors.New("makemkv.drive_index must not be negative")
	}
	if c.MakeMKV.MinLengthMinutes < 1 {
		return errors.New("makemkv.min_length_minutes must be at least 1")
	}
	if c.MakeMKV.MinLengthBufferMinutes < 0 {
		return errors.New("makemkv.min_length_buffer_minutes must not be negative")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.ManifestBufferMinutes < 0 || c.Matching.TypicalBufferMinutes < 0 {
		return errors.New("matching buffers must not be negative")
	}
	if c.Matching.SpecialDeltaMinutes < 1 {
		return errors.New("matching.special_delta_minutes must be at least 1")
	}
	if c.Matching.SkipPenaltyMinutes <= 0 {
		return errors.New("matching.skip_penalty_minutes must be positive")
	}
	if c.Matching.MaxMeanErrorMinutes <= 0 {
		return errors.New("matching.max_mean_error_minutes must be positive")
	}
	return nil
}

func (c *Config) validateKeeper() error {
	if c.Keeper.MinMainMinutes < 1 {
		return errors.New("keeper.min_main_minutes must be at least 1")
	}
	if c.Keeper.DurationToleranceSeconds < 0 {
		return errors.New("keeper.duration_tolerance_seconds must not be negative")
	}
	if c.Keeper.MultiCutThresholdSeconds <= c.Keeper.DurationToleranceSeconds {
		return errors.New("keeper.multi_cut_threshold_seconds must exceed the duration tolerance")
	}
	return nil
}

func (c *Config) validateTiming() error {
	if c.Timing.PollIntervalSeconds < 1 {
		return errors.New("timing.poll_interval_seconds must be at least 1")
	}
	if c.Timing.MaxWaitMinutes < 1 {
		return errors.New("timing.max_wait_minutes must be at least 1")
	}
	return nil
}

func (c *Config) validatePolicy() error {
	switch c.Policy.MoveMode {
	case "move", "copy":
		return nil
	default:
		return fmt.Errorf("policy.move_mode must be \"move\" or \"copy\", got %q", c.Policy.MoveMode)
	}
}

func (c *Config) validateTVMaze() error {
	if !c.TVMaze.Enabled {
		return nil
	}
	if strings.TrimSpace(c.TVMaze.BaseURL) == "" {
		return errors.New("tvmaze.base_url must be set when tvmaze.enabled is true")
	}
	if c.TVMaze.TimeoutSeconds < 1 {
		return errors.New("tvmaze.timeout_seconds must be at least 1")
	}
	return nil
}

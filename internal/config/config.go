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

// Paths contains directory configuration. All staging subdirectories are
// derived from StagingDir so a single root can be relocated wholesale.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
}

// MakeMKV contains disc ripping settings.
type MakeMKV struct {
	Binary                 string `toml:"binary"`
	Device                 string `toml:"device"`
	DriveIndex             int    `toml:"drive_index"`
	MountPoint             string `toml:"mount_point"`
	RipTimeoutSeconds      int    `toml:"rip_timeout_seconds"`
	MinLengthMinutes       int    `toml:"min_length_minutes"`
	ManifestMinLength      bool   `toml:"manifest_min_length"`
	MinLengthBufferMinutes int    `toml:"min_length_buffer_minutes"`
}

// Matching contains the acceptance-window and assignment tunables for
// multi-episode discs.
type Matching struct {
	ManifestBufferMinutes int     `toml:"manifest_buffer_minutes"`
	TypicalBufferMinutes  int     `toml:"typical_buffer_minutes"`
	SpecialDeltaMinutes   int     `toml:"special_delta_minutes"`
	SkipPenaltyMinutes    float64 `toml:"skip_penalty_minutes"`
	MaxMeanErrorMinutes   float64 `toml:"max_mean_error_minutes"`
}

// Keeper contains main-feature selection tunables for movie discs.
type Keeper struct {
	MinMainMinutes           int `toml:"min_main_minutes"`
	DurationToleranceSeconds int `toml:"duration_tolerance_seconds"`
	MultiCutThresholdSeconds int `toml:"multi_cut_threshold_seconds"`
}

// Timing contains poll intervals and settle delays for the capture loop.
type Timing struct {
	PollIntervalSeconds  int `toml:"poll_interval_seconds"`
	DiscSettleSeconds    int `toml:"disc_settle_seconds"`
	PostRipSettleSeconds int `toml:"post_rip_settle_seconds"`
	EjectDelaySeconds    int `toml:"eject_delay_seconds"`
	MaxWaitMinutes       int `toml:"max_wait_minutes"`
}

// Policy contains commit and cleanup behaviour switches.
type Policy struct {
	MoveMode            string `toml:"move_mode"` // "move" or "copy"
	WriteSidecars       bool   `toml:"write_sidecars"`
	ArchiveRawOnSuccess bool   `toml:"archive_raw_on_success"`
	VerifyDiscStructure bool   `toml:"verify_disc_structure"`
	EjectOnSuccess      bool   `toml:"eject_on_success"`
	EjectOnError        bool   `toml:"eject_on_error"`
	SafeCommit          bool   `toml:"safe_commit"`
}

// Naming contains output naming switches.
type Naming struct {
	IncludeYear        bool `toml:"include_year"`
	IncludeIMDBID      bool `toml:"include_imdb_id"`
	AppendPackageIndex bool `toml:"append_package_index"`
}

// TVMaze contains settings for the show premiere-year lookup.
type TVMaze struct {
	Enabled        bool   `toml:"enabled"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for discmapper.
type Config struct {
	Paths    Paths    `toml:"paths"`
	MakeMKV  MakeMKV  `toml:"makemkv"`
	Matching Matching `toml:"matching"`
	Keeper   Keeper   `toml:"keeper"`
	Timing   Timing   `toml:"timing"`
	Policy   Policy   `toml:"policy"`
	Naming   Naming   `toml:"naming"`
	TVMaze   TVMaze   `toml:"tvmaze"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/discmapper/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file existed at the resolved path.
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

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
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
	projectPath, err := filepath.Abs("discmapper.toml")
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

func (c *Config) normalize() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Policy.MoveMode = strings.ToLower(strings.TrimSpace(c.Policy.MoveMode))
	if c.Policy.MoveMode == "" {
		c.Policy.MoveMode = "move"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.TVMaze.BaseURL = strings.TrimRight(strings.TrimSpace(c.TVMaze.BaseURL), "/")
	return nil
}

// StagingPaths groups the directories one content kind's jobs move through.
type StagingPaths struct {
	Raw    string
	Review string
	Ready  string
	Done   string
}

// Staging returns the staging layout for a content kind subdirectory
// ("Movies" or "TV").
func (c *Config) Staging(kind string) StagingPaths {
	base := filepath.Join(c.Paths.StagingDir, kind)
	return StagingPaths{
		Raw:    filepath.Join(base, "1_Raw"),
		Review: filepath.Join(base, "2_Review"),
		Ready:  filepath.Join(base, "3_Ready"),
		Done:   filepath.Join(base, "1_Raw", "_done"),
	}
}

// UnableDir returns the quarantine area for unreadable discs. It is shared
// across content kinds.
func (c *Config) UnableDir() string {
	return filepath.Join(c.Paths.StagingDir, "Unable_to_Read")
}

// EnsureDirectories creates the staging layout and log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, c.UnableDir()}
	for _, kind := range []string{"Movies", "TV"} {
		staging := c.Staging(kind)
		dirs = append(dirs, staging.Raw, staging.Review, staging.Ready, staging.Done)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFprobeBinary returns the ffprobe executable used for duration probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
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

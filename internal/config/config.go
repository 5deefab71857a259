package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the config file when no --config flag is given.
const EnvConfigPath = "YASE_CONFIG"

// TranscodeConfig controls how lines are cleaned, split and looked up.
type TranscodeConfig struct {
	Separator        string `yaml:"separator" toml:"separator"`
	InputEncoding    string `yaml:"input_encoding" toml:"input_encoding"`
	TableEncoding    string `yaml:"table_encoding" toml:"table_encoding"`
	NoReplace        bool   `yaml:"no_replace" toml:"no_replace"`
	Replacements     string `yaml:"replacements,omitempty" toml:"replacements,omitempty"`
	NormalizeUnicode bool   `yaml:"normalize_unicode" toml:"normalize_unicode"`
}

// OutputConfig selects the output storage.
type OutputConfig struct {
	// Format is csv or sqlite; empty infers it from the output file name.
	Format string `yaml:"format" toml:"format"`
}

// ProgressConfig selects how progress is shown.
type ProgressConfig struct {
	// Mode is bar, tui or none.
	Mode          string `yaml:"mode" toml:"mode"`
	MinIntervalMS int    `yaml:"min_interval_ms" toml:"min_interval_ms"`
}

// ReportConfig controls the unknown-token report printed after a run.
type ReportConfig struct {
	UnknownTop int `yaml:"unknown_top" toml:"unknown_top"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Transcode TranscodeConfig `yaml:"transcode" toml:"transcode"`
	Output    OutputConfig    `yaml:"output" toml:"output"`
	Progress  ProgressConfig  `yaml:"progress" toml:"progress"`
	Report    ReportConfig    `yaml:"report" toml:"report"`
}

// Progress modes.
const (
	ProgressBar  = "bar"
	ProgressTUI  = "tui"
	ProgressNone = "none"
)

// Load reads a config from path. YAML is assumed unless the extension is
// .toml. If the file does not exist, defaults are returned.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./yase.yaml first, then ~/.config/yase/config.yaml.
// Defaults are returned when neither exists; nothing is written.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "yase.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return Default(), "", nil
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	return Default(), "", nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultUserConfigPath returns ~/.config/yase/config.yaml.
func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "yase", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Transcode: TranscodeConfig{
			Separator:     " ",
			InputEncoding: "UTF8",
			TableEncoding: "UTF8",
		},
		Progress: ProgressConfig{Mode: ProgressBar, MinIntervalMS: 500},
		Report:   ReportConfig{UnknownTop: 10},
	}
}

// Validate checks enumerated values.
func (c *AppConfig) Validate() error {
	switch c.Progress.Mode {
	case ProgressBar, ProgressTUI, ProgressNone:
	default:
		return fmt.Errorf("unknown progress mode %q", c.Progress.Mode)
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "csv", "sqlite":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	return nil
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Transcode.Separator == "" {
		cfg.Transcode.Separator = " "
	}
	if cfg.Transcode.InputEncoding == "" {
		cfg.Transcode.InputEncoding = "UTF8"
	}
	if cfg.Transcode.TableEncoding == "" {
		cfg.Transcode.TableEncoding = "UTF8"
	}
	if cfg.Progress.Mode == "" {
		cfg.Progress.Mode = ProgressBar
	}
	if cfg.Progress.MinIntervalMS < 0 {
		cfg.Progress.MinIntervalMS = 0
	}
	if cfg.Report.UnknownTop < 0 {
		cfg.Report.UnknownTop = 0
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

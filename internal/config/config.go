// Package config loads mathsheet settings from an optional YAML file
// layered under MATHSHEET_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathsheet/internal/barrier"
)

// Config is the root configuration structure.
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Render RenderConfig `yaml:"render"`
	UI     UIConfig     `yaml:"ui"`

	// DBPath overrides the event database location.
	DBPath string `yaml:"db_path"`
	// OutputDir is where exported files are written. Empty means the
	// current directory.
	OutputDir string `yaml:"output_dir"`
}

// LLMConfig selects the provider. API keys are read from the environment
// only and never from the file.
type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// RenderConfig controls document layout and rasterisation.
type RenderConfig struct {
	// Scale is the capture scale factor.
	Scale float64 `yaml:"scale"`
	// FontPath and BoldFontPath point at TrueType/OpenType fonts. When
	// empty a system CJK font is searched for.
	FontPath     string `yaml:"font_path"`
	BoldFontPath string `yaml:"bold_font_path"`
	// FontFamily is the family name recorded on render targets.
	FontFamily string         `yaml:"font_family"`
	Barrier    barrier.Config `yaml:"barrier"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	// Theme is "dark" or "light".
	Theme string `yaml:"theme"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Timeout: 120 * time.Second,
		},
		Render: RenderConfig{
			Scale:      2,
			FontFamily: "Noto Sans KR",
			Barrier:    barrier.DefaultConfig(),
		},
		UI: UIConfig{Theme: "dark"},
	}
}

// Load reads configuration from path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns the defaults when path is empty or
// does not exist. Environment overrides are applied in both cases.
func LoadOrDefault(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := Load(path)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from MATHSHEET_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("MATHSHEET_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("MATHSHEET_FONT"); v != "" {
		c.Render.FontPath = v
	}
	if v := os.Getenv("MATHSHEET_BOLD_FONT"); v != "" {
		c.Render.BoldFontPath = v
	}
	if v := os.Getenv("MATHSHEET_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("MATHSHEET_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("MATHSHEET_BARRIER_MODE"); v != "" {
		c.Render.Barrier.Mode = v
	}
	if v := os.Getenv("MATHSHEET_RENDER_SCALE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MATHSHEET_RENDER_SCALE: %w", err)
		}
		c.Render.Scale = f
	}
	return c.Validate()
}

// Validate rejects settings the renderer cannot work with.
func (c *Config) Validate() error {
	if c.Render.Scale <= 0 {
		return fmt.Errorf("render.scale must be positive, got %v", c.Render.Scale)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	b := c.Render.Barrier
	switch b.Mode {
	case barrier.ModeFixed, barrier.ModeStable:
	default:
		return fmt.Errorf("render.barrier.mode must be %q or %q, got %q", barrier.ModeFixed, barrier.ModeStable, b.Mode)
	}
	for name, d := range map[string]time.Duration{
		"sheet_delay":      b.SheetDelay,
		"default_delay":    b.DefaultDelay,
		"typeset_initial":  b.TypesetInitial,
		"typeset_settle":   b.TypesetSettle,
		"typeset_fallback": b.TypesetFallback,
		"stable_interval":  b.StableInterval,
		"stable_quiet":     b.StableQuiet,
	} {
		if d < 0 {
			return fmt.Errorf("render.barrier.%s must not be negative", name)
		}
	}
	return nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath returns ~/.config/mathsheet/config.yaml, honouring
// XDG_CONFIG_HOME.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mathsheet", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "mathsheet", "config.yaml")
}

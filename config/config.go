// Package config loads and saves go-drumkit settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// MIDIConfig controls mirroring hits to a MIDI output port
type MIDIConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Port      string `mapstructure:"port" yaml:"port,omitempty"`           // output port name; empty picks the first port
	Channel   int    `mapstructure:"channel" yaml:"channel"`               // 1-16, GM drums live on 10
	Launchpad bool   `mapstructure:"launchpad" yaml:"launchpad,omitempty"` // light pads on a Launchpad X
}

// Config is the main configuration structure
type Config struct {
	SoundsDir string        `mapstructure:"sounds_dir" yaml:"sounds_dir"`
	Mute      bool          `mapstructure:"mute" yaml:"mute,omitempty"`
	Flash     time.Duration `mapstructure:"flash" yaml:"flash"`
	Palette   string        `mapstructure:"palette" yaml:"palette,omitempty"` // GIMP .gpl file, empty for built-in
	Debug     bool          `mapstructure:"debug" yaml:"debug,omitempty"`
	MIDI      MIDIConfig    `mapstructure:"midi" yaml:"midi"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		SoundsDir: ".",
		Flash:     150 * time.Millisecond,
		MIDI: MIDIConfig{
			Channel: 10,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-drumkit"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DebugLogPath returns where debug logging goes
func DebugLogPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "go-drumkit-debug.log")
	}
	return filepath.Join(dir, "debug.log")
}

// newViper sets up defaults and env overrides (DRUMKIT_SOUNDS_DIR, DRUMKIT_MIDI_PORT, ...)
func newViper() *viper.Viper {
	def := DefaultConfig()
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("sounds_dir", def.SoundsDir)
	v.SetDefault("mute", def.Mute)
	v.SetDefault("flash", def.Flash)
	v.SetDefault("palette", def.Palette)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("midi.enabled", def.MIDI.Enabled)
	v.SetDefault("midi.port", def.MIDI.Port)
	v.SetDefault("midi.channel", def.MIDI.Channel)
	v.SetDefault("midi.launchpad", def.MIDI.Launchpad)
	v.SetEnvPrefix("DRUMKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config at path. An empty path means the default location.
// A missing file is not an error: defaults (plus env overrides) are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return decode(newViper())
		}
		path = p
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.SoundsDir == "" {
		return errors.New("sounds_dir must not be empty")
	}
	if c.Flash < 0 {
		return fmt.Errorf("flash must not be negative, got %s", c.Flash)
	}
	if c.MIDI.Channel < 1 || c.MIDI.Channel > 16 {
		return fmt.Errorf("midi.channel must be 1-16, got %d", c.MIDI.Channel)
	}
	return nil
}

// Save writes the config to path, creating the directory if needed
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Watch calls onChange with the reloaded config every time the file at path
// is written. Invalid edits are reported through onError and otherwise ignored.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

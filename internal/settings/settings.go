package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName          = "tiking"
	settingsFileName = "settings.yaml"

	minTickInterval = 16 * time.Millisecond
	maxTickInterval = time.Second
)

// Settings are the application preferences that are not timer durations.
// Focus and break minutes live in the key/value store instead.
type Settings struct {
	DataDir      string
	LogLevel     string
	TickInterval time.Duration
	Chime        ChimeSettings
}

// ChimeSettings controls audible phase cues
type ChimeSettings struct {
	Enabled bool
	// FocusSoundURL replaces the focus-end chime when it is an http(s) URL
	FocusSoundURL string
	// Player is the command used to play FocusSoundURL; the URL is appended
	Player []string
}

type yamlSettings struct {
	DataDir        string    `yaml:"data_dir,omitempty"`
	LogLevel       string    `yaml:"log_level,omitempty"`
	TickIntervalMS int       `yaml:"tick_interval_ms,omitempty"`
	Chime          yamlChime `yaml:"chime"`
}

type yamlChime struct {
	Enabled       *bool    `yaml:"enabled,omitempty"`
	FocusSoundURL string   `yaml:"focus_sound_url,omitempty"`
	Player        []string `yaml:"player,omitempty"`
}

// Default returns the settings used when no file exists
func Default() Settings {
	dataDir := ""
	if dir, err := DefaultDir(); err == nil {
		dataDir = dir
	}
	return Settings{
		DataDir:      dataDir,
		LogLevel:     "info",
		TickInterval: 200 * time.Millisecond,
		Chime: ChimeSettings{
			Enabled: true,
			Player:  []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
		},
	}
}

// DefaultDir returns <user config dir>/tiking
func DefaultDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

// DefaultPath returns the settings file location
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFileName), nil
}

// Load reads settings from path (the default location when empty).
// If the file does not exist, default settings are returned.
func Load(path string) (Settings, error) {
	settings := Default()
	if path == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return settings, err
		}
		path = resolved
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// Save writes settings to path (the default location when empty)
func Save(path string, settings Settings) error {
	if path == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return err
		}
		path = resolved
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	enabled := settings.Chime.Enabled
	fileData := yamlSettings{
		DataDir:        settings.DataDir,
		LogLevel:       settings.LogLevel,
		TickIntervalMS: int(settings.TickInterval / time.Millisecond),
		Chime: yamlChime{
			Enabled:       &enabled,
			FocusSoundURL: settings.Chime.FocusSoundURL,
			Player:        settings.Chime.Player,
		},
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.DataDir != "" {
		settings.DataDir = expandHome(fileData.DataDir)
	}
	if fileData.LogLevel != "" {
		settings.LogLevel = fileData.LogLevel
	}
	if fileData.TickIntervalMS > 0 {
		settings.TickInterval = clampTick(time.Duration(fileData.TickIntervalMS) * time.Millisecond)
	}
	if fileData.Chime.Enabled != nil {
		settings.Chime.Enabled = *fileData.Chime.Enabled
	}
	settings.Chime.FocusSoundURL = fileData.Chime.FocusSoundURL
	if len(fileData.Chime.Player) > 0 {
		settings.Chime.Player = fileData.Chime.Player
	}
}

func clampTick(interval time.Duration) time.Duration {
	if interval < minTickInterval {
		return minTickInterval
	}
	if interval > maxTickInterval {
		return maxTickInterval
	}
	return interval
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/buddytype/internal/model"
)

// FileConfig represents the TOML configuration file. The same layout is
// used for the user-edited config and for the last-used settings.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
}

// PracticeConfig maps practice-related settings. Nil fields are unset.
type PracticeConfig struct {
	Mode        *string `toml:"mode"`
	Time        *int    `toml:"time"`
	Words       *int    `toml:"words"`
	Lang        *string `toml:"lang"`
	OneLine     *bool   `toml:"one-line"`
	Punctuation *bool   `toml:"punctuation"`
	Numbers     *bool   `toml:"numbers"`
	Backspace   *bool   `toml:"backspace"`
	Theme       *string `toml:"theme"`
}

// Apply overlays the set fields onto base.
func (p PracticeConfig) Apply(base model.Config) model.Config {
	if p.Mode != nil {
		base.Mode = model.TestMode(*p.Mode)
	}
	if p.Time != nil {
		base.TimeLimit = *p.Time
	}
	if p.Words != nil {
		base.WordCount = *p.Words
	}
	if p.Lang != nil {
		base.Language = *p.Lang
	}
	if p.OneLine != nil {
		base.OneLine = *p.OneLine
	}
	if p.Punctuation != nil {
		base.Punctuation = *p.Punctuation
	}
	if p.Numbers != nil {
		base.Numbers = *p.Numbers
	}
	if p.Backspace != nil {
		base.Backspace = *p.Backspace
	}
	if p.Theme != nil {
		base.Theme = *p.Theme
	}
	return base
}

// FromModel returns a fully populated PracticeConfig for cfg.
func FromModel(cfg model.Config) PracticeConfig {
	mode := string(cfg.Mode)
	return PracticeConfig{
		Mode:        &mode,
		Time:        &cfg.TimeLimit,
		Words:       &cfg.WordCount,
		Lang:        &cfg.Language,
		OneLine:     &cfg.OneLine,
		Punctuation: &cfg.Punctuation,
		Numbers:     &cfg.Numbers,
		Backspace:   &cfg.Backspace,
		Theme:       &cfg.Theme,
	}
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// SaveSettings writes cfg to path, replacing the file atomically.
func SaveSettings(path string, cfg model.Config) error {
	if path == "" {
		return fmt.Errorf("settings path is empty")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "settings-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp settings: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := toml.NewEncoder(tmpFile).Encode(FileConfig{Practice: FromModel(cfg)}); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close settings: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

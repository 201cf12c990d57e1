// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Cipher   CipherConfig   `toml:"cipher"`
	Word     WordConfig     `toml:"word"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// CipherConfig maps whole-text cipher settings.
type CipherConfig struct {
	Alphabet     *string `toml:"alphabet"`
	Shift        *int    `toml:"shift"`
	KeepNonAlpha *bool   `toml:"keep-non-alpha"`
	ResultsPath  *string `toml:"results-path"`
	History      *bool   `toml:"history"`
}

// WordConfig maps word-by-word settings.
type WordConfig struct {
	Mode     *string `toml:"mode"`
	Shift    *int    `toml:"shift"`
	Seed     *int64  `toml:"seed"`
	Sequence *string `toml:"sequence"`
	ShowLog  *bool   `toml:"show-log"`
}

// AnalysisConfig maps brute-force analysis settings.
type AnalysisConfig struct {
	SaveTable          *bool `toml:"save-frequency-table"`
	SavePlots          *bool `toml:"save-plots"`
	SavePossibleShifts *bool `toml:"save-possible-shifts"`
	PlotHeight         *int  `toml:"plot-height"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Package config loads tool settings from defaults, an optional cvsd.yaml,
// CVSD_* environment variables and explicit overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/cycloud0203/cvsd/pkg/pattern"
)

type Config struct {
	Debug bool `mapstructure:"debug"`

	// verification inputs: pattern lines with expected encrypt/decrypt results
	PatternDir  string `mapstructure:"pattern_dir"`
	PatternFile string `mapstructure:"pattern_file"`
	EncryptFile string `mapstructure:"encrypt_file"`
	DecryptFile string `mapstructure:"decrypt_file"`

	// golden generation outputs
	GoldenDir         string `mapstructure:"golden_dir"`
	GoldenPatternFile string `mapstructure:"golden_pattern_file"`
	SortFile          string `mapstructure:"sort_file"`
	CompressGolden    bool   `mapstructure:"compress_golden"`

	Workers       int `mapstructure:"workers"`
	ProgressEvery int `mapstructure:"progress_every"`

	PatternCount int    `mapstructure:"pattern_count"`
	PatternSeed  uint64 `mapstructure:"pattern_seed"`

	APIListenAddr string `mapstructure:"api_listen_address"`
	HistoryDB     string `mapstructure:"history_db"`
	LogDB         string `mapstructure:"log_db"`

	ConfigFile string `mapstructure:"config_file"`
}

func DefaultConfig() *Config {
	return &Config{
		PatternDir:        "00_TESTBED/pattern1_data",
		PatternFile:       "pattern1.dat",
		EncryptFile:       "f1.dat",
		DecryptFile:       "f2.dat",
		GoldenDir:         "00_TESTBED/pattern2_data",
		GoldenPatternFile: "pattern2.dat",
		SortFile:          "f4.dat",
		Workers:           runtime.NumCPU(),
		ProgressEvery:     10,
		PatternCount:      pattern.DefaultCount,
		PatternSeed:       pattern.DefaultSeed,
		APIListenAddr:     ":7780",
		HistoryDB:         "history.db",
		LogDB:             "cvsd.db",
		ConfigFile:        "cvsd",
	}
}

// Load reads configuration. configFile may be a bare name searched for in
// ., /etc/cvsd and $HOME/.cvsd, or a path to a yaml file. A missing file is
// not an error unless it was named by path.
func Load(configFile string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if configFile == "" {
		configFile = cfg.ConfigFile
	}
	explicit := strings.ContainsRune(configFile, filepath.Separator) || filepath.Ext(configFile) != ""
	if explicit {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cvsd/")
		v.AddConfigPath("$HOME/.cvsd")
	}
	v.SetEnvPrefix("CVSD")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	return cfg, cfg.Validate()
}

// setDefaults registers every key so AutomaticEnv can override keys absent
// from the config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("debug", cfg.Debug)
	v.SetDefault("pattern_dir", cfg.PatternDir)
	v.SetDefault("pattern_file", cfg.PatternFile)
	v.SetDefault("encrypt_file", cfg.EncryptFile)
	v.SetDefault("decrypt_file", cfg.DecryptFile)
	v.SetDefault("golden_dir", cfg.GoldenDir)
	v.SetDefault("golden_pattern_file", cfg.GoldenPatternFile)
	v.SetDefault("sort_file", cfg.SortFile)
	v.SetDefault("compress_golden", cfg.CompressGolden)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("progress_every", cfg.ProgressEvery)
	v.SetDefault("pattern_count", cfg.PatternCount)
	v.SetDefault("pattern_seed", cfg.PatternSeed)
	v.SetDefault("api_listen_address", cfg.APIListenAddr)
	v.SetDefault("history_db", cfg.HistoryDB)
	v.SetDefault("log_db", cfg.LogDB)
}

// Validate checks values that would otherwise fail later and far away.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("config: progress_every must not be negative, got %d", c.ProgressEvery)
	}
	if c.PatternCount < 1 {
		return fmt.Errorf("config: pattern_count must be at least 1, got %d", c.PatternCount)
	}
	return nil
}

// PatternPath and friends join file names with their directories.
func (c *Config) PatternPath() string { return filepath.Join(c.PatternDir, c.PatternFile) }
func (c *Config) EncryptPath() string { return filepath.Join(c.PatternDir, c.EncryptFile) }
func (c *Config) DecryptPath() string { return filepath.Join(c.PatternDir, c.DecryptFile) }

// GoldenPatternPath is the pattern file golden results are computed from.
func (c *Config) GoldenPatternPath() string {
	return filepath.Join(c.GoldenDir, c.GoldenPatternFile)
}

// GoldenPath places a golden output next to the golden pattern file, adding
// the zstd suffix when compression is on.
func (c *Config) GoldenPath(name string) string {
	p := filepath.Join(c.GoldenDir, name)
	if c.CompressGolden {
		p += ".zst"
	}
	return p
}

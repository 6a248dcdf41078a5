// Package config loads engine-wide settings from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DataPath    string
	BoardSize   int
	TimeControl string

	UseOpeningBook        bool
	MinResignWinrate      float64
	EarlyDeadlineFraction float64
	LatencyCompensation   int64

	Threads             int
	CacheMemoryFraction float64
	Komi                float64
	Matches             int
	Debug               bool
}

// Load fills the config from defaults, an optional kaya.yaml in the working
// directory, and KAYA_-prefixed environment variables, in increasing order
// of precedence.
func (c *Config) Load() error {
	v := viper.New()
	v.SetDefault("data-path", "./data")
	v.SetDefault("board-size", 9)
	v.SetDefault("time-control", "300s+5x30s/1")
	v.SetDefault("use-opening-book", true)
	v.SetDefault("min-resign-winrate", 0.10)
	v.SetDefault("early-deadline-fraction", 0.5)
	v.SetDefault("latency-compensation", 200)
	v.SetDefault("threads", 0) // 0 means one per CPU
	v.SetDefault("cache-memory-fraction", 0.25)
	v.SetDefault("komi", 7.5)
	v.SetDefault("matches", 1)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("kaya")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("kaya")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	c.DataPath = v.GetString("data-path")
	c.BoardSize = v.GetInt("board-size")
	c.TimeControl = v.GetString("time-control")
	c.UseOpeningBook = v.GetBool("use-opening-book")
	c.MinResignWinrate = v.GetFloat64("min-resign-winrate")
	c.EarlyDeadlineFraction = v.GetFloat64("early-deadline-fraction")
	c.LatencyCompensation = v.GetInt64("latency-compensation")
	c.Threads = v.GetInt("threads")
	c.CacheMemoryFraction = v.GetFloat64("cache-memory-fraction")
	c.Komi = v.GetFloat64("komi")
	c.Matches = v.GetInt("matches")
	c.Debug = v.GetBool("debug")

	if c.BoardSize < 5 || c.BoardSize > 19 {
		return fmt.Errorf("board size %d out of range [5, 19]", c.BoardSize)
	}
	if c.EarlyDeadlineFraction <= 0 || c.EarlyDeadlineFraction > 1 {
		return fmt.Errorf("early deadline fraction %f out of range (0, 1]", c.EarlyDeadlineFraction)
	}
	if c.CacheMemoryFraction <= 0 || c.CacheMemoryFraction > 1 {
		return fmt.Errorf("cache memory fraction %f out of range (0, 1]", c.CacheMemoryFraction)
	}
	if c.LatencyCompensation < 0 {
		return fmt.Errorf("latency compensation %d must be non-negative", c.LatencyCompensation)
	}
	return nil
}

// AssertDataDir verifies the data folder exists. The caller treats failure
// as fatal; nothing in the engine works without its data files.
func (c *Config) AssertDataDir() error {
	info, err := os.Stat(c.DataPath)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("data folder %s does not exist or is unavailable", c.DataPath)
	}
	return nil
}

// BookPath is the location of the opening book inside the data folder.
func (c *Config) BookPath() string {
	return filepath.Join(c.DataPath, "book.yaml")
}

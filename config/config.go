// Package config loads the desktop map host's settings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olablt/worldmap/hostcfg"
)

const (
	SourceOSM   = "osm"
	SourceLocal = "local"
)

type Config struct {
	Window Window `yaml:"window"`
	Tiles  Tiles  `yaml:"tiles"`
	// LiveURL is the game server's websocket endpoint. Empty runs offline.
	LiveURL  string `yaml:"live_url"`
	LogLevel string `yaml:"log_level"`
	// Map holds the initial map element attributes, as the server would
	// render them.
	Map hostcfg.Attributes `yaml:"map"`
}

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type Tiles struct {
	Source    string `yaml:"source"`
	UserAgent string `yaml:"user_agent"`
	Workers   int    `yaml:"workers"`
	Queue     int    `yaml:"queue"`
	// CacheSize is the number of decoded tiles kept in memory.
	CacheSize int `yaml:"cache_size"`
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		Window: Window{
			Title:  "World Map",
			Width:  800,
			Height: 600,
		},
		Tiles: Tiles{
			Source:    SourceOSM,
			Workers:   4,
			Queue:     64,
			CacheSize: 512,
		},
		LogLevel: "info",
		Map: hostcfg.Attributes{
			hostcfg.AttrMode: "submission",
			hostcfg.AttrZoom: "2",
		},
	}
}

func (c *Config) Normalize() {
	c.Tiles.Source = strings.ToLower(strings.TrimSpace(c.Tiles.Source))
	if c.Tiles.Source == "" {
		c.Tiles.Source = SourceOSM
	}
	if c.Tiles.Workers <= 0 {
		c.Tiles.Workers = 4
	}
	if c.Tiles.Queue <= 0 {
		c.Tiles.Queue = 64
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 800
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 600
	}
	c.LiveURL = strings.TrimSpace(c.LiveURL)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.Map == nil {
		c.Map = hostcfg.Attributes{}
	}
}

func (c Config) Validate() error {
	var errs []error
	switch c.Tiles.Source {
	case SourceOSM, SourceLocal:
	default:
		errs = append(errs, fmt.Errorf("tiles.source: unknown source %q", c.Tiles.Source))
	}
	if c.Tiles.CacheSize < 0 {
		errs = append(errs, errors.New("tiles.cache_size: must not be negative"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level maps log_level to a slog level
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olablt/worldmap/hostcfg"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worldmap.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tiles.Source != SourceOSM || cfg.Tiles.Workers != 4 || cfg.Window.Width != 800 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Map[hostcfg.AttrMode] != "submission" {
		t.Fatalf("map attrs = %v", cfg.Map)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
window:
  title: Guess Where
  width: 1024
tiles:
  source: " Local "
  workers: 0
  cache_size: 64
live_url: ws://localhost:4000/live
log_level: DEBUG
map:
  mode: guess
  player-id: p1
  marker-lat: "48.85"
  marker-lng: "2.35"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Title != "Guess Where" || cfg.Window.Width != 1024 || cfg.Window.Height != 600 {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Tiles.Source != SourceLocal || cfg.Tiles.Workers != 4 || cfg.Tiles.CacheSize != 64 {
		t.Errorf("tiles = %+v", cfg.Tiles)
	}
	if cfg.LiveURL != "ws://localhost:4000/live" {
		t.Errorf("live url = %q", cfg.LiveURL)
	}
	if lvl, err := cfg.Level(); err != nil || lvl != slog.LevelDebug {
		t.Errorf("level = %v, %v", lvl, err)
	}

	want := hostcfg.Attributes{
		hostcfg.AttrMode:      "guess",
		hostcfg.AttrZoom:      "2",
		hostcfg.AttrPlayerID:  "p1",
		hostcfg.AttrMarkerLat: "48.85",
		hostcfg.AttrMarkerLng: "2.35",
	}
	for k, v := range want {
		if cfg.Map[k] != v {
			t.Errorf("map[%s] = %q, want %q", k, cfg.Map[k], v)
		}
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, `
tiles:
  source: bing
  cache_size: -1
log_level: loud
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load accepted an invalid config")
	}
	for _, want := range []string{"tiles.source", "tiles.cache_size", "log_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
	if _, err := Load(writeConfig(t, "window: [")); err == nil {
		t.Error("Load of malformed YAML succeeded")
	}
}

func TestLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		lvl, err := Config{LogLevel: in}.Level()
		if err != nil || lvl != want {
			t.Errorf("Level(%q) = %v, %v; want %v", in, lvl, err, want)
		}
	}
}

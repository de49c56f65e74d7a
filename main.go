package main

import (
	"context"
	"flag"
	"image"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"

	"github.com/olablt/worldmap/config"
	"github.com/olablt/worldmap/engine"
	"github.com/olablt/worldmap/hostcfg"
	"github.com/olablt/worldmap/live"
	"github.com/olablt/worldmap/mapview"
	"github.com/olablt/worldmap/tiles"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config")
	liveURL := flag.String("live", "", "game server websocket URL, overrides live_url")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	if *liveURL != "" {
		cfg.LiveURL = *liveURL
	}
	lvl, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	engine.SetLogger(logger)

	var mv *mapview.MapView
	var provider tiles.TileProvider = tiles.NewLocalTileProvider()
	var combined *tiles.CombinedTileProvider
	if cfg.Tiles.Source == config.SourceOSM {
		osm := tiles.NewOSMTileProvider(&http.Client{Timeout: 15 * time.Second}, cfg.Tiles.UserAgent, logger)
		combined = tiles.NewCombinedTileProvider(osm, tiles.NewLocalTileProvider(), cfg.Tiles.CacheSize)
		provider = combined
	}
	tm := tiles.NewTileManager(provider, tiles.NewImageCache(cfg.Tiles.CacheSize))
	if combined != nil {
		// Replace the placeholder once the real tile has arrived.
		combined.SetOnLoadCallback(func(key tiles.Key, img image.Image) {
			tm.GetCache().Set(key, img)
			if mv != nil {
				mv.Reload(key)
			}
		})
	}

	refresh := make(chan struct{}, 1)
	mv = mapview.New(hostcfg.MountConfig(cfg.Map), tm, refresh, mapview.Options{
		Workers:   cfg.Tiles.Workers,
		QueueSize: cfg.Tiles.Queue,
		Logger:    logger,
	})

	var client *live.Client
	if cfg.LiveURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = live.Dial(ctx, cfg.LiveURL, logger)
		cancel()
		if err != nil {
			logger.Error("live bridge unavailable, running offline", "err", err)
			client = nil
		}
	}

	if client != nil {
		go func() {
			for u := range client.Updates() {
				mv.Push(u)
			}
		}()
		mv.Engine.OnSelect(func(ll tiles.LatLng) {
			if err := client.Push(mv.Engine.State().Mode, ll); err != nil {
				logger.Warn("push selection", "err", err)
			}
		})
	} else {
		// Offline the selection is shown right away instead of round-tripping.
		mv.Engine.OnSelect(func(ll tiles.LatLng) {
			logger.Info("location selected", "lat", ll.Lat, "lng", ll.Lng)
			mv.Engine.ApplyUpdate(engine.Update{Marker: &ll, HasMarker: true})
		})
	}

	go func() {
		w := new(app.Window)
		w.Option(
			app.Title(cfg.Window.Title),
			app.Size(unit.Dp(float32(cfg.Window.Width)), unit.Dp(float32(cfg.Window.Height))),
		)
		go func() {
			for range refresh {
				w.Invalidate()
			}
		}()

		var ops op.Ops
		for {
			switch e := w.Event().(type) {
			case app.DestroyEvent:
				mv.Close()
				if client != nil {
					client.Close()
				}
				if e.Err != nil {
					logger.Error("window closed", "err", e.Err)
					os.Exit(1)
				}
				os.Exit(0)
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				mv.Layout(gtx)
				e.Frame(gtx.Ops)
			}
		}
	}()
	app.Main()
}

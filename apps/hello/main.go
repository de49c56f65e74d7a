package main

import (
	"os"

	"gioui.org/app"
	"gioui.org/op"

	"github.com/olablt/worldmap/engine"
	"github.com/olablt/worldmap/mapview"
	"github.com/olablt/worldmap/tiles"
)

// hello shows the map offline with placeholder tiles labelled z/x/y.
func main() {
	refresh := make(chan struct{}, 1)
	tm := tiles.NewTileManager(tiles.NewLocalTileProvider(), tiles.NewImageCache(256))
	zoom := 3.0
	mv := mapview.New(engine.Config{Zoom: &zoom}, tm, refresh, mapview.Options{Workers: 2, QueueSize: 32})
	mv.Engine.OnSelect(func(ll tiles.LatLng) {
		mv.Engine.ApplyUpdate(engine.Update{Marker: &ll, HasMarker: true})
	})

	go func() {
		w := new(app.Window)

		var ops op.Ops
		go func() {
			for range refresh {
				w.Invalidate()
			}
		}()
		for {
			switch e := w.Event().(type) {
			case app.DestroyEvent:
				mv.Close()
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

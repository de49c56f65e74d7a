package tiles

import "fmt"

// Key identifies a raster tile. X is already wrapped into [0, 2^Zoom).
type Key struct {
	Zoom, X, Y int
}

// Valid reports whether the key addresses a tile that exists at its zoom level
func (k Key) Valid() bool {
	if k.Zoom < 0 || k.Zoom > 30 {
		return false
	}
	n := 1 << k.Zoom
	return k.X >= 0 && k.X < n && k.Y >= 0 && k.Y < n
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d/%d", k.Zoom, k.X, k.Y)
}

// URL returns the OpenStreetMap retrieval URL for the tile. The format is
// shared with the game server and must not change on its own.
func (k Key) URL() string {
	return fmt.Sprintf("https://tile.openstreetmap.org/%d/%d/%d.png", k.Zoom, k.X, k.Y)
}

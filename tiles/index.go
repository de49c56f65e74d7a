package tiles

import "math"

// Placement is a tile positioned on screen for one render pass
type Placement struct {
	Key    Key
	Handle Handle
	// Left and Top are the screen offsets of the tile's top-left corner.
	Left, Top float64
}

// VisibleTiles enumerates the tiles covering the viewport. Columns wrap
// around the antimeridian; rows outside the world are skipped.
func VisibleTiles(vp Viewport) []Placement {
	startX := int(math.Floor(vp.TopLeftX / TileSize))
	endX := int(math.Floor((vp.TopLeftX + vp.Width) / TileSize))
	startY := int(math.Floor(vp.TopLeftY / TileSize))
	endY := int(math.Floor((vp.TopLeftY + vp.Height) / TileSize))
	maxIndex := 1 << vp.Zoom

	visible := make([]Placement, 0, (endX-startX+1)*(endY-startY+1))
	for x := startX; x <= endX; x++ {
		wrappedX := WrapTileIndex(x, vp.Zoom)
		for y := startY; y <= endY; y++ {
			if y < 0 || y >= maxIndex {
				continue
			}
			visible = append(visible, Placement{
				Key:  Key{Zoom: vp.Zoom, X: wrappedX, Y: y},
				Left: float64(x*TileSize) - vp.TopLeftX,
				Top:  float64(y*TileSize) - vp.TopLeftY,
			})
		}
	}
	return visible
}

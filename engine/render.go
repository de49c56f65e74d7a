package engine

import "github.com/olablt/worldmap/tiles"

// Size is the display surface size in pixels
type Size struct {
	W, H float64
}

// ScreenPoint is a position relative to the surface's top-left corner
type ScreenPoint struct {
	X, Y float64
}

// Plan is the output of one render pass
type Plan struct {
	Viewport tiles.Viewport
	Tiles    []tiles.Placement
	Markers  []ScreenMarker
}

// Frame is a plan plus the tile set changes since the previous frame
type Frame struct {
	Plan
	Diff tiles.Diff
}

// BuildViewport computes the visible world rectangle for st on a surface of the given size
func BuildViewport(st State, size Size) tiles.Viewport {
	return tiles.NewViewport(st.Center, st.Zoom, size.W, size.H)
}

// BuildPlan computes viewport, tiles and markers, in that order. Tile handles
// are left zero; the engine's arena assigns them.
func BuildPlan(st State, size Size) Plan {
	vp := BuildViewport(st, size)
	return Plan{
		Viewport: vp,
		Tiles:    tiles.VisibleTiles(vp),
		Markers:  ProjectMarkers(st, vp),
	}
}

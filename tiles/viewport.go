package tiles

// Viewport is the visible world pixel rectangle for one render pass
type Viewport struct {
	Width, Height      float64
	TopLeftX, TopLeftY float64
	Zoom               int
	Center             Point
}

// NewViewport centers a width x height rectangle on center at the given zoom.
// Degenerate sizes are replaced by 1.
func NewViewport(center LatLng, zoom int, width, height float64) Viewport {
	if !(width > 0) || !isFinite(width) {
		width = 1
	}
	if !(height > 0) || !isFinite(height) {
		height = 1
	}
	cp := LatLngToPoint(center, zoom)
	return Viewport{
		Width:    width,
		Height:   height,
		TopLeftX: cp.X - width/2,
		TopLeftY: cp.Y - height/2,
		Zoom:     zoom,
		Center:   cp,
	}
}

// Contains reports whether a screen position lies on the surface
func (vp Viewport) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= vp.Width && y <= vp.Height
}

// ScreenToWorld converts a screen position to a world pixel coordinate
func (vp Viewport) ScreenToWorld(x, y float64) Point {
	return Point{X: vp.TopLeftX + x, Y: vp.TopLeftY + y}
}

// ScreenToLatLng returns the geographical point under a screen position.
// ok is false when the position is outside the rectangle this viewport
// covers. The engine resolves clicks through it.
func (vp Viewport) ScreenToLatLng(x, y float64) (ll LatLng, ok bool) {
	if !vp.Contains(x, y) {
		return LatLng{}, false
	}
	return PointToLatLng(vp.ScreenToWorld(x, y), vp.Zoom), true
}

// ToScreen projects a geographical point onto the surface
func (vp Viewport) ToScreen(ll LatLng) (x, y float64) {
	p := LatLngToPoint(ll, vp.Zoom)
	return p.X - vp.TopLeftX, p.Y - vp.TopLeftY
}

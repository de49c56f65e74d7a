package tiles

import (
	"math"
)

const (
	TileSize = 256
	MinZoom  = 2
	MaxZoom  = 18

	// Spherical Mercator is undefined beyond these latitudes.
	MinLat = -85.05112878
	MaxLat = 85.05112878
)

// LatLng represents a geographical point
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Point is a world pixel coordinate at a specific zoom level
type Point struct {
	X, Y float64
}

// Finite reports whether both coordinates are finite numbers
func (ll LatLng) Finite() bool {
	return isFinite(ll.Lat) && isFinite(ll.Lng)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// ClampZoom rounds z and constrains it to [MinZoom, MaxZoom]
func ClampZoom(z float64) int {
	if math.IsNaN(z) {
		return MinZoom
	}
	return int(clamp(math.Round(z), MinZoom, MaxZoom))
}

// NormalizeLng folds a longitude into [-180, 180). Non-finite input yields 0.
func NormalizeLng(lng float64) float64 {
	n := math.Mod(math.Mod(lng+180, 360)+360, 360) - 180
	if !isFinite(n) {
		return 0
	}
	return n
}

// ClampLatLng clamps the latitude to the Mercator range and normalizes the
// longitude. It returns nil for a nil point or a non-finite latitude.
func ClampLatLng(ll *LatLng) *LatLng {
	if ll == nil || !isFinite(ll.Lat) {
		return nil
	}
	return &LatLng{
		Lat: clamp(ll.Lat, MinLat, MaxLat),
		Lng: NormalizeLng(ll.Lng),
	}
}

// WorldSize is the width and height of the world plane in pixels
func WorldSize(zoom int) float64 {
	return float64(TileSize) * math.Pow(2, float64(zoom))
}

// LatLngToPoint converts geographical coordinates to world pixel coordinates at given zoom level
func LatLngToPoint(ll LatLng, zoom int) Point {
	scale := WorldSize(zoom)
	latRad := clamp(ll.Lat, MinLat, MaxLat) * math.Pi / 180
	sinLat := math.Sin(latRad)
	return Point{
		X: (NormalizeLng(ll.Lng) + 180) / 360 * scale,
		Y: (0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi)) * scale,
	}
}

// PointToLatLng converts world pixel coordinates back to geographical coordinates.
// Points beyond the poles saturate at MinLat/MaxLat.
func PointToLatLng(p Point, zoom int) LatLng {
	scale := WorldSize(zoom)
	lng := p.X/scale*360 - 180
	n := math.Pi - 2*math.Pi*p.Y/scale
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return LatLng{
		Lat: clamp(lat, MinLat, MaxLat),
		Lng: NormalizeLng(lng),
	}
}

// WrapTileIndex folds a horizontal tile index into [0, 2^zoom)
func WrapTileIndex(v, zoom int) int {
	n := 1 << zoom
	return ((v % n) + n) % n
}

// RoundLatLng rounds both coordinates to the given number of decimal places
func RoundLatLng(ll LatLng, places int) LatLng {
	p := math.Pow(10, float64(places))
	return LatLng{
		Lat: math.Round(ll.Lat*p) / p,
		Lng: math.Round(ll.Lng*p) / p,
	}
}

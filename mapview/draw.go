package mapview

import (
	"image"
	"image/color"
	"math"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/olablt/worldmap/engine"
	"github.com/olablt/worldmap/tiles"
)

const markerRadius = 8

var (
	backgroundColor = color.NRGBA{R: 4, G: 13, B: 33, A: 255}
	markerBorder    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	markerColors = map[engine.MarkerKind]color.NRGBA{
		engine.MarkerActual:  {R: 34, G: 197, B: 94, A: 255},
		engine.MarkerSelf:    {R: 59, G: 130, B: 246, A: 255},
		engine.MarkerOther:   {R: 249, G: 115, B: 22, A: 255},
		engine.MarkerPrimary: {R: 239, G: 68, B: 68, A: 255},
	}
)

// asset returns the paint op for a tile, converting a freshly loaded image
// on first use and requesting missing tiles again.
func (mv *MapView) asset(key tiles.Key) (paint.ImageOp, bool) {
	if imgOp, ok := mv.assets.Get(key); ok {
		return imgOp, true
	}
	if img, ok := mv.TileManager.Cached(key); ok {
		imgOp := paint.NewImageOp(img)
		mv.assets.Set(key, imgOp)
		return imgOp, true
	}
	mv.load(key)
	return paint.ImageOp{}, false
}

func (mv *MapView) drawTiles(gtx layout.Context) {
	paint.Fill(gtx.Ops, backgroundColor)
	for _, pl := range mv.frame.Tiles {
		imgOp, ok := mv.asset(pl.Key)
		if !ok {
			continue
		}
		offset := image.Pt(int(math.Round(pl.Left)), int(math.Round(pl.Top)))
		transform := op.Offset(offset).Push(gtx.Ops)
		imgOp.Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
		transform.Pop()
	}
}

func (mv *MapView) drawMarkers(gtx layout.Context) {
	for _, m := range engine.VisibleMarkers(mv.frame.Markers) {
		x, y := int(math.Round(m.X)), int(math.Round(m.Y))

		outer := image.Rect(x-markerRadius-2, y-markerRadius-2, x+markerRadius+2, y+markerRadius+2)
		paint.FillShape(gtx.Ops, markerBorder, clip.Ellipse(outer).Op(gtx.Ops))
		inner := image.Rect(x-markerRadius, y-markerRadius, x+markerRadius, y+markerRadius)
		paint.FillShape(gtx.Ops, markerColors[m.Kind], clip.Ellipse(inner).Op(gtx.Ops))

		if m.Label == "" {
			continue
		}
		transform := op.Offset(image.Pt(x+markerRadius+4, y-markerRadius)).Push(gtx.Ops)
		lgtx := gtx
		lgtx.Constraints.Min = image.Point{}
		lbl := material.Label(mv.theme, unit.Sp(12), m.Label)
		lbl.Color = markerBorder
		lbl.Layout(lgtx)
		transform.Pop()
	}
}

func (mv *MapView) drawControls(gtx layout.Context) {
	if !mv.Engine.State().ShowControls {
		return
	}
	layout.NE.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
				layout.Rigid(material.Button(mv.theme, &mv.zoomIn, "+").Layout),
				layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
				layout.Rigid(material.Button(mv.theme, &mv.zoomOut, "-").Layout),
			)
		})
	})
}

func (mv *MapView) drawAttribution(gtx layout.Context) {
	layout.SE.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(4)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			lbl := material.Caption(mv.theme, "© OpenStreetMap contributors")
			lbl.Color = color.NRGBA{R: 200, G: 210, B: 230, A: 255}
			return lbl.Layout(gtx)
		})
	})
}

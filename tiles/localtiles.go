package tiles

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LocalTileProvider renders placeholder tiles labelled with their key
type LocalTileProvider struct{}

func NewLocalTileProvider() *LocalTileProvider {
	return &LocalTileProvider{}
}

func (p *LocalTileProvider) GetTile(_ context.Context, key Key) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, TileSize, TileSize))

	// same backdrop as the map surface
	bgColor := color.RGBA{4, 13, 33, 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{bgColor}, image.Point{}, draw.Src)

	drawText(img, key.String())

	borderColor := color.RGBA{40, 60, 90, 255}
	borders := []image.Rectangle{
		image.Rect(0, 0, TileSize, 1),
		image.Rect(0, TileSize-1, TileSize, TileSize),
		image.Rect(0, 0, 1, TileSize),
		image.Rect(TileSize-1, 0, TileSize, TileSize),
	}
	for _, rect := range borders {
		draw.Draw(img, rect, &image.Uniform{borderColor}, image.Point{}, draw.Src)
	}

	return img, nil
}

func drawText(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{200, 220, 255, 255}),
		Face: face,
	}

	textWidth := d.MeasureString(text).Round()
	textHeight := face.Metrics().Height.Round()

	d.Dot = fixed.Point26_6{
		X: fixed.I((TileSize - textWidth) / 2),
		Y: fixed.I(TileSize/2 + textHeight/2),
	}
	d.DrawString(text)
}

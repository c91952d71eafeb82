package spritegif

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/pkg/errors"
)

var (
	foundColor    = color.RGBA{0x00, 0xc0, 0x00, 0xff}
	estimateColor = color.RGBA{0xe0, 0x00, 0x00, 0xff}
)

const (
	annotateGap    = 1
	annotateRadius = 4.0
)

// Annotate lays frames out left to right on a white strip and circles each
// marker: green when it was measured, red when it is the fallback estimate.
func Annotate(frames []*image.NRGBA, markers []Marker) (*image.RGBA, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if len(frames) != len(markers) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d frames for %d markers", len(frames), len(markers))
	}

	var width, height int
	for _, f := range frames {
		width += f.Bounds().Dx()
		if f.Bounds().Dy() > height {
			height = f.Bounds().Dy()
		}
	}
	width += annotateGap * (len(frames) - 1)

	sheet := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(sheet, sheet.Bounds(), image.White, image.Point{}, draw.Src)

	gc := draw2dimg.NewGraphicContext(sheet)
	gc.SetLineWidth(1)

	x := 0
	for i, f := range frames {
		b := f.Bounds()
		draw.Draw(sheet, image.Rect(x, 0, x+b.Dx(), b.Dy()), f, b.Min, draw.Over)

		m := markers[i]
		c := foundColor
		if !m.Found {
			c = estimateColor
		}
		cx, cy := float64(x+m.X)+0.5, float64(m.Y)+0.5

		gc.SetStrokeColor(c)
		gc.BeginPath()
		draw2dkit.Circle(gc, cx, cy, annotateRadius)
		gc.Stroke()

		gc.BeginPath()
		gc.MoveTo(cx-2*annotateRadius, cy)
		gc.LineTo(cx+2*annotateRadius, cy)
		gc.MoveTo(cx, cy-2*annotateRadius)
		gc.LineTo(cx, cy+2*annotateRadius)
		gc.Stroke()

		x += b.Dx() + annotateGap
	}
	return sheet, nil
}

// SaveAnnotated writes an annotated strip as PNG.
func SaveAnnotated(path string, img image.Image) error {
	return errors.Wrapf(draw2dimg.SaveToPngFile(path, img), "saving annotations to %s", path)
}

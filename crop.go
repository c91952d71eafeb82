package spritegif

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// DefaultUniformCrop is the fraction of the smaller canvas side trimmed from
// every edge of aligned frames.
const DefaultUniformCrop = 0.05

// Edges holds per-side crop fractions of a frame's width (left, right) or
// height (top, bottom).
type Edges struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}

// DefaultEdges trims the unaligned frames: a sliver on the left, more on the
// right and bottom where the sheet's grid lines bleed in.
var DefaultEdges = Edges{Left: 0.005, Top: 0.05, Right: 0.06, Bottom: 0.07}

func (e Edges) validate() error {
	for _, f := range []float64{e.Left, e.Top, e.Right, e.Bottom} {
		if f < 0 || f >= 0.5 {
			return errors.Errorf("crop fraction %v outside [0, 0.5)", f)
		}
	}
	return nil
}

// CropUniform trims the same number of pixels off every edge of every canvas.
// The amount is fraction of the smaller side of the first canvas, truncated,
// so all canvases must share its size.
func CropUniform(canvases []*image.NRGBA, fraction float64) ([]*image.NRGBA, error) {
	if len(canvases) == 0 {
		return nil, ErrNoFrames
	}
	if fraction < 0 || fraction >= 0.5 {
		return nil, errors.Errorf("crop fraction %v outside [0, 0.5)", fraction)
	}
	size := canvases[0].Bounds().Size()
	side := size.X
	if size.Y < side {
		side = size.Y
	}
	amount := int(float64(side) * fraction)

	out := make([]*image.NRGBA, len(canvases))
	for i, c := range canvases {
		if c.Bounds().Size() != size {
			return nil, errors.Errorf("canvas %d is %v, want %v", i, c.Bounds().Size(), size)
		}
		b := c.Bounds()
		out[i] = imaging.Crop(c, image.Rect(b.Min.X+amount, b.Min.Y+amount, b.Max.X-amount, b.Max.Y-amount))
	}
	return out, nil
}

// CropEdges trims each frame by its own dimensions, side by side.
func CropEdges(frames []*image.NRGBA, e Edges) ([]*image.NRGBA, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	out := make([]*image.NRGBA, len(frames))
	for i, f := range frames {
		b := f.Bounds()
		w, h := float64(b.Dx()), float64(b.Dy())
		out[i] = imaging.Crop(f, image.Rect(
			b.Min.X+int(w*e.Left),
			b.Min.Y+int(h*e.Top),
			b.Max.X-int(w*e.Right),
			b.Max.Y-int(h*e.Bottom),
		))
	}
	return out, nil
}

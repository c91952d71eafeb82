package spritegif

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// DefaultJumpHeights is the vertical arc added on top of marker alignment.
// Negative values move a frame up.
var DefaultJumpHeights = []int{0, -10, -15, -15, -10, 0}

// Expansion is how far the shared canvas grows past the cell on each side so
// that every aligned frame fits. All fields are non-negative.
type Expansion struct {
	Left, Right, Top, Bottom int
}

// Layout describes where each frame lands on the shared canvas.
type Layout struct {
	Reference image.Point
	Expansion Expansion
	// Size is the canvas size shared by every frame.
	Size image.Point
	// Offsets holds the paste position of each frame, jump bias included.
	Offsets []image.Point
}

// Plan computes the canvas layout that puts every marker on top of the
// first frame's marker, then shifts frame i vertically by jumps[i]. The
// canvas only ever grows from cell: a frame whose marker sits at an extreme
// adds no padding on that side.
func Plan(cell image.Point, markers []Marker, jumps []int) (Layout, error) {
	if len(markers) == 0 {
		return Layout{}, ErrNoFrames
	}
	if len(jumps) != len(markers) {
		return Layout{}, errors.Wrapf(ErrLengthMismatch, "%d jump heights for %d frames", len(jumps), len(markers))
	}

	ref := markers[0].Point
	var exp Expansion
	for _, m := range markers {
		exp.Left = max(exp.Left, ref.X-m.X)
		exp.Right = max(exp.Right, m.X-ref.X)
		exp.Top = max(exp.Top, ref.Y-m.Y)
		exp.Bottom = max(exp.Bottom, m.Y-ref.Y)
	}

	l := Layout{
		Reference: ref,
		Expansion: exp,
		Size:      image.Pt(cell.X+exp.Left+exp.Right, cell.Y+exp.Top+exp.Bottom),
		Offsets:   make([]image.Point, len(markers)),
	}
	for i, m := range markers {
		l.Offsets[i] = image.Pt(
			exp.Left+ref.X-m.X,
			exp.Top+ref.Y-m.Y+jumps[i],
		)
	}
	return l, nil
}

// Composite pastes each frame onto its own transparent canvas at the offset
// from l. Frames are drawn through their alpha channel, so transparent
// source pixels leave the canvas transparent. Anything pushed past the canvas
// edge is clipped.
func Composite(frames []*image.NRGBA, l Layout) ([]*image.NRGBA, error) {
	if len(frames) != len(l.Offsets) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d frames for %d offsets", len(frames), len(l.Offsets))
	}
	canvases := make([]*image.NRGBA, len(frames))
	for i, f := range frames {
		canvas := imaging.New(l.Size.X, l.Size.Y, color.Transparent)
		r := f.Bounds().Sub(f.Bounds().Min).Add(l.Offsets[i])
		draw.Draw(canvas, r, f, f.Bounds().Min, draw.Over)
		canvases[i] = canvas
	}
	return canvases, nil
}

// Align lines up frames on their markers and applies the jump arc. Every
// returned canvas has the same size. Frames must all share the size of the
// first one.
func Align(frames []*image.NRGBA, markers []Marker, jumps []int) ([]*image.NRGBA, Layout, error) {
	if len(frames) == 0 {
		return nil, Layout{}, ErrNoFrames
	}
	if len(frames) != len(markers) {
		return nil, Layout{}, errors.Wrapf(ErrLengthMismatch, "%d frames for %d markers", len(frames), len(markers))
	}
	for i, f := range frames {
		if f == nil || f.Bounds().Empty() {
			return nil, Layout{}, errors.Wrapf(ErrEmptyFrame, "frame %d", i)
		}
	}
	cell := frames[0].Bounds().Size()
	for i, f := range frames {
		if f.Bounds().Size() != cell {
			return nil, Layout{}, errors.Errorf("frame %d is %v, want %v", i, f.Bounds().Size(), cell)
		}
	}

	l, err := Plan(cell, markers, jumps)
	if err != nil {
		return nil, Layout{}, err
	}
	canvases, err := Composite(frames, l)
	if err != nil {
		return nil, Layout{}, err
	}
	return canvases, l, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

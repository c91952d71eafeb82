package spritegif

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Grid is the arity of a sprite sheet partition.
type Grid struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

// Cell identifies one grid cell by column and row, both zero based.
type Cell struct {
	Col int
	Row int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// DefaultCells is the middle and bottom rows of a 3x3 sheet, left to right.
var DefaultCells = []Cell{
	{0, 1}, {1, 1}, {2, 1},
	{0, 2}, {1, 2}, {2, 2},
}

// CellSize returns the size of one cell. Remainder pixels on the right and
// bottom edges of the sheet belong to no cell.
func (g Grid) CellSize(sheet image.Rectangle) image.Point {
	return image.Pt(sheet.Dx()/g.Cols, sheet.Dy()/g.Rows)
}

// Rect returns the sheet rectangle covered by c.
func (g Grid) Rect(sheet image.Rectangle, c Cell) image.Rectangle {
	size := g.CellSize(sheet)
	min := sheet.Min.Add(image.Pt(c.Col*size.X, c.Row*size.Y))
	return image.Rectangle{Min: min, Max: min.Add(size)}
}

func (g Grid) contains(c Cell) bool {
	return c.Col >= 0 && c.Col < g.Cols && c.Row >= 0 && c.Row < g.Rows
}

// Slice crops the selected cells out of sheet, in order. Every frame has its
// origin at (0, 0). The sheet itself is left untouched.
func Slice(sheet image.Image, g Grid, cells []Cell) ([]*image.NRGBA, error) {
	if g.Cols <= 0 || g.Rows <= 0 {
		return nil, errors.Errorf("invalid grid %dx%d", g.Cols, g.Rows)
	}
	if len(cells) == 0 {
		return nil, ErrNoFrames
	}
	bounds := sheet.Bounds()
	if size := g.CellSize(bounds); size.X == 0 || size.Y == 0 {
		return nil, errors.Errorf("sheet %dx%d is too small for a %dx%d grid", bounds.Dx(), bounds.Dy(), g.Cols, g.Rows)
	}

	frames := make([]*image.NRGBA, 0, len(cells))
	for _, c := range cells {
		if !g.contains(c) {
			return nil, errors.Wrapf(ErrCellOutOfRange, "cell %s in %dx%d grid", c, g.Cols, g.Rows)
		}
		frames = append(frames, imaging.Crop(sheet, g.Rect(bounds, c)))
	}
	return frames, nil
}

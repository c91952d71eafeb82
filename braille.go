package spritegif

import (
	"bufio"
	"image"
	"image/color"
	"image/draw"
	"io"
)

// Braille represents an 8 dot braille pattern in x,y coordinates space. Eg:
//   +----------+
//   |(0,0)(1,0)|
//   |(0,1)(1,1)|
//   |(0,2)(1,2)|
//   |(0,3)(1,3)|
//   +----------+
type Braille [2][4]bool

// Rune maps each point in braille to a dot identifier and
// calculates the corresponding unicode symbol.
//   +------+
//   |(1)(4)|
//   |(2)(5)|
//   |(3)(6)|
//   |(7)(8)|
//   +------+
// See https://en.wikipedia.org/wiki/Braille_Patterns#Identifying.2C_naming_and_ordering)
func (b Braille) Rune() rune {
	lowEndian := [8]bool{b[0][0], b[0][1], b[0][2], b[1][0], b[1][1], b[1][2], b[0][3], b[1][3]}
	var v rune
	for i, dot := range lowEndian {
		if dot {
			v |= 1 << uint(i)
		}
	}
	return v + '\u2800'
}

func (b Braille) String() string {
	return string(b.Rune())
}

// Filter is a draw.Drawer that can alter an image via the Filter method.
type Filter interface {
	draw.Drawer
	Filter(image.Image) image.Image
}

type diffuseFilter struct{}

func (diffuseFilter) Filter(img image.Image) image.Image {
	return img
}

func (diffuseFilter) Draw(dst draw.Image, r image.Rectangle, src image.Image, sp image.Point) {
	draw.FloydSteinberg.Draw(dst, r, src, sp)
}

type BrailleOpt func(enc *BrailleEncoder)

// WithFilter replaces the default Floyd-Steinberg redraw.
func WithFilter(f Filter) BrailleOpt {
	return func(enc *BrailleEncoder) {
		enc.filter = f
	}
}

// WithLuminosity switches from dithering to a plain threshold: pixels at or
// below lum (0 to 1) of full brightness become dots.
func WithLuminosity(lum float32) BrailleOpt {
	return func(enc *BrailleEncoder) {
		enc.luminosity = lum
	}
}

// BrailleEncoder draws images as rows of braille symbols, one symbol per 2x4
// pixel block. Only dark pixels are dotted; transparent pixels never are.
type BrailleEncoder struct {
	filter     Filter
	luminosity float32 // 0 means dither with filter
}

func NewBrailleEncoder(opts ...BrailleOpt) *BrailleEncoder {
	enc := BrailleEncoder{
		filter: diffuseFilter{},
	}
	for _, opt := range opts {
		opt(&enc)
	}
	return &enc
}

var monochrome = color.Palette{color.Black, color.White, color.Transparent}

// Rows is how many lines of braille img takes.
func Rows(img image.Image) int {
	return (img.Bounds().Dy() + 3) / 4
}

/*
Encode writes img to w as braille runes, each row terminated by a line feed.
Any 2x4 pixel area maps to one of unicode's 256 braille symbols, see
https://en.wikipedia.org/wiki/Braille_Patterns

By default each pixel is first redrawn onto a black, white and transparent
palette with the encoder's filter (Floyd-Steinberg diffusion), which lets
shaded regions come through as dot density.
*/
func (enc *BrailleEncoder) Encode(w io.Writer, img image.Image) error {
	dot := enc.dotter(img)
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	// An image's bounds do not necessarily start at (0, 0), so the two loops start
	// at bounds.Min.Y and bounds.Min.X. Looping over Y first and X second is more
	// likely to result in better memory access patterns than X first and Y second.
	for py := bounds.Min.Y; py < bounds.Max.Y; py += 4 {
		for px := bounds.Min.X; px < bounds.Max.X; px += 2 {
			var b Braille
			// Draw left-right, top-bottom.
			for y := 0; y < 4; y++ {
				for x := 0; x < 2; x++ {
					// Blocks hanging off the right or bottom edge stay empty.
					if px+x >= bounds.Max.X || py+y >= bounds.Max.Y {
						continue
					}
					b[x][y] = dot(px+x, py+y)
				}
			}
			if _, err := bw.WriteString(b.String()); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (enc *BrailleEncoder) dotter(img image.Image) func(x, y int) bool {
	if enc.luminosity > 0 {
		limit := float32(0xffff) * enc.luminosity
		return func(x, y int) bool {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0 {
				return false
			}
			return grayscale(r, g, b) <= limit
		}
	}

	img = enc.filter.Filter(img)
	paletted := image.NewPaletted(img.Bounds(), monochrome)
	enc.filter.Draw(paletted, paletted.Bounds(), img, img.Bounds().Min)
	return func(x, y int) bool {
		// Always bet on black
		return paletted.ColorIndexAt(x, y) == 0
	}
}

// Standard-ish algorithm for determining the best grayscale for human eyes
// 0.21 R + 0.72 G + 0.07 B
func grayscale(r, g, b uint32) float32 {
	return 0.21*float32(r) + 0.72*float32(g) + 0.07*float32(b)
}

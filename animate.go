package spritegif

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/soniakeys/quant/median"
)

// Disposal names a GIF frame disposal method.
type Disposal string

const (
	// DisposeNone draws the next frame over the current one.
	DisposeNone Disposal = "none"
	// DisposeBackground clears the frame area before the next frame is drawn.
	DisposeBackground Disposal = "background"
	// DisposePrevious restores whatever was there before the frame was drawn.
	DisposePrevious Disposal = "previous"
)

// Method returns the image/gif disposal constant.
func (d Disposal) Method() (byte, error) {
	switch Disposal(strings.ToLower(string(d))) {
	case DisposeNone:
		return gif.DisposalNone, nil
	case DisposeBackground, "":
		return gif.DisposalBackground, nil
	case DisposePrevious:
		return gif.DisposalPrevious, nil
	}
	return 0, errors.Errorf("unknown disposal %q", string(d))
}

// AnimationOpts controls timing and transparency of the written GIF.
type AnimationOpts struct {
	// DelayMS is how long each frame shows, in milliseconds. GIF stores
	// hundredths of a second, so it is truncated to a multiple of 10.
	DelayMS int `yaml:"delay_ms"`
	// LoopCount is the number of times the animation repeats. 0 loops forever.
	LoopCount int      `yaml:"loop_count"`
	Disposal  Disposal `yaml:"disposal"`
	// AlphaCutoff is the alpha below which a pixel is written as transparent.
	AlphaCutoff uint8 `yaml:"alpha_cutoff"`
}

// DefaultAnimationOpts gives 100ms frames looping forever, each cleared
// before the next is drawn.
func DefaultAnimationOpts() AnimationOpts {
	return AnimationOpts{
		DelayMS:     100,
		LoopCount:   0,
		Disposal:    DisposeBackground,
		AlphaCutoff: 128,
	}
}

// Animation builds the GIF for frames without writing it. The first frame is
// the base frame, the rest follow in order.
func Animation(frames []*image.NRGBA, opts AnimationOpts) (*gif.GIF, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if opts.DelayMS < 0 {
		return nil, errors.Errorf("negative frame delay %dms", opts.DelayMS)
	}
	if opts.LoopCount < 0 {
		return nil, errors.Errorf("negative loop count %d", opts.LoopCount)
	}
	disposal, err := opts.Disposal.Method()
	if err != nil {
		return nil, err
	}

	bounds := frames[0].Bounds()
	g := &gif.GIF{
		LoopCount: opts.LoopCount,
		Config: image.Config{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		},
	}
	for i, f := range frames {
		if f.Bounds().Size() != bounds.Size() {
			return nil, errors.Errorf("frame %d is %v, want %v", i, f.Bounds().Size(), bounds.Size())
		}
		g.Image = append(g.Image, Palettize(f, opts.AlphaCutoff))
		g.Delay = append(g.Delay, opts.DelayMS/10)
		g.Disposal = append(g.Disposal, disposal)
	}
	return g, nil
}

// EncodeGIF writes frames to w as a single animated GIF.
func EncodeGIF(w io.Writer, frames []*image.NRGBA, opts AnimationOpts) error {
	g, err := Animation(frames, opts)
	if err != nil {
		return err
	}
	return errors.Wrap(gif.EncodeAll(w, g), "encoding gif")
}

/*
Palettize converts img to a paletted image with the transparent color at
index 0. Pixels whose alpha is below cutoff become transparent, everything
else is treated as opaque.

If the opaque pixels use at most 255 distinct colors the palette is exact, in
the order the colors are first met scanning top to bottom, left to right.
Otherwise a 255 color palette is built from the opaque pixels by median cut
and every pixel is mapped to its nearest entry. Both paths are deterministic,
so the same input always yields the same bytes.
*/
func Palettize(img *image.NRGBA, cutoff uint8) *image.Paletted {
	bounds := img.Bounds()
	transparent := func(c color.NRGBA) bool {
		return c.A < cutoff || c.A == 0
	}

	pal := color.Palette{color.Transparent}
	index := map[color.NRGBA]uint8{}
	exact := true
	var opaque []color.NRGBA
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if transparent(c) {
				continue
			}
			c.A = 0xff
			opaque = append(opaque, c)
			if _, ok := index[c]; ok || !exact {
				continue
			}
			if len(pal) == 256 {
				exact = false
				continue
			}
			index[c] = uint8(len(pal))
			pal = append(pal, c)
		}
	}

	if !exact {
		pal = adaptivePalette(opaque)
	}
	paletted := image.NewPaletted(bounds, pal)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if transparent(c) {
				continue // index 0
			}
			c.A = 0xff
			if exact {
				paletted.SetColorIndex(x, y, index[c])
			} else {
				paletted.SetColorIndex(x, y, uint8(pal.Index(c)))
			}
		}
	}
	return paletted
}

// adaptivePalette median cuts colors down to 255 entries behind the
// transparent index 0. colors are laid out as a single row in scan order so
// the cut only ever sees opaque pixels.
func adaptivePalette(colors []color.NRGBA) color.Palette {
	row := image.NewNRGBA(image.Rect(0, 0, len(colors), 1))
	for i, c := range colors {
		row.SetNRGBA(i, 0, c)
	}
	var q draw.Quantizer = median.Quantizer(255)
	pal := q.Quantize(append(make(color.Palette, 0, 256), color.Transparent), row)
	if len(pal) > 256 {
		pal = pal[:256]
	}
	return pal
}

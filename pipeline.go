package spritegif

import (
	"bytes"
	"image"
	"image/gif"
	"io/ioutil"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Result is everything a build produced, in frame order.
type Result struct {
	// Frames are the cells as cut from the sheet.
	Frames []*image.NRGBA
	// Markers and Layout are only set in aligned mode.
	Markers []Marker
	Layout  Layout
	// Canvases are the final cropped images that make up the animation.
	Canvases []*image.NRGBA
	GIF      *gif.GIF
}

// Process runs the pipeline on an already decoded sheet. Nothing touches the
// filesystem except the optional annotation strip.
func Process(sheet image.Image, cfg Config, r *Reporter) (*Result, error) {
	if r == nil {
		r = NewReporter(nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	r.Sheet(sheet.Bounds().Size(), cfg.Grid)

	frames, err := Slice(sheet, cfg.Grid, cfg.Cells)
	if err != nil {
		return nil, errors.Wrap(err, "slicing sheet")
	}
	res := &Result{Frames: frames}

	switch cfg.Mode {
	case Unaligned:
		res.Canvases, err = CropEdges(frames, cfg.Crop.Edges)
		if err != nil {
			return nil, errors.Wrap(err, "cropping frames")
		}
	default:
		res.Markers, err = LocateMarkers(frames, cfg.Marker)
		if err != nil {
			return nil, errors.Wrap(err, "locating markers")
		}
		for i, m := range res.Markers {
			r.Marker(i, m)
		}

		if cfg.Annotate != "" {
			strip, err := Annotate(frames, res.Markers)
			if err != nil {
				return nil, err
			}
			if err := SaveAnnotated(cfg.Annotate, strip); err != nil {
				return nil, err
			}
			r.Annotated(cfg.Annotate)
		}

		var aligned []*image.NRGBA
		aligned, res.Layout, err = Align(frames, res.Markers, cfg.JumpHeights)
		if err != nil {
			return nil, errors.Wrap(err, "aligning frames")
		}
		r.Layout(res.Layout, cfg.JumpHeights)

		res.Canvases, err = CropUniform(aligned, cfg.Crop.Uniform)
		if err != nil {
			return nil, errors.Wrap(err, "cropping frames")
		}
	}
	r.Cropped(res.Canvases[0].Bounds().Size())

	res.GIF, err = Animation(res.Canvases, cfg.Animation)
	if err != nil {
		return nil, errors.Wrap(err, "building animation")
	}
	return res, nil
}

// Build loads cfg.Input, runs the pipeline and writes the animation to
// cfg.OutputPath(). Any failure aborts the whole build. The output file is
// only written once the GIF has been fully encoded in memory.
func Build(cfg Config, r *Reporter) (*Result, error) {
	if r == nil {
		r = NewReporter(nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	if wd, err := os.Getwd(); err == nil {
		r.WorkingDir(wd)
	}
	_, statErr := os.Stat(cfg.Input)
	r.InputExists(cfg.Input, statErr == nil)
	if statErr != nil {
		return nil, errors.Wrap(statErr, "opening sheet")
	}

	sheet, err := imaging.Open(cfg.Input)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding sheet %s", cfg.Input)
	}

	res, err := Process(sheet, cfg, r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, res.GIF); err != nil {
		return nil, errors.Wrap(err, "encoding gif")
	}
	out := cfg.OutputPath()
	if err := ioutil.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return nil, errors.Wrapf(err, "writing %s", out)
	}
	r.Done(out, len(res.Canvases), int64(buf.Len()))
	return res, nil
}

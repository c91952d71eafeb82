package spritegif

import (
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

const (
	// DefaultThreshold is the level every color channel must exceed for a
	// pixel to count as a marker pixel.
	DefaultThreshold = 250
	// DefaultClusterSize caps how many of the leftmost marker pixels are
	// averaged into the marker position.
	DefaultClusterSize = 5
)

// MarkerOpts tunes marker detection.
type MarkerOpts struct {
	Threshold   uint8 `yaml:"threshold"`
	ClusterSize int   `yaml:"cluster_size"`
}

// DefaultMarkerOpts returns the thresholds used for the dog sheet: near white
// (>250 on every channel) and a five pixel cluster.
func DefaultMarkerOpts() MarkerOpts {
	return MarkerOpts{
		Threshold:   DefaultThreshold,
		ClusterSize: DefaultClusterSize,
	}
}

// Marker is the tracked feature position within a single frame, in that
// frame's own pixel space.
type Marker struct {
	image.Point
	// Found is false when no marker pixel was seen and Point is the
	// (w/3, h/3) estimate instead of a measurement.
	Found bool
}

func (m Marker) String() string {
	if !m.Found {
		return fmt.Sprintf("%v (estimated)", m.Point)
	}
	return m.Point.String()
}

/*
LocateMarker finds the leftmost bright cluster in frame. A pixel qualifies when
its red, green and blue channels all exceed opts.Threshold and it is not fully
transparent. Qualifying pixels are ordered by x (ties keep top to bottom scan
order), the first opts.ClusterSize are kept, and their mean is truncated to
integers.

It assumes the tracked feature is the leftmost bright thing in the frame.
Stray bright pixels further left will win. When nothing qualifies the marker
falls back to a third of the way into the frame on both axes and Found is false.
*/
func LocateMarker(frame image.Image, opts MarkerOpts) (Marker, error) {
	if frame == nil || frame.Bounds().Empty() {
		return Marker{}, ErrEmptyFrame
	}
	size := opts.ClusterSize
	if size < 1 {
		size = 1
	}

	nrgba, ok := frame.(*image.NRGBA)
	if !ok {
		nrgba = imaging.Clone(frame)
	}
	bounds := nrgba.Bounds()

	var hits []image.Point
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := nrgba.NRGBAAt(x, y)
			if c.A > 0 && c.R > opts.Threshold && c.G > opts.Threshold && c.B > opts.Threshold {
				hits = append(hits, image.Pt(x-bounds.Min.X, y-bounds.Min.Y))
			}
		}
	}

	if len(hits) == 0 {
		return Marker{Point: image.Pt(bounds.Dx()/3, bounds.Dy()/3)}, nil
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].X < hits[j].X
	})
	if len(hits) > size {
		hits = hits[:size]
	}

	var sum image.Point
	for _, p := range hits {
		sum = sum.Add(p)
	}
	return Marker{Point: sum.Div(len(hits)), Found: true}, nil
}

// LocateMarkers runs LocateMarker over every frame, preserving order.
func LocateMarkers(frames []*image.NRGBA, opts MarkerOpts) ([]Marker, error) {
	markers := make([]Marker, 0, len(frames))
	for i, f := range frames {
		if f == nil {
			return nil, errors.Wrapf(ErrEmptyFrame, "frame %d", i)
		}
		m, err := LocateMarker(f, opts)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		markers = append(markers, m)
	}
	return markers, nil
}

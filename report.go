package spritegif

import (
	"fmt"
	"image"
	"io"
	"io/ioutil"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Reporter prints build milestones as plain lines.
type Reporter struct {
	w io.Writer
	p *message.Printer
}

// NewReporter writes to w. A nil w discards everything.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = ioutil.Discard
	}
	return &Reporter{
		w: w,
		p: message.NewPrinter(language.English),
	}
}

func (r *Reporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format, args...)
}

// WorkingDir prints the directory relative paths resolve against.
func (r *Reporter) WorkingDir(dir string) {
	r.printf("Current working directory: %s\n", dir)
}

// InputExists prints whether the sheet was found before decoding it.
func (r *Reporter) InputExists(path string, exists bool) {
	r.printf("Input %s exists: %t\n", path, exists)
}

// Sheet prints the sheet size, the grid and the resulting cell size.
func (r *Reporter) Sheet(size image.Point, g Grid) {
	cell := g.CellSize(image.Rectangle{Max: size})
	r.printf("Sheet %dx%d, %dx%d grid, cells %dx%d\n", size.X, size.Y, g.Cols, g.Rows, cell.X, cell.Y)
}

// Marker prints frame i's eye position, or the estimate used in its place.
func (r *Reporter) Marker(i int, m Marker) {
	if m.Found {
		r.printf("Frame %d: Eye position at (%d, %d)\n", i, m.X, m.Y)
		return
	}
	r.printf("Frame %d: No eye detected, using estimate (%d, %d)\n", i, m.X, m.Y)
}

// Layout prints the reference, the canvas size and every frame's offset.
func (r *Reporter) Layout(l Layout, jumps []int) {
	r.printf("\nReference eye position: (%d, %d)\n", l.Reference.X, l.Reference.Y)
	r.printf("Canvas size: %dx%d\n", l.Size.X, l.Size.Y)
	for i, off := range l.Offsets {
		r.printf("Frame %d: Offset (%d, %d) with jump offset %d\n", i, off.X, off.Y, jumps[i])
	}
}

// Cropped prints the final frame size.
func (r *Reporter) Cropped(size image.Point) {
	r.printf("Cropped frames to %dx%d\n", size.X, size.Y)
}

// Annotated prints where the marker strip was written.
func (r *Reporter) Annotated(path string) {
	r.printf("Wrote marker annotations to %s\n", path)
}

// Done prints the success line. The byte count is digit grouped.
func (r *Reporter) Done(path string, frames int, bytes int64) {
	r.p.Fprintf(r.w, "\nCreated %s: %d frames, %d bytes\n", path, frames, bytes)
}

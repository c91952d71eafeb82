package spritegif

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Adjustments are tone tweaks applied to each screen before it is drawn as
// braille. Zero values leave the image alone.
type Adjustments struct {
	Gamma    float64 // 1.0 is the original image
	Contrast float64 // -100 to 100
	Invert   bool
}

func (a Adjustments) apply(img image.Image) image.Image {
	if a.Gamma > 0 && a.Gamma != 1 {
		img = imaging.AdjustGamma(img, a.Gamma)
	}
	if a.Contrast != 0 {
		img = imaging.AdjustContrast(img, a.Contrast)
	}
	if a.Invert {
		img = imaging.Invert(img)
	}
	return img
}

type PlayOpt func(p *Player)

// WithTerminal replaces the default Xterm on the player's writer.
func WithTerminal(t Terminal) PlayOpt {
	return func(p *Player) {
		p.term = t
	}
}

// WithFit bounds the drawing to cols by lines of terminal characters.
func WithFit(cols, lines int) PlayOpt {
	return func(p *Player) {
		p.cols, p.lines = cols, lines
	}
}

// WithLoops plays the animation n times regardless of its own loop count.
func WithLoops(n int) PlayOpt {
	return func(p *Player) {
		p.loops = n
	}
}

func WithAdjustments(a Adjustments) PlayOpt {
	return func(p *Player) {
		p.adjust = a
	}
}

func WithEncoder(enc *BrailleEncoder) PlayOpt {
	return func(p *Player) {
		p.enc = enc
	}
}

// WithSleep replaces time.Sleep for frame delays.
func WithSleep(sleep func(time.Duration)) PlayOpt {
	return func(p *Player) {
		p.sleep = sleep
	}
}

// Player draws the frames of a GIF to a terminal as braille, moving the
// cursor back up after each frame so the next one overwrites it.
type Player struct {
	w      io.Writer
	term   Terminal
	enc    *BrailleEncoder
	adjust Adjustments
	cols   int
	lines  int
	loops  int
	sleep  func(time.Duration)
}

func NewPlayer(w io.Writer, opts ...PlayOpt) *Player {
	p := &Player{
		w:     w,
		cols:  80,
		lines: 25, // Small, but a pretty standard default
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.term == nil {
		p.term = &Xterm{Writer: w}
	}
	if p.enc == nil {
		p.enc = NewBrailleEncoder()
	}
	return p
}

/*
PlayGIF draws each frame of giff to w (usually os.Stdout). Terminal codes are
used to reposition the cursor at the beginning of each frame. Delays and
disposal methods are respected.
*/
func PlayGIF(w io.Writer, giff *gif.GIF, opts ...PlayOpt) error {
	return NewPlayer(w, opts...).Play(giff)
}

// Play runs the animation. A GIF that loops forever plays until the process
// is interrupted unless WithLoops was given.
func (p *Player) Play(giff *gif.GIF) error {
	if giff == nil || len(giff.Image) == 0 {
		return ErrNoFrames
	}
	p.term.ShowCursor(false)
	defer p.term.ShowCursor(true)
	stop := p.handleInterrupt()
	defer stop()

	bounds := image.Rect(0, 0, giff.Config.Width, giff.Config.Height)
	if bounds.Empty() {
		for _, frame := range giff.Image {
			bounds = bounds.Union(frame.Bounds())
		}
	}
	screen := image.NewNRGBA(bounds)

	loops := p.loops
	if loops <= 0 {
		switch {
		case giff.LoopCount == 0:
			loops = -1 // forever
		case giff.LoopCount < 0:
			loops = 1
		default:
			loops = giff.LoopCount + 1
		}
	}

	for c := 0; loops < 0 || c < loops; c++ {
		for i, frame := range giff.Image {
			var delay time.Duration
			if i < len(giff.Delay) {
				delay = time.Duration(giff.Delay[i]) * 10 * time.Millisecond
			}
			var disposal byte
			if i < len(giff.Disposal) {
				disposal = giff.Disposal[i]
			}

			switch disposal {
			// Dispose previous essentially means draw then undo
			case gif.DisposalPrevious:
				previous := imaging.Clone(screen)
				draw.Draw(screen, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
				if err := p.flush(screen); err != nil {
					return err
				}
				p.sleep(delay)
				screen = previous
			// Dispose background clears the area just drawn back to transparent
			case gif.DisposalBackground:
				draw.Draw(screen, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
				if err := p.flush(screen); err != nil {
					return err
				}
				p.sleep(delay)
				draw.Draw(screen, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
			// Dispose none or undefined means we just draw what we got over top
			default:
				draw.Draw(screen, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
				if err := p.flush(screen); err != nil {
					return err
				}
				p.sleep(delay)
			}
		}
	}
	return nil
}

func (p *Player) prepare(img image.Image) image.Image {
	// Multiply cols by 2 since each braille symbol is 2 pixels wide
	// Multiply lines by 4 since each braille symbol is 4 pixels high
	// One line is kept free for the cursor. Without room for at least one
	// row of symbols the image is drawn unscaled.
	width, height := p.cols*2, (p.lines-1)*4
	if width > 0 && height > 0 {
		img = resize.Thumbnail(uint(width), uint(height), img, resize.NearestNeighbor)
	}
	return p.adjust.apply(img)
}

func (p *Player) flush(screen image.Image) error {
	img := p.prepare(screen)
	var buf bytes.Buffer
	if err := p.enc.Encode(&buf, img); err != nil {
		return err
	}
	if _, err := buf.WriteTo(p.w); err != nil {
		return errors.Wrap(err, "drawing frame")
	}
	p.term.ResetCursor(Rows(img))
	return nil
}

// handleInterrupt puts the cursor back if the process is killed mid
// animation, then re-raises the signal. The returned func stops listening.
func (p *Player) handleInterrupt() func() {
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-signals:
			p.term.ShowCursor(true)
			// Stop notifying this channel
			signal.Stop(signals)
			// All Signals returned by the signal package should be of type syscall.Signal
			if signum, ok := s.(syscall.Signal); ok {
				// Calling os.Exit here would be a bad idea if there are other goroutines
				// waiting to catch the same signal.
				syscall.Kill(syscall.Getpid(), signum)
			} else {
				panic(fmt.Sprintf("unexpected signal: %v", s))
			}
		case <-done:
		}
	}()
	return func() {
		signal.Stop(signals)
		close(done)
	}
}

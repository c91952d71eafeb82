package main

import (
	"fmt"
	"image/gif"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/codegangsta/cli"
	"github.com/kevin-cantwell/spritegif"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
)

func main() {
	app := cli.NewApp()
	app.Version = "0.1.0"
	app.Name = "spritegif"
	app.Usage = "Cuts a sprite sheet into frames, lines them up and writes a looping gif."
	app.UsageText = "1) spritegif build [options] [sheet]\n" +
		/*      */ "   2) spritegif play [options] [file]"
	app.Author = "Kevin Cantwell"
	app.Email = "kevin.cantwell@gmail.com"
	app.Commands = []cli.Command{
		{
			Name:      "build",
			Usage:     "Build the animation from a sprite sheet.",
			ArgsUsage: "[sheet]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config,c",
					Usage: "YAML `FILE` overriding the default grid, cells, jump arc, crop and timing.",
				},
				cli.StringFlag{
					Name:  "output,o",
					Usage: "`FILE` to write the gif to.",
				},
				cli.BoolFlag{
					Name:  "unaligned,u",
					Usage: "Skip eye alignment and only crop the frame edges.",
				},
				cli.StringFlag{
					Name:  "annotate,a",
					Usage: "Write the detected eye positions over the frames to PNG `FILE`.",
				},
				cli.IntFlag{
					Name:  "delay,d",
					Usage: "`MILLISECONDS` each frame is shown.",
					Value: 100,
				},
				cli.IntFlag{
					Name:  "loop,l",
					Usage: "`COUNT` of repeats. 0 loops forever.",
				},
				cli.StringFlag{
					Name:  "disposal",
					Usage: "`METHOD` between frames: none, background or previous.",
					Value: string(spritegif.DisposeBackground),
				},
			},
			Action: build,
		},
		{
			Name:      "play",
			Usage:     "Play a gif in the terminal as braille. CTRL-C to quit.",
			ArgsUsage: "[file]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "fit,f",
					Usage: "`FIT` = 80,25 scales down the image to fit 80 columns and 25 lines.",
				},
				cli.IntFlag{
					Name:  "loops,n",
					Usage: "Play `N` times. 0 uses the gif's own loop count.",
				},
				cli.Float64Flag{
					Name:  "gamma,g",
					Usage: "`GAMMA` = 1.0 gives the original image. GAMMA less than 1.0 darkens the image and GAMMA greater than 1.0 lightens it.",
					Value: 1.0,
				},
				cli.Float64Flag{
					Name:  "contrast",
					Usage: "`CONTRAST` = 0 gives the original image. CONTRAST = -100 gives solid grey image. CONTRAST = 100 gives maximum contrast.",
				},
				cli.Float64Flag{
					Name:  "luminosity",
					Usage: "Draw pixels at or below `LUMINOSITY` (0 to 1) as dots instead of dithering.",
				},
				cli.BoolFlag{
					Name:  "invert,i",
					Usage: "Inverts the image.",
				},
			},
			Action: play,
		},
	}
	if err := app.Run(os.Args); err != nil {
		exit(err.Error(), 1)
	}
}

func build(c *cli.Context) error {
	cfg := spritegif.DefaultConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = spritegif.LoadConfig(path); err != nil {
			exit(err.Error(), 1)
		}
	}
	if input := c.Args().First(); input != "" {
		cfg.Input = input
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.Bool("unaligned") {
		cfg.Mode = spritegif.Unaligned
	}
	if c.IsSet("annotate") {
		cfg.Annotate = c.String("annotate")
	}
	if c.IsSet("delay") {
		cfg.Animation.DelayMS = c.Int("delay")
	}
	if c.IsSet("loop") {
		cfg.Animation.LoopCount = c.Int("loop")
	}
	if c.IsSet("disposal") {
		cfg.Animation.Disposal = spritegif.Disposal(c.String("disposal"))
	}

	if _, err := spritegif.Build(cfg, spritegif.NewReporter(os.Stdout)); err != nil {
		exit(err.Error(), 1)
	}
	return nil
}

func play(c *cli.Context) error {
	var reader io.Reader = os.Stdin
	if input := c.Args().First(); input != "" {
		file, err := os.Open(input)
		if err != nil {
			exit(err.Error(), 1)
		}
		defer file.Close()
		reader = file
	}
	giff, err := gif.DecodeAll(reader)
	if err != nil {
		exit(err.Error(), 1)
	}

	cols, lines := fit(c)
	opts := []spritegif.PlayOpt{
		spritegif.WithFit(cols, lines),
		spritegif.WithLoops(c.Int("loops")),
		spritegif.WithAdjustments(spritegif.Adjustments{
			Gamma:    c.Float64("gamma"),
			Contrast: c.Float64("contrast"),
			Invert:   c.Bool("invert"),
		}),
	}
	if lum := c.Float64("luminosity"); lum > 0 {
		opts = append(opts, spritegif.WithEncoder(spritegif.NewBrailleEncoder(spritegif.WithLuminosity(float32(lum)))))
	}
	// Cursor codes only make sense on a terminal; piped output gets plain frames.
	if !terminal.IsTerminal(int(os.Stdout.Fd())) {
		opts = append(opts, spritegif.WithTerminal(plain{}))
	}

	if err := spritegif.PlayGIF(os.Stdout, giff, opts...); err != nil {
		exit(err.Error(), 1)
	}
	return nil
}

func fit(c *cli.Context) (cols, lines int) {
	if c.IsSet("fit") {
		var err error
		if cols, lines, err = parseFit(c.String("fit")); err != nil {
			exit(err.Error(), 1)
		}
	}
	if cols == 0 && lines == 0 {
		var err error
		cols, lines, err = spritegif.TerminalSize(int(os.Stderr.Fd()))
		if err != nil {
			cols, lines = 80, 25 // Small, but a pretty standard default
		}
	}
	return cols, lines
}

// parseFit reads "cols,lines". Both must be positive integers.
func parseFit(s string) (cols, lines int, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, errors.New("fit option must be comma separated")
	}
	cols, colsErr := strconv.Atoi(strings.Trim(parts[0], " "))
	lines, linesErr := strconv.Atoi(strings.Trim(parts[1], " "))
	if colsErr != nil || linesErr != nil {
		return 0, 0, errors.Errorf("fit option must be two integers, got %q", s)
	}
	if cols < 1 || lines < 2 {
		return 0, 0, errors.Errorf("fit option %q leaves no room to draw", s)
	}
	return cols, lines, nil
}

type plain struct{}

func (plain) ResetCursor(int) {}
func (plain) ShowCursor(bool) {}

func exit(msg string, code int) {
	fmt.Println(msg)
	os.Exit(code)
}

package spritegif_test

import (
	"bytes"
	"image"
	"image/gif"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/kevin-cantwell/spritegif"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("Process", func() {
	var (
		cfg spritegif.Config
		out *bytes.Buffer
	)

	BeforeEach(func() {
		cfg = spritegif.DefaultConfig()
		out = &bytes.Buffer{}
	})

	It("lines every eye up on the same pixel", func() {
		cfg.JumpHeights = make([]int, 6)
		res, err := spritegif.Process(dogSheet(), cfg, spritegif.NewReporter(out))
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Frames).To(HaveLen(6))
		Expect(res.Markers).To(HaveLen(6))
		Expect(res.Canvases).To(HaveLen(6))
		Expect(res.GIF.Image).To(HaveLen(6))

		// eyes spread 2 left, 2 right, 2 up and 3 down of frame 0
		Expect(res.Layout.Size).To(Equal(image.Pt(34, 35)))
		for _, c := range res.Canvases {
			Expect(c.Bounds()).To(Equal(image.Rect(0, 0, 32, 33)))
			corner, ok := whiteCorner(c)
			Expect(ok).To(BeTrue())
			Expect(corner).To(Equal(image.Pt(11, 21)))
		}
	})

	It("adds the jump arc after alignment", func() {
		res, err := spritegif.Process(dogSheet(), cfg, spritegif.NewReporter(out))
		Expect(err).NotTo(HaveOccurred())
		for i, c := range res.Canvases {
			corner, ok := whiteCorner(c)
			Expect(ok).To(BeTrue())
			Expect(corner).To(Equal(image.Pt(11, 21+spritegif.DefaultJumpHeights[i])))
		}
	})

	It("reports markers, the layout and every offset", func() {
		_, err := spritegif.Process(dogSheet(), cfg, spritegif.NewReporter(out))
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("Frame 0: Eye position at (10, 20)"))
		Expect(out.String()).To(ContainSubstring("Frame 5: Eye position at (10, 18)"))
		Expect(out.String()).To(ContainSubstring("Reference eye position: (10, 20)"))
		Expect(out.String()).To(ContainSubstring("Canvas size: 34x35"))
		Expect(out.String()).To(ContainSubstring("Frame 2: Offset (4, -14) with jump offset -15"))
	})

	It("carries on with an estimate when a frame has no eye", func() {
		sheet := dogSheet()
		fill(sheet, image.Rect(30, 30, 60, 60), fur)

		res, err := spritegif.Process(sheet, cfg, spritegif.NewReporter(out))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Markers[1].Found).To(BeFalse())
		Expect(res.Markers[1].Point).To(Equal(image.Pt(10, 10)))
		Expect(out.String()).To(ContainSubstring("Frame 1: No eye detected"))
	})

	It("only crops edges in unaligned mode", func() {
		cfg.Mode = spritegif.Unaligned
		res, err := spritegif.Process(dogSheet(), cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Markers).To(BeEmpty())
		for _, c := range res.Canvases {
			Expect(c.Bounds()).To(Equal(image.Rect(0, 0, 29, 27)))
		}
	})

	It("refuses a jump arc that does not match the cells", func() {
		cfg.JumpHeights = cfg.JumpHeights[:5]
		_, err := spritegif.Process(dogSheet(), cfg, nil)
		Expect(errors.Cause(err)).To(Equal(spritegif.ErrLengthMismatch))
	})

	It("encodes byte-identical output on every run", func() {
		encode := func() []byte {
			res, err := spritegif.Process(dogSheet(), cfg, nil)
			Expect(err).NotTo(HaveOccurred())
			var buf bytes.Buffer
			Expect(gif.EncodeAll(&buf, res.GIF)).To(Succeed())
			return buf.Bytes()
		}
		Expect(encode()).To(Equal(encode()))
	})
})

var _ = Describe("Build", func() {
	var (
		dir string
		cfg spritegif.Config
		out *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		dir, err = ioutil.TempDir("", "spritegif")
		Expect(err).NotTo(HaveOccurred())

		cfg = spritegif.DefaultConfig()
		cfg.Input = filepath.Join(dir, "sheet.png")
		cfg.Output = filepath.Join(dir, "dog.gif")
		out = &bytes.Buffer{}

		f, err := os.Create(cfg.Input)
		Expect(err).NotTo(HaveOccurred())
		Expect(png.Encode(f, dogSheet())).To(Succeed())
		Expect(f.Close()).To(Succeed())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	It("writes the animation and says so", func() {
		_, err := spritegif.Build(cfg, spritegif.NewReporter(out))
		Expect(err).NotTo(HaveOccurred())

		data, err := ioutil.ReadFile(cfg.Output)
		Expect(err).NotTo(HaveOccurred())
		g, err := gif.DecodeAll(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		Expect(g.Image).To(HaveLen(6))
		Expect(g.LoopCount).To(Equal(0))

		Expect(out.String()).To(ContainSubstring("Current working directory:"))
		Expect(out.String()).To(ContainSubstring("exists: true"))
		Expect(out.String()).To(ContainSubstring("Created " + cfg.Output + ": 6 frames"))
	})

	It("writes the same file twice over", func() {
		_, err := spritegif.Build(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		first, err := ioutil.ReadFile(cfg.Output)
		Expect(err).NotTo(HaveOccurred())

		_, err = spritegif.Build(cfg, nil)
		Expect(err).NotTo(HaveOccurred())
		second, err := ioutil.ReadFile(cfg.Output)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("writes annotations when asked", func() {
		cfg.Annotate = filepath.Join(dir, "eyes.png")
		_, err := spritegif.Build(cfg, spritegif.NewReporter(out))
		Expect(err).NotTo(HaveOccurred())

		f, err := os.Open(cfg.Annotate)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		img, err := png.Decode(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Bounds().Size()).To(Equal(image.Pt(6*30+5, 30)))
	})

	It("aborts before processing when the sheet is missing", func() {
		cfg.Input = filepath.Join(dir, "missing.png")
		_, err := spritegif.Build(cfg, spritegif.NewReporter(out))
		Expect(err).To(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("exists: false"))
		Expect(out.String()).NotTo(ContainSubstring("Frame 0"))
		_, err = os.Stat(cfg.Output)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("aborts on a sheet it cannot decode", func() {
		Expect(ioutil.WriteFile(cfg.Input, []byte("not an image"), 0644)).To(Succeed())
		_, err := spritegif.Build(cfg, nil)
		Expect(err).To(HaveOccurred())
		_, err = os.Stat(cfg.Output)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("fails when the output cannot be written", func() {
		cfg.Output = filepath.Join(dir, "no", "such", "dir.gif")
		_, err := spritegif.Build(cfg, nil)
		Expect(err).To(HaveOccurred())
	})
})

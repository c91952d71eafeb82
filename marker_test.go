package spritegif_test

import (
	"image"
	"image/color"

	"github.com/kevin-cantwell/spritegif"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var _ = Describe("LocateMarker", func() {
	var (
		frame *image.NRGBA
		opts  spritegif.MarkerOpts
	)

	BeforeEach(func() {
		frame = solid(30, 30, fur)
		opts = spritegif.DefaultMarkerOpts()
	})

	It("averages a vertical line of marker pixels", func() {
		fill(frame, image.Rect(10, 0, 11, 5), white)
		m, err := spritegif.LocateMarker(frame, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Found).To(BeTrue())
		Expect(m.Point).To(Equal(image.Pt(10, 2)))
	})

	It("keeps only the leftmost cluster", func() {
		fill(frame, image.Rect(3, 0, 4, 10), white)
		frame.SetNRGBA(2, 9, white)
		fill(frame, image.Rect(20, 20, 25, 25), white)

		m, err := spritegif.LocateMarker(frame, opts)
		Expect(err).NotTo(HaveOccurred())
		// (2,9) then (3,0)..(3,3): mean (14/5, 15/5) truncated
		Expect(m.Point).To(Equal(image.Pt(2, 3)))
	})

	It("truncates the mean of a square eye to its corner", func() {
		fill(frame, image.Rect(7, 12, 10, 15), white)
		m, err := spritegif.LocateMarker(frame, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Point).To(Equal(image.Pt(7, 12)))
	})

	It("falls back to a third of the frame when nothing is bright enough", func() {
		frame = solid(31, 20, color.NRGBA{250, 250, 250, 0xff})
		m, err := spritegif.LocateMarker(frame, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Found).To(BeFalse())
		Expect(m.Point).To(Equal(image.Pt(10, 6)))
		Expect(m.String()).To(ContainSubstring("estimated"))
	})

	It("ignores fully transparent white pixels", func() {
		fill(frame, image.Rect(0, 0, 5, 5), color.NRGBA{0xff, 0xff, 0xff, 0x00})
		fill(frame, image.Rect(12, 12, 13, 13), color.NRGBA{0xff, 0xff, 0xff, 0x01})
		m, err := spritegif.LocateMarker(frame, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Found).To(BeTrue())
		Expect(m.Point).To(Equal(image.Pt(12, 12)))
	})

	It("is deterministic", func() {
		fill(frame, image.Rect(4, 6, 9, 8), white)
		fill(frame, image.Rect(5, 15, 6, 20), white)
		first, err := spritegif.LocateMarker(frame, opts)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 10; i++ {
			Expect(spritegif.LocateMarker(frame, opts)).To(Equal(first))
		}
	})

	It("takes its threshold and cluster size from opts", func() {
		fill(frame, image.Rect(4, 4, 5, 9), color.NRGBA{0xf0, 0xf0, 0xf0, 0xff})
		_, err := spritegif.LocateMarker(frame, opts)
		Expect(err).NotTo(HaveOccurred())

		m, err := spritegif.LocateMarker(frame, spritegif.MarkerOpts{Threshold: 0xe0, ClusterSize: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Found).To(BeTrue())
		Expect(m.Point).To(Equal(image.Pt(4, 4)))
	})

	It("works on any image type and origin", func() {
		rgba := image.NewRGBA(image.Rect(100, 100, 130, 130))
		fill(rgba, rgba.Bounds(), fur)
		fill(rgba, image.Rect(110, 120, 111, 121), white)
		m, err := spritegif.LocateMarker(rgba, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Point).To(Equal(image.Pt(10, 20)))
	})

	It("rejects empty frames", func() {
		_, err := spritegif.LocateMarker(image.NewNRGBA(image.Rectangle{}), opts)
		Expect(err).To(Equal(spritegif.ErrEmptyFrame))

		_, err = spritegif.LocateMarkers([]*image.NRGBA{frame, nil}, opts)
		Expect(errors.Cause(err)).To(Equal(spritegif.ErrEmptyFrame))
	})

	It("locates every frame in order", func() {
		frames, err := spritegif.Slice(dogSheet(), spritegif.Grid{Cols: 3, Rows: 3}, spritegif.DefaultCells)
		Expect(err).NotTo(HaveOccurred())
		markers, err := spritegif.LocateMarkers(frames, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(markers).To(HaveLen(len(frames)))
		for i, m := range markers {
			Expect(m.Found).To(BeTrue())
			Expect(m.Point).To(Equal(squares[i]))
		}
	})
})

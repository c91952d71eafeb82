package spritegif

// Decoders for sheet formats beyond the ones imaging registers itself.
import (
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Package raster materializes a qtree.Tree back into a pixel grid, either
// as the reconstructed image or as a segmentation-boundary visualization,
// and holds the normalization step the encoder applies before building a
// tree from a raster with a declared max sample value other than 255.
package raster

import "fmt"

// Raster is a square, row-major 8-bit grayscale sample grid with a
// declared maximum sample value.
type Raster struct {
	Side int
	Max  int
	Pix  []byte
}

// Normalize returns a copy of r.Pix rescaled from [0, r.Max] to the
// canonical [0, 255] range. When Max is already 255 (or unset), the
// samples are copied unchanged.
func (r *Raster) Normalize() []byte {
	out := make([]byte, len(r.Pix))
	if r.Max == 255 || r.Max == 0 {
		copy(out, r.Pix)
		return out
	}
	for i, s := range r.Pix {
		out[i] = byte(int(s) * 255 / r.Max)
	}
	return out
}

// New validates side and pix and returns a Raster, or an error if the
// raster is not square (caller supplies a single side length) or the pixel
// buffer does not match it.
func New(side, max int, pix []byte) (*Raster, error) {
	if len(pix) != side*side {
		return nil, fmt.Errorf("raster: pixel buffer has %d bytes, want %d for side %d", len(pix), side*side, side)
	}
	return &Raster{Side: side, Max: max, Pix: pix}, nil
}

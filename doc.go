// Package qtc implements a lossless/lossy codec for square, power-of-two
// grayscale rasters built on a complete quaternary tree (quadtree)
// decomposition.
//
// A raster is decomposed bottom-up into a flat, level-order tree (package
// internal/qtree): every node carries a mean color, a 2-bit reconstruction
// residual, a uniformity flag, and a roughness variance. An optional
// variance-driven filter (also internal/qtree) can raise the uniformity
// flag on near-flat subtrees before encoding, trading exactness for size.
// The tree is then serialized to the QTC bit-stream format: a short ASCII
// header followed by a parent-driven traversal that elides any field the
// decoder can derive from already-written data.
//
// Basic usage for encoding:
//
//	tree, rate, err := qtc.Encode("out.qtc", pix, side, 255, qtc.EncoderOptions{})
//
// Basic usage for decoding:
//
//	tree, err := qtc.Decode("in.qtc")
//	img := raster.Render(tree)
package qtc

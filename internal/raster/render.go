package raster

import "github.com/deepteams/qtc/internal/qtree"

// quadrant order matches qtree.Build: top-left, top-right, bottom-right,
// bottom-left. Any deviation here silently corrupts output.
var quadrantOffsets = [4][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// Render walks t top-down and materializes the reconstructed image: a
// uniform node paints its whole square in one color, a leaf paints its
// single pixel, anything else recurses into its four quadrants.
func Render(t *qtree.Tree) *Raster {
	side := t.Side()
	out := &Raster{Side: side, Max: 255, Pix: make([]byte, side*side)}
	renderNode(t, out, 0, 0, 0, t.Level)
	return out
}

func renderNode(t *qtree.Tree, out *Raster, i, r, c, depth int) {
	n := t.Nodes[i]
	if depth == 0 {
		out.Pix[r*out.Side+c] = n.Color
		return
	}
	if n.U {
		fillSquare(out, r, c, 1<<depth, n.Color)
		return
	}

	h := 1 << (depth - 1)
	base := qtree.ChildBase(i)
	for k, off := range quadrantOffsets {
		renderNode(t, out, base+k, r+off[0]*h, c+off[1]*h, depth-1)
	}
}

func fillSquare(out *Raster, r, c, size int, color byte) {
	for y := 0; y < size; y++ {
		row := (r + y) * out.Side
		for x := 0; x < size; x++ {
			out.Pix[row+c+x] = color
		}
	}
}

// RenderGrid walks t top-down like Render, but instead of the reconstructed
// color it paints a segmentation overlay: a uniform tile at non-zero depth
// gets a black top row and left column (white elsewhere), and a leaf is a
// checkerboard tiebreaker keyed on its tree index's parity.
func RenderGrid(t *qtree.Tree) *Raster {
	side := t.Side()
	out := &Raster{Side: side, Max: 255, Pix: make([]byte, side*side)}
	renderGridNode(t, out, 0, 0, 0, t.Level)
	return out
}

func renderGridNode(t *qtree.Tree, out *Raster, i, r, c, depth int) {
	n := t.Nodes[i]
	if depth == 0 {
		var v byte = 0
		if i%2 == 0 {
			v = 255
		}
		out.Pix[r*out.Side+c] = v
		return
	}
	if n.U {
		size := 1 << depth
		for y := 0; y < size; y++ {
			row := (r + y) * out.Side
			for x := 0; x < size; x++ {
				if y == 0 || x == 0 {
					out.Pix[row+c+x] = 0
				} else {
					out.Pix[row+c+x] = 255
				}
			}
		}
		return
	}

	h := 1 << (depth - 1)
	base := qtree.ChildBase(i)
	for k, off := range quadrantOffsets {
		renderGridNode(t, out, base+k, r+off[0]*h, c+off[1]*h, depth-1)
	}
}

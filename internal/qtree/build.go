package qtree

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotPowerOfTwo is returned by Build when side is not a power of two.
var ErrNotPowerOfTwo = errors.New("qtree: side is not a power of two")

// quadrant order is fixed everywhere a node's children are visited:
// top-left, top-right, bottom-right, bottom-left.
var quadrantOffsets = [4][2]int{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// Build constructs a complete quaternary tree over a normalized raster.
// pix must be row-major, side*side bytes, with side a power of two.
func Build(pix []byte, side int) (*Tree, error) {
	if side <= 0 || side&(side-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, side)
	}
	if len(pix) != side*side {
		return nil, fmt.Errorf("qtree: pixel buffer has %d bytes, want %d", len(pix), side*side)
	}

	l := LevelFromSide(side)
	t := NewTree(l)
	buildNode(t, pix, side, 0, 0, 0, l)
	return t, nil
}

// buildNode fills in index i, the node covering the 2^depth x 2^depth
// square whose top-left corner is (r, c), via a post-order walk.
func buildNode(t *Tree, pix []byte, side, i, r, c, depth int) {
	if depth == 0 {
		t.Nodes[i] = Node{Color: pix[r*side+c], E: 0, U: true, Variance: 0}
		return
	}

	h := 1 << (depth - 1)
	base := ChildBase(i)
	for k, off := range quadrantOffsets {
		buildNode(t, pix, side, base+k, r+off[0]*h, c+off[1]*h, depth-1)
	}

	var sum uint16
	for k := 0; k < 4; k++ {
		sum += uint16(t.Nodes[base+k].Color)
	}
	e := uint8(sum & 3)
	color := uint8(sum / 4)

	uniform := true
	first := t.Nodes[base].Color
	for k := 0; k < 4; k++ {
		if t.Nodes[base+k].Color != first || !t.Nodes[base+k].U {
			uniform = false
			break
		}
	}

	m := float64(color)
	var acc float64
	for k := 0; k < 4; k++ {
		v := t.Nodes[base+k].Variance
		dm := m - float64(t.Nodes[base+k].Color)
		acc += v*v + dm*dm
	}
	variance := math.Sqrt(acc) / 4

	t.Nodes[i] = Node{Color: color, E: e, U: uniform, Variance: variance}
}

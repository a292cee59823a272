package qtc

import (
	"fmt"
	"os"

	"github.com/deepteams/qtc/internal/bitio"
	"github.com/deepteams/qtc/internal/qtree"
)

// Decode reads a QTC file and reconstructs its tree. Use package
// internal/raster's Render or RenderGrid on the result to materialize a
// pixel raster.
func Decode(path string) (*qtree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("qtc: decode: %w", err)
	}
	bs := bitio.Attach(f, bitio.Read)
	defer bs.Close()

	level, err := readHeader(bs)
	if err != nil {
		return nil, fmt.Errorf("qtc: decode: %w", err)
	}
	if level < 0 || level > 31 {
		return nil, fmt.Errorf("qtc: decode: %w: level %d", ErrBadMagic, level)
	}

	tree := qtree.NewTree(level)
	if err := reconstruct(bs, tree); err != nil {
		return nil, fmt.Errorf("qtc: decode: %w", err)
	}
	return tree, nil
}

func reconstruct(bs *bitio.BitStream, t *qtree.Tree) error {
	n := len(t.Nodes)

	for i := 0; i < n; i++ {
		if i > 0 && t.Nodes[qtree.Parent(i)].U {
			t.Nodes[i].Color = t.Nodes[qtree.Parent(i)].Color
			t.Nodes[i].E = 0
			t.Nodes[i].U = true
			continue
		}

		if emitColor(i) {
			b, err := bs.ReadByte()
			if err != nil {
				return fmt.Errorf("%w: node %d color: %v", ErrTruncated, i, err)
			}
			t.Nodes[i].Color = b
		} else {
			t.Nodes[i].Color = reconstructFourth(t, i)
		}

		if t.IsLeaf(i) {
			t.Nodes[i].E = 0
			t.Nodes[i].U = true
			continue
		}

		e, err := readBits(bs, 2)
		if err != nil {
			return fmt.Errorf("%w: node %d residual: %v", ErrTruncated, i, err)
		}
		t.Nodes[i].E = e

		if e == 0 {
			b, err := bs.ReadBit()
			if err != nil {
				return fmt.Errorf("%w: node %d uniformity: %v", ErrTruncated, i, err)
			}
			t.Nodes[i].U = b == 1
		} else {
			t.Nodes[i].U = false
		}
	}
	return nil
}

// reconstructFourth recovers the color of a fourth child (i mod 4 == 0,
// i > 0) from its parent's color and residual and its three preceding
// siblings, per the format's m4 = 4m + e - m1 - m2 - m3 identity. The
// arithmetic wraps modulo 256, matching the Builder's own wrapping sum.
func reconstructFourth(t *qtree.Tree, i int) byte {
	p := qtree.Parent(i)
	parent := t.Nodes[p]
	m1 := t.Nodes[i-3].Color
	m2 := t.Nodes[i-2].Color
	m3 := t.Nodes[i-1].Color
	return byte(4*int(parent.Color) + int(parent.E) - int(m1) - int(m2) - int(m3))
}

// readBits reads n bits, high bit first, into the low n bits of the
// result.
func readBits(bs *bitio.BitStream, n int) (byte, error) {
	var v byte
	for k := 0; k < n; k++ {
		bit, err := bs.ReadBit()
		if err != nil {
			return 0, err
		}
		v = (v << 1) | bit
	}
	return v, nil
}

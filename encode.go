package qtc

import (
	"fmt"
	"os"

	"github.com/deepteams/qtc/internal/bitio"
	"github.com/deepteams/qtc/internal/qtree"
	"github.com/deepteams/qtc/internal/raster"
)

// EncoderOptions controls optional, non-lossless encoding behavior.
type EncoderOptions struct {
	// FilterStrength is alpha in [0,2]. Values below 0.1 disable the
	// filter entirely, matching the calling layer's "no filtering"
	// convention. Zero is the lossless default.
	FilterStrength float64
}

// Encode builds a quadtree from pix (a side x side raster with declared
// maximum sample value maxVal), optionally uniformizes it with the
// variance filter, and writes it to path in the QTC bit-stream format.
// It returns the built tree and the compression rate (percent) recorded
// in the header comment.
//
// No partial file is left behind on error.
func Encode(path string, pix []byte, side, maxVal int, opts EncoderOptions) (*qtree.Tree, float64, error) {
	r, err := raster.New(side, maxVal, pix)
	if err != nil {
		return nil, 0, fmt.Errorf("qtc: encode: %w", err)
	}

	tree, err := qtree.Build(r.Normalize(), side)
	if err != nil {
		return nil, 0, fmt.Errorf("qtc: encode: %w", err)
	}

	if opts.FilterStrength < 0 || opts.FilterStrength > 2 {
		return nil, 0, ErrFilterStrength
	}
	if opts.FilterStrength >= 0.1 {
		qtree.Uniformize(tree, opts.FilterStrength)
	}

	bits := dryRunBits(tree)
	packedBytes := (bits + 7) / 8
	rate := 100 * float64(packedBytes*8) / float64(8*side*side)

	f, err := os.Create(path)
	if err != nil {
		return nil, 0, fmt.Errorf("qtc: encode: %w", err)
	}
	bs := bitio.Attach(f, bitio.Write)

	if err := writeHeader(bs, tree.Level, rate); err != nil {
		bs.Close()
		os.Remove(path)
		return nil, 0, fmt.Errorf("qtc: encode: writing header: %w", err)
	}
	if err := emitNodes(bs, tree); err != nil {
		bs.Close()
		os.Remove(path)
		return nil, 0, fmt.Errorf("qtc: encode: emitting nodes: %w", err)
	}
	if err := bs.Close(); err != nil {
		os.Remove(path)
		return nil, 0, fmt.Errorf("qtc: encode: %w", err)
	}

	return tree, rate, nil
}

// emitColor reports whether node i's color field is emitted under the
// per-node rule, for both leaf and internal nodes: the root always
// emits (it has no parent residual to derive from), every other
// fourth child omits its color in favor of reconstruction.
func emitColor(i int) bool {
	return i == 0 || i%4 != 0
}

// nodeBits returns the number of bits the per-node emission rule emits
// for node i, given that its parent (if any) does not have u=1. It is
// shared by the dry-run pass and real emission so the two can never
// disagree.
func nodeBits(t *qtree.Tree, i int) int {
	n := t.Nodes[i]
	bits := 0
	if emitColor(i) {
		bits += 8
	}
	if t.IsLeaf(i) {
		return bits
	}
	bits += 2
	if n.E == 0 {
		bits++
	}
	return bits
}

func dryRunBits(t *qtree.Tree) int {
	total := 0
	for i := range t.Nodes {
		if i > 0 && t.Nodes[qtree.Parent(i)].U {
			continue
		}
		total += nodeBits(t, i)
	}
	return total
}

func emitNodes(bs *bitio.BitStream, t *qtree.Tree) error {
	for i := range t.Nodes {
		if i > 0 && t.Nodes[qtree.Parent(i)].U {
			continue
		}
		n := t.Nodes[i]

		if emitColor(i) {
			if err := bs.WriteByte(n.Color); err != nil {
				return err
			}
		}
		if t.IsLeaf(i) {
			continue
		}
		if err := writeBits(bs, n.E, 2); err != nil {
			return err
		}
		if n.E == 0 {
			u := byte(0)
			if n.U {
				u = 1
			}
			if err := bs.WriteBit(u); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeBits writes the low n bits of v, high bit first.
func writeBits(bs *bitio.BitStream, v byte, n int) error {
	for shift := n - 1; shift >= 0; shift-- {
		bit := (v >> uint(shift)) & 1
		if err := bs.WriteBit(bit); err != nil {
			return err
		}
	}
	return nil
}

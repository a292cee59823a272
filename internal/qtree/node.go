// Package qtree implements the complete quaternary tree (quadtree) that
// backs the QTC codec: a flat, level-order node array, the uniformity
// analysis used to build it from a raster, and the variance-driven filter
// that collapses near-uniform subtrees before encoding.
package qtree

// Node is one entry of the flat tree array.
type Node struct {
	Color    uint8   // mean color of the subtree
	E        uint8   // 2-bit reconstruction residual, in [0,3]
	U        bool    // uniformity flag
	Variance float64 // recursive roughness measure, leaves are 0
}

// Tree is the complete quaternary tree of a square, power-of-two-sided
// raster, stored as a flat array indexed in level order: root at 0,
// children of i at 4i+1..4i+4, parent of i>0 at (i-1)/4.
type Tree struct {
	Level int // L; side = 2^L
	Nodes []Node
}

// LevelFromSide returns ceil(log2(w)).
func LevelFromSide(w int) int {
	l := 0
	for (1 << l) < w {
		l++
	}
	return l
}

// SizeFromLevel returns the node count of a complete quaternary tree of
// depth L: (4^(L+1) - 1) / 3.
func SizeFromLevel(l int) int {
	return (1<<(2*(l+1)) - 1) / 3
}

// ChildBase returns the index of the first of i's four children.
func ChildBase(i int) int {
	return 4*i + 1
}

// Parent returns the parent index of i. The caller must ensure i > 0.
func Parent(i int) int {
	return (i - 1) >> 2
}

// NewTree allocates an empty tree of depth l.
func NewTree(l int) *Tree {
	return &Tree{Level: l, Nodes: make([]Node, SizeFromLevel(l))}
}

// IsLeaf reports whether i has no children in this tree.
func (t *Tree) IsLeaf(i int) bool {
	return ChildBase(i) >= len(t.Nodes)
}

// Side returns the raster side this tree covers, 2^Level.
func (t *Tree) Side() int {
	return 1 << t.Level
}

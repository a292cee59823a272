package qtree

// Uniformize runs the depth-scaled variance threshold walk, raising the
// uniformity flag of subtrees whose variance fits under a threshold that
// shrinks (alpha < 1) or grows (alpha > 1) with depth. Child colors and the
// tree shape are never touched; only E and U are mutated, which is enough
// for the encoder to elide their descendants' emission.
//
// Callers are expected to skip this entirely when alpha < 0.1, the "no
// filtering" convention; Uniformize itself only guards against the
// zero-denominator and zero-maxvar degenerate cases (a single-pixel tree,
// or a perfectly flat image with no internal nodes to filter).
func Uniformize(t *Tree, alpha float64) {
	numLeaves := 1 << (2 * t.Level)
	internalCount := len(t.Nodes) - numLeaves
	if internalCount <= 0 {
		return
	}

	var sumVar, maxVar float64
	for i := 0; i < internalCount; i++ {
		v := t.Nodes[i].Variance
		sumVar += v
		if v > maxVar {
			maxVar = v
		}
	}
	if maxVar == 0 {
		return
	}

	medvar := sumVar / float64(internalCount)
	sigma0 := medvar / maxVar
	uniformize(t, 0, t.Level, sigma0, alpha)
}

// uniformize is F(i, depth, sigma, alpha) from the design: returns 1 if the
// subtree at i is (now) uniform, 0 otherwise.
func uniformize(t *Tree, i, depth int, sigma, alpha float64) int {
	if t.Nodes[i].U || depth == 0 {
		return 1
	}

	sigmaPrime := sigma * alpha
	base := ChildBase(i)
	s := 0
	for k := 0; k < 4; k++ {
		s += uniformize(t, base+k, depth-1, sigmaPrime, alpha)
	}

	if s < 4 || t.Nodes[i].Variance > sigma {
		return 0
	}

	n := t.Nodes[i]
	n.E = 0
	n.U = true
	t.Nodes[i] = n
	return 1
}

// Package bytesort computes the sort golden stream: the 16 bytes of a
// pattern line reordered largest first.
package bytesort

import (
	"cmp"
	"slices"

	"github.com/cycloud0203/cvsd/pkg/vector"
)

// Descending returns b with its bytes sorted from largest to smallest.
func Descending(b [16]byte) [16]byte {
	slices.SortFunc(b[:], func(x, y byte) int { return cmp.Compare(y, x) })
	return b
}

// Line sorts the bytes of key||data.
func Line(v vector.Vector) vector.Vector {
	return vector.FromBytes(Descending(v.Bytes()))
}

// Lines applies Line to every vector.
func Lines(vs []vector.Vector) []vector.Vector {
	out := make([]vector.Vector, len(vs))
	for i, v := range vs {
		out[i] = Line(v)
	}
	return out
}

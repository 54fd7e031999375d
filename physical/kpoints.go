package physical

// KPoints specifies reciprocal-space sampling: either a regular mesh (Grid,
// with an optional shift) or an explicit point list. The composer supports
// only regular meshes with zero shift; anything else is rejected before
// submission.
type KPoints struct {
	Grid     [3]int
	Shift    [3]float64
	Explicit [][3]float64
}

// Mesh builds a regular zero-shift k-point mesh.
func Mesh(a, b, c int) KPoints {
	return KPoints{Grid: [3]int{a, b, c}}
}

// IsRegular reports whether the specification is a regular mesh (no explicit
// list).
func (k KPoints) IsRegular() bool { return len(k.Explicit) == 0 }

// HasShift reports whether any mesh shift component is nonzero.
func (k KPoints) HasShift() bool {
	return k.Shift[0] != 0 || k.Shift[1] != 0 || k.Shift[2] != 0
}

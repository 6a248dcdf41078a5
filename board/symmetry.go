package board

// The 8 symmetries of the square (4 rotations × optional reflection).
// Canonicalization picks the transform whose encoding is lexicographically
// least, so that all 8 variants of a position share one book entry.

// Transform identifies one of the 8 dihedral symmetries. Transforms 0-3 are
// counterclockwise quarter turns; 4-7 reflect horizontally first.
type Transform int8

const numTransforms = 8

// IdentityTransform leaves the board unchanged.
const IdentityTransform Transform = 0

func transformPoint(t Transform, pt, size int) int {
	x, y := pt%size, pt/size
	if t >= 4 {
		x = size - 1 - x
	}
	for i := Transform(0); i < t%4; i++ {
		x, y = size-1-y, x
	}
	return y*size + x
}

func inverseTransformPoint(t Transform, pt, size int) int {
	x, y := pt%size, pt/size
	// Undo the rotation, then the reflection.
	for i := Transform(0); i < (4-t%4)%4; i++ {
		x, y = size-1-y, x
	}
	if t >= 4 {
		x = size - 1 - x
	}
	return y*size + x
}

func (b *Board) applyTransform(t Transform) *Board {
	out := New(b.Size)
	out.TurnsPlayed = b.TurnsPlayed
	for pt, c := range b.Points {
		if c != Empty {
			out.Points[transformPoint(t, pt, b.Size)] = c
		}
	}
	return out
}

// ReduceSymmetry returns the canonical form of the board and the transform
// that produced it. The canonical form is the symmetry variant with the
// least encoding.
func ReduceSymmetry(b *Board) (*Board, Transform) {
	best := b.Copy()
	bestEnc := best.Encode()
	bestT := IdentityTransform
	for t := Transform(1); t < numTransforms; t++ {
		cand := b.applyTransform(t)
		if enc := cand.Encode(); enc < bestEnc {
			best, bestEnc, bestT = cand, enc, t
		}
	}
	return best, bestT
}

// ApplyTransform maps a move on the original board onto the transformed
// board's coordinates.
func ApplyTransform(m Move, t Transform, size int) Move {
	if m.IsPass() {
		return m
	}
	return Move(transformPoint(t, int(m), size))
}

// ApplyInverseTransform maps a move on the canonical board back onto the
// original board's coordinates.
func ApplyInverseTransform(m Move, t Transform, size int) Move {
	if m.IsPass() {
		return m
	}
	return Move(inverseTransformPoint(t, int(m), size))
}

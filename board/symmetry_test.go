package board

import (
	"testing"

	"github.com/matryer/is"
)

func TestReduceSymmetryVariantsShareCanonicalForm(t *testing.T) {
	is := is.New(t)
	// The same position entered in two mirrored orientations reduces to one
	// canonical form.
	a := New(5)
	is.NoErr(a.Play(Move(1), Black)) // B5
	is.NoErr(a.Play(Move(7), White))

	b := a.applyTransform(Transform(5))

	ca, _ := ReduceSymmetry(a)
	cb, _ := ReduceSymmetry(b)
	is.Equal(ca.Encode(), cb.Encode())
}

func TestTransformRoundTrip(t *testing.T) {
	is := is.New(t)
	size := 9
	for tr := Transform(0); tr < numTransforms; tr++ {
		for _, m := range []Move{0, 8, 40, 72, 80, 17, Pass} {
			fwd := ApplyTransform(m, tr, size)
			back := ApplyInverseTransform(fwd, tr, size)
			is.Equal(back, m)
		}
	}
}

func TestReduceSymmetryMapsStonesConsistently(t *testing.T) {
	is := is.New(t)
	b := New(9)
	is.NoErr(b.Play(Move(20), Black))
	is.NoErr(b.Play(Move(60), White))

	canonical, tr := ReduceSymmetry(b)
	is.Equal(canonical.StoneCount(), 2)
	is.Equal(canonical.Points[ApplyTransform(Move(20), tr, 9)], Black)
	is.Equal(canonical.Points[ApplyTransform(Move(60), tr, 9)], White)
}

func TestIdentityOnSymmetricPosition(t *testing.T) {
	is := is.New(t)
	// A stone on the center point is invariant under all 8 transforms.
	b := New(9)
	is.NoErr(b.Play(Move(40), Black))
	canonical, _ := ReduceSymmetry(b)
	is.Equal(canonical.Points[40], Black)
}

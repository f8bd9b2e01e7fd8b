package alignment

import (
	"math"
	"testing"

	"mol2d/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoints() []geometry.Vec3 {
	return []geometry.Vec3{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 2, Z: 0},
		{X: 0, Y: 0, Z: 3},
		{X: -1, Y: 1, Z: -2},
		{X: 2, Y: -1, Z: 1},
	}
}

func rotateAll(points []geometry.Vec3, rot geometry.Mat3) []geometry.Vec3 {
	out := make([]geometry.Vec3, len(points))
	for i, p := range points {
		out[i] = rot.MulVec(p)
	}
	return out
}

func centered(points []geometry.Vec3) []geometry.Vec3 {
	c := geometry.Centroid3D(points)
	out := make([]geometry.Vec3, len(points))
	for i, p := range points {
		out[i] = p.Sub(c)
	}
	return out
}

func TestKabschIdentityOnIdenticalSets(t *testing.T) {
	a := centered(testPoints())
	rot := Kabsch(a, a)

	id := geometry.IdentityMat3()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, id[r][c], rot[r][c], 1e-9,
				"rot[%d][%d]", r, c)
		}
	}
}

func TestKabschRecoversKnownRotation(t *testing.T) {
	a := centered(testPoints())
	want := geometry.RotationY(0.7).Mul(geometry.RotationX(-0.3))
	b := rotateAll(a, want)

	rot := Kabsch(a, b)
	for i := range a {
		got := rot.MulVec(a[i])
		assert.InDelta(t, b[i].X, got.X, 1e-9)
		assert.InDelta(t, b[i].Y, got.Y, 1e-9)
		assert.InDelta(t, b[i].Z, got.Z, 1e-9)
	}
}

func TestKabschIsProperRotation(t *testing.T) {
	a := centered(testPoints())
	b := rotateAll(a, geometry.RotationY(1.2))

	rot := Kabsch(a, b)
	assert.InDelta(t, 1.0, rot.Det(), 1e-9, "determinant")

	// R * R^T = I
	prod := rot.Mul(rot.Transpose())
	id := geometry.IdentityMat3()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, id[r][c], prod[r][c], 1e-9)
		}
	}
}

func TestKabschDegenerateInput(t *testing.T) {
	id := geometry.IdentityMat3()

	// Too few points.
	two := []geometry.Vec3{{X: 1}, {X: -1}}
	assert.Equal(t, id, Kabsch(two, two))

	// Mismatched lengths.
	assert.Equal(t, id, Kabsch(centered(testPoints()), two))

	// Zero variance.
	zeros := make([]geometry.Vec3, 5)
	assert.Equal(t, id, Kabsch(zeros, zeros))
}

func TestAlignAToBNonCenteredSets(t *testing.T) {
	a := testPoints()
	rot := geometry.RotationX(0.9)
	shift := geometry.Vec3{X: 5, Y: -3, Z: 2}

	b := make([]geometry.Vec3, len(a))
	for i, p := range a {
		b[i] = rot.MulVec(p).Add(shift)
	}

	aligned := AlignAToB(a, a, b)
	require.Len(t, aligned, len(a))
	assert.InDelta(t, 0, RMSD(aligned, b), 1e-9)
}

func TestAlignAToBPartialSubset(t *testing.T) {
	a := testPoints()
	rot := geometry.RotationY(-0.5)
	b := rotateAll(a, rot)

	// Align from the first four points only; the fifth must follow.
	aligned := AlignAToB(a, a[:4], b[:4])
	assert.InDelta(t, 0, RMSD(aligned, b), 1e-9)
}

func TestAlignAToBMismatchedSubsets(t *testing.T) {
	a := testPoints()
	aligned := AlignAToB(a, a[:3], a[:2])
	assert.Equal(t, a, aligned, "mismatched subsets must leave coordinates untouched")
}

func TestRMSD(t *testing.T) {
	a := testPoints()
	assert.InDelta(t, 0, RMSD(a, a), 1e-12)

	b := make([]geometry.Vec3, len(a))
	for i, p := range a {
		b[i] = p.Add(geometry.Vec3{X: 1})
	}
	assert.InDelta(t, 1.0, RMSD(a, b), 1e-12)

	assert.True(t, math.IsNaN(RMSD(a, b[:2])))
	assert.True(t, math.IsNaN(RMSD(nil, nil)))
}

// Package alignment provides rigid-body superposition of 3D point sets.
package alignment

import (
	"math"

	"mol2d/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// Kabsch computes the optimal rotation matrix R such that R applied to the
// mean-centered points of a best matches the mean-centered points of b in
// the least-squares sense. Both inputs must already be centered and of
// equal length. Degenerate input (fewer than 3 points, zero variance, or a
// failed factorization) yields the identity rotation.
func Kabsch(a, b []geometry.Vec3) geometry.Mat3 {
	if len(a) != len(b) || len(a) < 3 {
		return geometry.IdentityMat3()
	}

	// Cross-covariance H = sum over points of a_i * b_i^T.
	var h [3][3]float64
	for i := range a {
		av := [3]float64{a[i].X, a[i].Y, a[i].Z}
		bv := [3]float64{b[i].X, b[i].Y, b[i].Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h[r][c] += av[r] * bv[c]
			}
		}
	}

	var norm float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			norm += h[r][c] * h[r][c]
		}
	}
	if norm < 1e-12 {
		// Zero variance in at least one set; no rotation is determined.
		return geometry.IdentityMat3()
	}

	hm := mat.NewDense(3, 3, []float64{
		h[0][0], h[0][1], h[0][2],
		h[1][0], h[1][1], h[1][2],
		h[2][0], h[2][1], h[2][2],
	})

	var svd mat.SVD
	if ok := svd.Factorize(hm, mat.SVDFull); !ok {
		return geometry.IdentityMat3()
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// R = V * diag(1, 1, det(V*U^T)) * U^T. The determinant correction
	// blocks reflections.
	var vut mat.Dense
	vut.Mul(&v, u.T())
	d := mat.Det(&vut)

	var out geometry.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			sum := v.At(r, 0)*u.At(c, 0) + v.At(r, 1)*u.At(c, 1) + d*v.At(r, 2)*u.At(c, 2)
			out[r][c] = sum
		}
	}
	return out
}

// AlignAToB superposes fullA onto the reference by the rigid transform that
// best maps subA onto subB. The two subsets must correspond point-by-point;
// the resulting rotation and translation are applied to every point of
// fullA, which allows aligning a whole structure from a matched partial
// selection.
func AlignAToB(fullA, subA, subB []geometry.Vec3) []geometry.Vec3 {
	if len(subA) != len(subB) || len(subA) == 0 {
		out := make([]geometry.Vec3, len(fullA))
		copy(out, fullA)
		return out
	}

	centerA := geometry.Centroid3D(subA)
	centerB := geometry.Centroid3D(subB)

	centA := make([]geometry.Vec3, len(subA))
	centB := make([]geometry.Vec3, len(subB))
	for i := range subA {
		centA[i] = subA[i].Sub(centerA)
		centB[i] = subB[i].Sub(centerB)
	}

	rot := Kabsch(centA, centB)

	out := make([]geometry.Vec3, len(fullA))
	for i, p := range fullA {
		out[i] = rot.MulVec(p.Sub(centerA)).Add(centerB)
	}
	return out
}

// RMSD returns the root-mean-square deviation between two equal-length
// point sets, or NaN when the lengths differ or the sets are empty.
func RMSD(a, b []geometry.Vec3) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.NaN()
	}
	var sum float64
	for i := range a {
		d := a[i].Sub(b[i])
		sum += d.Dot(d)
	}
	return math.Sqrt(sum / float64(len(a)))
}

package alignment

import (
	"mol2d/pkg/geometry"

	"gonum.org/v1/gonum/mat"
)

// BestOrientation computes a parameter-free initial viewing rotation for a
// point cloud. It extracts the principal axes of the centered coordinates
// via SVD of the covariance matrix, then evaluates candidate orientations
// (two axis mappings times the sign combinations of the two axes) and keeps
// the one that spreads the most variance across the screen axes. It also
// returns the centroid, which doubles as the rotation center.
func BestOrientation(coords []geometry.Vec3) (geometry.Mat3, geometry.Vec3) {
	center := geometry.Centroid3D(coords)
	if len(coords) < 3 {
		return geometry.IdentityMat3(), center
	}

	centered := make([]geometry.Vec3, len(coords))
	for i, p := range coords {
		centered[i] = p.Sub(center)
	}

	// Covariance H = centered^T * centered.
	var h [3][3]float64
	for _, p := range centered {
		v := [3]float64{p.X, p.Y, p.Z}
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				h[r][c] += v[r] * v[c]
			}
		}
	}

	hm := mat.NewDense(3, 3, []float64{
		h[0][0], h[0][1], h[0][2],
		h[1][0], h[1][1], h[1][2],
		h[2][0], h[2][1], h[2][2],
	})

	var svd mat.SVD
	if ok := svd.Factorize(hm, mat.SVDFull); !ok {
		return geometry.IdentityMat3(), center
	}

	var u mat.Dense
	svd.UTo(&u)

	// Columns of U ordered by decreasing variance.
	v1 := geometry.Vec3{X: u.At(0, 0), Y: u.At(1, 0), Z: u.At(2, 0)}
	v2 := geometry.Vec3{X: u.At(0, 1), Y: u.At(1, 1), Z: u.At(2, 1)}

	best := geometry.IdentityMat3()
	bestRatio := -1.0

	signs := []float64{1, -1}
	for _, swap := range []bool{false, true} {
		for _, s1 := range signs {
			for _, s2 := range signs {
				e1 := v1.Scale(s1)
				e2 := v2.Scale(s2)

				r0, r1 := e1, e2
				if swap {
					r0, r1 = e2, e1
				}

				r0 = r0.Normalized()
				// Orthogonalize r1 against r0.
				r1 = r1.Sub(r0.Scale(r1.Dot(r0)))
				if r1.Norm() < 1e-10 {
					continue
				}
				r1 = r1.Normalized()
				r2 := r0.Cross(r1)

				rot := geometry.Mat3{
					{r0.X, r0.Y, r0.Z},
					{r1.X, r1.Y, r1.Z},
					{r2.X, r2.Y, r2.Z},
				}

				varX, varY := projectedVariance(centered, rot)
				lo := varX
				hi := varY
				if lo > hi {
					lo, hi = hi, lo
				}
				ratio := hi / (lo + 1e-10)
				if ratio > bestRatio {
					bestRatio = ratio
					best = rot
				}
			}
		}
	}

	return best, center
}

// projectedVariance returns the variance of the rotated coordinates along
// the screen X and Y axes.
func projectedVariance(centered []geometry.Vec3, rot geometry.Mat3) (float64, float64) {
	n := float64(len(centered))
	rotated := make([]geometry.Point2D, len(centered))
	for i, p := range centered {
		r := rot.MulVec(p)
		rotated[i] = geometry.Point2D{X: r.X, Y: r.Y}
	}
	mean := geometry.Centroid2D(rotated)

	var varX, varY float64
	for _, p := range rotated {
		d := p.Sub(mean)
		varX += d.X * d.X
		varY += d.Y * d.Y
	}
	return varX / n, varY / n
}

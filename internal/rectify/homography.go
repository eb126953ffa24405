package rectify

import (
	"errors"
	"math"

	"github.com/docwarp/docwarp/internal/utils"
)

// Homography is a 3x3 projective transform in row-major order with the
// bottom-right element fixed to 1.
type Homography [9]float64

// ErrSingularSystem is returned when the four correspondences do not
// determine a projective transform, e.g. three collinear source points.
var ErrSingularSystem = errors.New("homography system is singular")

// ComputeHomography solves for the projective transform mapping the four
// source points onto the four destination points via the direct linear
// transform. Each correspondence contributes two rows to an 8x8 system in
// the unknowns h00..h21; h22 is fixed to 1.
func ComputeHomography(src, dst [4]utils.Point) (Homography, error) {
	var a [8][9]float64 // augmented matrix

	for i := 0; i < 4; i++ {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y

		a[2*i] = [9]float64{sx, sy, 1, 0, 0, 0, -dx * sx, -dx * sy, dx}
		a[2*i+1] = [9]float64{0, 0, 0, sx, sy, 1, -dy * sx, -dy * sy, dy}
	}

	// Gaussian elimination with partial pivoting.
	for col := 0; col < 8; col++ {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Homography{}, ErrSingularSystem
		}
		a[col], a[pivot] = a[pivot], a[col]

		for row := col + 1; row < 8; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < 9; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}

	// Back substitution.
	var h Homography
	for col := 7; col >= 0; col-- {
		sum := a[col][8]
		for k := col + 1; k < 8; k++ {
			sum -= a[col][k] * h[k]
		}
		h[col] = sum / a[col][col]
	}
	h[8] = 1

	return h, nil
}

// Apply maps a point through the homography, dividing out the projective
// component.
func (h Homography) Apply(p utils.Point) utils.Point {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if math.Abs(w) < 1e-12 {
		w = 1e-12
	}
	return utils.Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}

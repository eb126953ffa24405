package rectify

import (
	"testing"

	"github.com/docwarp/docwarp/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestComputeHomography_Identity(t *testing.T) {
	square := [4]utils.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}

	h, err := ComputeHomography(square, square)
	require.NoError(t, err)

	for _, p := range []utils.Point{pt(0, 0), pt(5, 5), pt(10, 10), pt(3, 7)} {
		mapped := h.Apply(p)
		require.InDelta(t, p.X, mapped.X, 1e-9)
		require.InDelta(t, p.Y, mapped.Y, 1e-9)
	}
}

func TestComputeHomography_MapsCornersExactly(t *testing.T) {
	src := [4]utils.Point{pt(12, 8), pt(95, 15), pt(88, 102), pt(5, 97)}
	dst := [4]utils.Point{pt(0, 0), pt(100, 0), pt(100, 100), pt(0, 100)}

	h, err := ComputeHomography(src, dst)
	require.NoError(t, err)

	for i := range src {
		mapped := h.Apply(src[i])
		require.InDelta(t, dst[i].X, mapped.X, 1e-6, "corner %d x", i)
		require.InDelta(t, dst[i].Y, mapped.Y, 1e-6, "corner %d y", i)
	}
}

func TestComputeHomography_AffineScaleTranslate(t *testing.T) {
	src := [4]utils.Point{pt(0, 0), pt(1, 0), pt(1, 1), pt(0, 1)}
	dst := [4]utils.Point{pt(10, 20), pt(12, 20), pt(12, 22), pt(10, 22)}

	h, err := ComputeHomography(src, dst)
	require.NoError(t, err)

	// Interior points follow the same affine map: scale 2, translate (10, 20).
	mapped := h.Apply(pt(0.5, 0.5))
	require.InDelta(t, 11.0, mapped.X, 1e-9)
	require.InDelta(t, 21.0, mapped.Y, 1e-9)
}

func TestComputeHomography_Singular(t *testing.T) {
	// Three collinear source points cannot determine the transform.
	src := [4]utils.Point{pt(0, 0), pt(1, 1), pt(2, 2), pt(0, 5)}
	dst := [4]utils.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}

	_, err := ComputeHomography(src, dst)
	require.ErrorIs(t, err, ErrSingularSystem)
}

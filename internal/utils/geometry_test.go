package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointDist(t *testing.T) {
	require.InDelta(t, 5.0, Point{X: 0, Y: 0}.Dist(Point{X: 3, Y: 4}), 1e-9)
	require.Zero(t, Point{X: 2, Y: 2}.Dist(Point{X: 2, Y: 2}))
}

func TestScalePoints(t *testing.T) {
	pts := []Point{{1, 2}, {3, 4}}
	scaled := ScalePoints(pts, 2.5)

	require.Len(t, scaled, 2)
	require.InDelta(t, 2.5, scaled[0].X, 1e-9)
	require.InDelta(t, 5.0, scaled[0].Y, 1e-9)
	require.InDelta(t, 7.5, scaled[1].X, 1e-9)
	require.InDelta(t, 10.0, scaled[1].Y, 1e-9)

	// Input must not be mutated.
	require.InDelta(t, 1.0, pts[0].X, 1e-9)
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox([]Point{{3, 1}, {-2, 5}, {0, 0}})
	require.InDelta(t, -2.0, box.MinX, 1e-9)
	require.InDelta(t, 0.0, box.MinY, 1e-9)
	require.InDelta(t, 3.0, box.MaxX, 1e-9)
	require.InDelta(t, 5.0, box.MaxY, 1e-9)
	require.InDelta(t, 5.0, box.Width(), 1e-9)
	require.InDelta(t, 5.0, box.Height(), 1e-9)
}

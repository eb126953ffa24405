package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimplifyPolygon(t *testing.T) {
	tests := []struct {
		name           string
		points         []Point
		epsilon        float64
		expectedMinLen int
		expectedMaxLen int
	}{
		{
			name:           "empty polygon",
			points:         []Point{},
			epsilon:        1.0,
			expectedMinLen: 0,
			expectedMaxLen: 0,
		},
		{
			name:           "triangle (no simplification needed)",
			points:         []Point{{0, 0}, {10, 0}, {5, 10}},
			epsilon:        1.0,
			expectedMinLen: 3,
			expectedMaxLen: 3,
		},
		{
			name: "rectangle with extra points on edges",
			points: []Point{
				{0, 0}, {5, 0}, {10, 0},
				{10, 5}, {10, 10},
				{5, 10}, {0, 10},
				{0, 5},
			},
			epsilon:        2.0,
			expectedMinLen: 4,
			expectedMaxLen: 6,
		},
		{
			name:           "zero epsilon keeps everything",
			points:         []Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}},
			epsilon:        0.0,
			expectedMinLen: 4,
			expectedMaxLen: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SimplifyPolygon(tt.points, tt.epsilon)
			require.GreaterOrEqual(t, len(result), tt.expectedMinLen)
			require.LessOrEqual(t, len(result), tt.expectedMaxLen)

			if len(tt.points) > 0 {
				require.LessOrEqual(t, len(result), len(tt.points))
			}
		})
	}
}

func TestSimplifyPolygon_QuadFromDenseContour(t *testing.T) {
	// A rectangle boundary sampled every pixel should collapse to 4 corners.
	var points []Point
	for x := 0; x <= 20; x++ {
		points = append(points, Point{X: float64(x), Y: 0})
	}
	for y := 1; y <= 10; y++ {
		points = append(points, Point{X: 20, Y: float64(y)})
	}
	for x := 19; x >= 0; x-- {
		points = append(points, Point{X: float64(x), Y: 10})
	}
	for y := 9; y >= 1; y-- {
		points = append(points, Point{X: 0, Y: float64(y)})
	}

	result := SimplifyPolygon(points, 1.0)
	require.Len(t, result, 4)
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name     string
		points   []Point
		expected float64
	}{
		{"empty", nil, 0},
		{"line segment", []Point{{0, 0}, {1, 1}}, 0},
		{"unit square", []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, 1},
		{"triangle", []Point{{0, 0}, {4, 0}, {0, 3}}, 6},
		{"clockwise square", []Point{{0, 0}, {0, 2}, {2, 2}, {2, 0}}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.expected, PolygonArea(tt.points), 1e-9)
		})
	}
}

func TestPolygonPerimeter(t *testing.T) {
	square := []Point{{0, 0}, {3, 0}, {3, 3}, {0, 3}}
	require.InDelta(t, 12.0, PolygonPerimeter(square), 1e-9)

	require.Zero(t, PolygonPerimeter(nil))
	require.Zero(t, PolygonPerimeter([]Point{{1, 1}}))
}

func TestIsConvex(t *testing.T) {
	tests := []struct {
		name     string
		points   []Point
		expected bool
	}{
		{"square", []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}, true},
		{"triangle", []Point{{0, 0}, {4, 0}, {2, 3}}, true},
		{"concave arrow", []Point{{0, 0}, {4, 0}, {2, 1}, {4, 4}}, false},
		{"all collinear", []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, false},
		{"too few points", []Point{{0, 0}, {1, 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, IsConvex(tt.points))
		})
	}
}

func TestConvexHull(t *testing.T) {
	points := []Point{
		{0, 0}, {4, 0}, {4, 4}, {0, 4},
		{2, 2}, {1, 1}, {3, 2}, // interior points
	}

	hull := ConvexHull(points)
	require.Len(t, hull, 4)
	require.True(t, IsConvex(hull))
}

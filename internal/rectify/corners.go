// Package rectify maps a detected document quadrilateral onto an axis-aligned
// rectangle: canonical corner ordering, a direct linear transform homography
// and an inverse-mapped perspective warp with bilinear sampling.
package rectify

import (
	"fmt"

	"github.com/docwarp/docwarp/internal/utils"
)

// Corners is a quadrilateral in canonical order.
type Corners struct {
	TL, TR, BR, BL utils.Point
}

// DegenerateError reports a quadrilateral whose canonical ordering collapsed,
// i.e. two corner roles resolved to the same point.
type DegenerateError struct {
	Corners Corners
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("degenerate quadrilateral: corners %v, %v, %v, %v are not pairwise distinct",
		e.Corners.TL, e.Corners.TR, e.Corners.BR, e.Corners.BL)
}

// OrderCorners assigns the four points their canonical roles. The top-left
// corner minimizes x+y, the bottom-right maximizes it; the top-right
// maximizes x-y, the bottom-left minimizes it. The result is independent of
// the input ordering.
func OrderCorners(pts []utils.Point) (Corners, error) {
	if len(pts) != 4 {
		return Corners{}, fmt.Errorf("expected 4 points, got %d", len(pts))
	}

	c := Corners{TL: pts[0], TR: pts[0], BR: pts[0], BL: pts[0]}
	for _, p := range pts[1:] {
		if p.X+p.Y < c.TL.X+c.TL.Y {
			c.TL = p
		}
		if p.X+p.Y > c.BR.X+c.BR.Y {
			c.BR = p
		}
		if p.X-p.Y > c.TR.X-c.TR.Y {
			c.TR = p
		}
		if p.X-p.Y < c.BL.X-c.BL.Y {
			c.BL = p
		}
	}

	if !pairwiseDistinct(c) {
		return Corners{}, &DegenerateError{Corners: c}
	}
	return c, nil
}

// Scale returns the corners mapped back to original-image coordinates.
func (c Corners) Scale(factor float64) Corners {
	return Corners{
		TL: utils.ScalePoint(c.TL, factor),
		TR: utils.ScalePoint(c.TR, factor),
		BR: utils.ScalePoint(c.BR, factor),
		BL: utils.ScalePoint(c.BL, factor),
	}
}

// Points returns the corners in TL, TR, BR, BL order.
func (c Corners) Points() []utils.Point {
	return []utils.Point{c.TL, c.TR, c.BR, c.BL}
}

// OutputSize derives the warped rectangle dimensions from the corner
// distances: width from the longer horizontal edge, height from the longer
// vertical edge. Both are at least 2 so the destination rectangle keeps
// four distinct corners.
func (c Corners) OutputSize() (int, int) {
	w := max(c.TR.Dist(c.TL), c.BR.Dist(c.BL))
	h := max(c.BR.Dist(c.TR), c.BL.Dist(c.TL))

	width := int(w + 0.5)
	height := int(h + 0.5)
	if width < 2 {
		width = 2
	}
	if height < 2 {
		height = 2
	}
	return width, height
}

func pairwiseDistinct(c Corners) bool {
	pts := c.Points()
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if pts[i].X == pts[j].X && pts[i].Y == pts[j].Y {
				return false
			}
		}
	}
	return true
}

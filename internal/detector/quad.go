package detector

import (
	"sort"

	"github.com/docwarp/docwarp/internal/utils"
)

type candidate struct {
	contour []utils.Point
	area    float64
}

// findQuad extracts closed boundaries from the edge mask, ranks them by
// enclosed area and simplifies the best candidates down to a 4-vertex convex
// polygon. It returns the first polygon (in rank order) whose area falls
// within the configured fraction of the working-image area.
func (d *Detector) findQuad(mask []bool, w, h int) ([]utils.Point, bool) {
	comps, labels := connectedComponents(mask, w, h)
	if len(comps) == 0 {
		return nil, false
	}

	cands := make([]candidate, 0, len(comps))
	for i, st := range comps {
		if st.count < 4 {
			continue
		}
		contour := traceBoundary(labels, w, h, i+1, st)
		if len(contour) < 4 {
			continue
		}
		cands = append(cands, candidate{contour: contour, area: utils.PolygonArea(contour)})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].area > cands[j].area })

	limit := d.cfg.MaxCandidates
	if limit > len(cands) {
		limit = len(cands)
	}

	imgArea := float64(w * h)
	minArea := d.cfg.MinAreaRatio * imgArea
	maxArea := d.cfg.MaxAreaRatio * imgArea

	for _, c := range cands[:limit] {
		quad, ok := d.simplifyToQuad(c.contour)
		if !ok {
			continue
		}
		area := utils.PolygonArea(quad)
		if area < minArea || area > maxArea {
			continue
		}
		return quad, true
	}
	return nil, false
}

// simplifyToQuad walks the epsilon schedule until Douglas-Peucker produces
// exactly 4 convex vertices. The contour's convex hull is simplified rather
// than the raw trace, which strips pixel jags and concave nicks left by the
// edge map. Larger tolerances collapse more detail, so the schedule runs
// from tight to loose.
func (d *Detector) simplifyToQuad(contour []utils.Point) ([]utils.Point, bool) {
	hull := utils.ConvexHull(contour)
	if len(hull) < 4 {
		return nil, false
	}
	perimeter := utils.PolygonPerimeter(hull)
	if perimeter <= 0 {
		return nil, false
	}
	for _, frac := range d.cfg.EpsilonSchedule {
		poly := utils.SimplifyPolygon(hull, frac*perimeter)
		if len(poly) == 4 && utils.IsConvex(poly) {
			return poly, true
		}
	}
	return nil, false
}

// fullImageQuad returns the working-image frame as a quadrilateral, used by
// the whole-image fallback policy.
func fullImageQuad(w, h int) []utils.Point {
	return []utils.Point{
		{X: 0, Y: 0},
		{X: float64(w - 1), Y: 0},
		{X: float64(w - 1), Y: float64(h - 1)},
		{X: 0, Y: float64(h - 1)},
	}
}

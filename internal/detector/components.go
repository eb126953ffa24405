package detector

// compStats holds per-component pixel count and bounding box.
type compStats struct {
	count int
	minX  int
	minY  int
	maxX  int
	maxY  int
}

// connectedComponents finds 4-connected foreground components in the mask and
// returns per-component stats plus a label map (labels start at 1).
func connectedComponents(mask []bool, w, h int) ([]compStats, []int) {
	labels := make([]int, w*h)
	var comps []compStats
	label := 1

	for y := range h {
		for x := range w {
			idx := y*w + x
			if mask[idx] && labels[idx] == 0 {
				comps = append(comps, floodFill(mask, labels, w, h, x, y, label))
				label++
			}
		}
	}
	return comps, labels
}

// floodFill labels the component containing (startX, startY) via BFS and
// accumulates its stats.
func floodFill(mask []bool, labels []int, w, h, startX, startY, label int) compStats {
	st := compStats{minX: startX, minY: startY, maxX: startX, maxY: startY}
	start := startY*w + startX
	labels[start] = label
	queue := []int{start}

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for len(queue) > 0 {
		ci := queue[0]
		queue = queue[1:]
		cx, cy := ci%w, ci/w

		st.count++
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}

		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := ny*w + nx
			if mask[ni] && labels[ni] == 0 {
				labels[ni] = label
				queue = append(queue, ni)
			}
		}
	}
	return st
}

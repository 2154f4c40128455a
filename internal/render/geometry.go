package render

import "math"

// geometry holds every derived measurement for one canvas size. It is a pure
// function of the configured dimensions, never of hand data, so all renders
// in a run share identical table geometry.
type geometry struct {
	w, h   float64
	cx, cy float64
	tableW float64
	tableH float64
	seatR  float64
	scale  float64
}

// referenceHeight is the canvas height the base measurements were tuned at.
const referenceHeight = 800.0

func newGeometry(width, height int) geometry {
	w := float64(width)
	h := float64(height)
	return geometry{
		w:      w,
		h:      h,
		cx:     w / 2,
		cy:     h / 2,
		tableW: w * 0.85,
		tableH: h * 0.5,
		seatR:  h * 0.0875,
		scale:  h / referenceHeight,
	}
}

// seatPoint returns the center of visual slot i of n, evenly spaced by angle
// on an ellipse around the table center. Slot 0 sits at the configured start
// angle; the default of 90 degrees anchors it at bottom-center, where the
// hero is always drawn.
func (g geometry) seatPoint(slot, n int, startAngleDeg float64) (float64, float64) {
	if n <= 0 {
		n = 1
	}
	theta := startAngleDeg*math.Pi/180 + 2*math.Pi*float64(slot)/float64(n)
	x := g.cx + g.tableW*0.5*math.Cos(theta)
	y := g.cy + g.tableH*0.7*math.Sin(theta)
	return x, y
}

package render

import (
	"fmt"

	"github.com/fogleman/gg"
)

// drawTable renders the felt layer: a second, darker ellipse offset downward
// fakes table thickness under the playing surface. Geometry depends only on
// the canvas size, so this layer is identical for every hand in a run.
func (c *Compositor) drawTable(dc *gg.Context, pot float64) {
	g := c.geo

	depth := g.tableH / 12
	if depth < 6 {
		depth = 6
	}

	dc.SetColor(colFeltEdge)
	dc.DrawEllipse(g.cx, g.cy+depth, g.tableW/2, g.tableH/2)
	dc.Fill()

	dc.SetColor(colFelt)
	dc.DrawEllipse(g.cx, g.cy, g.tableW/2, g.tableH/2)
	dc.Fill()

	dc.SetColor(colBlackSuit)
	dc.SetLineWidth(3 * g.scale)
	dc.DrawEllipse(g.cx, g.cy, g.tableW/2, g.tableH/2)
	dc.Stroke()

	dc.SetFontFace(c.assets.titleFace)
	dc.SetColor(colText)
	dc.DrawStringAnchored(fmt.Sprintf("Pot: %.1f BB", pot), g.cx, g.cy-20*g.scale, 0.5, 0.5)
}

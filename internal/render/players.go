package render

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/rangeforge/handviz/internal/models"
)

// seatSlots maps each player to a visual slot so the hero always lands on
// slot 0 (the configured anchor) regardless of the solver's seat numbering;
// the remaining players keep their relative order around the table.
func seatSlots(players []models.PlayerInfo) map[int]int {
	n := len(players)
	heroSeat := 0
	for _, p := range players {
		if p.IsHero {
			heroSeat = p.SeatIndex
			break
		}
	}

	slots := make(map[int]int, n)
	for _, p := range players {
		slots[p.SeatIndex] = ((p.SeatIndex-heroSeat)%n + n) % n
	}
	return slots
}

func seatColor(p models.PlayerInfo) color.RGBA {
	switch {
	case p.IsFolded:
		return colSeatFolded
	case p.IsHero:
		return colSeatHero
	case p.IsActive:
		return colSeatActive
	default:
		return colSeat
	}
}

// drawSeats renders the player layer: one backing circle and info plate per
// seat, plus the dealer-button marker.
func (c *Compositor) drawSeats(dc *gg.Context, players []models.PlayerInfo) {
	if len(players) == 0 {
		return
	}
	g := c.geo
	slots := seatSlots(players)

	for _, p := range players {
		x, y := g.seatPoint(slots[p.SeatIndex], len(players), c.cfg.StartAngleDeg)
		col := seatColor(p)

		// Backing circle, nudged up so the plate overlaps its lower arc.
		dc.SetColor(col)
		dc.DrawCircle(x, y-g.seatR*0.5, g.seatR*0.8)
		dc.Fill()
		dc.SetColor(colBlackSuit)
		dc.SetLineWidth(2 * g.scale)
		dc.DrawCircle(x, y-g.seatR*0.5, g.seatR*0.8)
		dc.Stroke()

		c.drawSeatPlate(dc, x, y, col, p)

		if p.IsDealer {
			c.drawDealerButton(dc, x, y)
		}
	}
}

// drawSeatPlate draws the rounded info plate with position label and stack.
func (c *Compositor) drawSeatPlate(dc *gg.Context, x, y float64, col color.RGBA, p models.PlayerInfo) {
	g := c.geo
	w := g.seatR * 1.8
	h := g.seatR * 1.2

	// Plate is a touch darker than the circle behind it.
	plate := color.RGBA{
		R: uint8(float64(col.R) * 0.9),
		G: uint8(float64(col.G) * 0.9),
		B: uint8(float64(col.B) * 0.9),
		A: col.A,
	}

	dc.SetColor(plate)
	dc.DrawRoundedRectangle(x-w/2, y-h/2, w, h, h*0.3)
	dc.Fill()
	dc.SetColor(colBlackSuit)
	dc.SetLineWidth(2 * g.scale)
	dc.DrawRoundedRectangle(x-w/2, y-h/2, w, h, h*0.3)
	dc.Stroke()

	dc.SetFontFace(c.assets.labelFace)
	dc.SetColor(colText)
	dc.DrawStringAnchored(p.Position, x, y-h*0.25, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f BB", p.Stack), x, y+h*0.25, 0.5, 0.5)
}

// drawDealerButton draws the button marker offset from the seat by a fixed
// pixel vector (scaled with the canvas).
func (c *Compositor) drawDealerButton(dc *gg.Context, x, y float64) {
	g := c.geo
	bx := x + 48*g.scale
	by := y - 58*g.scale
	r := 12 * g.scale

	dc.SetColor(colButton)
	dc.DrawCircle(bx, by, r)
	dc.Fill()
	dc.SetColor(colBlackSuit)
	dc.SetLineWidth(1.5 * g.scale)
	dc.DrawCircle(bx, by, r)
	dc.Stroke()

	dc.SetFontFace(c.assets.labelFace)
	dc.SetColor(colBlackSuit)
	dc.DrawStringAnchored("D", bx, by, 0.5, 0.5)
}

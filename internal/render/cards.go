package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// HoleCards converts an abstracted hand code into two concrete cards with a
// fixed suit assignment, so the same hand always renders the same image:
// pairs get hearts and spades, suited hands both spades, offsuit hands
// hearts and diamonds.
func HoleCards(hand string) (string, string) {
	if len(hand) < 2 {
		return "", ""
	}
	r1 := strings.ToUpper(hand[:1])
	r2 := strings.ToUpper(hand[1:2])

	switch {
	case r1 == r2:
		return r1 + "h", r2 + "s"
	case len(hand) >= 3 && hand[2] == 's':
		return r1 + "s", r2 + "s"
	default:
		return r1 + "h", r2 + "d"
	}
}

// parseBoard splits a board string like "Ah7s2d" into its two-character cards
func parseBoard(board string) []string {
	board = strings.ReplaceAll(board, " ", "")
	var cards []string
	for i := 0; i+1 < len(board); i += 2 {
		cards = append(cards, board[i:i+2])
	}
	return cards
}

// drawCardLayer renders the front layer: villain card backs, community cards,
// hero hole cards and the hand annotation.
func (c *Compositor) drawCardLayer(dc *gg.Context, scene TableScene) {
	g := c.geo
	slots := seatSlots(scene.Players)

	backW, backH := 70*g.scale, 105*g.scale
	for _, p := range scene.Players {
		if p.IsHero || p.IsFolded {
			continue
		}
		x, y := g.seatPoint(slots[p.SeatIndex], len(scene.Players), c.cfg.StartAngleDeg)
		cy := y - g.seatR*1.25
		c.drawCardBack(dc, x-15*g.scale, cy, backW, backH, 5)
		c.drawCardBack(dc, x+15*g.scale, cy, backW, backH, -5)
	}

	if board := parseBoard(scene.Board); len(board) > 0 {
		cardW, cardH := 60*g.scale, 90*g.scale
		step := cardW + 8*g.scale
		startX := g.cx - step*float64(len(board)-1)/2
		for i, code := range board {
			c.drawCard(dc, code, startX+float64(i)*step, g.cy+55*g.scale, cardW, cardH, 0)
		}
	}

	if card1, card2 := HoleCards(scene.Hand); card1 != "" {
		heroX, heroY := g.seatPoint(0, len(scene.Players), c.cfg.StartAngleDeg)
		if len(scene.Players) == 0 {
			heroX, heroY = g.cx, g.cy+g.tableH*0.7
		}
		cardW, cardH := 80*g.scale, 120*g.scale
		cy := heroY - g.seatR*1.35
		c.drawCard(dc, card1, heroX-22*g.scale, cy, cardW, cardH, 5)
		c.drawCard(dc, card2, heroX+22*g.scale, cy, cardW, cardH, -5)
	}

	c.annotate(dc, scene)
}

// annotate overlays the hand code, chosen action and EV at a fixed offset.
func (c *Compositor) annotate(dc *gg.Context, scene TableScene) {
	g := c.geo
	dc.SetFontFace(c.assets.titleFace)
	dc.SetColor(colText)
	text := fmt.Sprintf("%s  %s  EV %.6f", scene.Hand, scene.Action, scene.EV)
	dc.DrawStringAnchored(text, g.w*0.02, g.h*0.04, 0, 0.5)
}

// drawCard draws one face-up card centered at (cx, cy). An asset image is
// used when present under the fixed naming convention; otherwise the card is
// drawn procedurally, which is not an error condition.
func (c *Compositor) drawCard(dc *gg.Context, code string, cx, cy, w, h, angleDeg float64) {
	if len(code) < 2 {
		return
	}

	dc.Push()
	defer dc.Pop()
	if angleDeg != 0 {
		dc.RotateAbout(gg.Radians(angleDeg), cx, cy)
	}

	if img, ok := c.assets.card(code); ok {
		dc.DrawImageAnchored(scaleImage(img, int(w), int(h)), int(cx), int(cy), 0.5, 0.5)
		return
	}

	rank := strings.ToUpper(code[:1])
	suit := code[1]
	suitCol := colBlackSuit
	if suit == 'h' || suit == 'd' {
		suitCol = colRedSuit
	}

	dc.SetColor(colCardBg)
	dc.DrawRoundedRectangle(cx-w/2, cy-h/2, w, h, w*0.12)
	dc.Fill()
	dc.SetColor(colBlackSuit)
	dc.SetLineWidth(2 * c.geo.scale)
	dc.DrawRoundedRectangle(cx-w/2, cy-h/2, w, h, w*0.12)
	dc.Stroke()

	dc.SetFontFace(c.assets.cardFace)
	dc.SetColor(suitCol)
	dc.DrawStringAnchored(rank, cx-w/2+w*0.18, cy-h/2+h*0.14, 0.5, 0.5)
	dc.DrawStringAnchored(rank, cx+w/2-w*0.18, cy+h/2-h*0.14, 0.5, 0.5)
	drawSuitGlyph(dc, suit, cx, cy, w*0.3, suitCol)
}

// drawCardBack draws one face-down card centered at (cx, cy), using the back
// asset when present and a procedural lined pattern otherwise.
func (c *Compositor) drawCardBack(dc *gg.Context, cx, cy, w, h, angleDeg float64) {
	dc.Push()
	defer dc.Pop()
	if angleDeg != 0 {
		dc.RotateAbout(gg.Radians(angleDeg), cx, cy)
	}

	if c.assets.back != nil {
		dc.DrawImageAnchored(scaleImage(c.assets.back, int(w), int(h)), int(cx), int(cy), 0.5, 0.5)
		return
	}

	dc.SetColor(colCardBack)
	dc.DrawRoundedRectangle(cx-w/2, cy-h/2, w, h, w*0.12)
	dc.Fill()

	dc.SetColor(colBackLine)
	dc.SetLineWidth(1 * c.geo.scale)
	for gx := cx - w/2; gx <= cx+w/2; gx += 10 * c.geo.scale {
		dc.DrawLine(gx, cy-h/2, gx, cy+h/2)
		dc.Stroke()
	}
	for gy := cy - h/2; gy <= cy+h/2; gy += 10 * c.geo.scale {
		dc.DrawLine(cx-w/2, gy, cx+w/2, gy)
		dc.Stroke()
	}

	dc.SetColor(colBlackSuit)
	dc.SetLineWidth(2 * c.geo.scale)
	dc.DrawRoundedRectangle(cx-w/2, cy-h/2, w, h, w*0.12)
	dc.Stroke()
}

// drawSuitGlyph draws the center pip as a filled path, so the fallback never
// depends on a font carrying suit glyphs.
func drawSuitGlyph(dc *gg.Context, suit byte, cx, cy, r float64, col color.Color) {
	dc.SetColor(col)
	switch suit {
	case 'h':
		dc.DrawCircle(cx-r*0.35, cy-r*0.25, r*0.4)
		dc.DrawCircle(cx+r*0.35, cy-r*0.25, r*0.4)
		dc.Fill()
		dc.MoveTo(cx-r*0.72, cy-r*0.08)
		dc.LineTo(cx+r*0.72, cy-r*0.08)
		dc.LineTo(cx, cy+r*0.8)
		dc.ClosePath()
		dc.Fill()
	case 'd':
		dc.MoveTo(cx, cy-r*0.85)
		dc.LineTo(cx+r*0.6, cy)
		dc.LineTo(cx, cy+r*0.85)
		dc.LineTo(cx-r*0.6, cy)
		dc.ClosePath()
		dc.Fill()
	case 's':
		dc.DrawCircle(cx-r*0.32, cy+r*0.08, r*0.35)
		dc.DrawCircle(cx+r*0.32, cy+r*0.08, r*0.35)
		dc.Fill()
		dc.MoveTo(cx-r*0.64, cy+r*0.12)
		dc.LineTo(cx+r*0.64, cy+r*0.12)
		dc.LineTo(cx, cy-r*0.85)
		dc.ClosePath()
		dc.Fill()
		dc.DrawRectangle(cx-r*0.1, cy+r*0.1, r*0.2, r*0.65)
		dc.Fill()
	case 'c':
		dc.DrawCircle(cx, cy-r*0.35, r*0.34)
		dc.DrawCircle(cx-r*0.34, cy+r*0.12, r*0.34)
		dc.DrawCircle(cx+r*0.34, cy+r*0.12, r*0.34)
		dc.Fill()
		dc.DrawRectangle(cx-r*0.1, cy+r*0.1, r*0.2, r*0.65)
		dc.Fill()
	}
}

// scaleImage resizes an asset deterministically (pure-Go Catmull-Rom kernel).
func scaleImage(src image.Image, w, h int) image.Image {
	if b := src.Bounds(); b.Dx() == w && b.Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

package render

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/google/uuid"

	"github.com/rangeforge/handviz/internal/models"
)

// Config is the drawing configuration threaded through all three layers.
// It is plain data, never mutated by rendering, so compositors with different
// configs can run concurrently.
type Config struct {
	Width  int
	Height int
	// StartAngleDeg is the angle of visual slot 0 (the hero anchor).
	// 90 degrees puts the hero at bottom-center.
	StartAngleDeg float64
}

// DefaultConfig returns the standard 1200x800 canvas with the hero anchored
// at bottom-center.
func DefaultConfig() Config {
	return Config{Width: 1200, Height: 800, StartAngleDeg: 90}
}

// TableScene is everything one render needs: the table state decoded from
// the export plus the retained hand being annotated.
type TableScene struct {
	Key     models.ScenarioKey
	Hand    string
	Action  string
	EV      float64
	Pot     float64
	Board   string
	Players []models.PlayerInfo
}

// Layer palette.
var (
	colBackground = color.RGBA{30, 30, 30, 255}
	colFelt       = color.RGBA{53, 101, 77, 255}
	colFeltEdge   = color.RGBA{13, 61, 37, 255}
	colText       = color.RGBA{255, 255, 255, 255}
	colSeat       = color.RGBA{100, 100, 100, 255}
	colSeatActive = color.RGBA{80, 80, 160, 255}
	colSeatHero   = color.RGBA{80, 160, 80, 255}
	colSeatFolded = color.RGBA{50, 50, 50, 255}
	colButton     = color.RGBA{220, 220, 220, 255}
	colCardBg     = color.RGBA{255, 255, 255, 255}
	colRedSuit    = color.RGBA{220, 40, 40, 255}
	colBlackSuit  = color.RGBA{0, 0, 0, 255}
	colCardBack   = color.RGBA{30, 50, 150, 255}
	colBackLine   = color.RGBA{40, 60, 160, 255}
)

// Compositor renders table scenes against one immutable config and asset set.
// Safe for concurrent use: each Compose call draws on its own canvas.
type Compositor struct {
	cfg    Config
	geo    geometry
	assets *AssetSet
}

// NewCompositor creates a compositor for the given config and shared assets
func NewCompositor(cfg Config, assets *AssetSet) *Compositor {
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg = DefaultConfig()
	}
	if assets == nil {
		assets = LoadAssets("", "", cfg.Height)
	}
	return &Compositor{
		cfg:    cfg,
		geo:    newGeometry(cfg.Width, cfg.Height),
		assets: assets,
	}
}

// Compose renders one scene into an immutable artifact. The three layers are
// drawn in fixed order, back to front: table, seats, cards and annotations.
func (c *Compositor) Compose(scene TableScene) (models.VisualizationArtifact, error) {
	dc := gg.NewContext(c.cfg.Width, c.cfg.Height)
	dc.SetColor(colBackground)
	dc.Clear()

	c.drawTable(dc, scene.Pot)
	c.drawSeats(dc, scene.Players)
	c.drawCardLayer(dc, scene)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return models.VisualizationArtifact{}, fmt.Errorf("encoding %s %s: %w", scene.Key, scene.Hand, err)
	}

	return models.VisualizationArtifact{
		ID:     uuid.New().String(),
		Key:    scene.Key,
		Hand:   scene.Hand,
		Action: scene.Action,
		EV:     scene.EV,
		PNG:    buf.Bytes(),
	}, nil
}

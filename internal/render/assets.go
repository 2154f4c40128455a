// Package render composes one table-state image per retained hand from three
// layers drawn back to front: table felt, seats, cards and annotations.
// For fixed inputs, configuration, asset set and font set the output bytes
// are identical across runs and machines, which regression tests rely on.
package render

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/rangeforge/handviz/internal/logger"
)

var cardRanks = []string{"A", "K", "Q", "J", "T", "9", "8", "7", "6", "5", "4", "3", "2"}
var cardSuits = []string{"h", "s", "d", "c"}

// AssetSet holds the shared read-only rendering resources: font faces and
// rank-suit card images. Loaded once per process and treated as immutable.
// A missing card image or font file is not an error; the affected element is
// drawn procedurally instead.
type AssetSet struct {
	titleFace font.Face
	labelFace font.Face
	cardFace  font.Face
	cards     map[string]image.Image
	back      image.Image
}

// LoadAssets loads font and card-image assets for the given canvas scale.
// Every asset is optional: absences are logged at debug level and recorded as
// procedural-fallback signals, never returned as errors.
func LoadAssets(assetsDir, fontPath string, height int) *AssetSet {
	scale := float64(height) / referenceHeight

	set := &AssetSet{
		titleFace: basicfont.Face7x13,
		labelFace: basicfont.Face7x13,
		cardFace:  basicfont.Face7x13,
		cards:     make(map[string]image.Image),
	}

	if fontPath != "" {
		if err := set.loadFont(fontPath, scale); err != nil {
			logger.Warn("font %s unavailable, using built-in face: %v", fontPath, err)
		}
	}

	if assetsDir != "" {
		set.loadCards(assetsDir)
	}

	return set
}

func (s *AssetSet) loadFont(path string, scale float64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return err
	}

	newFace := func(size float64) (font.Face, error) {
		return opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size * scale,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	title, err := newFace(32)
	if err != nil {
		return err
	}
	label, err := newFace(16)
	if err != nil {
		return err
	}
	card, err := newFace(24)
	if err != nil {
		return err
	}

	s.titleFace, s.labelFace, s.cardFace = title, label, card
	return nil
}

// loadCards loads rank-suit images by the fixed {rank}{suit}.png convention,
// plus back.png for villain hole cards.
func (s *AssetSet) loadCards(dir string) {
	loaded := 0
	for _, r := range cardRanks {
		for _, suit := range cardSuits {
			name := r + suit
			img, ok := loadImage(filepath.Join(dir, name+".png"))
			if ok {
				s.cards[name] = img
				loaded++
			}
		}
	}
	if img, ok := loadImage(filepath.Join(dir, "back.png")); ok {
		s.back = img
	}
	if loaded == 0 {
		logger.Debug("no card images under %s, drawing cards procedurally", dir)
	} else {
		logger.Debug("loaded %d card images from %s", loaded, dir)
	}
}

func loadImage(path string) (image.Image, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		logger.Warn("unreadable card image %s: %v", path, err)
		return nil, false
	}
	return img, true
}

// card returns the asset image for a card like "Ah", or false to signal the
// procedural fallback.
func (s *AssetSet) card(code string) (image.Image, bool) {
	if len(code) != 2 {
		return nil, false
	}
	key := strings.ToUpper(code[:1]) + strings.ToLower(code[1:])
	img, ok := s.cards[key]
	return img, ok
}

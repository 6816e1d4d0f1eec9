package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand/v2"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/hud"
	"github.com/gogpu/hud/asset"
	"github.com/gogpu/hud/component"
)

const (
	barBackground = "hud/bar_bg.png"
	barFill       = "hud/bar_fill.png"

	// Grid cell of one element in pixels.
	cellWidth  = 96
	cellHeight = 48
)

type assets struct {
	sprites     *asset.SpriteAtlas
	spriteImage *image.RGBA
	font        *asset.FontAtlas
	background  color.RGBA
}

// newAssets paints a two-sprite atlas and packs the glyphs the scene uses.
func newAssets(cfg hud.Config) (*assets, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	bg := image.Rect(0, 0, 64, 16)
	fill := image.Rect(0, 16, 64, 32)
	draw.Draw(img, bg, image.NewUniform(color.RGBA{R: 40, G: 40, B: 48, A: 255}), image.Point{}, draw.Src)
	draw.Draw(img, fill, image.NewUniform(color.RGBA{R: 64, G: 200, B: 96, A: 255}), image.Point{}, draw.Src)

	sprites, err := asset.NewSpriteAtlas(64, 32)
	if err != nil {
		return nil, err
	}
	if _, err := sprites.Add(barBackground, bg); err != nil {
		return nil, err
	}
	if _, err := sprites.Add(barFill, fill.Inset(2)); err != nil {
		return nil, err
	}

	src, err := asset.NewSFNTMetrics(goregular.TTF, 24)
	if err != nil {
		return nil, err
	}
	font, err := asset.NewFontAtlas(src, asset.FontAtlasConfig{
		Width:   cfg.FontAtlasWidth,
		Height:  cfg.FontAtlasHeight,
		Padding: int(cfg.FontPadding),
		Gap:     1,
	})
	if err != nil {
		return nil, err
	}
	if err := font.AddRunes("HPUnit 0123456789%"); err != nil {
		return nil, err
	}

	return &assets{
		sprites:     sprites,
		spriteImage: img,
		font:        font,
		background:  color.RGBA{R: 16, G: 20, B: 28, A: 255},
	}, nil
}

// scene is a grid of elements, each a health bar with a label above it.
type scene struct {
	elements []*component.Element
	bars     []*component.ProgressBar
	labels   []*component.Text
}

func newScene(m *hud.Manager, a *assets, n int, unit float32) (*scene, error) {
	s := &scene{}
	cols := int(math.Ceil(math.Sqrt(float64(n) * 2)))
	rows := (n + cols - 1) / cols

	var errs []error
	for i := range n {
		col, row := i%cols, i/cols
		x := float32(col-cols/2) * cellWidth * unit
		y := float32(rows/2-row) * cellHeight * unit

		bar := component.NewProgressBar(m, a.sprites)
		label := component.NewText(m, a.font)
		e := component.NewElement(m)
		errs = append(errs,
			bar.SetSprites(barBackground, barFill),
			bar.SetPosition(hud.V3(x, y, 0)),
			label.SetContent(fmt.Sprintf("Unit %d", i)),
			label.SetFontSize(0.5),
			label.SetPosition(hud.V3(x, y+18*unit, 0)),
			e.Add("hp", bar),
			e.Add("name", label),
			e.Enable(),
		)

		s.elements = append(s.elements, e)
		s.bars = append(s.bars, bar)
		s.labels = append(s.labels, label)
	}
	return s, errors.Join(errs...)
}

// animate changes a churn fraction of the bars and, every 30 frames,
// toggles one element.
func (s *scene) animate(rng *rand.Rand, churn float64, frame int) error {
	var errs []error
	for range int(churn * float64(len(s.bars))) {
		i := rng.IntN(len(s.bars))
		v := rng.Float32()
		errs = append(errs,
			s.bars[i].SetValue(v),
			s.labels[i].SetContent(fmt.Sprintf("HP %d%%", int(v*100))))
	}

	if frame%30 == 29 {
		e := s.elements[rng.IntN(len(s.elements))]
		if e.Enabled() {
			errs = append(errs, e.Disable())
		} else {
			errs = append(errs, e.Enable())
		}
	}
	return errors.Join(errs...)
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

import (
	"fmt"
	"image"
	"io"

	"gopkg.in/yaml.v3"
)

// spriteManifest is the YAML form of a sprite atlas:
//
//	width: 512
//	height: 256
//	sprites:
//	  - path: ui/hp_bar.png
//	    rect: [0, 0, 128, 16]   # x, y, width, height in pixels
type spriteManifest struct {
	Width   int              `yaml:"width"`
	Height  int              `yaml:"height"`
	Sprites []manifestSprite `yaml:"sprites"`
}

type manifestSprite struct {
	Path string `yaml:"path"`
	Rect [4]int `yaml:"rect,flow"`
}

// LoadSpriteManifest builds a sprite atlas from a YAML manifest.
func LoadSpriteManifest(r io.Reader) (*SpriteAtlas, error) {
	var m spriteManifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("asset: decode sprite manifest: %w", err)
	}

	atlas, err := NewSpriteAtlas(m.Width, m.Height)
	if err != nil {
		return nil, err
	}
	for _, s := range m.Sprites {
		x, y, w, h := s.Rect[0], s.Rect[1], s.Rect[2], s.Rect[3]
		if _, err := atlas.Add(s.Path, image.Rect(x, y, x+w, y+h)); err != nil {
			return nil, err
		}
	}
	return atlas, nil
}

// WriteManifest encodes the atlas as a YAML manifest, sprites sorted by
// path.
func (a *SpriteAtlas) WriteManifest(w io.Writer) error {
	m := spriteManifest{Width: a.width, Height: a.height}
	for _, f := range a.Frames() {
		b := f.Bounds
		m.Sprites = append(m.Sprites, manifestSprite{
			Path: f.Path,
			Rect: [4]int{b.Min.X, b.Min.Y, b.Dx(), b.Dy()},
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&m); err != nil {
		return fmt.Errorf("asset: encode sprite manifest: %w", err)
	}
	return enc.Close()
}

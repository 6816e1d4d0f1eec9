// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

import (
	"fmt"
	"hash/crc32"
	"image"
	"slices"
	"strings"

	"github.com/gogpu/hud"
)

// SpriteID identifies a sprite by the IEEE CRC32 of its asset path.
type SpriteID uint32

// HashPath returns the id of the sprite stored at path. Paths are compared
// after converting backslashes to slashes.
func HashPath(path string) SpriteID {
	return SpriteID(crc32.ChecksumIEEE([]byte(strings.ReplaceAll(path, `\`, "/"))))
}

// SpriteFrame is the atlas placement of one sprite.
type SpriteFrame struct {
	Path string

	// Bounds is the sprite rectangle in atlas pixels.
	Bounds image.Rectangle

	// UV is the normalized rectangle (x, y, width, height) the rebuild
	// kernel samples. Texture v grows upward, so y is measured from the
	// bottom edge of the atlas.
	UV hud.Vec4
}

// Size returns the pixel size of the sprite, used to give an item its
// native size.
func (f SpriteFrame) Size() hud.Vec2 {
	return hud.V2(float32(f.Bounds.Dx()), float32(f.Bounds.Dy()))
}

// SpriteAtlas maps sprite ids to their placement in one atlas texture.
type SpriteAtlas struct {
	width, height int
	frames        map[SpriteID]SpriteFrame
}

// NewSpriteAtlas creates an empty atlas for a texture of the given size.
func NewSpriteAtlas(width, height int) (*SpriteAtlas, error) {
	if width < 1 || height < 1 {
		return nil, &AtlasConfigError{Field: "Size", Reason: "must be positive"}
	}
	return &SpriteAtlas{
		width:  width,
		height: height,
		frames: make(map[SpriteID]SpriteFrame),
	}, nil
}

// Add registers the sprite stored at path with its pixel bounds and
// returns its id. A later Add for the same path replaces the frame.
func (a *SpriteAtlas) Add(path string, bounds image.Rectangle) (SpriteID, error) {
	atlas := image.Rect(0, 0, a.width, a.height)
	if bounds.Empty() || !bounds.In(atlas) {
		return 0, fmt.Errorf("asset: sprite %q bounds %v outside atlas %v", path, bounds, atlas)
	}

	id := HashPath(path)
	if old, ok := a.frames[id]; ok && old.Path != path {
		return 0, fmt.Errorf("asset: sprite %q collides with %q", path, old.Path)
	}

	w, h := float32(a.width), float32(a.height)
	a.frames[id] = SpriteFrame{
		Path:   path,
		Bounds: bounds,
		UV: hud.V4(
			float32(bounds.Min.X)/w,
			float32(a.height-bounds.Max.Y)/h,
			float32(bounds.Dx())/w,
			float32(bounds.Dy())/h,
		),
	}
	return id, nil
}

// Lookup returns the frame of id. Unknown ids yield a zero frame and
// ErrUnknownSprite.
func (a *SpriteAtlas) Lookup(id SpriteID) (SpriteFrame, error) {
	f, ok := a.frames[id]
	if !ok {
		return SpriteFrame{}, fmt.Errorf("%w: id %08x", ErrUnknownSprite, uint32(id))
	}
	return f, nil
}

// LookupPath is Lookup(HashPath(path)).
func (a *SpriteAtlas) LookupPath(path string) (SpriteFrame, error) {
	f, err := a.Lookup(HashPath(path))
	if err != nil {
		return SpriteFrame{}, fmt.Errorf("%w: %s", ErrUnknownSprite, path)
	}
	return f, nil
}

// Size returns the atlas texture size in pixels.
func (a *SpriteAtlas) Size() (width, height int) {
	return a.width, a.height
}

// Len returns the number of registered sprites.
func (a *SpriteAtlas) Len() int {
	return len(a.frames)
}

// Frames returns all frames sorted by path.
func (a *SpriteAtlas) Frames() []SpriteFrame {
	out := make([]SpriteFrame, 0, len(a.frames))
	for _, f := range a.frames {
		out = append(out, f)
	}
	slices.SortFunc(out, func(x, y SpriteFrame) int { return strings.Compare(x.Path, y.Path) })
	return out
}

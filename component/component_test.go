// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package component

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/hud"
	"github.com/gogpu/hud/asset"
)

// =============================================================================
// Fixtures
// =============================================================================

func newManager(t *testing.T) *hud.Manager {
	t.Helper()
	cfg := hud.DefaultConfig()
	cfg.UnitScale = 1
	cfg.Workers = 2
	m, err := hud.New(cfg)
	if err != nil {
		t.Fatalf("hud.New() error = %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func newSprites(t *testing.T) *asset.SpriteAtlas {
	t.Helper()
	a, err := asset.NewSpriteAtlas(256, 256)
	if err != nil {
		t.Fatal(err)
	}
	for path, r := range map[string]image.Rectangle{
		"ui/bar_bg.png":   image.Rect(0, 0, 64, 16),
		"ui/bar_fill.png": image.Rect(0, 16, 64, 32),
		"ui/icon.png":     image.Rect(64, 0, 96, 32),
	} {
		if _, err := a.Add(path, r); err != nil {
			t.Fatal(err)
		}
	}
	return a
}

func newFont(t *testing.T) *asset.FontAtlas {
	t.Helper()
	src, err := asset.NewSFNTMetrics(goregular.TTF, 24)
	if err != nil {
		t.Fatal(err)
	}
	f, err := asset.NewFontAtlas(src, asset.DefaultFontAtlasConfig())
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// frame runs one tick and delivers its meshes.
func frame(t *testing.T, m *hud.Manager) {
	t.Helper()
	if err := m.Tick(); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if err := m.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

func quadCount(t *testing.T, e *Element) int {
	t.Helper()
	mesh := e.Group().Mesh()
	if mesh == nil {
		t.Fatal("enabled element has no mesh")
	}
	return mesh.QuadCount
}

// =============================================================================
// Element
// =============================================================================

func TestElement_CollectsAllComponents(t *testing.T) {
	m := newManager(t)
	sprites := newSprites(t)

	e := NewElement(m)
	icon := NewSprite(m, sprites)
	if err := icon.SetPath("ui/icon.png"); err != nil {
		t.Fatal(err)
	}
	bar := NewProgressBar(m, sprites)
	if err := bar.SetSprites("ui/bar_bg.png", "ui/bar_fill.png"); err != nil {
		t.Fatal(err)
	}
	label := NewText(m, newFont(t))
	if err := label.SetContent("Hi"); err != nil {
		t.Fatal(err)
	}

	for name, c := range map[string]Component{"icon": icon, "bar": bar, "label": label} {
		if err := e.Add(name, c); err != nil {
			t.Fatalf("Add(%q) error = %v", name, err)
		}
	}
	if err := e.Enable(); err != nil {
		t.Fatal(err)
	}
	frame(t, m)

	if got := len(e.Group().Items()); got != 4 {
		t.Errorf("group items = %d, want 4", got)
	}
	if got := quadCount(t, e); got != 5 {
		t.Errorf("QuadCount = %d, want 5", got)
	}
	if err := e.Add("icon", icon); err == nil {
		t.Error("duplicate name accepted")
	}
}

func TestElement_Lookup(t *testing.T) {
	m := newManager(t)
	e := NewElement(m)
	bar := NewProgressBar(m, newSprites(t))
	if err := e.Add("hp", bar); err != nil {
		t.Fatal(err)
	}

	if got, ok := Find[*ProgressBar](e, "hp"); !ok || got != bar {
		t.Errorf("Find[*ProgressBar](hp) = %v, %v", got, ok)
	}
	if _, ok := Find[*Text](e, "hp"); ok {
		t.Error("Find with the wrong type succeeded")
	}
	if e.Lookup("mp") != nil {
		t.Error("Lookup of unknown name returned a component")
	}
}

func TestElement_DisableEnable(t *testing.T) {
	m := newManager(t)
	e := NewElement(m)
	s := NewSprite(m, newSprites(t))
	_ = s.SetPath("ui/icon.png")
	if err := e.Add("icon", s); err != nil {
		t.Fatal(err)
	}
	frame(t, m)
	if s.Graphic().Active() {
		t.Error("item of a disabled element is active")
	}
	if e.Group().Mesh() != nil {
		t.Error("disabled element holds a mesh")
	}

	if err := e.Enable(); err != nil {
		t.Fatal(err)
	}
	frame(t, m)
	if !s.Graphic().Active() {
		t.Error("item not active after Enable")
	}
	if got := quadCount(t, e); got != 1 {
		t.Errorf("QuadCount = %d, want 1", got)
	}

	if err := e.Disable(); err != nil {
		t.Fatal(err)
	}
	frame(t, m)
	if s.Graphic().Active() || e.Group().Mesh() != nil {
		t.Error("Disable left the item visible or the mesh leased")
	}
	if !s.Graphic().Attached() {
		t.Error("Disable detached the item from its batch")
	}
}

func TestElement_Destroy(t *testing.T) {
	m := newManager(t)
	e := NewElement(m)
	bar := NewProgressBar(m, newSprites(t))
	if err := e.Add("hp", bar); err != nil {
		t.Fatal(err)
	}
	_ = e.Enable()
	frame(t, m)
	if got := m.Batch(hud.SizeSmall).Used(); got != 2 {
		t.Fatalf("Used = %d, want 2", got)
	}

	if err := e.Destroy(); err != nil {
		t.Fatal(err)
	}
	frame(t, m)
	if got := m.Batch(hud.SizeSmall).Used(); got != 0 {
		t.Errorf("Used after Destroy = %d, want 0", got)
	}
	if len(e.Group().Items()) != 0 {
		t.Error("group still holds items")
	}
	if !errors.Is(e.Add("x", bar), ErrDestroyed) || !errors.Is(e.Destroy(), ErrDestroyed) {
		t.Error("destroyed element accepted an operation")
	}
}

func TestElement_RebuildAll(t *testing.T) {
	m := newManager(t)
	e := NewElement(m)
	s := NewSprite(m, newSprites(t))
	if err := e.Add("icon", s); err != nil {
		t.Fatal(err)
	}
	frame(t, m)

	if err := e.RebuildAll(); err != nil {
		t.Fatal(err)
	}
	if got := m.Batch(hud.SizeSmall).Pending(); got != 1 {
		t.Errorf("Pending = %d, want 1", got)
	}
}

// =============================================================================
// Sprite
// =============================================================================

func TestSprite_UnknownPath(t *testing.T) {
	m := newManager(t)
	s := NewSprite(m, newSprites(t))
	_ = s.SetPath("ui/icon.png")

	err := s.SetPath("ui/missing.png")
	if !errors.Is(err, asset.ErrUnknownSprite) {
		t.Errorf("err = %v, want ErrUnknownSprite", err)
	}
	if s.Graphic().UVRects[0] != (hud.Vec4{}) {
		t.Errorf("UV = %v, want zero rect", s.Graphic().UVRects[0])
	}
	if s.Path() != "ui/missing.png" {
		t.Errorf("Path = %q", s.Path())
	}
}

func TestSprite_NativeSize(t *testing.T) {
	m := newManager(t)
	s := NewSprite(m, newSprites(t))
	_ = s.SetPath("ui/bar_bg.png")
	if err := s.NativeSize(); err != nil {
		t.Fatal(err)
	}
	if got := s.Graphic().Sizes[0]; got != hud.V2(64, 16) {
		t.Errorf("Sizes[0] = %v, want (64, 16)", got)
	}
}

// =============================================================================
// ProgressBar
// =============================================================================

func TestProgressBar_FillClipsVertices(t *testing.T) {
	m := newManager(t)
	e := NewElement(m)
	bar := NewProgressBar(m, newSprites(t))
	if err := bar.SetSprites("ui/bar_bg.png", "ui/bar_fill.png"); err != nil {
		t.Fatal(err)
	}
	if err := e.Add("hp", bar); err != nil {
		t.Fatal(err)
	}
	_ = e.Enable()
	if err := bar.SetValue(0.5); err != nil {
		t.Fatal(err)
	}
	frame(t, m)

	mesh := e.Group().Mesh()
	if mesh == nil || mesh.QuadCount != 2 {
		t.Fatalf("mesh = %+v, want 2 quads", mesh)
	}
	// Quad 0 is the background, quad 1 the fill; both centered on 0.
	bg, fill := mesh.Positions[0:4], mesh.Positions[4:8]
	if bg[0].X != -32 || bg[2].X != 32 {
		t.Errorf("background spans [%v, %v], want [-32, 32]", bg[0].X, bg[2].X)
	}
	if fill[0].X != -32 || fill[2].X != 0 {
		t.Errorf("fill spans [%v, %v], want [-32, 0]", fill[0].X, fill[2].X)
	}
	if bar.Value() != 0.5 {
		t.Errorf("Value = %v, want 0.5", bar.Value())
	}
}

// =============================================================================
// Text
// =============================================================================

func TestText_NormalizesAndTruncates(t *testing.T) {
	m := newManager(t)
	txt := NewText(m, newFont(t))

	if err := txt.SetContent("é"); err != nil {
		t.Fatal(err)
	}
	if txt.Content() != "é" {
		t.Errorf("Content = %q, want NFC form", txt.Content())
	}
	if txt.Graphic().ValidQuads != 1 {
		t.Errorf("ValidQuads = %d, want 1", txt.Graphic().ValidQuads)
	}

	if err := txt.SetContent(strings.Repeat("a", 20)); err != nil {
		t.Fatal(err)
	}
	if txt.Graphic().ValidQuads != hud.MaxTextQuads {
		t.Errorf("ValidQuads = %d, want %d", txt.Graphic().ValidQuads, hud.MaxTextQuads)
	}
}

func TestText_MissingGlyph(t *testing.T) {
	m := newManager(t)
	txt := NewText(m, newFont(t))
	err := txt.SetContent("a一b")
	if !errors.Is(err, asset.ErrGlyphNotFound) {
		t.Errorf("err = %v, want ErrGlyphNotFound", err)
	}
	g := txt.Graphic()
	if g.ValidQuads != 3 {
		t.Errorf("ValidQuads = %d, want 3", g.ValidQuads)
	}
	if g.GlyphParams[1] != (hud.Vec4{}) {
		t.Errorf("missing glyph params = %v, want zero", g.GlyphParams[1])
	}
}

func TestText_ColorAndSize(t *testing.T) {
	m := newManager(t)
	e := NewElement(m)
	txt := NewText(m, newFont(t))
	_ = txt.SetContent("HP")
	if err := e.Add("label", txt); err != nil {
		t.Fatal(err)
	}
	_ = e.Enable()

	red := color.RGBA{R: 255, A: 255}
	if err := txt.SetColor(red); err != nil {
		t.Fatal(err)
	}
	if err := txt.SetFontSize(2); err != nil {
		t.Fatal(err)
	}
	frame(t, m)

	mesh := e.Group().Mesh()
	if mesh.QuadCount != 2 {
		t.Fatalf("QuadCount = %d, want 2", mesh.QuadCount)
	}
	for i := range mesh.Vertices() {
		if mesh.Colors[i] != red {
			t.Fatalf("vertex %d color = %v, want red", i, mesh.Colors[i])
		}
		if mesh.UV1[i].X != 1 {
			t.Fatalf("vertex %d text hint = %v, want 1", i, mesh.UV1[i].X)
		}
	}
	if txt.FontSize() != 2 {
		t.Errorf("FontSize = %v, want 2", txt.FontSize())
	}
}

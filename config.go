// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config holds the construction parameters of a Manager.
type Config struct {
	// SpriteCapacity is the number of sprite items the sprite batch holds.
	SpriteCapacity int `yaml:"sprite_capacity"`

	// TextCapacity is the number of text items the text batch holds.
	TextCapacity int `yaml:"text_capacity"`

	// Workers is the size of the kernel worker pool. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// RebuildBatchSize is the number of items one rebuild work item covers.
	RebuildBatchSize int `yaml:"rebuild_batch_size"`

	// UnitScale converts item units into mesh units.
	UnitScale float32 `yaml:"unit_scale"`

	// FontPadding is the glyph padding of the font atlas in pixels.
	FontPadding float32 `yaml:"font_padding"`

	// FontAtlasWidth and FontAtlasHeight are the font atlas size in pixels.
	FontAtlasWidth  int `yaml:"font_atlas_width"`
	FontAtlasHeight int `yaml:"font_atlas_height"`

	// MeshPoolSize is the number of released meshes kept for reuse.
	MeshPoolSize int `yaml:"mesh_pool_size"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		SpriteCapacity:   500,
		TextCapacity:     500,
		RebuildBatchSize: 16,
		UnitScale:        0.005,
		FontAtlasWidth:   1024,
		FontAtlasHeight:  1024,
		MeshPoolSize:     16,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.SpriteCapacity < 1 {
		return &ConfigError{Field: "SpriteCapacity", Reason: "must be at least 1"}
	}
	if c.TextCapacity < 1 {
		return &ConfigError{Field: "TextCapacity", Reason: "must be at least 1"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "Workers", Reason: "must be non-negative"}
	}
	if c.RebuildBatchSize < 1 {
		return &ConfigError{Field: "RebuildBatchSize", Reason: "must be at least 1"}
	}
	if c.UnitScale <= 0 {
		return &ConfigError{Field: "UnitScale", Reason: "must be positive"}
	}
	if c.FontPadding < 0 {
		return &ConfigError{Field: "FontPadding", Reason: "must be non-negative"}
	}
	if c.FontAtlasWidth < 1 || c.FontAtlasHeight < 1 {
		return &ConfigError{Field: "FontAtlasWidth", Reason: "atlas dimensions must be positive"}
	}
	if c.MeshPoolSize < 0 {
		return &ConfigError{Field: "MeshPoolSize", Reason: "must be non-negative"}
	}
	return nil
}

// LoadConfig decodes a YAML document over DefaultConfig and validates the
// result. Fields absent from the document keep their default. An empty
// document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("hud: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/hud"
	"github.com/gogpu/hud/integration/halmesh"
	"github.com/gogpu/hud/preview"
)

// backend is a mesh sink selectable from the command line.
type backend interface {
	hud.MeshSink
	hud.MeshReleaser

	// Finish reports what the sink received.
	Finish(w io.Writer) error
	Close() error
}

// platform reports a fixed font scale and otherwise behaves like a
// headless host.
type platform struct {
	gpucontext.NullPlatformProvider
	fontScale float32
}

func (p platform) FontScale() float32 {
	if p.fontScale <= 0 {
		return 1
	}
	return p.fontScale
}

// newSinkRegistry registers every backend. Factories return nil when the
// backend cannot be created.
func newSinkRegistry(o options, cfg hud.Config, a *assets) *gpucontext.Registry[backend] {
	r := gpucontext.NewRegistry[backend](gpucontext.WithPriority("preview", "hal", "null"))

	r.Register("null", func() backend {
		return &nullSink{}
	})
	r.Register("preview", func() backend {
		pr, err := preview.New(preview.Options{
			Width:      o.width,
			Height:     o.height,
			Scale:      1 / cfg.UnitScale,
			Background: a.background,
			Sprites:    a.spriteImage,
			Font:       a.font.Image(),
		})
		if err != nil {
			hud.Logger().Warn("hudbench: preview unavailable", "err", err)
			return nil
		}
		return &previewSink{Renderer: pr, path: o.output}
	})
	r.Register("hal", func() backend {
		s, err := newHALSink()
		if err != nil {
			hud.Logger().Warn("hudbench: hal unavailable", "err", err)
			return nil
		}
		return s
	})
	return r
}

// nullSink only counts uploads.
type nullSink struct {
	uploads, releases, quads int
}

func (s *nullSink) UploadMesh(_ *hud.Group, m *hud.Mesh) error {
	s.uploads++
	s.quads += m.QuadCount
	return nil
}

func (s *nullSink) ReleaseMesh(*hud.Group) { s.releases++ }

func (s *nullSink) Finish(w io.Writer) error {
	_, err := fmt.Fprintf(w, "uploads:     %d (%d quads, %d releases)\n", s.uploads, s.quads, s.releases)
	return err
}

func (s *nullSink) Close() error { return nil }

// previewSink writes the final frame to a PNG file.
type previewSink struct {
	*preview.Renderer
	path string
}

func (s *previewSink) Finish(w io.Writer) error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	if err := s.WritePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "preview:     %s (%d groups, %d quads)\n", s.path, s.Len(), s.Quads())
	return err
}

func (s *previewSink) Close() error { return nil }

// halSink uploads through halmesh into buffers of a noop HAL device, which
// measures the encoding and allocation cost without a GPU.
type halSink struct {
	*halmesh.Sink
	release func()
}

func newHALSink() (*halSink, error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("no adapter")
	}
	dev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	sink, err := halmesh.New(dev.Device, dev.Queue)
	if err != nil {
		dev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	return &halSink{Sink: sink, release: func() {
		dev.Device.Destroy()
		instance.Destroy()
	}}, nil
}

func (s *halSink) Finish(w io.Writer) error {
	_, err := fmt.Fprintf(w, "hal groups:  %d\n", s.Len())
	return err
}

func (s *halSink) Close() error {
	err := s.Sink.Close()
	s.release()
	return err
}

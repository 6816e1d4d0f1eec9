// Command hudbench builds a HUD of labelled health bars, animates it for a
// number of frames and reports per-tick timings. With the preview sink it
// also writes the last frame as PNG.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"

	"github.com/gogpu/hud"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	sinkName   string
	output     string
	elements   int
	frames     int
	churn      float64
	workers    int
	width      int
	height     int
	fontScale  float64
	seed       uint64
	quiet      bool
	debug      bool
}

func run(args []string, stdout, stderr io.Writer) int {
	var o options
	fs := pflag.NewFlagSet("hudbench", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.configPath, "config", "c", "", "YAML manager configuration (default: built-in defaults)")
	fs.StringVarP(&o.sinkName, "sink", "s", "", "Mesh sink: null, preview or hal (default: best available)")
	fs.StringVarP(&o.output, "output", "o", "hud.png", "PNG written by the preview sink")
	fs.IntVarP(&o.elements, "elements", "n", 200, "Number of HUD elements")
	fs.IntVarP(&o.frames, "frames", "f", 120, "Number of frames to run")
	fs.Float64Var(&o.churn, "churn", 0.1, "Fraction of health bars changed per frame (0-1)")
	fs.IntVarP(&o.workers, "workers", "w", 0, "Worker goroutines, overrides the config when > 0")
	fs.IntVar(&o.width, "width", 1280, "Preview width in pixels")
	fs.IntVar(&o.height, "height", 720, "Preview height in pixels")
	fs.Float64Var(&o.fontScale, "font-scale", 1, "Platform font scale applied to every label")
	fs.Uint64Var(&o.seed, "seed", 1, "Random seed for the animation")
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "Hide the progress bar")
	fs.BoolVar(&o.debug, "debug", false, "Log pipeline events to stderr")
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := bench(o, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "hudbench: %v\n", err)
		return 1
	}
	return 0
}

func bench(o options, stdout, stderr io.Writer) error {
	if o.elements < 1 || o.frames < 1 {
		return fmt.Errorf("elements and frames must be positive")
	}
	if o.churn < 0 || o.churn > 1 {
		return fmt.Errorf("churn %v outside [0, 1]", o.churn)
	}

	level := slog.LevelWarn
	if o.debug {
		level = slog.LevelDebug
	}
	hud.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer hud.SetLogger(nil)

	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if need := 2 * o.elements; cfg.SpriteCapacity < need {
		cfg.SpriteCapacity = need
	}
	cfg.TextCapacity = max(cfg.TextCapacity, o.elements)

	assets, err := newAssets(cfg)
	if err != nil {
		return err
	}

	sinks := newSinkRegistry(o, cfg, assets)
	name := o.sinkName
	if name == "" {
		name = sinks.BestName()
	}
	if !sinks.Has(name) {
		return fmt.Errorf("unknown sink %q", name)
	}
	sink := sinks.Get(name)
	if sink == nil {
		return fmt.Errorf("sink %q is unavailable", name)
	}
	defer sink.Close()

	m, err := hud.New(cfg, hud.WithMeshSink(sink), hud.WithPlatform(platform{fontScale: float32(o.fontScale)}))
	if err != nil {
		return err
	}
	defer m.Close()

	s, err := newScene(m, assets, o.elements, cfg.UnitScale)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	ticks := make([]time.Duration, 0, o.frames)
	var totals hud.Stats

	var pb *progressbar.ProgressBar
	if !o.quiet {
		pb = progressbar.NewOptions(o.frames,
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("frames"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish())
		defer pb.Close()
	}

	for f := range o.frames {
		if err := s.animate(rng, o.churn, f); err != nil {
			return err
		}
		start := time.Now()
		if err := m.Tick(); err != nil {
			return fmt.Errorf("frame %d: %w", f, err)
		}
		ticks = append(ticks, time.Since(start))

		st := m.Stats()
		totals.DirtyItems += st.DirtyItems
		totals.GroupsGathered += st.GroupsGathered
		totals.QuadsEmitted += st.QuadsEmitted
		totals.QueuedWork = max(totals.QueuedWork, st.QueuedWork)
		if pb != nil {
			_ = pb.Add(1)
		}
	}
	before := m.Stats().QuadsEmitted
	if err := m.Flush(); err != nil {
		return err
	}
	totals.QuadsEmitted += m.Stats().QuadsEmitted - before

	report(stdout, name, o, m, assets, ticks, totals)
	return sink.Finish(stdout)
}

func loadConfig(path string) (hud.Config, error) {
	if path == "" {
		return hud.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return hud.Config{}, err
	}
	defer f.Close()
	return hud.LoadConfig(f)
}

func report(w io.Writer, sink string, o options, m *hud.Manager, a *assets, ticks []time.Duration, totals hud.Stats) {
	sorted := slices.Clone(ticks)
	slices.Sort(sorted)
	var sum time.Duration
	for _, d := range ticks {
		sum += d
	}
	pct := func(p float64) time.Duration {
		return sorted[min(len(sorted)-1, int(p*float64(len(sorted))))]
	}

	fmt.Fprintf(w, "sink:        %s\n", sink)
	fmt.Fprintf(w, "elements:    %d (%d sprites, %d texts)\n", o.elements,
		m.Batch(hud.SizeSmall).Used(), m.Batch(hud.SizeLarge).Used())
	fmt.Fprintf(w, "frames:      %d\n", len(ticks))
	fmt.Fprintf(w, "tick avg:    %v\n", sum/time.Duration(len(ticks)))
	fmt.Fprintf(w, "tick p50:    %v\n", pct(0.50))
	fmt.Fprintf(w, "tick p99:    %v\n", pct(0.99))
	fmt.Fprintf(w, "dirty items: %d\n", totals.DirtyItems)
	fmt.Fprintf(w, "groups:      %d\n", totals.GroupsGathered)
	fmt.Fprintf(w, "quads:       %d\n", totals.QuadsEmitted)
	fmt.Fprintf(w, "queue peak:  %d work items\n", totals.QueuedWork)
	fmt.Fprintf(w, "font atlas:  %d glyphs, %.1f%% used\n", a.font.Len(), 100*a.font.Utilization())
}

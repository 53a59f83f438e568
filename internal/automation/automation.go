package automation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cosmos/internal/config"
	"github.com/san-kum/cosmos/internal/export"
	"github.com/san-kum/cosmos/internal/host/headless"
	"github.com/san-kum/cosmos/internal/logx"
	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/storage"
	"github.com/san-kum/cosmos/internal/surface"
	"github.com/san-kum/cosmos/internal/viewport"
)

// Scenario is a scripted headless session.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Seed        int64          `yaml:"seed"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	PixelRatio  float64        `yaml:"pixel_ratio"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep performs exactly one action.
type ScenarioStep struct {
	Frames   int         `yaml:"frames"`
	Resize   *ResizeStep `yaml:"resize"`
	Snapshot string      `yaml:"snapshot"`
	Unmount  bool        `yaml:"unmount"`
}

type ResizeStep struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

func (s ScenarioStep) action() (string, error) {
	n := 0
	name := ""
	if s.Frames > 0 {
		n, name = n+1, "frames"
	}
	if s.Resize != nil {
		n, name = n+1, "resize"
	}
	if s.Snapshot != "" {
		n, name = n+1, "snapshot"
	}
	if s.Unmount {
		n, name = n+1, "unmount"
	}
	if n != 1 {
		return "", fmt.Errorf("step must have exactly one action, has %d", n)
	}
	return name, nil
}

// StepResult records the surface state after a step.
type StepResult struct {
	Index      int
	Action     string
	Frames     uint64
	Viewport   viewport.Size
	Aspect     float64
	SnapshotID string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (sc *Scenario) Validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	for i, step := range sc.Steps {
		if _, err := step.action(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Config resolves the scenario's preset and seed on top of base.
func (sc *Scenario) Config(base *config.Config) (*config.Config, error) {
	cfg := base
	if sc.Preset != "" {
		cfg = config.GetPreset(sc.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", sc.Preset)
		}
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cfg = cfg.Clone()
	if sc.Seed != 0 {
		cfg.Seed = sc.Seed
	}
	return cfg, nil
}

// RunScenario mounts a surface on a headless host and executes every step.
// Snapshots are written to store, which may be nil when no step needs it.
func RunScenario(ctx context.Context, sc *Scenario, base *config.Config, store *storage.Store, logger *slog.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = logx.Logger()
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	cfg, err := sc.Config(base)
	if err != nil {
		return nil, err
	}

	w, h, ratio := sc.Width, sc.Height, sc.PixelRatio
	if w == 0 {
		w = cfg.Window.Width
	}
	if h == 0 {
		h = cfg.Window.Height
	}
	if ratio == 0 {
		ratio = 1
	}

	host := headless.New(w, h, ratio, nil)
	surf, err := surface.Mount(host, surface.WithConfig(cfg), surface.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer surf.Unmount()

	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		action, _ := step.action()
		logger.Info("scenario step", "step", i+1, "of", len(sc.Steps), "action", action)

		res := StepResult{Index: i, Action: action}
		switch action {
		case "frames":
			for n := 0; n < step.Frames; n++ {
				if err := ctx.Err(); err != nil {
					return results, err
				}
				host.Step()
			}
		case "resize":
			host.Resize(step.Resize.Width, step.Resize.Height, step.Resize.PixelRatio)
		case "snapshot":
			if store == nil {
				return results, fmt.Errorf("step %d: snapshot needs a store", i+1)
			}
			id, err := SaveSnapshot(store, surf, step.Snapshot, sc.Preset, int(surf.Scheduler().Frames()))
			if err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
			res.SnapshotID = id
		case "unmount":
			if err := surf.Unmount(); err != nil {
				return results, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		res.Frames = surf.Scheduler().Frames()
		res.Viewport = host.Viewport()
		res.Aspect = surf.Scene().Camera().Aspect
		results = append(results, res)
	}
	return results, nil
}

// WriteFrame encodes the surface's current scene as png or svg. A png of a
// raster-backed surface is its last presented frame; anything else is
// rendered afresh from the scene at the surface's size.
func WriteFrame(w io.Writer, s *surface.Surface, format string) error {
	r := s.Renderer()
	width, height := r.Size()
	ratio := r.PixelRatio()

	switch format {
	case "", "png":
		if raster, ok := s.Backend().(*render.Raster); ok && s.Mounted() {
			return raster.EncodePNG(w)
		}
		raster, err := render.NewRaster(width, height)
		if err != nil {
			return err
		}
		defer raster.Close()
		if err := renderInto(raster, s, width, height, ratio); err != nil {
			return err
		}
		return raster.EncodePNG(w)
	case "svg":
		svg, err := export.NewSVG(width, height)
		if err != nil {
			return err
		}
		if err := renderInto(svg, s, width, height, ratio); err != nil {
			return err
		}
		_, err = svg.WriteTo(w)
		return err
	}
	return fmt.Errorf("unknown snapshot format %q", format)
}

func renderInto(b render.Backend, s *surface.Surface, width, height int, ratio float64) error {
	r, err := render.New(b)
	if err != nil {
		return err
	}
	if err := r.Resize(width, height, ratio); err != nil {
		return err
	}
	return r.Render(s.Scene())
}

// SaveSnapshot stores the current frame with its metadata.
func SaveSnapshot(store *storage.Store, s *surface.Surface, format, preset string, frames int) (string, error) {
	if format == "" {
		format = "png"
	}
	width, height := s.Renderer().Size()
	meta := storage.SnapshotMetadata{
		Kind:       "snapshot",
		Preset:     preset,
		Seed:       s.Config().Seed,
		Width:      width,
		Height:     height,
		PixelRatio: s.Renderer().PixelRatio(),
		Frames:     frames,
		Format:     format,
	}
	return store.Save(meta, func(w io.Writer) error { return WriteFrame(w, s, format) })
}

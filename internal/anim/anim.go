// Package anim advances the per-frame state of a surface: the starfield
// spin and the tumble and bob of each floating solid.
package anim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/cosmos/internal/scene"
)

// PhaseClock selects the time base of the bobbing oscillation.
type PhaseClock string

const (
	// FrameClock accumulates clamped frame deltas, so a stalled host
	// resumes where it left off.
	FrameClock PhaseClock = "frame"
	// WallClock reads absolute wall time in seconds every frame.
	WallClock PhaseClock = "wall"
)

func ParsePhaseClock(s string) (PhaseClock, error) {
	switch PhaseClock(s) {
	case FrameClock, "":
		return FrameClock, nil
	case WallClock:
		return WallClock, nil
	}
	return "", fmt.Errorf("anim: unknown phase clock %q", s)
}

// Config holds per-frame increments in radians and world units.
type Config struct {
	StarSpinX    float64
	StarSpinY    float64
	SolidSpinX   float64
	SolidSpinY   float64
	BobAmplitude float64
	PhaseClock   PhaseClock
	MaxDelta     time.Duration
}

func DefaultConfig() Config {
	return Config{
		StarSpinX:    0.0001,
		StarSpinY:    0.0003,
		SolidSpinX:   0.002,
		SolidSpinY:   0.003,
		BobAmplitude: 0.005,
		PhaseClock:   FrameClock,
		MaxDelta:     100 * time.Millisecond,
	}
}

// Animator mutates the transforms it was built with. It holds no scene
// state of its own beyond the oscillation phase.
type Animator struct {
	cfg    Config
	stars  *scene.Points
	solids []*scene.Mesh

	phase float64
	last  time.Time
	steps uint64
}

func New(cfg Config, stars *scene.Points, solids []*scene.Mesh) *Animator {
	if cfg.MaxDelta <= 0 {
		cfg.MaxDelta = DefaultConfig().MaxDelta
	}
	return &Animator{cfg: cfg, stars: stars, solids: solids}
}

// Step applies one frame of motion at frame timestamp now.
func (a *Animator) Step(now time.Time) {
	a.advancePhase(now)

	if a.stars != nil {
		rot := &a.stars.Transform().Rotation
		rot.Y += a.cfg.StarSpinY
		rot.X += a.cfg.StarSpinX
	}

	for i, m := range a.solids {
		t := m.Transform()
		t.Rotation.X += a.cfg.SolidSpinX * alternate(i, 2)
		t.Rotation.Y += a.cfg.SolidSpinY * alternate(i, 3)
		t.Position.Y += math.Sin(a.phase+float64(i)) * a.cfg.BobAmplitude
	}
	a.steps++
}

func (a *Animator) advancePhase(now time.Time) {
	if a.cfg.PhaseClock == WallClock {
		a.phase = float64(now.UnixNano()) / float64(time.Second)
		return
	}
	if !a.last.IsZero() {
		dt := now.Sub(a.last)
		if dt < 0 {
			dt = 0
		}
		if dt > a.cfg.MaxDelta {
			dt = a.cfg.MaxDelta
		}
		a.phase += dt.Seconds()
	}
	a.last = now
}

// Phase returns the oscillation phase used by the last Step, in seconds.
func (a *Animator) Phase() float64 { return a.phase }

func (a *Animator) Steps() uint64 { return a.steps }

// alternate is +1 when i is a multiple of n, else -1.
func alternate(i, n int) float64 {
	if i%n == 0 {
		return 1
	}
	return -1
}

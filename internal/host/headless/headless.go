// Package headless is an offscreen container: frames advance only when the
// caller steps them, and the drawing context is a raster or any backend
// supplied by a factory.
package headless

import (
	"errors"
	"sync"
	"time"

	"github.com/san-kum/cosmos/internal/frame"
	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/viewport"
)

// Factory creates a drawing context of the given size in pixels.
type Factory func(width, height int) (render.Backend, error)

func RasterFactory(width, height int) (render.Backend, error) {
	return render.NewRaster(width, height)
}

type Host struct {
	*frame.ManualPacer
	bus viewport.Broadcaster

	mu       sync.Mutex
	size     viewport.Size
	factory  Factory
	attached render.Backend
	clock    time.Time
	interval time.Duration
}

// New returns a host of the given logical size. A nil factory selects the
// raster backend.
func New(width, height int, ratio float64, factory Factory) *Host {
	if factory == nil {
		factory = RasterFactory
	}
	return &Host{
		ManualPacer: frame.NewManualPacer(),
		size:        viewport.Size{Width: width, Height: height, PixelRatio: ratio},
		factory:     factory,
		clock:       time.Unix(0, 0),
		interval:    time.Second / 60,
	}
}

// SetInterval sets the synthetic time between frames.
func (h *Host) SetInterval(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d > 0 {
		h.interval = d
	}
}

func (h *Host) OnResize(l viewport.Listener) func() { return h.bus.OnResize(l) }

func (h *Host) Viewport() viewport.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

func (h *Host) NewContext() (render.Backend, error) {
	s := h.Viewport()
	return h.factory(s.Width, s.Height)
}

func (h *Host) Attach(b render.Backend) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.attached != nil {
		return errors.New("headless: a drawable is already attached")
	}
	h.attached = b
	return nil
}

func (h *Host) Detach(b render.Backend) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.attached == b {
		h.attached = nil
	}
}

// Drawable returns the attached backend, or nil.
func (h *Host) Drawable() render.Backend {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attached
}

// Resize records the new size and notifies subscribers.
func (h *Host) Resize(width, height int, ratio float64) {
	s := viewport.Size{Width: width, Height: height, PixelRatio: ratio}
	h.mu.Lock()
	h.size = s
	h.mu.Unlock()
	h.bus.Notify(s)
}

// Step advances the synthetic clock by one interval and runs one frame.
func (h *Host) Step() int {
	h.mu.Lock()
	h.clock = h.clock.Add(h.interval)
	now := h.clock
	h.mu.Unlock()
	return h.Advance(now)
}

// Run steps n frames and returns how many callbacks ran.
func (h *Host) Run(n int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += h.Step()
	}
	return total
}

// Now returns the synthetic clock.
func (h *Host) Now() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clock
}

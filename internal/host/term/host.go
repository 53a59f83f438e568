// Package term hosts a surface in a terminal with bubbletea. The scene is
// drawn into a braille canvas, so one terminal cell holds 2x4 pixels.
package term

import (
	"errors"
	"sync"

	"github.com/san-kum/cosmos/internal/frame"
	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/viewport"
)

// statusRows is the number of terminal rows below the canvas.
const statusRows = 2

type Host struct {
	*frame.ManualPacer
	bus viewport.Broadcaster

	mu       sync.Mutex
	cols     int
	rows     int
	attached *render.Braille
}

// NewHost sizes the canvas for a terminal of cols x rows cells.
func NewHost(cols, rows int) *Host {
	h := &Host{ManualPacer: frame.NewManualPacer()}
	h.setCells(cols, rows)
	return h
}

func (h *Host) setCells(cols, rows int) {
	h.cols, h.rows = cols, rows-statusRows
}

func (h *Host) OnResize(l viewport.Listener) func() { return h.bus.OnResize(l) }

// Viewport is measured in braille dots.
func (h *Host) Viewport() viewport.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return viewport.Size{Width: h.cols * 2, Height: h.rows * 4, PixelRatio: 1}
}

func (h *Host) NewContext() (render.Backend, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cols <= 0 || h.rows <= 0 {
		return nil, render.ErrContextCreation
	}
	return render.NewBraille(h.cols, h.rows), nil
}

func (h *Host) Attach(b render.Backend) error {
	br, ok := b.(*render.Braille)
	if !ok {
		return errors.New("term: drawable is not a braille canvas")
	}
	h.mu.Lock()
	h.attached = br
	h.mu.Unlock()
	return nil
}

func (h *Host) Detach(render.Backend) {
	h.mu.Lock()
	h.attached = nil
	h.mu.Unlock()
}

func (h *Host) Canvas() *render.Braille {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attached
}

// Resize takes the terminal size in cells.
func (h *Host) Resize(cols, rows int) {
	h.mu.Lock()
	h.setCells(cols, rows)
	h.mu.Unlock()
	h.bus.Notify(h.Viewport())
}

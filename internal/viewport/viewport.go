// Package viewport keeps a camera and a render target in step with the
// size of the host container.
package viewport

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
)

// ErrResizeOutOfRange reports a size the adapter refuses to apply.
var ErrResizeOutOfRange = errors.New("viewport: resize out of range")

// DefaultMaxPixelRatio caps the backing buffer density.
const DefaultMaxPixelRatio = 2.0

// Size is a host-reported viewport in logical pixels.
type Size struct {
	Width      int
	Height     int
	PixelRatio float64
}

func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 &&
		s.PixelRatio > 0 && !math.IsInf(s.PixelRatio, 0) && !math.IsNaN(s.PixelRatio)
}

func (s Size) Aspect() float64 { return float64(s.Width) / float64(s.Height) }

func (s Size) String() string {
	return fmt.Sprintf("%dx%d@%gx", s.Width, s.Height, s.PixelRatio)
}

// ResizeOutOfRangeError carries the rejected size.
type ResizeOutOfRangeError struct {
	Size Size
}

func (e *ResizeOutOfRangeError) Error() string {
	return fmt.Sprintf("%v: %s", ErrResizeOutOfRange, e.Size)
}

func (e *ResizeOutOfRangeError) Unwrap() error { return ErrResizeOutOfRange }

// Projector is the camera side of a resize.
type Projector interface {
	SetAspect(aspect float64)
	UpdateProjection()
}

// Target is the render-target side of a resize. A failed Resize must leave
// size and ratio unchanged.
type Target interface {
	Resize(width, height int, ratio float64) error
}

// Listener receives size changes.
type Listener func(Size)

// Notifier delivers size changes until the returned cancel func is called.
type Notifier interface {
	OnResize(l Listener) (cancel func())
}

// Adapter applies size changes to a camera and a render target.
type Adapter struct {
	cam      Projector
	target   Target
	maxRatio float64
	logger   *slog.Logger

	mu      sync.Mutex
	current Size
	applied bool
	cancel  func()
}

func NewAdapter(cam Projector, target Target, maxRatio float64, logger *slog.Logger) *Adapter {
	if maxRatio <= 0 {
		maxRatio = DefaultMaxPixelRatio
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{cam: cam, target: target, maxRatio: maxRatio, logger: logger}
}

// Apply resizes the target and then recomputes the camera aspect. Invalid
// sizes and target failures leave the camera and target as they were.
func (a *Adapter) Apply(s Size) error {
	if !s.Valid() {
		return &ResizeOutOfRangeError{Size: s}
	}
	ratio := math.Min(s.PixelRatio, a.maxRatio)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.target.Resize(s.Width, s.Height, ratio); err != nil {
		return fmt.Errorf("viewport: resize target to %s: %w", s, err)
	}
	a.cam.SetAspect(s.Aspect())
	a.cam.UpdateProjection()
	a.current = Size{Width: s.Width, Height: s.Height, PixelRatio: ratio}
	a.applied = true
	return nil
}

// Current returns the last applied size, with the capped ratio.
func (a *Adapter) Current() (Size, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current, a.applied
}

// Attach subscribes to n. Rejected sizes are logged and ignored.
func (a *Adapter) Attach(n Notifier) {
	cancel := n.OnResize(func(s Size) {
		if err := a.Apply(s); err != nil {
			a.logger.Warn("resize ignored", "size", s.String(), "err", err)
			return
		}
		a.logger.Debug("viewport resized", "size", s.String())
	})
	a.mu.Lock()
	prev := a.cancel
	a.cancel = cancel
	a.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// Detach unsubscribes. Further calls do nothing.
func (a *Adapter) Detach() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

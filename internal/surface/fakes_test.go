package surface_test

import (
	"errors"
	"sync"

	"github.com/san-kum/cosmos/internal/frame"
	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/scene"
	"github.com/san-kum/cosmos/internal/viewport"
)

// eventLog is shared by a container and its backend.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeBackend struct {
	log       *eventLog
	w, h      int
	points    int
	lines     int
	closed    bool
	onPresent func()
}

func (b *fakeBackend) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return errors.New("bad size")
	}
	b.w, b.h = w, h
	return nil
}
func (b *fakeBackend) Bounds() (int, int)                         { return b.w, b.h }
func (b *fakeBackend) Clear(scene.Color)                          {}
func (b *fakeBackend) Point(_, _, _ float64, _ render.Paint)      { b.points++ }
func (b *fakeBackend) Line(_, _, _, _, _ float64, _ render.Paint) { b.lines++ }
func (b *fakeBackend) Present() error {
	b.log.add("present")
	if b.onPresent != nil {
		b.onPresent()
	}
	return nil
}
func (b *fakeBackend) Close() error {
	b.log.add("close")
	b.closed = true
	return nil
}

type fakeContainer struct {
	*frame.ManualPacer
	bus viewport.Broadcaster

	log     *eventLog
	size    viewport.Size
	backend *fakeBackend
	ctxErr  error
	nilCtx  bool
	// partial returns the backend together with ctxErr.
	partial  bool
	attached render.Backend
}

func newContainer(w, h int, ratio float64) *fakeContainer {
	log := &eventLog{}
	return &fakeContainer{
		ManualPacer: frame.NewManualPacer(),
		log:         log,
		size:        viewport.Size{Width: w, Height: h, PixelRatio: ratio},
		backend:     &fakeBackend{log: log, w: w, h: h},
	}
}

func (c *fakeContainer) CancelFrame(id frame.RequestID) {
	c.log.add("cancel-frame")
	c.ManualPacer.CancelFrame(id)
}

func (c *fakeContainer) OnResize(l viewport.Listener) func() {
	cancel := c.bus.OnResize(l)
	return func() {
		c.log.add("unsubscribe")
		cancel()
	}
}

func (c *fakeContainer) resize(w, h int, ratio float64) {
	c.size = viewport.Size{Width: w, Height: h, PixelRatio: ratio}
	c.bus.Notify(c.size)
}

func (c *fakeContainer) Viewport() viewport.Size { return c.size }

func (c *fakeContainer) NewContext() (render.Backend, error) {
	if c.ctxErr != nil {
		if c.partial {
			return c.backend, c.ctxErr
		}
		return nil, c.ctxErr
	}
	if c.nilCtx {
		return nil, nil
	}
	return c.backend, nil
}

func (c *fakeContainer) Attach(b render.Backend) error {
	c.log.add("attach")
	c.attached = b
	return nil
}

func (c *fakeContainer) Detach(render.Backend) {
	c.log.add("detach")
	c.attached = nil
}

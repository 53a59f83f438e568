// Package window hosts a surface in a desktop window. Frames are paced by
// ebiten's update loop and the raster buffer is uploaded on every draw.
package window

import (
	"errors"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/cosmos/internal/frame"
	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/surface"
	"github.com/san-kum/cosmos/internal/viewport"
)

type Options struct {
	Title  string
	Width  int
	Height int
	TPS    int
}

type Host struct {
	*frame.ManualPacer
	bus viewport.Broadcaster

	mu       sync.Mutex
	size     viewport.Size
	attached *render.Raster
}

func (h *Host) OnResize(l viewport.Listener) func() { return h.bus.OnResize(l) }

func (h *Host) Viewport() viewport.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

func (h *Host) NewContext() (render.Backend, error) {
	s := h.Viewport()
	return render.NewRaster(s.Width, s.Height)
}

func (h *Host) Attach(b render.Backend) error {
	r, ok := b.(*render.Raster)
	if !ok {
		return errors.New("window: drawable is not a raster")
	}
	h.mu.Lock()
	h.attached = r
	h.mu.Unlock()
	return nil
}

func (h *Host) Detach(render.Backend) {
	h.mu.Lock()
	h.attached = nil
	h.mu.Unlock()
}

func (h *Host) raster() *render.Raster {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attached
}

// resize records a new size and notifies subscribers when it changed.
func (h *Host) resize(s viewport.Size) {
	h.mu.Lock()
	changed := s != h.size
	h.size = s
	h.mu.Unlock()
	if changed {
		h.bus.Notify(s)
	}
}

// Run opens the window and blocks until it is closed. The surface is
// mounted on the first update, once the device scale is known.
func Run(o Options, opts ...surface.Option) error {
	if o.TPS <= 0 {
		o.TPS = 60
	}
	g := &game{
		host: &Host{
			ManualPacer: frame.NewManualPacer(),
			size:        viewport.Size{Width: o.Width, Height: o.Height, PixelRatio: 1},
		},
		opts: opts,
	}
	ebiten.SetWindowTitle(o.Title)
	ebiten.SetWindowSize(o.Width, o.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(o.TPS)

	err := ebiten.RunGame(g)
	if g.surf != nil {
		if uerr := g.surf.Unmount(); uerr != nil && err == nil {
			err = uerr
		}
	}
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type game struct {
	host *Host
	opts []surface.Option
	surf *surface.Surface
	img  *ebiten.Image
}

func (g *game) Update() error {
	if g.surf == nil {
		s, err := surface.Mount(g.host, g.opts...)
		if err != nil {
			return err
		}
		g.surf = s
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	g.host.Advance(time.Now())
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	r := g.host.raster()
	if r == nil {
		return
	}
	w, h := r.Bounds()
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(w, h)
	}
	g.img.WritePixels(r.Pixels())
	screen.DrawImage(g.img, nil)
}

// Layout reports the window size to the surface and makes the screen match
// the drawing buffer one to one.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	g.host.resize(viewport.Size{Width: outsideWidth, Height: outsideHeight, PixelRatio: scale})
	if r := g.host.raster(); r != nil {
		return r.Bounds()
	}
	return outsideWidth, outsideHeight
}

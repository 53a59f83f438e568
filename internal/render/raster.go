package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/san-kum/cosmos/internal/scene"
)

// Raster is an RGBA drawing buffer rendered with gg. Additive points are
// accumulated directly in the pixmap since gg composites source-over only.
type Raster struct {
	dc     *gg.Context
	closed bool
	// first fill or stroke failure since the last Present
	drawErr error
}

func NewRaster(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: raster %dx%d", ErrContextCreation, width, height)
	}
	return &Raster{dc: gg.NewContext(width, height)}, nil
}

func (r *Raster) Resize(width, height int) error {
	if r.closed {
		return fmt.Errorf("render: raster closed")
	}
	return r.dc.Resize(width, height)
}

func (r *Raster) Bounds() (int, int) { return r.dc.Width(), r.dc.Height() }

func (r *Raster) Clear(c scene.Color) {
	r.dc.ClearWithColor(gg.RGB(c.R, c.G, c.B))
}

func (r *Raster) Point(x, y, radius float64, p Paint) {
	if p.Blend == scene.AdditiveBlending {
		r.addDisc(x, y, radius, p)
		return
	}
	r.dc.SetRGBA(p.Color.R, p.Color.G, p.Color.B, p.Alpha)
	r.dc.DrawCircle(x, y, radius)
	r.keep(r.dc.Fill())
}

// addDisc adds colour*alpha*coverage to every pixel under the disc.
func (r *Raster) addDisc(cx, cy, radius float64, p Paint) {
	pm := r.dc.ResizeTarget()
	x0 := int(math.Floor(cx - radius - 0.5))
	x1 := int(math.Ceil(cx + radius + 0.5))
	y0 := int(math.Floor(cy - radius - 0.5))
	y1 := int(math.Ceil(cy + radius + 0.5))
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			cov := radius + 0.5 - math.Sqrt(dx*dx+dy*dy)
			if cov <= 0 {
				continue
			}
			if cov > 1 {
				cov = 1
			}
			k := p.Alpha * cov
			dst := pm.GetPixel(px, py)
			pm.SetPixel(px, py, gg.RGBA{
				R: dst.R + p.Color.R*k,
				G: dst.G + p.Color.G*k,
				B: dst.B + p.Color.B*k,
				A: math.Max(dst.A, k),
			})
		}
	}
}

func (r *Raster) Line(x0, y0, x1, y1, width float64, p Paint) {
	r.dc.SetRGBA(p.Color.R, p.Color.G, p.Color.B, p.Alpha)
	r.dc.SetLineWidth(width)
	r.dc.DrawLine(x0, y0, x1, y1)
	r.keep(r.dc.Stroke())
}

func (r *Raster) keep(err error) {
	if err != nil && r.drawErr == nil {
		r.drawErr = fmt.Errorf("render: draw: %w", err)
	}
}

// Present flushes the frame and reports the first draw failure of it.
func (r *Raster) Present() error {
	err := r.drawErr
	r.drawErr = nil
	return errors.Join(err, r.dc.FlushGPU())
}

func (r *Raster) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.dc.Close()
}

// Pixels returns the RGBA bytes of the drawing buffer, row major.
func (r *Raster) Pixels() []byte { return r.dc.ResizeTarget().Data() }

// At returns the colour of one buffer pixel.
func (r *Raster) At(x, y int) scene.Color {
	c := r.dc.ResizeTarget().GetPixel(x, y)
	return scene.Color{R: c.R, G: c.G, B: c.B}
}

func (r *Raster) Image() image.Image { return r.dc.Image() }

func (r *Raster) EncodePNG(w io.Writer) error { return r.dc.EncodePNG(w) }

func (r *Raster) SavePNG(path string) error { return r.dc.SavePNG(path) }

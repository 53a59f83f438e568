package render

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/cosmos/internal/scene"
)

const (
	minPointRadius = 0.5
	edgeWidth      = 1.0
)

// Stats counts what the last Render call drew.
type Stats struct {
	Points int
	Lines  int
	Culled int
}

// Renderer projects a scene into a Backend. Its logical size times the pixel
// ratio gives the drawing-buffer size.
type Renderer struct {
	mu       sync.Mutex
	backend  Backend
	width    int
	height   int
	ratio    float64
	frames   uint64
	last     Stats
	disposed bool
}

// New wraps backend. A nil backend means the host could not create a
// drawing context.
func New(backend Backend) (*Renderer, error) {
	if backend == nil {
		return nil, ErrContextCreation
	}
	w, h := backend.Bounds()
	return &Renderer{backend: backend, width: w, height: h, ratio: 1}, nil
}

func (r *Renderer) Backend() Backend { return r.backend }

// SetSize sets the logical size at the current pixel ratio.
func (r *Renderer) SetSize(width, height int) error {
	return r.Resize(width, height, 0)
}

// Resize sets the logical size and pixel ratio and resizes the drawing
// buffer. A non-positive ratio keeps the current one. Nothing changes when
// the backend rejects the new buffer.
func (r *Renderer) Resize(width, height int, ratio float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return fmt.Errorf("render: resize after dispose")
	}
	if ratio <= 0 {
		ratio = r.ratio
	}
	bw := int(math.Round(float64(width) * ratio))
	bh := int(math.Round(float64(height) * ratio))
	if err := r.backend.Resize(bw, bh); err != nil {
		return fmt.Errorf("render: resize buffer to %dx%d: %w", bw, bh, err)
	}
	r.width, r.height, r.ratio = width, height, ratio
	return nil
}

// Size returns the logical size.
func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *Renderer) PixelRatio() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ratio
}

// Frames returns the number of completed Render calls.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// LastStats reports the primitives drawn by the most recent frame.
func (r *Renderer) LastStats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Renderer) Disposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// Dispose closes the backend. Further calls return nil.
func (r *Renderer) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return nil
	}
	r.disposed = true
	return r.backend.Close()
}

// view carries the per-frame projection state.
type view struct {
	viewProj scene.Mat4
	view     scene.Mat4
	bw, bh   float64
	near     float64
	fog      *scene.FogExp2
}

// project maps a world point to buffer pixels. ok is false when the point
// is behind the near plane or outside the depth range.
func (v *view) project(p scene.Vec3) (x, y, depth float64, ok bool) {
	clip, w := v.viewProj.Transform(p)
	if w < v.near {
		return 0, 0, 0, false
	}
	nz := clip.Z / w
	if nz < -1 || nz > 1 {
		return 0, 0, 0, false
	}
	x = (clip.X/w + 1) * 0.5 * v.bw
	y = (1 - clip.Y/w) * 0.5 * v.bh
	return x, y, w, true
}

func (v *view) shade(c scene.Color, depth float64) scene.Color {
	if v.fog != nil {
		c = v.fog.Apply(c, depth)
	}
	return c.Clamp()
}

// Render draws one frame: clear, stars, then transparent meshes far to near.
func (r *Renderer) Render(s *scene.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return fmt.Errorf("render: render after dispose")
	}

	cam := s.Camera()
	bw, bh := r.backend.Bounds()
	vw := cam.View()
	v := &view{
		viewProj: cam.Projection().Mul(vw),
		view:     vw,
		bw:       float64(bw),
		bh:       float64(bh),
		near:     cam.Near,
		fog:      s.Fog,
	}

	r.backend.Clear(s.Background)
	var st Stats
	var meshes []*scene.Mesh
	for _, o := range s.Objects() {
		switch obj := o.(type) {
		case *scene.Points:
			r.drawPoints(v, obj, &st)
		case *scene.Mesh:
			meshes = append(meshes, obj)
		}
	}

	sort.SliceStable(meshes, func(i, j int) bool {
		return viewDepth(v, meshes[i]) > viewDepth(v, meshes[j])
	})
	ambient, points := collectLights(s.Lights())
	for _, m := range meshes {
		r.drawMesh(v, m, ambient, points, &st)
	}

	if err := r.backend.Present(); err != nil {
		return fmt.Errorf("render: present: %w", err)
	}
	r.frames++
	r.last = st
	return nil
}

func viewDepth(v *view, m *scene.Mesh) float64 {
	c, _ := v.view.Transform(m.Transform().Position)
	return -c.Z
}

func collectLights(ls []scene.Light) (scene.Color, []*scene.PointLight) {
	var ambient scene.Color
	var points []*scene.PointLight
	for _, l := range ls {
		switch l := l.(type) {
		case *scene.AmbientLight:
			ambient = ambient.Add(l.Radiance())
		case *scene.PointLight:
			points = append(points, l)
		}
	}
	return ambient, points
}

func (r *Renderer) drawPoints(v *view, p *scene.Points, st *Stats) {
	geo, mat := p.Geometry.Get(), p.Material.Get()
	if geo.Disposed() || mat.Disposed() {
		return
	}
	model := p.Transform().Matrix()
	alpha := 1.0
	if mat.Transparent {
		alpha = mat.Opacity
	}
	scale := v.bh / 2

	for i := 0; i < geo.Count(); i++ {
		world, _ := model.Transform(geo.At(i))
		x, y, depth, ok := v.project(world)
		if !ok || x < 0 || y < 0 || x >= v.bw || y >= v.bh {
			st.Culled++
			continue
		}
		radius := mat.Size / 2
		if mat.SizeAttenuation {
			radius = mat.Size * scale / depth / 2
		}
		radius = math.Max(radius, minPointRadius)
		r.backend.Point(x, y, radius, Paint{
			Color: v.shade(mat.Color, depth),
			Alpha: alpha,
			Blend: mat.Blending,
		})
		st.Points++
	}
}

func (r *Renderer) drawMesh(v *view, m *scene.Mesh, ambient scene.Color, lights []*scene.PointLight, st *Stats) {
	geo, mat := m.Geometry.Get(), m.Material.Get()
	if geo.Disposed() || mat.Disposed() {
		return
	}
	model := m.Transform().Matrix()
	center := m.Transform().Position
	alpha := 1.0
	if mat.Transparent {
		alpha = mat.Opacity
	}

	world := make([]scene.Vec3, geo.VertexCount())
	for i := range world {
		world[i], _ = model.Transform(geo.Vertex(i))
	}
	for _, e := range geo.Edges {
		a, b := world[e[0]], world[e[1]]
		x0, y0, d0, ok0 := v.project(a)
		x1, y1, d1, ok1 := v.project(b)
		if !ok0 || !ok1 {
			st.Culled++
			continue
		}
		mid := a.Add(b).Scale(0.5)
		n := mid.Sub(center).Normalize()
		c := mat.Color.Mul(ambient).Add(mat.SelfLight())
		for _, l := range lights {
			c = c.Add(mat.Color.Mul(l.Illuminate(mid, n)))
		}
		r.backend.Line(x0, y0, x1, y1, edgeWidth, Paint{
			Color: v.shade(c, (d0+d1)/2),
			Alpha: alpha,
			Blend: scene.NormalBlending,
		})
		st.Lines++
	}
}

package scene

import "github.com/san-kum/cosmos/internal/resource"

// Transform is the per-object mutable state.
type Transform struct {
	Position Vec3
	Rotation Euler
	Scale    Vec3
}

func NewTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

// Matrix returns the local-to-world matrix.
func (t *Transform) Matrix() Mat4 {
	return Compose(t.Position, t.Rotation, t.Scale)
}

// SetScale sets a uniform scale.
func (t *Transform) SetScale(s float64) { t.Scale = Vec3{s, s, s} }

// Object is a renderable node of a Scene.
type Object interface {
	Name() string
	Transform() *Transform
}

// Points is a point cloud drawn in one batch.
type Points struct {
	name      string
	transform Transform
	Geometry  *resource.Handle[*PointGeometry]
	Material  *resource.Handle[*PointsMaterial]
}

func NewPoints(name string, geo *resource.Handle[*PointGeometry], mat *resource.Handle[*PointsMaterial]) *Points {
	return &Points{name: name, transform: NewTransform(), Geometry: geo, Material: mat}
}

func (p *Points) Name() string          { return p.name }
func (p *Points) Transform() *Transform { return &p.transform }

// Mesh is a triangle mesh instance. Geometry and material handles may be
// shared with other meshes; the transform never is.
type Mesh struct {
	name      string
	transform Transform
	Geometry  *resource.Handle[*MeshGeometry]
	Material  *resource.Handle[*PhysicalMaterial]
}

func NewMesh(name string, geo *resource.Handle[*MeshGeometry], mat *resource.Handle[*PhysicalMaterial]) *Mesh {
	return &Mesh{name: name, transform: NewTransform(), Geometry: geo, Material: mat}
}

func (m *Mesh) Name() string          { return m.name }
func (m *Mesh) Transform() *Transform { return &m.transform }

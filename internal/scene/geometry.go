package scene

import (
	"github.com/chewxy/math32"
)

// PointGeometry is a packed xyz float32 position buffer.
type PointGeometry struct {
	Positions []float32
	disposed  bool
}

// NewPointGeometry takes ownership of positions, which must hold 3 floats per point.
func NewPointGeometry(positions []float32) *PointGeometry {
	return &PointGeometry{Positions: positions}
}

func (g *PointGeometry) Count() int { return len(g.Positions) / 3 }

func (g *PointGeometry) At(i int) Vec3 {
	p := g.Positions[i*3 : i*3+3]
	return Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

// Dispose drops the buffer. Further reads panic.
func (g *PointGeometry) Dispose() {
	g.Positions = nil
	g.disposed = true
}

func (g *PointGeometry) Disposed() bool { return g.disposed }

// MeshGeometry is an indexed triangle mesh with a precomputed unique edge
// list for wireframe drawing.
type MeshGeometry struct {
	Vertices []float32 // xyz per vertex
	Normals  []float32 // xyz per vertex
	Indices  []uint16  // triangle list
	Edges    [][2]uint16
	disposed bool
}

func (g *MeshGeometry) VertexCount() int { return len(g.Vertices) / 3 }
func (g *MeshGeometry) FaceCount() int   { return len(g.Indices) / 3 }

func (g *MeshGeometry) Vertex(i int) Vec3 {
	p := g.Vertices[i*3 : i*3+3]
	return Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

func (g *MeshGeometry) Normal(i int) Vec3 {
	n := g.Normals[i*3 : i*3+3]
	return Vec3{float64(n[0]), float64(n[1]), float64(n[2])}
}

func (g *MeshGeometry) Dispose() {
	g.Vertices, g.Normals, g.Indices, g.Edges = nil, nil, nil, nil
	g.disposed = true
}

func (g *MeshGeometry) Disposed() bool { return g.disposed }

var icosahedronFaces = []uint16{
	0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
	1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
	3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
	4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
}

// NewIcosahedron builds an undivided icosahedron (12 vertices, 20 faces,
// 30 edges) with every vertex at the given radius.
func NewIcosahedron(radius float32) *MeshGeometry {
	t := (1 + math32.Sqrt(5)) / 2
	raw := []float32{
		-1, t, 0, 1, t, 0, -1, -t, 0, 1, -t, 0,
		0, -1, t, 0, 1, t, 0, -1, -t, 0, 1, -t,
		t, 0, -1, t, 0, 1, -t, 0, -1, -t, 0, 1,
	}
	g := &MeshGeometry{
		Vertices: make([]float32, len(raw)),
		Normals:  make([]float32, len(raw)),
		Indices:  append([]uint16(nil), icosahedronFaces...),
	}
	for i := 0; i < len(raw); i += 3 {
		x, y, z := raw[i], raw[i+1], raw[i+2]
		l := math32.Sqrt(x*x + y*y + z*z)
		g.Normals[i], g.Normals[i+1], g.Normals[i+2] = x/l, y/l, z/l
		g.Vertices[i], g.Vertices[i+1], g.Vertices[i+2] = x/l*radius, y/l*radius, z/l*radius
	}
	g.Edges = uniqueEdges(g.Indices)
	return g
}

func uniqueEdges(indices []uint16) [][2]uint16 {
	seen := make(map[[2]uint16]bool)
	edges := make([][2]uint16, 0, len(indices))
	for f := 0; f+2 < len(indices); f += 3 {
		tri := [3]uint16{indices[f], indices[f+1], indices[f+2]}
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			e := [2]uint16{a, b}
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}
	return edges
}

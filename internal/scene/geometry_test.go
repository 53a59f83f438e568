package scene

import (
	"math"
	"testing"
)

func TestIcosahedron(t *testing.T) {
	g := NewIcosahedron(1)

	if g.VertexCount() != 12 {
		t.Errorf("expected 12 vertices, got %d", g.VertexCount())
	}
	if g.FaceCount() != 20 {
		t.Errorf("expected 20 faces, got %d", g.FaceCount())
	}
	if len(g.Edges) != 30 {
		t.Errorf("expected 30 edges, got %d", len(g.Edges))
	}
	for i := 0; i < g.VertexCount(); i++ {
		if l := g.Vertex(i).Length(); math.Abs(l-1) > 1e-6 {
			t.Errorf("vertex %d not on unit sphere: %f", i, l)
		}
		if g.Normal(i).Sub(g.Vertex(i)).Length() > 1e-6 {
			t.Errorf("vertex %d normal should be radial", i)
		}
	}
}

func TestPointGeometryDispose(t *testing.T) {
	g := NewPointGeometry([]float32{1, 2, 3, 4, 5, 6})
	if g.Count() != 2 {
		t.Fatalf("expected 2 points, got %d", g.Count())
	}
	if g.At(1) != (Vec3{4, 5, 6}) {
		t.Errorf("unexpected point %+v", g.At(1))
	}
	g.Dispose()
	if !g.Disposed() || g.Count() != 0 {
		t.Error("dispose should drop the buffer")
	}
}

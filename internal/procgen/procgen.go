// Package procgen places the starfield and floating solids of a surface.
//
// Placement is random on every mount. The random source is injectable so
// tests can use a seeded generator and assert ranges and counts.
package procgen

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/cosmos/internal/resource"
	"github.com/san-kum/cosmos/internal/scene"
)

// Rand is the subset of *rand.Rand the generator uses.
type Rand interface {
	Float64() float64
}

// StarStyle describes the shared star material.
type StarStyle struct {
	Color   scene.Color
	Size    float64
	Opacity float64
}

// SolidStyle describes the shared solid geometry and material.
type SolidStyle struct {
	Radius            float32
	Color             scene.Color
	Emissive          scene.Color
	EmissiveIntensity float64
	Metalness         float64
	Roughness         float64
	Opacity           float64
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min, Max scene.Vec3
}

// Placement bounds the random per-solid transform.
type Placement struct {
	Box      Bounds
	MaxAngle float64
	MinScale float64
	MaxScale float64
}

func DefaultStarStyle() StarStyle {
	return StarStyle{Color: scene.Hex(0xffffff), Size: 0.015, Opacity: 0.8}
}

func DefaultSolidStyle() SolidStyle {
	return SolidStyle{
		Radius:            1,
		Color:             scene.Hex(0x220033),
		Emissive:          scene.Hex(0x4b0082),
		EmissiveIntensity: 0.2,
		Metalness:         0.9,
		Roughness:         0.1,
		Opacity:           0.5,
	}
}

func DefaultPlacement() Placement {
	return Placement{
		Box: Bounds{
			Min: scene.Vec3{X: -7.5, Y: -7.5, Z: -7},
			Max: scene.Vec3{X: 7.5, Y: 7.5, Z: 3},
		},
		MaxAngle: math.Pi,
		MinScale: 0.2,
		MaxScale: 1.0,
	}
}

// Generator produces scene content backed by handles tracked in one arena.
type Generator struct {
	rnd   Rand
	arena *resource.Arena
}

// New returns a generator. A nil rnd selects a time-seeded source.
func New(rnd Rand, arena *resource.Arena) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rnd: rnd, arena: arena}
}

// uniform draws from [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}

// StarPositions draws 3*count independent samples in [-spread/2, spread/2).
func (g *Generator) StarPositions(count int, spread float64) []float32 {
	pos := make([]float32, count*3)
	for i := range pos {
		pos[i] = float32((g.rnd.Float64() - 0.5) * spread)
	}
	return pos
}

// GenerateStars builds the starfield as a single point-cloud renderable.
func (g *Generator) GenerateStars(count int, spread float64, style StarStyle) (*scene.Points, error) {
	if count <= 0 {
		return nil, fmt.Errorf("procgen: star count must be positive, got %d", count)
	}
	if spread <= 0 {
		return nil, fmt.Errorf("procgen: star spread must be positive, got %f", spread)
	}
	geo := resource.Track(g.arena, "star-geometry",
		scene.NewPointGeometry(g.StarPositions(count, spread)),
		(*scene.PointGeometry).Dispose)
	mat := resource.Track(g.arena, "star-material", &scene.PointsMaterial{
		Color:           style.Color,
		Size:            style.Size,
		SizeAttenuation: true,
		Opacity:         style.Opacity,
		Transparent:     true,
		Blending:        scene.AdditiveBlending,
	}, (*scene.PointsMaterial).Dispose)
	return scene.NewPoints("stars", geo, mat), nil
}

// GenerateFloatingSolids builds n meshes that share one geometry and one
// material. Each mesh holds its own reference to both handles.
func (g *Generator) GenerateFloatingSolids(n int, style SolidStyle, place Placement) ([]*scene.Mesh, error) {
	if n <= 0 {
		return nil, fmt.Errorf("procgen: solid count must be positive, got %d", n)
	}
	geo := resource.Track(g.arena, "solid-geometry", scene.NewIcosahedron(style.Radius),
		(*scene.MeshGeometry).Dispose)
	mat := resource.Track(g.arena, "solid-material", &scene.PhysicalMaterial{
		Color:             style.Color,
		Emissive:          style.Emissive,
		EmissiveIntensity: style.EmissiveIntensity,
		Metalness:         style.Metalness,
		Roughness:         style.Roughness,
		Opacity:           style.Opacity,
		Wireframe:         true,
		Transparent:       true,
	}, (*scene.PhysicalMaterial).Dispose)

	solids := make([]*scene.Mesh, n)
	for i := range solids {
		// The creating reference is handed to the first solid.
		gh, mh := geo, mat
		if i > 0 {
			var err error
			if gh, err = geo.Retain(); err != nil {
				return nil, err
			}
			if mh, err = mat.Retain(); err != nil {
				return nil, err
			}
		}
		m := scene.NewMesh(fmt.Sprintf("solid-%d", i), gh, mh)
		tr := m.Transform()
		tr.Position = scene.Vec3{
			X: g.uniform(place.Box.Min.X, place.Box.Max.X),
			Y: g.uniform(place.Box.Min.Y, place.Box.Max.Y),
			Z: g.uniform(place.Box.Min.Z, place.Box.Max.Z),
		}
		tr.Rotation = scene.Euler{
			X: g.uniform(0, place.MaxAngle),
			Y: g.uniform(0, place.MaxAngle),
			Z: g.uniform(0, place.MaxAngle),
		}
		tr.SetScale(g.uniform(place.MinScale, place.MaxScale))
		solids[i] = m
	}
	return solids, nil
}

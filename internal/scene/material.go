package scene

type Blending uint8

const (
	NormalBlending Blending = iota
	AdditiveBlending
)

func (b Blending) String() string {
	if b == AdditiveBlending {
		return "additive"
	}
	return "normal"
}

// PointsMaterial shades a point cloud with a single colour.
type PointsMaterial struct {
	Color           Color
	Size            float64 // world units when SizeAttenuation is set, else pixels
	SizeAttenuation bool
	Opacity         float64
	Transparent     bool
	Blending        Blending
	disposed        bool
}

func (m *PointsMaterial) Dispose()       { m.disposed = true }
func (m *PointsMaterial) Disposed() bool { return m.disposed }

// PhysicalMaterial is a metal/roughness surface description. The software
// pipeline uses Color, Emissive, Opacity and Wireframe.
type PhysicalMaterial struct {
	Color             Color
	Emissive          Color
	EmissiveIntensity float64
	Metalness         float64
	Roughness         float64
	Opacity           float64
	Wireframe         bool
	Transparent       bool
	disposed          bool
}

// SelfLight is the emissive term added regardless of scene lights.
func (m *PhysicalMaterial) SelfLight() Color {
	return m.Emissive.Scale(m.EmissiveIntensity)
}

func (m *PhysicalMaterial) Dispose()       { m.disposed = true }
func (m *PhysicalMaterial) Disposed() bool { return m.disposed }

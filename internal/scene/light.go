package scene

import "math"

// Light is implemented by the light types a Scene accepts.
type Light interface {
	LightName() string
}

// AmbientLight lights every surface uniformly.
type AmbientLight struct {
	Name      string
	Color     Color
	Intensity float64
}

func (l *AmbientLight) LightName() string { return l.Name }

// Radiance is the light's contribution before any surface term.
func (l *AmbientLight) Radiance() Color { return l.Color.Scale(l.Intensity) }

// PointLight is an omnidirectional light with inverse-power decay and a hard
// cut-off at Distance (0 means unbounded).
type PointLight struct {
	Name      string
	Color     Color
	Intensity float64
	Distance  float64
	Decay     float64
	Position  Vec3
}

func (l *PointLight) LightName() string { return l.Name }

// Falloff returns the attenuation at distance d from the light.
func (l *PointLight) Falloff(d float64) float64 {
	f := 1 / math.Max(math.Pow(d, l.Decay), 0.01)
	if l.Distance > 0 {
		r := d / l.Distance
		w := clamp01(1 - r*r*r*r)
		f *= w * w
	}
	return f
}

// Illuminate returns the Lambert contribution at point p with normal n.
func (l *PointLight) Illuminate(p, n Vec3) Color {
	toLight := l.Position.Sub(p)
	d := toLight.Length()
	if d == 0 {
		return l.Color.Scale(l.Intensity)
	}
	ndotl := n.Dot(toLight.Scale(1 / d))
	if ndotl <= 0 {
		return Color{}
	}
	return l.Color.Scale(l.Intensity * ndotl * l.Falloff(d))
}

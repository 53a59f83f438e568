package scene

import "math"

// FogExp2 is exponential-squared fog: the fog weight at depth d is
// 1 - exp(-(density*d)^2).
type FogExp2 struct {
	Color   Color
	Density float64
}

// Factor returns the fog weight in [0, 1] at the given view depth.
func (f FogExp2) Factor(depth float64) float64 {
	if f.Density <= 0 || depth <= 0 {
		return 0
	}
	dd := f.Density * depth
	return clamp01(1 - math.Exp(-dd*dd))
}

// Apply blends c toward the fog colour for the given depth.
func (f FogExp2) Apply(c Color, depth float64) Color {
	return c.Lerp(f.Color, f.Factor(depth))
}

package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a linear RGB triple with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Hex converts 0xRRGGBB to a Color.
func Hex(v uint32) Color {
	return Color{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
	}
}

// ParseHex accepts "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("scene: invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("scene: invalid colour %q: %w", s, err)
	}
	return Hex(uint32(v)), nil
}

func (c Color) Add(o Color) Color     { return Color{c.R + o.R, c.G + o.G, c.B + o.B} }
func (c Color) Mul(o Color) Color     { return Color{c.R * o.R, c.G * o.G, c.B * o.B} }
func (c Color) Scale(s float64) Color { return Color{c.R * s, c.G * s, c.B * s} }
func (c Color) Lerp(o Color, t float64) Color {
	return Color{c.R + (o.R-c.R)*t, c.G + (o.G-c.G)*t, c.B + (o.B-c.B)*t}
}

// Clamp limits every component to [0, 1].
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

func (c Color) String() string {
	c = c.Clamp()
	return fmt.Sprintf("#%02x%02x%02x", uint8(c.R*255+0.5), uint8(c.G*255+0.5), uint8(c.B*255+0.5))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

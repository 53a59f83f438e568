package render

import (
	"errors"

	"github.com/san-kum/cosmos/internal/scene"
)

// ErrContextCreation is returned when no drawing context is available.
var ErrContextCreation = errors.New("render: drawing context unavailable")

// Paint describes how a primitive is composited.
type Paint struct {
	Color scene.Color
	Alpha float64
	Blend scene.Blending
}

// Backend rasterises primitives in drawing-buffer pixels.
type Backend interface {
	Resize(width, height int) error
	Bounds() (width, height int)
	Clear(c scene.Color)
	Point(x, y, radius float64, p Paint)
	Line(x0, y0, x1, y1, width float64, p Paint)
	Present() error
	Close() error
}

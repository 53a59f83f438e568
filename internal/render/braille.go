package render

import (
	"math"
	"strings"

	"github.com/san-kum/cosmos/internal/scene"
)

// Braille dots within a cell:
// 1 4
// 2 5
// 3 6
// 7 8
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Braille renders into a grid of braille cells, 2x4 dots each. Every cell
// keeps the brightest colour drawn into it.
type Braille struct {
	cols, rows int
	grid       [][]rune
	tint       [][]scene.Color
	glow       [][]float64
	closed     bool
}

// NewBraille returns a canvas of cols x rows terminal cells.
func NewBraille(cols, rows int) *Braille {
	b := &Braille{}
	b.alloc(cols, rows)
	return b
}

func (b *Braille) alloc(cols, rows int) {
	b.cols, b.rows = cols, rows
	b.grid = make([][]rune, rows)
	b.tint = make([][]scene.Color, rows)
	b.glow = make([][]float64, rows)
	for i := range b.grid {
		b.grid[i] = make([]rune, cols)
		b.tint[i] = make([]scene.Color, cols)
		b.glow[i] = make([]float64, cols)
	}
	b.Clear(scene.Color{})
}

// Resize takes a size in dots and rounds up to whole cells.
func (b *Braille) Resize(width, height int) error {
	cols := (width + 1) / 2
	rows := (height + 3) / 4
	if cols == b.cols && rows == b.rows {
		return nil
	}
	b.alloc(cols, rows)
	return nil
}

// Bounds is the size in dots.
func (b *Braille) Bounds() (int, int) { return b.cols * 2, b.rows * 4 }

// Cells is the size in terminal cells.
func (b *Braille) Cells() (int, int) { return b.cols, b.rows }

func (b *Braille) Clear(scene.Color) {
	for i := range b.grid {
		for j := range b.grid[i] {
			b.grid[i][j] = brailleBlank
			b.tint[i][j] = scene.Color{}
			b.glow[i][j] = 0
		}
	}
}

func (b *Braille) set(x, y int, c scene.Color, alpha float64) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= b.cols || row >= b.rows {
		return
	}
	b.grid[row][col] |= dotBits[y%4][x%2]
	if l := luminance(c) * alpha; l >= b.glow[row][col] {
		b.glow[row][col] = l
		b.tint[row][col] = c
	}
}

func (b *Braille) Point(x, y, _ float64, p Paint) {
	b.set(int(math.Floor(x)), int(math.Floor(y)), p.Color, p.Alpha)
}

// Line uses Bresenham over dot coordinates.
func (b *Braille) Line(fx0, fy0, fx1, fy1, _ float64, p Paint) {
	x0, y0 := int(math.Floor(fx0)), int(math.Floor(fy0))
	x1, y1 := int(math.Floor(fx1)), int(math.Floor(fy1))
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		b.set(x0, y0, p.Color, p.Alpha)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (b *Braille) Present() error { return nil }

func (b *Braille) Close() error {
	b.closed = true
	return nil
}

// Cell returns the glyph and colour of one terminal cell.
func (b *Braille) Cell(col, row int) (rune, scene.Color) {
	return b.grid[row][col], b.tint[row][col]
}

func (b *Braille) String() string {
	var sb strings.Builder
	for _, row := range b.grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func luminance(c scene.Color) float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

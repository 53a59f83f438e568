package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/scene"
)

// SVG is a render.Backend that records each frame as an SVG document.
// Present freezes the frame being drawn; Document returns the last
// presented one.
type SVG struct {
	width, height int
	bg            scene.Color
	body          strings.Builder
	doc           string
	elements      int
	closed        bool
}

func NewSVG(width, height int) (*SVG, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: svg %dx%d", render.ErrContextCreation, width, height)
	}
	return &SVG{width: width, height: height}, nil
}

func (s *SVG) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("export: invalid svg size %dx%d", width, height)
	}
	s.width, s.height = width, height
	return nil
}

func (s *SVG) Bounds() (int, int) { return s.width, s.height }

func (s *SVG) Clear(c scene.Color) {
	s.bg = c
	s.body.Reset()
	s.elements = 0
}

func (s *SVG) Point(x, y, radius float64, p render.Paint) {
	blend := ""
	if p.Blend == scene.AdditiveBlending {
		blend = ` style="mix-blend-mode:plus-lighter"`
	}
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3f"%s/>`+"\n",
		x, y, radius, p.Color, p.Alpha, blend)
	s.elements++
}

func (s *SVG) Line(x0, y0, x1, y1, width float64, p render.Paint) {
	fmt.Fprintf(&s.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f"/>`+"\n",
		x0, y0, x1, y1, p.Color, p.Alpha, width)
	s.elements++
}

func (s *SVG) Present() error {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.width, s.height, s.width, s.height, s.bg)
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	s.doc = sb.String()
	return nil
}

func (s *SVG) Close() error {
	s.closed = true
	s.body.Reset()
	return nil
}

// Elements is the number of primitives in the frame being drawn.
func (s *SVG) Elements() int { return s.elements }

// Document returns the last presented frame, or "" before the first.
func (s *SVG) Document() string { return s.doc }

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.doc)
	return int64(n), err
}

// BrailleToSVG draws a braille canvas as dots, each cell in its own colour.
func BrailleToSVG(b *render.Braille, scale float64, bg scene.Color) string {
	if b == nil {
		return ""
	}
	cols, rows := b.Cells()
	width := float64(cols) * scale * 2
	height := float64(rows) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg)

	dots := [4][2]rune{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			r, c := b.Cell(col, row)
			pattern := r - 0x2800
			if pattern <= 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			fmt.Fprintf(&sb, `<g fill="%s">`, c)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dots[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`, cx, cy, dotRadius)
					}
				}
			}
			sb.WriteString("</g>\n")
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

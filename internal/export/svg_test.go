package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/scene"
)

func TestNewSVGRejectsEmpty(t *testing.T) {
	if _, err := NewSVG(0, 10); !errors.Is(err, render.ErrContextCreation) {
		t.Errorf("expected ErrContextCreation, got %v", err)
	}
}

func TestSVGFrame(t *testing.T) {
	s, err := NewSVG(320, 200)
	if err != nil {
		t.Fatal(err)
	}
	if s.Document() != "" {
		t.Error("document before first present should be empty")
	}

	s.Clear(scene.Hex(0x050505))
	s.Point(10, 20, 1.5, render.Paint{Color: scene.Hex(0xffffff), Alpha: 0.8, Blend: scene.AdditiveBlending})
	s.Line(0, 0, 5, 5, 1, render.Paint{Color: scene.Hex(0x220033), Alpha: 0.5})
	if err := s.Present(); err != nil {
		t.Fatal(err)
	}

	doc := s.Document()
	for _, want := range []string{
		`width="320" height="200"`,
		`fill="#050505"`,
		`<circle cx="10.00" cy="20.00" r="1.50" fill="#ffffff" fill-opacity="0.800" style="mix-blend-mode:plus-lighter"/>`,
		`stroke="#220033" stroke-opacity="0.500"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if s.Elements() != 2 {
		t.Errorf("expected 2 elements, got %d", s.Elements())
	}

	s.Clear(scene.Hex(0x000000))
	if s.Document() != doc {
		t.Error("clear must not touch the presented document")
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != doc {
		t.Error("WriteTo wrote a different document")
	}
}

func TestSVGThroughRenderer(t *testing.T) {
	s, _ := NewSVG(800, 600)
	r, err := render.New(s)
	if err != nil {
		t.Fatal(err)
	}
	sc := scene.New(800, 600, scene.DefaultSettings())
	if err := r.Render(sc); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(s.Document(), "</svg>\n") {
		t.Error("renderer did not present a complete document")
	}
}

func TestBrailleToSVG(t *testing.T) {
	if BrailleToSVG(nil, 4, scene.Color{}) != "" {
		t.Error("nil canvas should produce empty output")
	}
	b := render.NewBraille(2, 1)
	b.Point(0, 0, 1, render.Paint{Color: scene.Hex(0xa855f7), Alpha: 1})
	b.Point(1, 3, 1, render.Paint{Color: scene.Hex(0xa855f7), Alpha: 1})

	svg := BrailleToSVG(b, 4, scene.Hex(0x050505))
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
	if !strings.Contains(svg, `<g fill="#a855f7">`) {
		t.Error("cell colour missing")
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Error("unexpected svg size")
	}
}

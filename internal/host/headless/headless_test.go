package headless

import (
	"errors"
	"testing"
	"time"

	"github.com/san-kum/cosmos/internal/export"
	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/scene"
	"github.com/san-kum/cosmos/internal/surface"
	"github.com/san-kum/cosmos/internal/viewport"
)

func TestMountRunUnmount(t *testing.T) {
	h := New(160, 120, 1, nil)
	s, err := surface.Mount(h)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if h.Drawable() == nil {
		t.Fatal("drawable not attached")
	}
	if got := h.Run(5); got != 5 {
		t.Errorf("ran %d frames, want 5", got)
	}
	if s.Renderer().Frames() != 5 {
		t.Errorf("rendered %d frames", s.Renderer().Frames())
	}
	if !h.Now().Equal(time.Unix(0, 0).Add(5 * (time.Second / 60))) {
		t.Errorf("clock = %v", h.Now())
	}

	raster, ok := h.Drawable().(*render.Raster)
	if !ok {
		t.Fatalf("drawable is %T", h.Drawable())
	}
	bg := raster.At(0, 0)
	if bg == (scene.Color{}) {
		t.Error("background not cleared to the scene colour")
	}

	if err := s.Unmount(); err != nil {
		t.Fatal(err)
	}
	if h.Drawable() != nil {
		t.Error("drawable still attached after unmount")
	}
	if h.Run(3) != 0 {
		t.Error("frames ran after unmount")
	}
}

func TestResize(t *testing.T) {
	h := New(160, 120, 1, nil)
	s, err := surface.Mount(h)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Unmount()

	h.Resize(320, 180, 3)
	w, hh := h.Drawable().Bounds()
	if w != 640 || hh != 360 {
		t.Errorf("buffer = %dx%d, want 640x360", w, hh)
	}
	if h.Viewport() != (viewport.Size{Width: 320, Height: 180, PixelRatio: 3}) {
		t.Errorf("viewport = %v", h.Viewport())
	}
}

func TestSVGFactory(t *testing.T) {
	h := New(100, 50, 1, func(w, hh int) (render.Backend, error) { return export.NewSVG(w, hh) })
	s, err := surface.Mount(h)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Unmount()
	h.Step()
	if doc := h.Drawable().(*export.SVG).Document(); doc == "" {
		t.Error("no svg frame presented")
	}
}

func TestContextFailure(t *testing.T) {
	h := New(0, 0, 1, nil)
	_, err := surface.Mount(h)
	if !errors.Is(err, render.ErrContextCreation) {
		t.Errorf("expected ErrContextCreation, got %v", err)
	}
	if h.Pending() != 0 {
		t.Error("frame requested after failed mount")
	}
}

func TestSecondAttachFails(t *testing.T) {
	h := New(10, 10, 1, nil)
	b, _ := h.NewContext()
	if err := h.Attach(b); err != nil {
		t.Fatal(err)
	}
	if err := h.Attach(b); err == nil {
		t.Error("expected error")
	}
	h.Detach(b)
	if h.Drawable() != nil {
		t.Error("detach failed")
	}
}

package metrics

import (
	"math"
	"testing"
	"time"
)

func TestFrameRate(t *testing.T) {
	m := NewFrameRate()
	if m.Value() != 0 {
		t.Error("expected zero before samples")
	}
	for i := 0; i < 10; i++ {
		m.Observe(20 * time.Millisecond)
	}
	if math.Abs(m.Value()-50) > 1e-9 {
		t.Errorf("expected 50 fps, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestBudget(t *testing.T) {
	m := NewBudget(60)
	m.Observe(10 * time.Millisecond)
	m.Observe(20 * time.Millisecond)
	m.Observe(16 * time.Millisecond)
	m.Observe(40 * time.Millisecond)
	if m.Value() != 0.5 {
		t.Errorf("expected half the frames over budget, got %f", m.Value())
	}
}

func TestJitter(t *testing.T) {
	tests := []struct {
		name   string
		frames []time.Duration
		want   float64
	}{
		{"steady", []time.Duration{16 * time.Millisecond, 16 * time.Millisecond, 16 * time.Millisecond}, 0},
		{"alternating", []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, 5},
		{"single", []time.Duration{30 * time.Millisecond}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewJitter()
			for _, f := range tt.frames {
				m.Observe(f)
			}
			if math.Abs(m.Value()-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, m.Value())
			}
		})
	}
}

func TestSet(t *testing.T) {
	rec := &Recorder{}
	s := Set{NewFrameRate(), NewBudget(60), rec}
	s.Observe(10 * time.Millisecond)
	s.Observe(30 * time.Millisecond)

	v := s.Values()
	if math.Abs(v["fps"]-50) > 1e-9 {
		t.Errorf("fps = %f", v["fps"])
	}
	if v["over_budget"] != 0.5 {
		t.Errorf("over_budget = %f", v["over_budget"])
	}
	if v["frames"] != 30 {
		t.Errorf("worst frame = %f", v["frames"])
	}
	if len(rec.Samples()) != 2 {
		t.Errorf("expected 2 samples, got %d", len(rec.Samples()))
	}

	s.Reset()
	if len(rec.Samples()) != 0 || s.Values()["fps"] != 0 {
		t.Error("reset did not clear metrics")
	}
}

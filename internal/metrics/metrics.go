package metrics

import (
	"math"
	"time"
)

// Metric folds a stream of frame durations into one number.
type Metric interface {
	Name() string
	Observe(frame time.Duration)
	Value() float64
	Reset()
}

// FrameRate is the mean frames per second.
type FrameRate struct {
	name    string
	total   time.Duration
	samples int
}

func NewFrameRate() *FrameRate {
	return &FrameRate{name: "fps"}
}

func (f *FrameRate) Name() string { return f.name }

func (f *FrameRate) Observe(d time.Duration) {
	f.total += d
	f.samples++
}

func (f *FrameRate) Value() float64 {
	if f.samples == 0 || f.total <= 0 {
		return 0
	}
	return float64(f.samples) / f.total.Seconds()
}

func (f *FrameRate) Reset() {
	f.total = 0
	f.samples = 0
}

// Budget is the fraction of frames that took longer than the budget.
type Budget struct {
	name    string
	budget  time.Duration
	over    int
	samples int
}

// NewBudget returns a budget metric for the given tick rate.
func NewBudget(tps int) *Budget {
	if tps <= 0 {
		tps = 60
	}
	return &Budget{name: "over_budget", budget: time.Second / time.Duration(tps)}
}

func (b *Budget) Name() string { return b.name }

func (b *Budget) Observe(d time.Duration) {
	if d > b.budget {
		b.over++
	}
	b.samples++
}

func (b *Budget) Value() float64 {
	if b.samples == 0 {
		return 0
	}
	return float64(b.over) / float64(b.samples)
}

func (b *Budget) Reset() {
	b.over = 0
	b.samples = 0
}

// Jitter is the standard deviation of frame time in milliseconds.
type Jitter struct {
	name    string
	mean    float64
	m2      float64
	samples int
}

func NewJitter() *Jitter {
	return &Jitter{name: "jitter_ms"}
}

func (j *Jitter) Name() string { return j.name }

func (j *Jitter) Observe(d time.Duration) {
	ms := float64(d) / float64(time.Millisecond)
	j.samples++
	delta := ms - j.mean
	j.mean += delta / float64(j.samples)
	j.m2 += delta * (ms - j.mean)
}

func (j *Jitter) Value() float64 {
	if j.samples < 2 {
		return 0
	}
	return math.Sqrt(j.m2 / float64(j.samples))
}

func (j *Jitter) Reset() {
	j.mean, j.m2, j.samples = 0, 0, 0
}

// Recorder keeps every frame time in milliseconds for plotting.
type Recorder struct {
	samples []float64
}

func (r *Recorder) Name() string { return "frames" }

func (r *Recorder) Observe(d time.Duration) {
	r.samples = append(r.samples, float64(d)/float64(time.Millisecond))
}

// Value returns the worst frame time in milliseconds.
func (r *Recorder) Value() float64 {
	worst := 0.0
	for _, s := range r.samples {
		worst = math.Max(worst, s)
	}
	return worst
}

func (r *Recorder) Reset() { r.samples = r.samples[:0] }

func (r *Recorder) Samples() []float64 { return r.samples }

// Set fans one observation out to several metrics.
type Set []Metric

func (s Set) Observe(d time.Duration) {
	for _, m := range s {
		m.Observe(d)
	}
}

// Values returns each metric's value keyed by name.
func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

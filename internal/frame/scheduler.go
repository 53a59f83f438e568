package frame

import (
	"sync"
	"time"
)

type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Scheduler runs step once per frame until cancelled.
type Scheduler struct {
	pacer Pacer
	step  Callback

	mu      sync.Mutex
	state   State
	epoch   uint64
	pending RequestID
	frames  uint64
}

func NewScheduler(p Pacer, step Callback) *Scheduler {
	return &Scheduler{pacer: p, step: step}
}

// Start moves the scheduler to Running and requests the first frame.
// Calling Start while running does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running {
		return
	}
	s.state = Running
	s.epoch++
	s.arm(s.epoch)
}

// Cancel stops the scheduler and withdraws the pending request. It is safe
// to call from inside step and while stopped.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	if s.state == Stopped {
		s.mu.Unlock()
		return
	}
	s.state = Stopped
	s.epoch++
	id := s.pending
	s.pending = 0
	s.mu.Unlock()

	if id != 0 {
		s.pacer.CancelFrame(id)
	}
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Frames returns the number of step invocations so far.
func (s *Scheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// arm must be called with mu held.
func (s *Scheduler) arm(epoch uint64) {
	s.pending = s.pacer.RequestFrame(func(now time.Time) {
		s.tick(epoch, now)
	})
}

func (s *Scheduler) tick(epoch uint64, now time.Time) {
	s.mu.Lock()
	if s.state != Running || s.epoch != epoch {
		s.mu.Unlock()
		return
	}
	s.pending = 0
	s.frames++
	s.mu.Unlock()

	s.step(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running && s.epoch == epoch {
		s.arm(epoch)
	}
}

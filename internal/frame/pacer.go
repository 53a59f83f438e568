package frame

import (
	"sync"
	"time"
)

// RequestID identifies a pending frame request. Zero is never issued.
type RequestID uint64

// Callback receives the frame timestamp.
type Callback func(now time.Time)

// Pacer is the host's frame-pacing facility.
type Pacer interface {
	// RequestFrame schedules cb for the next frame. It must not call cb
	// before returning.
	RequestFrame(cb Callback) RequestID
	// CancelFrame withdraws a request. Unknown ids are ignored.
	CancelFrame(id RequestID)
}

type request struct {
	id RequestID
	cb Callback
}

// ManualPacer queues requests until Advance is called. Hosts call Advance
// once per display refresh; tests call it directly.
type ManualPacer struct {
	mu     sync.Mutex
	next   RequestID
	queue  []request
	fired  uint64
	ignore bool
}

func NewManualPacer() *ManualPacer {
	return &ManualPacer{}
}

func (p *ManualPacer) RequestFrame(cb Callback) RequestID {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	p.queue = append(p.queue, request{id: p.next, cb: cb})
	return p.next
}

func (p *ManualPacer) CancelFrame(id RequestID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ignore {
		return
	}
	for i, r := range p.queue {
		if r.id == id {
			p.queue = append(p.queue[:i], p.queue[i+1:]...)
			return
		}
	}
}

// IgnoreCancel makes CancelFrame a no-op, modelling a host that delivers a
// callback it had already dispatched.
func (p *ManualPacer) IgnoreCancel(v bool) {
	p.mu.Lock()
	p.ignore = v
	p.mu.Unlock()
}

// Pending returns the number of queued requests.
func (p *ManualPacer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Fired returns the total number of callbacks delivered.
func (p *ManualPacer) Fired() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fired
}

// Advance runs every callback queued before the call. Callbacks requested
// while the batch runs wait for the next Advance. It returns the number of
// callbacks run.
func (p *ManualPacer) Advance(now time.Time) int {
	p.mu.Lock()
	batch := p.queue
	p.queue = nil
	p.fired += uint64(len(batch))
	p.mu.Unlock()

	for _, r := range batch {
		r.cb(now)
	}
	return len(batch)
}

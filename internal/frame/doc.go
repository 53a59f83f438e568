// Package frame drives per-frame work from a host frame-pacing facility.
//
// A [Pacer] hands out one callback per display refresh. The [Scheduler]
// keeps exactly one request outstanding while running and re-arms itself
// after every invocation, so it never runs faster than the pacer and never
// busy-loops.
//
// Cancellation is synchronous: [Scheduler.Cancel] withdraws the pending
// request and invalidates the epoch token captured by every callback the
// scheduler has handed out, so a callback the pacer still delivers after
// Cancel returns does nothing.
//
//	sched := frame.NewScheduler(pacer, func(now time.Time) {
//		animator.Step(now)
//		renderer.Render(sc)
//	})
//	sched.Start()
//	defer sched.Cancel()
package frame

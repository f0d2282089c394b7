package scheduler

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer fires fn on the loop after a delay, once or periodically. Start,
// Stop and Active must be called from the loop. A stopped timer never fires
// again, even if its expiry was already queued.
type Timer struct {
	loop     *Loop
	clock    clockwork.Clock
	periodic bool
	fn       func()

	mu         sync.Mutex
	generation uint64
	pending    clockwork.Timer
	active     bool
}

func NewTimer(loop *Loop, clock clockwork.Clock, periodic bool, fn func()) *Timer {
	return &Timer{loop: loop, clock: clock, periodic: periodic, fn: fn}
}

// Start (re)arms the timer. A running timer is restarted.
func (t *Timer) Start(d time.Duration) {
	t.Stop()
	t.mu.Lock()
	t.active = true
	gen := t.generation
	t.mu.Unlock()
	t.arm(gen, d)
}

func (t *Timer) arm(gen uint64, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return
	}
	t.pending = t.clock.AfterFunc(d, func() {
		t.loop.Post(func() { t.fire(gen, d) })
	})
}

func (t *Timer) fire(gen uint64, d time.Duration) {
	t.mu.Lock()
	if gen != t.generation || !t.active {
		t.mu.Unlock()
		return
	}
	if !t.periodic {
		t.active = false
	}
	t.mu.Unlock()

	if t.periodic {
		t.arm(gen, d)
	}
	t.fn()
}

// Stop disarms the timer and discards any queued expiry.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.active = false
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// Active reports whether the timer is armed.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

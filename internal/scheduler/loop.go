// Package scheduler runs every piece of engine work on one control thread.
// Timer expiries and remote calls are queued to the Loop and executed one at
// a time, so nothing the engine owns is ever touched concurrently.
package scheduler

import (
	"context"
	"errors"
	"runtime"

	"github.com/charmbracelet/log"
)

// ErrLoopStopped is returned by Call when the loop is not running.
var ErrLoopStopped = errors.New("control loop stopped")

type task struct {
	fn   func()
	done chan struct{}
}

// Loop is a queue of tasks drained by Run.
type Loop struct {
	tasks   chan task
	stopped chan struct{}
	logger  *log.Logger
}

func NewLoop() *Loop {
	return &Loop{
		tasks:   make(chan task, 64),
		stopped: make(chan struct{}),
		logger:  log.WithPrefix("loop"),
	}
}

// Run executes posted tasks until ctx is done. It locks the calling goroutine
// to its OS thread because the GL context is bound to the thread that made it
// current.
func (l *Loop) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.stopped)

	l.logger.Debug("control loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("control loop stopped")
			return
		case t := <-l.tasks:
			t.fn()
			if t.done != nil {
				close(t.done)
			}
		}
	}
}

// Post queues fn without waiting for it. Tasks posted after the loop stopped
// are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- task{fn: fn}:
	case <-l.stopped:
	}
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case l.tasks <- task{fn: fn, done: done}:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-l.stopped:
		// the loop may have exited between receiving the task and running it
		select {
		case <-done:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stopped is closed once Run has returned.
func (l *Loop) Stopped() <-chan struct{} { return l.stopped }

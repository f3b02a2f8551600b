package scheduler

import (
	"sync"
	"sync/atomic"
	"time"
)

// Task is a one-shot deferred callback with an explicit completion signal.
type Task struct {
	timer *time.Timer
	done  chan struct{}
	once  sync.Once
	fired atomic.Bool
}

// After runs fn on its own goroutine once delay has elapsed.
func After(delay time.Duration, fn func()) *Task {
	t := &Task{done: make(chan struct{})}
	t.timer = time.AfterFunc(delay, func() {
		t.fired.Store(true)
		defer t.finish()
		fn()
	})
	return t
}

// Cancel stops the task if it has not started yet. It reports whether the
// callback was prevented from running.
func (t *Task) Cancel() bool {
	if t.timer.Stop() {
		t.finish()
		return true
	}
	return false
}

// Done is closed after the callback returned or the task was cancelled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Fired reports whether the callback started.
func (t *Task) Fired() bool { return t.fired.Load() }

func (t *Task) finish() {
	t.once.Do(func() { close(t.done) })
}

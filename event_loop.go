// event_loop.go - Cooperative single-threaded scheduler

/*
event_loop.go - Cooperative event loop

Every mutation of the emulator happens inside a handler run by the event
loop: posted tasks (program loads, front-end input) and interval timers
(run-mode ticks, redraws). Handlers never run concurrently with each other.

    Post may be called from any goroutine; the task runs in a later turn.
    SetInterval and ClearInterval are called from handlers.
    A cleared timer never fires again, even if it was due in the same turn.
    A turn in progress is never interrupted; cancellation only suppresses
    future firings.
    RunPending called from inside a handler does nothing; turns never nest.

Front-ends either drive turns themselves (ebiten calls RunPending once per
Update) or hand the goroutine to Run.
*/

package main

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Scheduler is the part of the loop the emulator depends on.
type Scheduler interface {
	SetInterval(delay time.Duration, fn func()) *Timer
	ClearInterval(t *Timer)
	Post(fn func())
}

// Timer is a handle returned by SetInterval.
type Timer struct {
	delay  time.Duration
	next   time.Time
	fn     func()
	active bool
}

// Active reports whether the timer is still scheduled.
func (t *Timer) Active() bool { return t != nil && t.active }

type EventLoop struct {
	mu     sync.Mutex
	posted []func()
	wake   chan struct{}

	timers []*Timer
	now    func() time.Time
	inTurn bool
}

func NewEventLoop() *EventLoop {
	return NewEventLoopWithClock(time.Now)
}

// NewEventLoopWithClock uses now as the time source; tests pass a fake.
func NewEventLoopWithClock(now func() time.Time) *EventLoop {
	return &EventLoop{
		wake: make(chan struct{}, 1),
		now:  now,
	}
}

func (l *EventLoop) SetInterval(delay time.Duration, fn func()) *Timer {
	t := &Timer{delay: max(delay, 0), fn: fn, active: true}
	t.next = l.now().Add(t.delay)
	l.timers = append(l.timers, t)
	l.signal()
	return t
}

func (l *EventLoop) ClearInterval(t *Timer) {
	if t == nil || !t.active {
		return
	}
	t.active = false
	l.timers = slices.DeleteFunc(l.timers, func(x *Timer) bool { return x == t })
}

func (l *EventLoop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
	l.signal()
}

func (l *EventLoop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Wake signals after a Post or SetInterval, for callers that pump turns
// themselves and want to block in between.
func (l *EventLoop) Wake() <-chan struct{} { return l.wake }

// RunPending runs one turn: the tasks posted before the turn started, then
// every due timer once. It returns the number of handlers run.
func (l *EventLoop) RunPending() int {
	if l.inTurn {
		return 0
	}
	l.inTurn = true
	defer func() { l.inTurn = false }()

	l.mu.Lock()
	tasks := l.posted
	l.posted = nil
	l.mu.Unlock()

	ran := 0
	for _, task := range tasks {
		task()
		ran++
	}

	now := l.now()
	for _, t := range slices.Clone(l.timers) {
		if !t.active || now.Before(t.next) {
			continue
		}
		t.next = now.Add(t.delay)
		t.fn()
		ran++
	}
	return ran
}

// InTurn reports whether a handler of this loop is running.
func (l *EventLoop) InTurn() bool { return l.inTurn }

// Idle reports whether there is nothing posted and no timer scheduled.
func (l *EventLoop) Idle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.posted) == 0 && len(l.timers) == 0
}

// nextDeadline returns how long until the earliest timer is due.
func (l *EventLoop) nextDeadline() (time.Duration, bool) {
	if len(l.timers) == 0 {
		return 0, false
	}
	earliest := l.timers[0].next
	for _, t := range l.timers[1:] {
		if t.next.Before(earliest) {
			earliest = t.next
		}
	}
	return max(earliest.Sub(l.now()), 0), true
}

// Run drives the loop on the calling goroutine until ctx is done.
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.RunPending()

		wait, ok := l.nextDeadline()
		if ok && wait == 0 {
			continue
		}
		var tm *time.Timer
		var timer <-chan time.Time
		if ok {
			tm = time.NewTimer(wait)
			timer = tm.C
		}
		select {
		case <-ctx.Done():
		case <-l.wake:
		case <-timer:
		}
		if tm != nil {
			tm.Stop()
		}
	}
}

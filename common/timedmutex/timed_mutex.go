// Package timedmutex provides a mutex that unlocks itself once a hold
// duration elapses, so a stalled holder cannot block other callers forever.
package timedmutex

import (
	"context"
	"sync"
	"time"
)

// TimedMutex is a mutex whose lock expires after a fixed duration
type TimedMutex struct {
	sem       chan struct{}
	timerLock sync.Mutex
	timer     *time.Timer
	gen       uint64
	locked    bool
	duration  time.Duration
}

// NewTimedMutex returns a TimedMutex whose locks expire after length
func NewTimedMutex(length time.Duration) *TimedMutex {
	return &TimedMutex{
		sem:      make(chan struct{}, 1),
		duration: length,
	}
}

// LockForDuration blocks until the mutex is acquired and returns the
// function that releases this particular hold. Calling the returned function
// after the hold has already expired is a no-op and reports false.
func (t *TimedMutex) LockForDuration() (unlock func() bool) {
	unlock, _ = t.LockContext(context.Background())
	return unlock
}

// LockContext is LockForDuration bounded by ctx. It returns ctx.Err() without
// holding the mutex when ctx is done before or while waiting.
func (t *TimedMutex) LockContext(ctx context.Context) (func() bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case t.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := ctx.Err(); err != nil {
		<-t.sem
		return nil, err
	}

	t.timerLock.Lock()
	t.gen++
	gen := t.gen
	t.locked = true
	t.timer = time.AfterFunc(t.duration, func() { t.unlock(gen) })
	t.timerLock.Unlock()
	return func() bool { return t.unlock(gen) }, nil
}

// Locked reports whether a hold is currently active
func (t *TimedMutex) Locked() bool {
	t.timerLock.Lock()
	defer t.timerLock.Unlock()
	return t.locked
}

func (t *TimedMutex) unlock(gen uint64) bool {
	t.timerLock.Lock()
	defer t.timerLock.Unlock()
	if !t.locked || gen != t.gen {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	t.locked = false
	<-t.sem
	return true
}

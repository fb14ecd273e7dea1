package fs

import (
	"sync"
	"time"

	"github.com/aretw0/herbcat/pkg/core"
)

// debouncer collapses a burst of change events into one, delivered after
// the burst has been quiet for wait. The last event of the burst wins.
type debouncer struct {
	wait time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending core.Event
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(wait time.Duration) *debouncer {
	return &debouncer{wait: wait}
}

func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = e
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	d.timer = time.AfterFunc(d.wait, func() {
		defer d.wg.Done()
		d.mu.Lock()
		ev := d.pending
		d.mu.Unlock()
		fire(ev)
	})
}

// stopAndWait drops any pending event and waits up to timeout for a
// callback already in flight.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

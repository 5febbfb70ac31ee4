package watcher

import (
	"sync"
	"time"

	"github.com/fredcamaral/docuslide/internal/domain/ports"
)

// debouncer calls fire once per path after the path has been quiet for delay
type debouncer struct {
	clock   ports.TimeProvider
	delay   time.Duration
	fire    func(path string)
	mu      sync.Mutex
	pending map[string]ports.Timer
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func newDebouncer(clock ports.TimeProvider, delay time.Duration, fire func(path string)) *debouncer {
	return &debouncer{
		clock:   clock,
		delay:   delay,
		fire:    fire,
		pending: make(map[string]ports.Timer),
		stopCh:  make(chan struct{}),
	}
}

// trigger schedules path, pushing back an already pending deadline
func (d *debouncer) trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.pending[path]; ok && timer.Stop() {
		timer.Reset(d.delay)
		return
	}

	timer := d.clock.NewTimer(d.delay)
	d.pending[path] = timer

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		select {
		case <-timer.C():
		case <-d.stopCh:
			return
		}

		d.mu.Lock()
		if d.pending[path] == timer {
			delete(d.pending, path)
		}
		d.mu.Unlock()

		d.fire(path)
	}()
}

// stop cancels pending deadlines and waits for in-flight fires
func (d *debouncer) stop() {
	d.mu.Lock()
	for path, timer := range d.pending {
		timer.Stop()
		delete(d.pending, path)
	}
	d.mu.Unlock()

	close(d.stopCh)
	d.wg.Wait()
}

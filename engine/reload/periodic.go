package reload

import (
	"context"
	"sync"
	"time"
)

// periodicWorker reloads one unit on a fixed cadence until stopped.
// Cancellation is cooperative: the stop signal is honored at the next
// suspension point, so stop latency is bounded by one interval plus any
// in-flight reload.
type periodicWorker struct {
	unit     *Unit
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func newPeriodicWorker(u *Unit, interval time.Duration) *periodicWorker {
	return &periodicWorker{
		unit:     u,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *periodicWorker) run() {
	defer close(w.done)

	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		// Reload failures are logged by the unit; the worker keeps cycling.
		_ = w.unit.Reload(context.Background())

		select {
		case <-timer.C:
			timer.Reset(w.interval)
		case <-w.stop:
			return
		}
	}
}

func (w *periodicWorker) signalStop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

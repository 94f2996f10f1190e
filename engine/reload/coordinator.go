package reload

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"go.trai.ch/molt/core/domain"
	"go.trai.ch/molt/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Coordinator tracks every active trigger so they can be stopped in bulk.
// It owns the periodic worker list and the per-directory watch registry;
// each lives behind its own mutex because triggers may be started from any
// goroutine while a stop-all runs on another.
//
// The two stop paths differ on purpose: periodic workers hold nothing but a
// timer, so StopAllPeriodic signals them and returns; directory watches own
// an OS handle and a dispatch goroutine, so StopAllFileWatches blocks until
// each has fully terminated. Shutdown joins both.
type Coordinator struct {
	log     ports.Logger
	watcher ports.Watcher

	pmu      sync.Mutex
	periodic []*periodicWorker

	wmu     sync.Mutex
	watches map[string]*dirWatch
}

// dirWatch is one shared OS-level directory watch with its dispatch table
// mapping absolute file paths to the units watching them.
type dirWatch struct {
	watch ports.Watch

	mu    sync.Mutex
	table map[string][]*Unit
}

// NewCoordinator creates a coordinator dispatching file events through the
// given watcher.
func NewCoordinator(log ports.Logger, watcher ports.Watcher) *Coordinator {
	return &Coordinator{
		log:     log,
		watcher: watcher,
		watches: make(map[string]*dirWatch),
	}
}

// StartPeriodic spawns a worker reloading the unit every interval.
func (c *Coordinator) StartPeriodic(u *Unit, interval time.Duration) {
	w := newPeriodicWorker(u, interval)

	c.pmu.Lock()
	c.periodic = append(c.periodic, w)
	c.pmu.Unlock()

	go w.run()
	c.log.Debug("periodic reload started", "unit", u.Symbol(), "interval", interval.String())
}

// StartFileWatch subscribes the unit to modifications of the given file. If
// the file's directory is already watched for another unit, the existing OS
// watch is shared and only the dispatch table grows.
func (c *Coordinator) StartFileWatch(u *Unit, path string) error {
	if path == "" {
		return zerr.With(domain.ErrSourceUnavailable, "unit", u.Symbol())
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve watch path")
	}
	dir := filepath.Dir(abs)

	c.wmu.Lock()
	defer c.wmu.Unlock()

	entry, ok := c.watches[dir]
	if !ok {
		entry = &dirWatch{table: make(map[string][]*Unit)}
		watch, err := c.watcher.Schedule(dir, entry.dispatch)
		if err != nil {
			return zerr.Wrap(err, "failed to schedule directory watch")
		}
		entry.watch = watch
		c.watches[dir] = entry
	}
	entry.add(abs, u)

	c.log.Debug("file watch started", "unit", u.Symbol(), "path", abs)
	return nil
}

func (e *dirWatch) add(path string, u *Unit) {
	e.mu.Lock()
	e.table[path] = append(e.table[path], u)
	e.mu.Unlock()
}

// dispatch routes one directory event to the units watching exactly that
// path. Directory events and unwatched files are dropped. There is no
// debounce: every write dispatches, and each reload fails soft on its own.
func (e *dirWatch) dispatch(ev ports.WatchEvent) {
	if ev.IsDir {
		return
	}

	e.mu.Lock()
	units := slices.Clone(e.table[ev.Path])
	e.mu.Unlock()

	for _, u := range units {
		_ = u.Reload(context.Background())
	}
}

// StopAllPeriodic signals every periodic worker to stop and clears the
// registry immediately. It does not wait: each worker drains its current
// sleep or reload cycle asynchronously.
func (c *Coordinator) StopAllPeriodic() {
	c.pmu.Lock()
	workers := c.periodic
	c.periodic = nil
	c.pmu.Unlock()

	for _, w := range workers {
		w.signalStop()
	}
	c.log.Info("all periodic reloading stopped", "workers", len(workers))
}

// StopAllFileWatches stops every OS-level directory watch, blocking until
// each dispatch goroutine has exited, then clears the registry.
func (c *Coordinator) StopAllFileWatches() error {
	c.wmu.Lock()
	watches := c.watches
	c.watches = make(map[string]*dirWatch)
	c.wmu.Unlock()

	var eg errgroup.Group
	for dir, entry := range watches {
		eg.Go(func() error {
			if err := entry.watch.Stop(); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to stop directory watch"), "dir", dir)
			}
			return nil
		})
	}
	err := eg.Wait()

	c.log.Info("all file watching stopped", "watches", len(watches))
	return err
}

// Shutdown stops every trigger and waits for all of them, periodic workers
// included, bounded by ctx.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.pmu.Lock()
	workers := c.periodic
	c.periodic = nil
	c.pmu.Unlock()

	for _, w := range workers {
		w.signalStop()
	}
	for _, w := range workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return c.StopAllFileWatches()
}

// ActivePeriodic returns the number of registered periodic workers.
func (c *Coordinator) ActivePeriodic() int {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	return len(c.periodic)
}

// ActiveWatches returns the number of watched directories.
func (c *Coordinator) ActiveWatches() int {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return len(c.watches)
}

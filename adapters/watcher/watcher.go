// Package watcher implements directory watching using fsnotify.
package watcher

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/molt/core/domain"
	"go.trai.ch/molt/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// Watcher creates one OS-level fsnotify watch per scheduled directory. Each
// watch runs a dedicated dispatch goroutine converting raw events into port
// events; Stop closes the underlying watcher and joins that goroutine.
type Watcher struct {
	log ports.Logger
}

// New creates a Watcher with the given logger.
func New(log ports.Logger) *Watcher {
	return &Watcher{log: log}
}

// Schedule starts watching dir, non-recursively. Modification events are
// delivered to fn on the watch's dispatch goroutine.
func (w *Watcher) Schedule(dir string, fn ports.WatchFunc) (ports.Watch, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve watch directory")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fsw.Add(abs); err != nil {
		_ = fsw.Close()
		return nil, zerr.Wrap(err, "failed to watch directory")
	}

	dw := &dirWatch{
		fsWatcher: fsw,
		log:       w.log,
		done:      make(chan struct{}),
	}
	go dw.dispatch(fn)

	w.log.Debug("directory watch scheduled", "dir", abs)
	return dw, nil
}

// dirWatch is one live fsnotify watch on a single directory.
type dirWatch struct {
	fsWatcher *fsnotify.Watcher
	log       ports.Logger
	done      chan struct{}
	stopOnce  sync.Once
}

// dispatch pumps fsnotify events to the handler until the watcher closes.
func (d *dirWatch) dispatch(fn ports.WatchFunc) {
	defer close(d.done)

	for {
		select {
		case event, ok := <-d.fsWatcher.Events:
			if !ok {
				return
			}
			// Only content changes matter for reloading. Create is included
			// because editors commonly save via rename-and-replace.
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}

			var isDir bool
			if info, err := os.Stat(path); err == nil {
				isDir = info.IsDir()
			}

			fn(ports.WatchEvent{Path: path, IsDir: isDir})

		case err, ok := <-d.fsWatcher.Errors:
			if !ok {
				return
			}
			d.log.Warn("file system watch error", "error", err.Error())
		}
	}
}

// Stop cancels the watch and blocks until the dispatch goroutine has exited.
// A second Stop waits for termination too, then reports ErrWatchClosed.
func (d *dirWatch) Stop() error {
	var closeErr error
	first := false
	d.stopOnce.Do(func() {
		first = true
		closeErr = d.fsWatcher.Close()
	})

	<-d.done

	if !first {
		return domain.ErrWatchClosed
	}
	if closeErr != nil {
		return zerr.Wrap(closeErr, "failed to close fsnotify watcher")
	}
	return nil
}

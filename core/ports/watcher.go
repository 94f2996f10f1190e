package ports

//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks

// WatchEvent reports one modification seen inside a watched directory.
type WatchEvent struct {
	// Path is the absolute path of the file or directory that changed.
	Path string
	// IsDir is true when the event concerns a directory rather than a file.
	IsDir bool
}

// WatchFunc handles one event. It runs on the watch's dispatch goroutine, so
// implementations must not block indefinitely.
type WatchFunc func(WatchEvent)

// Watcher creates OS-level directory watches. One Schedule call owns one
// OS watch; callers wanting several files in the same directory observed are
// expected to multiplex on a single watch themselves.
type Watcher interface {
	// Schedule starts watching dir, non-recursively, delivering modification
	// events to fn until the returned watch is stopped.
	Schedule(dir string, fn WatchFunc) (Watch, error)
}

// Watch is one live OS-level directory watch.
type Watch interface {
	// Stop cancels the watch and blocks until its dispatch goroutine has
	// fully terminated.
	Stop() error
}

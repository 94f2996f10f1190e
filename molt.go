// Package molt lets a long-running process swap the implementation of a
// function or class for an edited version without restarting.
//
// A target is wrapped into a reload.Unit, which holds the live
// implementation behind an atomically swappable artifact. Triggers decide
// when to refresh it: a periodic worker re-evaluates the source on a fixed
// cadence, a file watch re-evaluates it when the source file changes. Class
// units additionally track their live instances through weak handles and
// retarget them to the reloaded class while keeping their field values.
//
// The Engine is the configuration front-end: it wires the default adapters
// (yaegi source loader, fsnotify watcher, slog logger) and owns the
// coordinator through which all triggers can be stopped in bulk.
//
//	eng := molt.New()
//	unit, err := eng.AutoReload(AddOne)
//	...
//	out, err := unit.Call(5)
//	...
//	eng.Shutdown(ctx)
package molt

import (
	"context"
	"time"

	"go.trai.ch/molt/adapters/config"
	sourceloader "go.trai.ch/molt/adapters/loader"
	"go.trai.ch/molt/adapters/logger"
	"go.trai.ch/molt/adapters/telemetry"
	"go.trai.ch/molt/adapters/watcher"
	"go.trai.ch/molt/core/ports"
	"go.trai.ch/molt/engine/reload"
)

// Engine wires the reload machinery together and owns the coordinator
// tracking all active triggers.
type Engine struct {
	log      ports.Logger
	loader   ports.Loader
	tracer   ports.Tracer
	watcher  ports.Watcher
	coord    *reload.Coordinator
	interval time.Duration
	cfg      *config.Config
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger replaces the default slog logger.
func WithLogger(log ports.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithLoader replaces the default source loader.
func WithLoader(l ports.Loader) Option {
	return func(e *Engine) { e.loader = l }
}

// WithTracer replaces the default no-op tracer.
func WithTracer(t ports.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithWatcher replaces the default fsnotify watcher.
func WithWatcher(w ports.Watcher) Option {
	return func(e *Engine) { e.watcher = w }
}

// WithInterval sets the default periodic reload interval.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithConfig applies defaults loaded from a moltfile.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// New creates an Engine. Without options it logs prettily to stderr, loads
// fresh implementations by re-evaluating Go source with yaegi, watches
// files with fsnotify, and traces nothing.
func New(opts ...Option) *Engine {
	e := &Engine{interval: reload.DefaultInterval}
	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		e.log = logger.New()
	}
	if e.loader == nil {
		e.loader = sourceloader.New(e.log)
	}
	if e.watcher == nil {
		e.watcher = watcher.New(e.log)
	}

	if e.cfg != nil {
		if e.cfg.Interval > 0 {
			e.interval = e.cfg.Interval
		}
		e.log.SetJSON(e.cfg.LogJSON)
		if e.cfg.Telemetry && e.tracer == nil {
			e.tracer = telemetry.NewOTelTracer("go.trai.ch/molt")
		}
	}
	if e.tracer == nil {
		e.tracer = telemetry.NewNoop()
	}

	e.coord = reload.NewCoordinator(e.log, e.watcher)
	return e
}

// Wrap makes a target reloadable without attaching any trigger. Reloads
// happen only when the caller invokes Reload itself.
func (e *Engine) Wrap(target any, opts ...reload.Option) (*reload.Unit, error) {
	return reload.NewUnit(target, e.log, e.loader, e.tracer, e.coord, opts...)
}

// AutoUpdate wraps a target and reloads it periodically from its source,
// using the engine's default interval.
func (e *Engine) AutoUpdate(target any, opts ...reload.Option) (*reload.Unit, error) {
	u, err := e.Wrap(target, opts...)
	if err != nil {
		return nil, err
	}
	u.StartPeriodic(e.interval)
	return u, nil
}

// AutoReload wraps a target and reloads it whenever its source file is
// modified.
func (e *Engine) AutoReload(target any, opts ...reload.Option) (*reload.Unit, error) {
	u, err := e.Wrap(target, opts...)
	if err != nil {
		return nil, err
	}
	if err := u.StartFileWatch(); err != nil {
		return nil, err
	}
	return u, nil
}

// Coordinator exposes the trigger registry, e.g. for selective stop-all
// calls.
func (e *Engine) Coordinator() *reload.Coordinator {
	return e.coord
}

// Shutdown stops every trigger started through this engine and waits for
// them, bounded by ctx.
func (e *Engine) Shutdown(ctx context.Context) error {
	return e.coord.Shutdown(ctx)
}

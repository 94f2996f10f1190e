// Package reload implements the hot-swap engine: units holding a swappable
// implementation, the triggers that decide when to reload them, and the
// coordinator tracking active triggers for bulk shutdown.
package reload

import (
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/molt/core/domain"
	"go.trai.ch/molt/core/ports"
	"go.trai.ch/zerr"
)

// DefaultInterval is the periodic reload interval used when none is given.
const DefaultInterval = time.Second

// Unit wraps one function or class and keeps its implementation swappable.
// Callers invoke the current implementation through Call; triggers (or the
// caller directly) refresh it through Reload. The swap is atomic: a call
// racing a reload observes either the old or the new implementation in full.
type Unit struct {
	symbol string
	kind   domain.Kind

	log    ports.Logger
	loader ports.Loader
	tracer ports.Tracer
	coord  *Coordinator

	target   atomic.Pointer[domain.Artifact]
	registry *domain.HandleTable

	// mu serializes reloads and guards the mutable configuration below.
	mu         sync.Mutex
	handler    ports.ReloadHandler
	srcPath    string
	watchPath  string
	lastDigest uint64
}

// Option configures a unit at wrap time.
type Option func(*Unit)

// WithSymbol overrides the discovered symbol name. Needed when the wrapped
// value is a closure, whose runtime name does not match any definition in
// the source file.
func WithSymbol(name string) Option {
	return func(u *Unit) {
		if name != "" {
			u.symbol = name
		}
	}
}

// WithSourcePath overrides the discovered defining source file.
func WithSourcePath(path string) Option {
	return func(u *Unit) { u.setWatchPath(path) }
}

// WithHandler sets the reload handler at wrap time.
func WithHandler(h ports.ReloadHandler) Option {
	return func(u *Unit) { u.SetHandler(h) }
}

// NewUnit wraps a target. Plain functions become function units; niladic
// functions returning map[string]any are treated as class constructors and
// become class units. Anything else is rejected with ErrUnsupportedTarget.
func NewUnit(
	target any,
	log ports.Logger,
	loader ports.Loader,
	tracer ports.Tracer,
	coord *Coordinator,
	opts ...Option,
) (*Unit, error) {
	kind, err := domain.Classify(target)
	if err != nil {
		return nil, err
	}

	symbol, path := describe(target)
	u := &Unit{
		symbol:  symbol,
		kind:    kind,
		log:     log,
		loader:  loader,
		tracer:  tracer,
		coord:   coord,
		srcPath: path,
	}

	for _, opt := range opts {
		opt(u)
	}

	var art *domain.Artifact
	switch kind {
	case domain.KindClass:
		desc, err := domain.NewDescriptor(u.symbol, target.(func() map[string]any)())
		if err != nil {
			return nil, err
		}
		art = domain.NewClassArtifact(desc, 0)
		u.registry = domain.NewHandleTable()
	default:
		art, err = domain.NewFuncArtifact(reflect.ValueOf(target), 0)
		if err != nil {
			return nil, err
		}
	}
	u.target.Store(art)

	return u, nil
}

// Symbol returns the name of the wrapped definition.
func (u *Unit) Symbol() string { return u.symbol }

// Kind returns what the unit wraps.
func (u *Unit) Kind() domain.Kind { return u.kind }

// Artifact returns the implementation currently installed.
func (u *Unit) Artifact() *domain.Artifact { return u.target.Load() }

// InstanceCount returns the number of tracked instance slots of a class
// unit, including not-yet-recycled dead ones. Zero for function units.
func (u *Unit) InstanceCount() int {
	if u.registry == nil {
		return 0
	}
	return u.registry.Len()
}

// SetHandler sets the callback invoked after each successful reload. A nil
// handler is ignored.
func (u *Unit) SetHandler(h ports.ReloadHandler) {
	if h == nil {
		return
	}
	u.mu.Lock()
	u.handler = h
	u.mu.Unlock()
}

// SetWatchPath sets the file observed for changes, which is also the file
// re-evaluated on reload. Empty or unresolvable paths are ignored.
func (u *Unit) SetWatchPath(path string) {
	u.mu.Lock()
	u.setWatchPath(path)
	u.mu.Unlock()
}

func (u *Unit) setWatchPath(path string) {
	if path == "" {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		u.log.Warn("ignoring unresolvable watch path", "unit", u.symbol, "path", path)
		return
	}
	u.watchPath = abs
}

// sourcePath returns the file to re-evaluate: the explicit watch path when
// set, the discovered defining file otherwise.
func (u *Unit) sourcePath() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.sourcePathLocked()
}

func (u *Unit) sourcePathLocked() string {
	if u.watchPath != "" {
		return u.watchPath
	}
	return u.srcPath
}

// Call forwards to the current implementation. For function units the
// arguments are passed through and the function's results returned. For
// class units a new instance is constructed and returned as the single
// result; the arguments go to the class's init method.
func (u *Unit) Call(args ...any) ([]any, error) {
	if u.kind == domain.KindClass {
		inst, err := u.NewInstance(args...)
		if err != nil {
			return nil, err
		}
		return []any{inst}, nil
	}

	return domain.Invoke(u.target.Load().Func, args)
}

// NewInstance constructs an instance of a class unit from the current
// descriptor and registers it for migration on future reloads.
func (u *Unit) NewInstance(args ...any) (*domain.Instance, error) {
	if u.kind != domain.KindClass {
		return nil, zerr.With(zerr.With(domain.ErrUnsupportedTarget, "unit", u.symbol), "kind", string(u.kind))
	}

	desc := u.target.Load().Class
	inst := domain.NewInstance(desc)
	u.registry.Insert(inst)

	if _, ok := desc.Method(domain.InitMethod); ok {
		if _, err := inst.Call(domain.InitMethod, args...); err != nil {
			return nil, err
		}
	} else if len(args) > 0 {
		return nil, zerr.With(zerr.With(domain.ErrArgumentMismatch, "class", u.symbol), "got", len(args))
	}

	return inst, nil
}

// Reload re-evaluates the unit's source and swaps in the fresh definition.
// On any failure the previous implementation stays installed and keeps
// serving calls; the failure is logged here and returned only for the
// direct caller's benefit. Triggers discard it.
func (u *Unit) Reload(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	ctx, span := u.tracer.Start(ctx, "reload")
	defer span.End()
	span.SetAttribute("unit", u.symbol)
	span.SetAttribute("kind", string(u.kind))

	if err := u.reload(ctx); err != nil {
		span.RecordError(err)
		u.log.Error(err, "unit", u.symbol)
		return err
	}
	return nil
}

func (u *Unit) reload(ctx context.Context) error {
	path := u.sourcePathLocked()
	if path == "" {
		return zerr.With(domain.ErrSourceUnavailable, "unit", u.symbol)
	}

	// Skip re-evaluation when the source has not changed since the last
	// successful swap. Periodic triggers hit this path on every idle cycle.
	if digest, err := u.loader.Fingerprint(path); err == nil &&
		u.lastDigest != 0 && digest == u.lastDigest {
		u.log.Debug("source unchanged", "unit", u.symbol, "path", path)
		return nil
	}

	art, err := u.loader.Load(ctx, u.symbol, path, u.kind)
	if err != nil {
		return err
	}

	old := u.target.Load()
	if err := art.CompatibleWith(old); err != nil {
		return err
	}

	u.target.Store(art)
	u.lastDigest = art.Digest

	if u.kind == domain.KindClass {
		for _, inst := range u.registry.Live() {
			inst.Retarget(art.Class)
		}
	}

	u.log.Info("code reloaded", "unit", u.symbol, "kind", string(u.kind))

	if u.handler != nil {
		u.handler.OnReloaded(art)
	}
	return nil
}

// StartPeriodic begins reloading the unit every interval on a dedicated
// worker. A non-positive interval means DefaultInterval.
func (u *Unit) StartPeriodic(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	u.coord.StartPeriodic(u, interval)
}

// StartFileWatch begins reloading the unit whenever its source file is
// modified. The watch observes the unit's source path; directories already
// watched for another unit are shared.
func (u *Unit) StartFileWatch() error {
	return u.coord.StartFileWatch(u, u.sourcePath())
}

package domain

import (
	"sync"
	"sync/atomic"

	"go.trai.ch/zerr"
)

// Instance is one live object of a reloadable class: field storage plus a
// swappable pointer to the descriptor that dispatches its methods. The
// descriptor pointer is atomic so a reload retargets the instance without
// tearing concurrent method calls; the field map itself is guarded by a
// mutex for Get/Set, but methods receive it raw, like any object exposes its
// own state to its own code.
type Instance struct {
	desc atomic.Pointer[Descriptor]

	mu     sync.RWMutex
	fields map[string]any
}

// NewInstance creates an instance of the given class with default fields.
func NewInstance(desc *Descriptor) *Instance {
	i := &Instance{fields: desc.FieldDefaults()}
	i.desc.Store(desc)
	return i
}

// Class returns the descriptor currently dispatching this instance.
func (i *Instance) Class() *Descriptor {
	return i.desc.Load()
}

// Get returns the named field.
func (i *Instance) Get(name string) (any, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	v, ok := i.fields[name]
	if !ok {
		return nil, zerr.With(zerr.With(ErrFieldNotFound, "class", i.desc.Load().Name()), "field", name)
	}
	return v, nil
}

// Set assigns the named field.
func (i *Instance) Set(name string, value any) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.fields[name] = value
}

// Call dispatches the named method through the current descriptor. The
// instance's field storage is passed as the method's first argument.
func (i *Instance) Call(name string, args ...any) ([]any, error) {
	desc := i.desc.Load()
	m, ok := desc.Method(name)
	if !ok {
		return nil, zerr.With(zerr.With(ErrMethodNotFound, "class", desc.Name()), "method", name)
	}

	i.mu.RLock()
	fields := i.fields
	i.mu.RUnlock()

	return Invoke(m, append([]any{fields}, args...))
}

// Retarget switches the instance to a new descriptor, keeping existing field
// values and adding defaults for fields the new class introduced. The caller
// is responsible for checking layout compatibility first.
func (i *Instance) Retarget(desc *Descriptor) {
	i.mu.Lock()
	for name, value := range desc.FieldDefaults() {
		if _, ok := i.fields[name]; !ok {
			i.fields[name] = value
		}
	}
	i.mu.Unlock()

	i.desc.Store(desc)
}

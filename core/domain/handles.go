package domain

import (
	"sync"
	"weak"
)

// Handle identifies a slot in a HandleTable. A handle survives its instance:
// resolving it after the instance was collected, or after the slot was
// recycled for a newer instance, yields nothing rather than a stale object.
type Handle struct {
	index uint32
	gen   uint32
}

type slot struct {
	gen uint32
	ref weak.Pointer[Instance]
}

// HandleTable tracks the live instances of one class unit through weak,
// generational handles. Entries never keep an instance alive; once the
// runtime collects an instance its slot resolves to nil and is recycled on
// the next sweep. The table is safe for concurrent use.
type HandleTable struct {
	mu    sync.Mutex
	slots []slot
	free  []uint32
}

// NewHandleTable creates an empty table.
func NewHandleTable() *HandleTable {
	return &HandleTable{}
}

// Insert registers an instance and returns its handle, reusing a dead slot
// when one is free.
func (t *HandleTable) Insert(inst *Instance) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	ref := weak.Make(inst)

	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		s := &t.slots[idx]
		s.gen++
		s.ref = ref
		return Handle{index: idx, gen: s.gen}
	}

	t.slots = append(t.slots, slot{ref: ref})
	return Handle{index: uint32(len(t.slots) - 1)}
}

// Resolve returns the instance behind a handle, or false if the instance was
// collected or the slot was recycled.
func (t *HandleTable) Resolve(h Handle) (*Instance, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if int(h.index) >= len(t.slots) {
		return nil, false
	}
	s := &t.slots[h.index]
	if s.gen != h.gen {
		return nil, false
	}
	inst := s.ref.Value()
	return inst, inst != nil
}

// Live returns all still-reachable instances and recycles the slots of
// collected ones.
func (t *HandleTable) Live() []*Instance {
	t.mu.Lock()
	defer t.mu.Unlock()

	var live []*Instance
	for i := range t.slots {
		s := &t.slots[i]
		if s.ref == (weak.Pointer[Instance]{}) {
			continue // already swept
		}
		if inst := s.ref.Value(); inst != nil {
			live = append(live, inst)
			continue
		}
		s.ref = weak.Pointer[Instance]{}
		t.free = append(t.free, uint32(i))
	}
	return live
}

// Len returns the number of occupied slots, dead or alive.
func (t *HandleTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots) - len(t.free)
}

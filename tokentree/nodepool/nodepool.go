// Package nodepool is a slab-backed, reference-counted allocator for bulk
// node construction. It exists so that chunked/bulk builds (splitting a
// whole document into fixed-size leaf nodes, or rebuilding a reparsed
// subtree) allocate from a reusable slab instead of hitting the Go
// allocator once per node.
package nodepool

import (
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Class selects a pool's slab size, matching the two allocation patterns
// that show up in practice: a handful of nodes for a single-subtree
// reparse versus an entire document's worth of chunk nodes.
type Class uint8

const (
	ClassIncremental Class = iota
	ClassFull
)

const (
	incrementalSlabBytes = 16 * 1024
	fullSlabBytes        = 2 * 1024 * 1024
	minSlabCap           = 64
)

// Pool is a slab of T values handed out one at a time by Alloc, pooled via
// sync.Pool and kept alive by a reference count rather than by Go's normal
// scoping: a subtree allocated from a pool may outlive the pool's original
// caller (for example, a Selection cursor still holding a detached node
// after its parent document was replaced), so the slab can only go back to
// sync.Pool once every retainer has released it.
type Pool[T any] struct {
	class Class
	slab  []T
	used  int
	refs  atomic.Int32
}

type classRegistry struct {
	incremental sync.Pool
	full        sync.Pool
}

var registries sync.Map // map[reflect.Type]*classRegistry

func registryFor[T any]() *classRegistry {
	var zero T
	typ := reflect.TypeOf(zero)

	if v, ok := registries.Load(typ); ok {
		return v.(*classRegistry)
	}

	reg := &classRegistry{}
	reg.incremental.New = func() any { return newPool[T](ClassIncremental) }
	reg.full.New = func() any { return newPool[T](ClassFull) }

	actual, _ := registries.LoadOrStore(typ, reg)
	return actual.(*classRegistry)
}

func newPool[T any](class Class) *Pool[T] {
	slabBytes := incrementalSlabBytes
	if class == ClassFull {
		slabBytes = fullSlabBytes
	}
	return &Pool[T]{
		class: class,
		slab:  make([]T, capacityForBytes[T](slabBytes)),
	}
}

func capacityForBytes[T any](slabBytes int) int {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size <= 0 {
		return minSlabCap
	}
	capacity := slabBytes / size
	if capacity < minSlabCap {
		return minSlabCap
	}
	return capacity
}

// Acquire returns a pool for T of the given size class, taken from a
// shared sync.Pool keyed by T's type, reset to a single live reference.
func Acquire[T any](class Class) *Pool[T] {
	reg := registryFor[T]()

	var p *Pool[T]
	if class == ClassIncremental {
		p = reg.incremental.Get().(*Pool[T])
	} else {
		p = reg.full.Get().(*Pool[T])
	}
	p.refs.Store(1)
	return p
}

// Retain adds a reference to p, for a second owner that needs p's slab to
// stay alive past the original caller's use of it. A nil pool is a no-op,
// so callers that never pooled in the first place can call Retain/Release
// unconditionally.
func (p *Pool[T]) Retain() {
	if p == nil {
		return
	}
	p.refs.Add(1)
}

// Release drops a reference to p. Once the last reference is dropped, the
// slab is reset and returned to the shared sync.Pool for reuse.
func (p *Pool[T]) Release() {
	if p == nil {
		return
	}
	if p.refs.Add(-1) != 0 {
		return
	}
	p.reset()

	reg := registryFor[T]()
	if p.class == ClassIncremental {
		reg.incremental.Put(p)
	} else {
		reg.full.Put(p)
	}
}

func (p *Pool[T]) reset() {
	var zero T
	for i := 0; i < p.used; i++ {
		p.slab[i] = zero
	}
	p.used = 0
}

// Alloc returns a pointer to a fresh zero-value T. It is backed by the
// pool's slab while the slab has room, and falls back to an ordinary heap
// allocation once the slab is exhausted (or if p is nil).
func (p *Pool[T]) Alloc() *T {
	if p == nil || p.used >= len(p.slab) {
		return new(T)
	}
	v := &p.slab[p.used]
	p.used++
	return v
}

// Package ids implements the object identity allocator. Every
// spawnable game piece (card, troop, leader, worm marker) receives an
// ObjectID that is stable across the network: only the server
// allocates, and clients adopt whatever id arrives embedded in the
// spawn event.
package ids

// ObjectID is an opaque handle for a game object. The zero value is
// never issued and doubles as "no object".
type ObjectID uint64

// None is the absent-object sentinel.
const None ObjectID = 0

// Object pairs a value with its allocated id. Identity is the id
// alone; two objects wrapping equal values are still distinct pieces.
type Object[T any] struct {
	ID    ObjectID
	Value T
}

// Allocator issues collision-free ObjectIDs. Released ids go onto a
// free list and are preferred over fresh ones, so ids of permanently
// destroyed objects can be recycled.
type Allocator struct {
	next ObjectID
	free []ObjectID
}

// NewAllocator returns an allocator whose first fresh id is 1.
func NewAllocator() *Allocator {
	return &Allocator{next: 1}
}

// NextID returns a free-list entry if one is available, otherwise one
// past the highest id ever issued.
func (a *Allocator) NextID() ObjectID {
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		return id
	}
	id := a.next
	a.next++
	return id
}

// Release returns an id to the free list. The caller must guarantee
// that no live object still references it.
func (a *Allocator) Release(id ObjectID) {
	if id == None {
		return
	}
	a.free = append(a.free, id)
}

// HighWater returns the count of fresh ids issued so far, ignoring
// free-list recycling.
func (a *Allocator) HighWater() uint64 {
	return uint64(a.next - 1)
}

// Spawn wraps a value with a freshly allocated id.
func Spawn[T any](a *Allocator, value T) Object[T] {
	return Object[T]{ID: a.NextID(), Value: value}
}

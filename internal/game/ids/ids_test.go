package ids

import "testing"

func TestAllocatorUniqueness(t *testing.T) {
	alloc := NewAllocator()

	seen := make(map[ObjectID]bool)
	for i := 0; i < 1000; i++ {
		id := alloc.NextID()
		if id == None {
			t.Fatalf("allocator issued the None sentinel at iteration %d", i)
		}
		if seen[id] {
			t.Fatalf("allocator issued duplicate id %d", id)
		}
		seen[id] = true
	}

	if alloc.HighWater() != 1000 {
		t.Fatalf("expected high water 1000, got %d", alloc.HighWater())
	}
}

func TestAllocatorFreeListReuse(t *testing.T) {
	alloc := NewAllocator()

	a := alloc.NextID()
	b := alloc.NextID()
	alloc.Release(a)

	// The released id must be preferred over a fresh one.
	if got := alloc.NextID(); got != a {
		t.Fatalf("expected recycled id %d, got %d", a, got)
	}

	// Fresh allocation resumes past the highest id ever issued.
	if got := alloc.NextID(); got != b+1 {
		t.Fatalf("expected fresh id %d, got %d", b+1, got)
	}
}

func TestAllocatorReleaseNoneIsNoop(t *testing.T) {
	alloc := NewAllocator()
	alloc.Release(None)
	if got := alloc.NextID(); got != 1 {
		t.Fatalf("expected first id 1, got %d", got)
	}
}

func TestSpawnAssignsDistinctIdentity(t *testing.T) {
	alloc := NewAllocator()

	// Two physically distinct copies of the same card share a value
	// but never an identity.
	first := Spawn(alloc, "shield")
	second := Spawn(alloc, "shield")

	if first.Value != second.Value {
		t.Fatalf("expected equal values, got %q and %q", first.Value, second.Value)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both were %d", first.ID)
	}
}

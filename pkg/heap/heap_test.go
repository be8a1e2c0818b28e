package heap

import (
	"math/rand"
	"sort"
	"testing"
)

func TestDecHeapOrdersSimpleKeys(t *testing.T) {
	h := New([]int{5, 3, 8, 1, 9, 2})
	var popped []int
	for !h.Empty() {
		k, _ := h.Pop()
		popped = append(popped, k)
	}
	for i := 1; i < len(popped); i++ {
		if popped[i] < popped[i-1] {
			t.Fatalf("popped sequence not non-decreasing: %v", popped)
		}
	}
}

func TestDecHeapDecreaseReordersPop(t *testing.T) {
	h := New([]int{10, 10, 10})
	h.Decrease(2, 9) // index 2's key becomes 1, should pop first
	k, idx := h.Pop()
	if idx != 2 || k != 1 {
		t.Fatalf("expected (1, 2), got (%d, %d)", k, idx)
	}
}

func TestDecHeapDecreaseOnPoppedIsNoop(t *testing.T) {
	h := New([]int{1, 2, 3})
	h.Pop()
	// The popped index is now absent; decreasing it must not panic
	// nor corrupt subsequent pops.
	h.Decrease(0, 100)
	var last int = -1
	for !h.Empty() {
		k, _ := h.Pop()
		if k < last {
			t.Fatalf("heap corrupted after decrease-on-absent")
		}
		last = k
	}
}

// TestDecHeapStress mirrors original_source/tests/heap_test.cpp:
// 100,000 random keys, 100,000 random decrease operations (only when
// the current value is >= 1000, decreased by 1000), then the popped
// sequence must match a sorted copy of the adjusted keys.
func TestDecHeapStress(t *testing.T) {
	const n = 100_000
	rng := rand.New(rand.NewSource(42))

	data := make([]int, n)
	for i := range data {
		data[i] = rng.Intn(1_000_000)
	}

	h := New(data)

	for i := 0; i < n; i++ {
		node := rng.Intn(n)
		if data[node] >= 1000 {
			data[node] -= 1000
			h.Decrease(node, 1000)
		}
	}

	expected := append([]int(nil), data...)
	sort.Ints(expected)

	got := make([]int, 0, n)
	for !h.Empty() {
		k, _ := h.Pop()
		got = append(got, k)
	}

	if len(got) != len(expected) {
		t.Fatalf("popped %d entries, want %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("mismatch at position %d: got %d, want %d", i, got[i], expected[i])
		}
	}
}

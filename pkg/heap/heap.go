// Package heap implements a decreasing-key binary min-heap over
// (key, index) pairs. This mirrors original_source/src/heap.cpp's
// DecHeap: a plain slice-backed binary heap plus an external
// index-to-position map, so that decrease(index, delta) runs in
// O(log n) instead of requiring a full linear scan.
package heap

// entry is one (key, index) pair stored in the heap array.
type entry struct {
	key   int
	index int
}

// DecHeap is a binary min-heap keyed by int, with stable external
// payload indices 0..n-1 and O(log n) decrease-key support.
type DecHeap struct {
	heap []entry
	// pos maps a payload index to its current slot in heap, or -1 if
	// that index has already been popped.
	pos []int
}

const absent = -1

// New builds a heap over the given keys; keys[i] becomes the initial
// key for payload index i.
func New(keys []int) *DecHeap {
	h := &DecHeap{
		heap: make([]entry, len(keys)),
		pos:  make([]int, len(keys)),
	}
	for i, k := range keys {
		h.heap[i] = entry{key: k, index: i}
	}
	// Heapify bottom-up, same result as std::make_heap with greater<>.
	for i := len(h.heap)/2 - 1; i >= 0; i-- {
		h.trickleDown(i)
	}
	for i, e := range h.heap {
		h.pos[e.index] = i
	}
	return h
}

func (h *DecHeap) swap(a, b int) {
	h.heap[a], h.heap[b] = h.heap[b], h.heap[a]
	h.pos[h.heap[a].index] = a
	h.pos[h.heap[b].index] = b
}

func (h *DecHeap) bubbleUp(idx int) {
	for idx > 0 {
		parent := (idx - 1) / 2
		if h.heap[parent].key <= h.heap[idx].key {
			break
		}
		h.swap(parent, idx)
		idx = parent
	}
}

func (h *DecHeap) trickleDown(idx int) {
	for {
		left := idx*2 + 1
		if left >= len(h.heap) {
			return
		}
		minIdx := left
		if right := idx*2 + 2; right < len(h.heap) && h.heap[right].key < h.heap[left].key {
			minIdx = right
		}
		if h.heap[minIdx].key >= h.heap[idx].key {
			return
		}
		h.swap(idx, minIdx)
		idx = minIdx
	}
}

// Decrease subtracts delta from the key currently held by payload
// index, and restores the heap invariant. A no-op if index has
// already been popped.
func (h *DecHeap) Decrease(index, delta int) {
	idx := h.pos[index]
	if idx == absent {
		return
	}
	h.heap[idx].key -= delta
	h.bubbleUp(idx)
}

// Pop removes and returns the (key, index) pair with the smallest key.
func (h *DecHeap) Pop() (key, index int) {
	last := len(h.heap) - 1
	h.swap(0, last)
	popped := h.heap[last]
	h.pos[popped.index] = absent
	h.heap = h.heap[:last]
	h.trickleDown(0)
	return popped.key, popped.index
}

// Empty reports whether the heap holds no more entries.
func (h *DecHeap) Empty() bool {
	return len(h.heap) == 0
}

// Len reports the number of entries remaining in the heap.
func (h *DecHeap) Len() int {
	return len(h.heap)
}

// Package gcolor implements the generic priority-based graph coloring
// kernel. This mirrors original_source/src/graph.cpp and
// include/gcolor/graph.h: a Chaitin-style simplify+select coloring
// routine driven by pkg/heap's decreasing-key heap, operating over a
// plain node-count-plus-edge-list graph with no knowledge of what the
// nodes represent (the allocator driver in pkg/regalloc maps virtual
// registers to node indices before calling in, and maps colors back
// afterward).
package gcolor

import "github.com/schrodinger-cc/vcfg/pkg/heap"

// bitmask can track up to 64 distinct colors, comfortably above the
// REG_NUM=17 the allocator needs.
type bitmask uint64

func mark(m bitmask, c int) bitmask {
	return m | (bitmask(1) << uint(c))
}

// firstZeroBit returns the index of the least-significant zero bit.
func firstZeroBit(m bitmask) int {
	c := 0
	for m&1 != 0 {
		m >>= 1
		c++
	}
	return c
}

// Graph is an undirected graph over nodes 0..N-1 described by an edge
// list. It is re-used across allocator iterations by constructing a
// fresh Graph each retry (nodes come and go as registers are spilled).
type Graph struct {
	n     int
	edges [][2]int
}

// New builds a Graph over n nodes with the given undirected edges.
func New(n int, edges [][2]int) *Graph {
	g := &Graph{n: n}
	for _, e := range edges {
		g.edges = append(g.edges, [2]int{e[0], e[1]})
	}
	return g
}

// Color attempts a coloring with the given budget of colors.
//
// On success it returns (colors, nil) where colors[i] is node i's
// color and 0 <= colors[i] < k for all i.
//
// On failure it returns (nil, failureOrder) where failureOrder lists
// every node ordered by descending original degree; the allocator
// driver uses this list to pick a spill victim.
func (g *Graph) Color(k int) (colors []int, failureOrder []int) {
	adj := make([][]int, g.n)
	degree := make([]int, g.n)
	for _, e := range g.edges {
		a, b := e[0], e[1]
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
		degree[a]++
		degree[b]++
	}

	originalDegree := append([]int(nil), degree...)

	h := heap.New(degree)

	var stack []int
	removed := make([]bool, g.n)
	failed := false

	for !h.Empty() {
		deg, node := h.Pop()
		if deg >= k {
			failed = true
			break
		}
		stack = append(stack, node)
		removed[node] = true
		for _, neigh := range adj[node] {
			if !removed[neigh] {
				h.Decrease(neigh, 1)
			}
		}
	}

	if failed {
		order := make([]int, g.n)
		for i := range order {
			order[i] = i
		}
		sortByDescendingDegree(order, originalDegree)
		return nil, order
	}

	colors = make([]int, g.n)
	colored := make([]bool, g.n)
	for i := len(stack) - 1; i >= 0; i-- {
		node := stack[i]
		var mask bitmask
		for _, neigh := range adj[node] {
			if colored[neigh] {
				mask = mark(mask, colors[neigh])
			}
		}
		colors[node] = firstZeroBit(mask)
		colored[node] = true
	}
	return colors, nil
}

// sortByDescendingDegree performs a simple insertion sort since N is
// always small (bounded by live pseudo-register count per function).
func sortByDescendingDegree(order []int, degree []int) {
	for i := 1; i < len(order); i++ {
		v := order[i]
		j := i - 1
		for j >= 0 && degree[order[j]] < degree[v] {
			order[j+1] = order[j]
			j--
		}
		order[j+1] = v
	}
}

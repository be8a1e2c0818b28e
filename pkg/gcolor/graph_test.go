package gcolor

import "testing"

// TestColorFiveNodeGraphSucceedsAtThree mirrors
// original_source/tests/color_test.cpp: the same 5-node graph colors
// successfully with 3 colors, and every edge endpoint pair disagrees.
func TestColorFiveNodeGraphSucceedsAtThree(t *testing.T) {
	edges := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 4}, {3, 4}}
	g := New(5, edges)

	colors, failureOrder := g.Color(3)
	if colors == nil {
		t.Fatalf("expected success at k=3, got failure order %v", failureOrder)
	}
	for _, e := range edges {
		if colors[e[0]] == colors[e[1]] {
			t.Fatalf("edge (%d,%d) has same color %d", e[0], e[1], colors[e[0]])
		}
	}
}

// TestColorFiveNodeGraphFailsAtTwo mirrors the same fixture at k=2: no
// coloring exists, and the first failure-order entry is a
// maximum-degree node (0 or 1, each degree 3).
func TestColorFiveNodeGraphFailsAtTwo(t *testing.T) {
	edges := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 4}, {3, 4}}
	g := New(5, edges)

	colors, failureOrder := g.Color(2)
	if colors != nil {
		t.Fatalf("expected failure at k=2, got coloring %v", colors)
	}
	if len(failureOrder) != 5 {
		t.Fatalf("expected failure order over all 5 nodes, got %v", failureOrder)
	}
	if first := failureOrder[0]; first != 0 && first != 1 {
		t.Fatalf("expected max-degree node (0 or 1) first, got %d", first)
	}
}

func TestColorSucceedsWhenMaxDegreeBelowK(t *testing.T) {
	// A path graph 0-1-2-3 has max degree 2; with k=3 it must color.
	edges := [][2]int{{0, 1}, {1, 2}, {2, 3}}
	g := New(4, edges)

	colors, _ := g.Color(3)
	if colors == nil {
		t.Fatalf("expected success when max degree < k")
	}
	max := 0
	for _, c := range colors {
		if c > max {
			max = c
		}
	}
	if max > 2 {
		t.Fatalf("max color %d exceeds max degree bound", max)
	}
}

func TestColorEmptyGraph(t *testing.T) {
	g := New(0, nil)
	colors, failureOrder := g.Color(3)
	if colors == nil || len(colors) != 0 {
		t.Fatalf("expected empty-but-non-nil coloring for 0 nodes, got %v / %v", colors, failureOrder)
	}
}

package locus

import "container/heap"

// candidate is a query result under consideration: an indexed item together
// with its squared distance to the target. Candidates order lexicographically
// by (distance, original index) so that equidistant items resolve to the
// lowest insertion index.
type candidate struct {
	dist  float64
	index int
}

func (c candidate) less(o candidate) bool {
	if c.dist != o.dist {
		return c.dist < o.dist
	}
	return c.index < o.index
}

// nearestHeap is a bounded max-heap retaining the k best candidates seen so
// far. Its root is the worst accepted candidate and furnishes the pruning
// threshold during search.
type nearestHeap struct {
	limit int
	items []candidate
}

func newNearestHeap(k int) *nearestHeap {
	return &nearestHeap{limit: k, items: make([]candidate, 0, k)}
}

func (h *nearestHeap) Len() int           { return len(h.items) }
func (h *nearestHeap) Less(i, j int) bool { return h.items[j].less(h.items[i]) }
func (h *nearestHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *nearestHeap) Push(x any)         { h.items = append(h.items, x.(candidate)) }
func (h *nearestHeap) Pop() (popped any) {
	popped, h.items = h.items[len(h.items)-1], h.items[:len(h.items)-1]
	return popped
}

func (h *nearestHeap) full() bool { return len(h.items) == h.limit }

// worst returns the current worst accepted candidate. Undefined when empty.
func (h *nearestHeap) worst() candidate { return h.items[0] }

// push accepts c while capacity remains, evicts the worst candidate when c
// beats it, and discards c otherwise.
func (h *nearestHeap) push(c candidate) {
	if len(h.items) < h.limit {
		heap.Push(h, c)
		return
	}
	if c.less(h.items[0]) {
		h.items[0] = c
		heap.Fix(h, 0)
	}
}

// drainAscending empties the heap, returning its candidates in ascending
// (distance, index) order.
func (h *nearestHeap) drainAscending() []candidate {
	out := make([]candidate, len(h.items))
	for i := len(h.items) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(candidate)
	}
	return out
}

// frontierEntry pairs a node reference with a lower bound on the distance
// from the target to anything stored under that node.
type frontierEntry struct {
	bound float64
	node  int32
}

// frontier is the min-heap of unexplored subtrees driving best-first
// traversal in both trees. Bound ties resolve by arena index to keep
// traversal deterministic.
type frontier []frontierEntry

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].bound != f[j].bound {
		return f[i].bound < f[j].bound
	}
	return f[i].node < f[j].node
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)   { *f = append(*f, x.(frontierEntry)) }

func (f *frontier) Pop() (popped any) {
	popped, *f = (*f)[len(*f)-1], (*f)[:len(*f)-1]
	return popped
}

func (f *frontier) push(bound float64, node int32) {
	heap.Push(f, frontierEntry{bound: bound, node: node})
}

func (f *frontier) pop() frontierEntry {
	return heap.Pop(f).(frontierEntry)
}

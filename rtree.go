package locus

import "math"

// defaultMaxChildren is the node capacity used when no option overrides it.
const defaultMaxChildren = 16

// rtreeNode is one arena slot of an R-tree. A leaf holds the index of an
// input box; an internal node holds the union of its children's boxes and
// their arena indices.
type rtreeNode struct {
	box      Box
	item     int32 // input box index for leaves, -1 for internal nodes
	children []int32
}

func (n *rtreeNode) leaf() bool { return n.item >= 0 }

// RTree is an immutable R-tree over a sequence of axis-aligned boxes,
// bulk-loaded with sort-tile-recursive packing. The position of a box in the
// input sequence is its index, and every query reports either boxes or such
// indices.
//
// Like KDTree, the structure is a contiguous arena shared freely across
// concurrent readers; queries allocate per-call state only.
type RTree struct {
	boxes       []Box
	nodes       []rtreeNode
	root        int32
	maxChildren int
}

// RTreeOption configures RTree construction.
type RTreeOption func(*rtreeOptions)

type rtreeOptions struct {
	maxChildren int
}

// WithMaxChildren sets the node capacity (fan-out bound) of the tree.
// The capacity must be at least 2; the default is 16.
func WithMaxChildren(m int) RTreeOption {
	return func(o *rtreeOptions) { o.maxChildren = m }
}

// NewRTree bulk-loads an R-tree from the given boxes, preserving the input
// order as the index space. An empty input builds an empty tree; every query
// on it fails with ErrEmptyTree.
//
// Construction fails with ErrInvalidCapacity when the configured node
// capacity is below 2, and with ErrInvalidBox when any input box has a max
// bound below its min bound.
func NewRTree(boxes []Box, opts ...RTreeOption) (*RTree, error) {
	cfg := rtreeOptions{maxChildren: defaultMaxChildren}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.maxChildren < 2 {
		return nil, ErrInvalidCapacity
	}
	for _, b := range boxes {
		if !b.Valid() {
			return nil, ErrInvalidBox
		}
	}
	t := &RTree{
		boxes:       append([]Box(nil), boxes...),
		root:        nilNode,
		maxChildren: cfg.maxChildren,
	}
	t.pack()
	return t, nil
}

// pack builds the tree bottom-up: one leaf per input box, then repeated
// sort-tile-recursive rounds until at most maxChildren nodes remain, which
// become the children of a single root.
func (t *RTree) pack() {
	n := len(t.boxes)
	if n == 0 {
		return
	}
	t.nodes = make([]rtreeNode, 0, 2*n)
	level := make([]int32, n)
	for i, b := range t.boxes {
		level[i] = int32(len(t.nodes))
		t.nodes = append(t.nodes, rtreeNode{box: b, item: int32(i)})
	}
	for len(level) > t.maxChildren {
		level = t.packLevel(level)
	}
	if len(level) == 1 {
		t.root = level[0]
		return
	}
	t.root = t.newParent(level)
}

// packLevel groups one level of nodes into parents: the level is sorted by
// bounding-box x-center and cut into ceil(sqrt(P)) vertical slabs, each slab
// is sorted by y-center, and runs of maxChildren consecutive nodes become
// parents. The last group of a slab may be smaller; no rebalancing.
func (t *RTree) packLevel(level []int32) []int32 {
	count := len(level)
	parents := (count + t.maxChildren - 1) / t.maxChildren
	slabs := int(math.Ceil(math.Sqrt(float64(parents))))
	slabSize := (count + slabs - 1) / slabs

	sortIndicesBy(level, func(id int32) float64 {
		return t.nodes[id].box.Center().X
	})
	next := make([]int32, 0, parents)
	for start := 0; start < count; start += slabSize {
		end := min(start+slabSize, count)
		slab := level[start:end]
		sortIndicesBy(slab, func(id int32) float64 {
			return t.nodes[id].box.Center().Y
		})
		for lo := 0; lo < len(slab); lo += t.maxChildren {
			hi := min(lo+t.maxChildren, len(slab))
			next = append(next, t.newParent(slab[lo:hi]))
		}
	}
	return next
}

func (t *RTree) newParent(children []int32) int32 {
	box := t.nodes[children[0]].box
	for _, c := range children[1:] {
		box = box.Union(t.nodes[c].box)
	}
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, rtreeNode{
		box:      box,
		item:     -1,
		children: append([]int32(nil), children...),
	})
	return id
}

// Len returns the number of indexed boxes.
func (t *RTree) Len() int { return len(t.boxes) }

// MaxChildren returns the configured node capacity.
func (t *RTree) MaxChildren() int { return t.maxChildren }

// Extent returns the box most closely bounding every indexed box, or false
// when the tree is empty.
func (t *RTree) Extent() (Box, bool) {
	if t.root == nilNode {
		return Box{}, false
	}
	return t.nodes[t.root].box, true
}

// NearestIndex returns the index of the box closest to the target, ties
// resolved to the lowest index. A box containing the target is at distance
// zero.
func (t *RTree) NearestIndex(target Point) (int, error) {
	if len(t.boxes) == 0 {
		return 0, ErrEmptyTree
	}
	return t.knearest(1, target)[0].index, nil
}

// NearestBox returns the box closest to the target, ties resolved to the
// lowest index.
func (t *RTree) NearestBox(target Point) (Box, error) {
	i, err := t.NearestIndex(target)
	if err != nil {
		return Box{}, err
	}
	return t.boxes[i], nil
}

// NNearestIndices returns the indices of the k boxes closest to the target
// in ascending (distance, index) order. When k exceeds the tree size, all
// indices are returned.
func (t *RTree) NNearestIndices(k int, target Point) ([]int, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if len(t.boxes) == 0 {
		return nil, ErrEmptyTree
	}
	found := t.knearest(k, target)
	indices := make([]int, len(found))
	for i, c := range found {
		indices[i] = c.index
	}
	return indices, nil
}

// NNearestBoxes returns the k boxes closest to the target in ascending
// (distance, index) order. When k exceeds the tree size, all boxes are
// returned.
func (t *RTree) NNearestBoxes(k int, target Point) ([]Box, error) {
	indices, err := t.NNearestIndices(k, target)
	if err != nil {
		return nil, err
	}
	return t.boxesAt(indices), nil
}

// knearest is the same branch-and-bound engine as the k-d tree's, with lower
// bounds given by the squared distance from the target to a node's bounding
// box. For a leaf that bound is the exact item distance.
func (t *RTree) knearest(k int, target Point) []candidate {
	best := newNearestHeap(k)
	search := make(frontier, 0, 64)
	search.push(t.nodes[t.root].box.DistanceToPoint(target), t.root)
	for search.Len() > 0 {
		e := search.pop()
		if best.full() && e.bound > best.worst().dist {
			break
		}
		node := &t.nodes[e.node]
		if node.leaf() {
			best.push(candidate{dist: e.bound, index: int(node.item)})
			continue
		}
		for _, c := range node.children {
			search.push(t.nodes[c].box.DistanceToPoint(target), c)
		}
	}
	return best.drainAscending()
}

// FindSubsetsIndices returns the indices of all boxes contained in the query
// box, in depth-first child order.
func (t *RTree) FindSubsetsIndices(query Box) ([]int, error) {
	if !query.Valid() {
		return nil, ErrInvalidBox
	}
	if len(t.boxes) == 0 {
		return nil, ErrEmptyTree
	}
	var indices []int
	t.searchSubsets(t.root, query, &indices)
	return indices, nil
}

// FindSubsets returns all boxes contained in the query box, in the same
// order as FindSubsetsIndices.
func (t *RTree) FindSubsets(query Box) ([]Box, error) {
	indices, err := t.FindSubsetsIndices(query)
	if err != nil {
		return nil, err
	}
	return t.boxesAt(indices), nil
}

func (t *RTree) searchSubsets(id int32, query Box, out *[]int) {
	node := &t.nodes[id]
	if node.leaf() {
		if query.Contains(node.box) {
			*out = append(*out, int(node.item))
		}
		return
	}
	// A node wholly inside the query needs no further predicate checks:
	// every leaf below it qualifies.
	if query.Contains(node.box) {
		t.emitLeaves(id, out)
		return
	}
	for _, c := range node.children {
		if query.Intersects(t.nodes[c].box) {
			t.searchSubsets(c, query, out)
		}
	}
}

func (t *RTree) emitLeaves(id int32, out *[]int) {
	node := &t.nodes[id]
	if node.leaf() {
		*out = append(*out, int(node.item))
		return
	}
	for _, c := range node.children {
		t.emitLeaves(c, out)
	}
}

// FindSupersetsIndices returns the indices of all boxes containing the query
// box, in depth-first child order.
func (t *RTree) FindSupersetsIndices(query Box) ([]int, error) {
	if !query.Valid() {
		return nil, ErrInvalidBox
	}
	if len(t.boxes) == 0 {
		return nil, ErrEmptyTree
	}
	var indices []int
	t.searchSupersets(t.root, query, &indices)
	return indices, nil
}

// FindSupersets returns all boxes containing the query box, in the same
// order as FindSupersetsIndices.
func (t *RTree) FindSupersets(query Box) ([]Box, error) {
	indices, err := t.FindSupersetsIndices(query)
	if err != nil {
		return nil, err
	}
	return t.boxesAt(indices), nil
}

func (t *RTree) searchSupersets(id int32, query Box, out *[]int) {
	node := &t.nodes[id]
	// A superset leaf can only live under nodes whose box covers the query.
	if !node.box.Contains(query) {
		return
	}
	if node.leaf() {
		*out = append(*out, int(node.item))
		return
	}
	for _, c := range node.children {
		t.searchSupersets(c, query, out)
	}
}

// FindBoxIndices returns the indices of all boxes intersecting the query
// box, edges inclusive, in depth-first child order.
func (t *RTree) FindBoxIndices(query Box) ([]int, error) {
	if !query.Valid() {
		return nil, ErrInvalidBox
	}
	if len(t.boxes) == 0 {
		return nil, ErrEmptyTree
	}
	var indices []int
	t.searchIntersect(t.root, query, &indices)
	return indices, nil
}

// FindBoxBoxes returns all boxes intersecting the query box, in the same
// order as FindBoxIndices.
func (t *RTree) FindBoxBoxes(query Box) ([]Box, error) {
	indices, err := t.FindBoxIndices(query)
	if err != nil {
		return nil, err
	}
	return t.boxesAt(indices), nil
}

func (t *RTree) searchIntersect(id int32, query Box, out *[]int) {
	node := &t.nodes[id]
	if !node.box.Intersects(query) {
		return
	}
	if node.leaf() {
		*out = append(*out, int(node.item))
		return
	}
	for _, c := range node.children {
		t.searchIntersect(c, query, out)
	}
}

func (t *RTree) boxesAt(indices []int) []Box {
	boxes := make([]Box, len(indices))
	for i, idx := range indices {
		boxes[i] = t.boxes[idx]
	}
	return boxes
}

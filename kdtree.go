package locus

// nilNode marks an absent child in a node arena.
const nilNode int32 = -1

// kdNode is one arena slot of a k-d tree: the median item of its slice, the
// splitting axis, and the two child subtrees.
type kdNode struct {
	item  int32
	axis  int8
	left  int32
	right int32
}

// KDTree is an immutable k-d tree over a sequence of points. The position of
// a point in the input sequence is its index, and every query reports either
// points or such indices.
//
// Nodes live in a contiguous arena and reference children by arena index, so
// a built tree holds no pointers and can be shared by reference across any
// number of concurrent readers. Queries allocate their own heaps per call
// and never mutate the tree.
type KDTree struct {
	points []Point
	nodes  []kdNode
	root   int32
}

// NewKDTree bulk-loads a balanced k-d tree from the given points, preserving
// the input order as the index space. An empty input builds an empty tree;
// every query on it fails with ErrEmptyTree.
//
// Construction splits each slice at its exact median on the axis alternating
// with depth (x at even depths, y at odd), with coordinate ties broken by
// original index. The build walks an explicit work stack rather than the
// call stack, so input size cannot exhaust recursion depth.
func NewKDTree(points []Point) *KDTree {
	t := &KDTree{
		points: append([]Point(nil), points...),
		root:   nilNode,
	}
	n := len(t.points)
	if n == 0 {
		return t
	}
	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	t.nodes = make([]kdNode, 0, n)

	type frame struct {
		lo, hi int
		axis   int8
		parent int32
		left   bool
	}
	stack := make([]frame, 0, 32)
	stack = append(stack, frame{lo: 0, hi: n, parent: nilNode})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sortIndicesBy(order[f.lo:f.hi], func(i int32) float64 {
			return t.coord(i, f.axis)
		})
		mid := f.lo + (f.hi-f.lo)/2
		id := int32(len(t.nodes))
		t.nodes = append(t.nodes, kdNode{
			item:  order[mid],
			axis:  f.axis,
			left:  nilNode,
			right: nilNode,
		})
		switch {
		case f.parent == nilNode:
			t.root = id
		case f.left:
			t.nodes[f.parent].left = id
		default:
			t.nodes[f.parent].right = id
		}
		next := (f.axis + 1) % 2
		if mid > f.lo {
			stack = append(stack, frame{lo: f.lo, hi: mid, axis: next, parent: id, left: true})
		}
		if mid+1 < f.hi {
			stack = append(stack, frame{lo: mid + 1, hi: f.hi, axis: next, parent: id})
		}
	}
	return t
}

// Len returns the number of indexed points.
func (t *KDTree) Len() int { return len(t.points) }

func (t *KDTree) coord(item int32, axis int8) float64 {
	if axis == 0 {
		return t.points[item].X
	}
	return t.points[item].Y
}

// NearestIndex returns the index of the point closest to the target, ties
// resolved to the lowest index.
func (t *KDTree) NearestIndex(target Point) (int, error) {
	if len(t.points) == 0 {
		return 0, ErrEmptyTree
	}
	return t.knearest(1, target)[0].index, nil
}

// Nearest returns the point closest to the target, ties resolved to the
// lowest index.
func (t *KDTree) Nearest(target Point) (Point, error) {
	i, err := t.NearestIndex(target)
	if err != nil {
		return Point{}, err
	}
	return t.points[i], nil
}

// NNearestIndices returns the indices of the k points closest to the target
// in ascending (distance, index) order. When k exceeds the tree size, all
// indices are returned.
func (t *KDTree) NNearestIndices(k int, target Point) ([]int, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if len(t.points) == 0 {
		return nil, ErrEmptyTree
	}
	found := t.knearest(k, target)
	indices := make([]int, len(found))
	for i, c := range found {
		indices[i] = c.index
	}
	return indices, nil
}

// NNearestPoints returns the k points closest to the target in ascending
// (distance, index) order. When k exceeds the tree size, all points are
// returned.
func (t *KDTree) NNearestPoints(k int, target Point) ([]Point, error) {
	indices, err := t.NNearestIndices(k, target)
	if err != nil {
		return nil, err
	}
	return t.pointsAt(indices), nil
}

// knearest runs the exact branch-and-bound engine shared by all nearest
// queries. The frontier orders unexplored subtrees by a lower bound on their
// distance to the target: a child on the target's side of the split inherits
// its parent's bound, the far child takes the larger of its parent's bound
// and the squared distance to the splitting plane. Search stops once the cheapest unexplored bound
// can no longer beat the worst retained candidate.
func (t *KDTree) knearest(k int, target Point) []candidate {
	best := newNearestHeap(k)
	search := make(frontier, 0, 64)
	search.push(0, t.root)
	for search.Len() > 0 {
		e := search.pop()
		if best.full() && e.bound > best.worst().dist {
			break
		}
		node := t.nodes[e.node]
		best.push(candidate{
			dist:  target.DistanceTo(t.points[node.item]),
			index: int(node.item),
		})
		delta := t.targetDelta(target, node)
		near, far := node.left, node.right
		if delta > 0 {
			near, far = node.right, node.left
		}
		if near != nilNode {
			search.push(e.bound, near)
		}
		if far != nilNode {
			bound := delta * delta
			if bound < e.bound {
				bound = e.bound
			}
			search.push(bound, far)
		}
	}
	return best.drainAscending()
}

// targetDelta returns the signed offset of the target from the node's
// splitting plane along the node's axis.
func (t *KDTree) targetDelta(target Point, node kdNode) float64 {
	if node.axis == 0 {
		return target.X - t.points[node.item].X
	}
	return target.Y - t.points[node.item].Y
}

// FindBoxIndices returns the indices of all points inside the query box,
// edges inclusive, in in-order traversal order (left subtree, node, right
// subtree).
func (t *KDTree) FindBoxIndices(query Box) ([]int, error) {
	if !query.Valid() {
		return nil, ErrInvalidBox
	}
	if len(t.points) == 0 {
		return nil, ErrEmptyTree
	}
	var indices []int
	t.searchBox(t.root, query, &indices)
	return indices, nil
}

// FindBoxPoints returns all points inside the query box, edges inclusive,
// in the same order as FindBoxIndices.
func (t *KDTree) FindBoxPoints(query Box) ([]Point, error) {
	indices, err := t.FindBoxIndices(query)
	if err != nil {
		return nil, err
	}
	return t.pointsAt(indices), nil
}

func (t *KDTree) searchBox(id int32, query Box, out *[]int) {
	if id == nilNode {
		return
	}
	node := t.nodes[id]
	p := t.points[node.item]
	var v, lo, hi float64
	if node.axis == 0 {
		v, lo, hi = p.X, query.MinX, query.MaxX
	} else {
		v, lo, hi = p.Y, query.MinY, query.MaxY
	}
	// The left region is bounded above by v on the splitting axis, the right
	// region below by v; a subtree is visited only if the query reaches it.
	if lo <= v {
		t.searchBox(node.left, query, out)
	}
	if query.ContainsPoint(p) {
		*out = append(*out, int(node.item))
	}
	if hi >= v {
		t.searchBox(node.right, query, out)
	}
}

// FindBallIndices returns the indices of all points whose distance to the
// center does not exceed the radius, in in-order traversal order.
func (t *KDTree) FindBallIndices(center Point, radius float64) ([]int, error) {
	if radius < 0 {
		return nil, ErrInvalidRadius
	}
	if len(t.points) == 0 {
		return nil, ErrEmptyTree
	}
	var indices []int
	t.searchBall(t.root, center, radius*radius, &indices)
	return indices, nil
}

// FindBallPoints returns all points whose distance to the center does not
// exceed the radius, in the same order as FindBallIndices.
func (t *KDTree) FindBallPoints(center Point, radius float64) ([]Point, error) {
	indices, err := t.FindBallIndices(center, radius)
	if err != nil {
		return nil, err
	}
	return t.pointsAt(indices), nil
}

func (t *KDTree) searchBall(id int32, center Point, rr float64, out *[]int) {
	if id == nilNode {
		return
	}
	node := t.nodes[id]
	delta := t.targetDelta(center, node)
	if delta <= 0 || delta*delta <= rr {
		t.searchBall(node.left, center, rr, out)
	}
	if center.DistanceTo(t.points[node.item]) <= rr {
		*out = append(*out, int(node.item))
	}
	if delta >= 0 || delta*delta <= rr {
		t.searchBall(node.right, center, rr, out)
	}
}

func (t *KDTree) pointsAt(indices []int) []Point {
	points := make([]Point, len(indices))
	for i, idx := range indices {
		points[i] = t.points[idx]
	}
	return points
}

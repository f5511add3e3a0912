package locus

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridBoxes draws boxes with small integer bounds so that distance ties and
// shared edges occur often.
func gridBoxes(r *rand.Rand, n int) []Box {
	boxes := make([]Box, n)
	for i := range boxes {
		x1, x2 := float64(r.Intn(21)-10), float64(r.Intn(21)-10)
		y1, y2 := float64(r.Intn(21)-10), float64(r.Intn(21)-10)
		boxes[i] = Box{
			MinX: min(x1, x2), MaxX: max(x1, x2),
			MinY: min(y1, y2), MaxY: max(y1, y2),
		}
	}
	return boxes
}

func randomQueryBox(r *rand.Rand) Box {
	x1, x2 := float64(r.Intn(25)-12), float64(r.Intn(25)-12)
	y1, y2 := float64(r.Intn(25)-12), float64(r.Intn(25)-12)
	return Box{
		MinX: min(x1, x2), MaxX: max(x1, x2),
		MinY: min(y1, y2), MaxY: max(y1, y2),
	}
}

// bruteBoxOrder ranks all indices by (squared box distance, index).
func bruteBoxOrder(boxes []Box, target Point) []int {
	order := make([]int, len(boxes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		di := boxes[order[i]].DistanceToPoint(target)
		dj := boxes[order[j]].DistanceToPoint(target)
		if di != dj {
			return di < dj
		}
		return order[i] < order[j]
	})
	return order
}

func TestRTree_NearestMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for trial := 0; trial < 40; trial++ {
		boxes := gridBoxes(r, 1+r.Intn(200))
		tree, err := NewRTree(boxes)
		require.NoError(t, err)
		for q := 0; q < 10; q++ {
			target := Point{X: r.Float64()*30 - 15, Y: r.Float64()*30 - 15}
			want := bruteBoxOrder(boxes, target)[0]
			got, err := tree.NearestIndex(target)
			require.NoError(t, err)
			assert.Equal(t, want, got, "trial %d target %+v", trial, target)
		}
	}
}

func TestRTree_NNearestMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(12))
	for trial := 0; trial < 30; trial++ {
		n := 1 + r.Intn(150)
		boxes := gridBoxes(r, n)
		m := 2 + r.Intn(15)
		tree, err := NewRTree(boxes, WithMaxChildren(m))
		require.NoError(t, err)
		target := Point{X: r.Float64()*30 - 15, Y: r.Float64()*30 - 15}
		ranked := bruteBoxOrder(boxes, target)
		for _, k := range []int{1, 3, 7, n, n + 5} {
			want := ranked[:min(k, n)]
			got, err := tree.NNearestIndices(k, target)
			require.NoError(t, err)
			require.Equal(t, want, got, "trial %d m %d k %d", trial, m, k)
		}
	}
}

func TestRTree_SubsetSupersetDuality(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	for trial := 0; trial < 40; trial++ {
		boxes := gridBoxes(r, 1+r.Intn(150))
		tree, err := NewRTree(boxes)
		require.NoError(t, err)
		query := randomQueryBox(r)

		var wantSub, wantSup []int
		for i, b := range boxes {
			if query.Contains(b) {
				wantSub = append(wantSub, i)
			}
			if b.Contains(query) {
				wantSup = append(wantSup, i)
			}
		}
		gotSub, err := tree.FindSubsetsIndices(query)
		require.NoError(t, err)
		assert.ElementsMatch(t, wantSub, gotSub, "subsets trial %d query %+v", trial, query)

		gotSup, err := tree.FindSupersetsIndices(query)
		require.NoError(t, err)
		assert.ElementsMatch(t, wantSup, gotSup, "supersets trial %d query %+v", trial, query)
	}
}

func TestRTree_FindBoxMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(14))
	for trial := 0; trial < 40; trial++ {
		boxes := gridBoxes(r, 1+r.Intn(150))
		tree, err := NewRTree(boxes, WithMaxChildren(2+r.Intn(15)))
		require.NoError(t, err)
		query := randomQueryBox(r)

		var want []int
		for i, b := range boxes {
			if query.Intersects(b) {
				want = append(want, i)
			}
		}
		got, err := tree.FindBoxIndices(query)
		require.NoError(t, err)
		assert.ElementsMatch(t, want, got, "trial %d query %+v", trial, query)
	}
}

func TestRTree_BuildDeterminism(t *testing.T) {
	r := rand.New(rand.NewSource(15))
	boxes := gridBoxes(r, 180)
	a, err := NewRTree(boxes)
	require.NoError(t, err)
	b, err := NewRTree(boxes)
	require.NoError(t, err)

	target := Point{X: 0.5, Y: 0.5}
	ga, err := a.NNearestIndices(12, target)
	require.NoError(t, err)
	gb, err := b.NNearestIndices(12, target)
	require.NoError(t, err)
	assert.Equal(t, ga, gb)

	query := Box{MinX: -4, MaxX: 4, MinY: -4, MaxY: 4}
	fa, err := a.FindBoxIndices(query)
	require.NoError(t, err)
	fb, err := b.FindBoxIndices(query)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

func TestRTree_LeavesShareDepth(t *testing.T) {
	r := rand.New(rand.NewSource(16))
	for _, n := range []int{1, 2, 16, 17, 100, 400} {
		for _, m := range []int{2, 4, 16} {
			tree, err := NewRTree(gridBoxes(r, n), WithMaxChildren(m))
			require.NoError(t, err)

			depths := map[int]bool{}
			var walk func(id int32, depth int)
			walk = func(id int32, depth int) {
				node := &tree.nodes[id]
				if node.leaf() {
					depths[depth] = true
					return
				}
				require.LessOrEqual(t, len(node.children), m)
				require.NotEmpty(t, node.children)
				for _, c := range node.children {
					walk(c, depth+1)
				}
			}
			walk(tree.root, 1)
			assert.Len(t, depths, 1, "n=%d m=%d", n, m)
			assert.Equal(t, tree.Stats().Height, singleKey(depths), "n=%d m=%d", n, m)
		}
	}
}

func singleKey(set map[int]bool) int {
	for k := range set {
		return k
	}
	return 0
}

func TestRTree_NodeBoxesCoverChildren(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	tree, err := NewRTree(gridBoxes(r, 250), WithMaxChildren(5))
	require.NoError(t, err)
	for i := range tree.nodes {
		node := &tree.nodes[i]
		if node.leaf() {
			continue
		}
		union := tree.nodes[node.children[0]].box
		for _, c := range node.children[1:] {
			union = union.Union(tree.nodes[c].box)
		}
		assert.Equal(t, union, node.box, "node %d", i)
	}
}

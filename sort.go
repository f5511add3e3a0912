package locus

import "sort"

// sortIndicesBy sorts a slice of arena or item indices by a float64 key,
// breaking key ties by the index itself. Both builders rely on this to keep
// construction a pure function of the input sequence: the k-d tree sorts
// item indices by the splitting coordinate, the R-tree sorts level nodes by
// bounding-box centers.
func sortIndicesBy(indices []int32, key func(int32) float64) {
	sort.Slice(indices, func(i, j int) bool {
		ki, kj := key(indices[i]), key(indices[j])
		if ki != kj {
			return ki < kj
		}
		return indices[i] < indices[j]
	})
}

package locus_test

import (
	"fmt"

	"github.com/lycantropos/locus"
)

func ExampleKDTree_NearestIndex() {
	tree := locus.NewKDTree(locus.PointsOf(
		0, 0,
		1, 0,
		0, 1,
		2, 2,
	))
	index, _ := tree.NearestIndex(locus.NewPoint(0.9, 0.1))
	fmt.Println(index)
	// Output: 1
}

func ExampleKDTree_FindBallIndices() {
	tree := locus.NewKDTree(locus.PointsOf(
		0, 0,
		3, 4,
		10, 10,
	))
	indices, _ := tree.FindBallIndices(locus.NewPoint(0, 0), 5)
	fmt.Println(indices)
	// Output: [0 1]
}

func ExampleRTree_NNearestIndices() {
	tree, _ := locus.NewRTree(locus.BoxesOf(
		0, 1, 0, 1,
		5, 6, 5, 6,
		2, 3, 2, 3,
	))
	indices, _ := tree.NNearestIndices(2, locus.NewPoint(0, 0))
	fmt.Println(indices)
	// Output: [0 2]
}

func ExampleRTree_FindSubsetsIndices() {
	tree, _ := locus.NewRTree(locus.BoxesOf(
		0, 1, 0, 1,
		2, 3, 0, 1,
		0, 3, 0, 3,
	))
	indices, _ := tree.FindSubsetsIndices(locus.NewBox(-1, 2, -1, 2))
	fmt.Println(indices)
	// Output: [0]
}

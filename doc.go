// Package locus provides immutable, bulk-loaded spatial indexes over a
// finite set of geometric items in the plane: a k-d tree over points built
// by median splits on alternating axes, and an R-tree over axis-aligned
// boxes packed with the sort-tile-recursive algorithm.
//
// Both indexes answer nearest, k-nearest and box-based range queries, and
// the R-tree additionally reports subset/superset relations between a query
// box and the indexed boxes. Results are phrased either as the original
// geometries or as their insertion indices, which stay stable for the
// lifetime of a tree. Once built, a tree is never mutated and is safe to
// query from any number of concurrent readers.
package locus

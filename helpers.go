package locus

// Helper builders mapping raw coordinate sequences into index space. These
// are convenience utilities for assembling query inputs and test fixtures.

// PointsOf builds a point sequence from pairwise coordinates:
// PointsOf(x0, y0, x1, y1, ...). It panics if the number of values is odd.
func PointsOf(xys ...float64) []Point {
	if len(xys)%2 != 0 {
		panic("locus: PointsOf requires an even number of coordinates")
	}
	points := make([]Point, len(xys)/2)
	for i := range points {
		points[i] = Point{X: xys[2*i], Y: xys[2*i+1]}
	}
	return points
}

// BoxesOf builds a box sequence from quadwise bounds:
// BoxesOf(minX0, maxX0, minY0, maxY0, minX1, ...). It panics if the number
// of values is not a multiple of four.
func BoxesOf(bounds ...float64) []Box {
	if len(bounds)%4 != 0 {
		panic("locus: BoxesOf requires a multiple of four bounds")
	}
	boxes := make([]Box, len(bounds)/4)
	for i := range boxes {
		boxes[i] = Box{
			MinX: bounds[4*i],
			MaxX: bounds[4*i+1],
			MinY: bounds[4*i+2],
			MaxY: bounds[4*i+3],
		}
	}
	return boxes
}

// Centers returns the center point of every box, in order. It is the usual
// bridge from an R-tree's input to k-d tree points over the same items.
func Centers(boxes []Box) []Point {
	centers := make([]Point, len(boxes))
	for i, b := range boxes {
		centers[i] = b.Center()
	}
	return centers
}

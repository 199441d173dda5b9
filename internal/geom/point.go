// Package geom provides the 2D point type shared by the tracker and the gesture classifiers.
package geom

import (
	"fmt"
	"math"
)

// Point represents a position on the touch surface.
// ID is optional and carries the index of the point within its source set.
type Point struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	ID int     `json:"id,omitempty"`
}

// Pt creates a Point with the given coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// WithID returns a copy of p carrying the given id.
func (p Point) WithID(id int) Point {
	p.ID = id
	return p
}

// Add returns the vector sum p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y, ID: p.ID}
}

// Sub returns the vector difference p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, ID: p.ID}
}

// Scale returns p multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s, ID: p.ID}
}

// Len returns the length of p treated as a vector.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Sqrt(p.DistSq(q))
}

// DistSq returns the squared Euclidean distance between p and q.
func (p Point) DistSq(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Manhattan returns the L1 distance between p and q.
func (p Point) Manhattan(q Point) float64 {
	return math.Abs(p.X-q.X) + math.Abs(p.Y-q.Y)
}

// Cross returns the z component of the cross product p×q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Coord returns the coordinate along dimension dim (0 for X, 1 for Y).
func (p Point) Coord(dim int) float64 {
	if dim == 0 {
		return p.X
	}
	return p.Y
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// Centroid returns the arithmetic mean of pts.
// Returns the zero Point if pts is empty.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}

	var sumX, sumY float64
	for _, p := range pts {
		sumX += p.X
		sumY += p.Y
	}

	n := float64(len(pts))
	return Point{X: sumX / n, Y: sumY / n}
}

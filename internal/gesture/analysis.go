package gesture

import (
	"math"

	"github.com/ayusman/tactus/internal/geom"
	"github.com/ayusman/tactus/internal/touch"
)

// dominance returns the share of frames holding exactly n touches. Up to
// minEmpty empty frames are not counted, since a session normally starts and
// ends with the surface untouched.
func dominance(g touch.TrackedGesture, n, minEmpty int) float64 {
	matching, other := g.CountFrames(n)
	if matching == 0 {
		return 0
	}

	if n != 0 {
		empty, _ := g.CountFrames(0)
		other -= min(empty, minEmpty)
	}

	return float64(matching) / float64(matching+other)
}

// firstFrameWith returns the index of the first frame holding exactly n touches, or -1.
func firstFrameWith(frames []touch.Frame, n int) int {
	for i, f := range frames {
		if f.Len() == n {
			return i
		}
	}
	return -1
}

// lastFrameWith returns the index of the last frame holding exactly n touches, or -1.
func lastFrameWith(frames []touch.Frame, n int) int {
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i].Len() == n {
			return i
		}
	}
	return -1
}

// singleTouchPoints returns the touch positions of all single-touch frames in order.
func singleTouchPoints(g touch.TrackedGesture) []geom.Point {
	var pts []geom.Point
	for _, f := range g.Frames {
		if f.Len() == 1 {
			pts = append(pts, f.Touches[0].Position())
		}
	}
	return pts
}

// farthestFrom returns the point of pts with the largest distance to p.
func farthestFrom(p geom.Point, pts []geom.Point) geom.Point {
	best := p
	var bestDist float64
	for _, q := range pts {
		if d := p.Dist(q); d > bestDist {
			best = q
			bestDist = d
		}
	}
	return best
}

// distanceFromSegment returns the distance from p to the segment a-b.
// Inside the segment span the height of the triangle a, b, p is derived
// with the law of cosines; beyond either end the distance to that end is used.
func distanceFromSegment(p, a, b geom.Point) float64 {
	c := a.Dist(b)
	da := p.Dist(a)
	db := p.Dist(b)
	if c == 0 {
		return da
	}
	if da == 0 || db == 0 {
		return 0
	}

	cosA := (da*da + c*c - db*db) / (2 * da * c)
	if cosA < 0 {
		return da
	}
	cosB := (db*db + c*c - da*da) / (2 * db * c)
	if cosB < 0 {
		return db
	}

	sinA := math.Sqrt(math.Max(0, 1-cosA*cosA))
	return da * sinA
}

// angleOf returns the direction from a to b in degrees within [0, 360).
// 0 points along +X and 90 along +Y.
func angleOf(a, b geom.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y

	if dx == 0 {
		switch {
		case dy > 0:
			return 90
		case dy < 0:
			return 270
		default:
			return 0
		}
	}

	deg := math.Atan2(dy, dx) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// dimensions returns the width and height of the bounding box of pts.
func dimensions(pts []geom.Point) [2]float64 {
	if len(pts) == 0 {
		return [2]float64{}
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return [2]float64{maxX - minX, maxY - minY}
}

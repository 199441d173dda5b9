package gesture

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/geom"
	"github.com/ayusman/tactus/internal/touch"
)

const (
	// minCirclePoints is the number of touches needed to judge circularity.
	minCirclePoints = 5

	// minArcSpan is the smallest chord, relative to the radius, between the
	// first touch and the touch farthest from it. Shallow arcs fit circles
	// with huge radii and are rejected.
	minArcSpan = 1.5
)

// CircleClassifier recognizes a single finger drawing a circle or a semi-circle.
type CircleClassifier struct {
	maxVariance    float64
	minRadius      float64
	leftRight      float64
	minEmptyFrames int
	relation       float64
}

// NewCircleClassifier creates a CircleClassifier with the thresholds of cfg.
func NewCircleClassifier(cfg config.Config) *CircleClassifier {
	return &CircleClassifier{
		maxVariance:    cfg.MaxCircleVariance,
		minRadius:      cfg.MinCircleRadius,
		leftRight:      cfg.LeftRightDistVar,
		minEmptyFrames: cfg.MinEmptyFrames,
		relation:       cfg.MinBlobRelation,
	}
}

// Name returns the gesture family of the classifier.
func (c *CircleClassifier) Name() string {
	return NameCircle
}

// Classify accepts sessions dominated by single-touch frames whose touches
// lie on one circle: the population variance of their distances to the
// center must not exceed MaxCircleVariance times the mean distance.
//
// The center is the centroid of all touches. An arc that is not closed pulls
// the centroid off its center, so if the centroid fails the test it is
// repeated around the least-squares circle center.
//
// Full and semi-circles are told apart by the chord from the first touch to
// the touch farthest from it: a full circle leaves touches on both sides.
func (c *CircleClassifier) Classify(g touch.TrackedGesture) *Result {
	if dominance(g, 1, c.minEmptyFrames) <= c.relation {
		return nil
	}

	pts := g.Points()
	if len(pts) < minCirclePoints {
		return nil
	}

	center := geom.Centroid(pts)
	radius, variance, ok := c.circleForm(pts, center)
	if !ok {
		fitted, err := fitCircleCenter(pts)
		if err != nil {
			return nil
		}
		center = fitted
		radius, variance, ok = c.circleForm(pts, center)
		if !ok {
			return nil
		}
	}

	start := pts[0]
	end := farthestFrom(start, pts)
	if start.Dist(end) < minArcSpan*radius {
		return nil
	}

	left, right := sides(pts, start, end)
	name := NameSemiCircle
	if lo, hi := min(left, right), max(left, right); hi > 0 && float64(lo)/float64(hi) > c.leftRight {
		name = NameCircle
	}

	return NewResult(name, 1-0.5*variance/(c.maxVariance*radius), []geom.Point{start, end, center}, map[string]any{
		ParamDirection:  rotation(pts, center),
		ParamRadius:     radius,
		ParamFirstTouch: start,
		ParamLastTouch:  pts[len(pts)-1],
	})
}

// circleForm returns the mean distance of pts to center and its population
// variance, and whether the points lie approximately on one circle.
func (c *CircleClassifier) circleForm(pts []geom.Point, center geom.Point) (radius, variance float64, ok bool) {
	dists := make([]float64, len(pts))
	for i, p := range pts {
		dists[i] = p.Dist(center)
	}

	radius, variance = stat.PopMeanVariance(dists, nil)
	if radius < c.minRadius {
		return radius, variance, false
	}
	return radius, variance, variance <= c.maxVariance*radius
}

// fitCircleCenter returns the center of the algebraic least-squares circle
// through pts, solving x² + y² + Dx + Ey + F = 0 for D, E and F.
// Coordinates are shifted to the centroid first for conditioning.
func fitCircleCenter(pts []geom.Point) (geom.Point, error) {
	c := geom.Centroid(pts)

	a := mat.NewDense(len(pts), 3, nil)
	b := mat.NewVecDense(len(pts), nil)
	for i, p := range pts {
		x, y := p.X-c.X, p.Y-c.Y
		a.Set(i, 0, x)
		a.Set(i, 1, y)
		a.Set(i, 2, 1)
		b.SetVec(i, -(x*x + y*y))
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return geom.Point{}, err
	}

	return geom.Pt(c.X-sol.AtVec(0)/2, c.Y-sol.AtVec(1)/2), nil
}

// sides counts the points left and right of the line from start to end.
func sides(pts []geom.Point, start, end geom.Point) (left, right int) {
	const eps = 1e-9

	chord := end.Sub(start)
	for _, p := range pts {
		cross := chord.Cross(p.Sub(start))
		switch {
		case cross > eps:
			left++
		case cross < -eps:
			right++
		}
	}
	return left, right
}

// rotation returns the majority turning direction of consecutive points
// around center. Surface coordinates grow downwards, so a positive cross
// product turns clockwise.
func rotation(pts []geom.Point, center geom.Point) string {
	var cw, ccw int
	for i := 0; i+1 < len(pts); i++ {
		cross := pts[i].Sub(center).Cross(pts[i+1].Sub(center))
		switch {
		case cross > 0:
			cw++
		case cross < 0:
			ccw++
		}
	}

	if ccw > cw {
		return CounterClockwise
	}
	return Clockwise
}

package gesture

import (
	"math"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/geom"
	"github.com/ayusman/tactus/internal/touch"
)

// LineClassifier recognizes a single finger moving along a straight line.
type LineClassifier struct {
	maxDistFromLine float64
	minLength       float64
	minEmptyFrames  int
	relation        float64
}

// NewLineClassifier creates a LineClassifier with the thresholds of cfg.
func NewLineClassifier(cfg config.Config) *LineClassifier {
	return &LineClassifier{
		maxDistFromLine: cfg.MaxDistFromLine,
		minLength:       cfg.MinLineLength,
		minEmptyFrames:  cfg.MinEmptyFrames,
		relation:        cfg.MinBlobRelation,
	}
}

// Name returns the gesture family of the classifier.
func (c *LineClassifier) Name() string {
	return NameLine
}

// Classify accepts sessions dominated by single-touch frames whose touches
// all lie close to the segment from the first contact to the contact farthest
// from it. Taking the farthest point keeps noise at the end of the stroke
// from shortening the line, at the cost of accepting a larger excursion
// in another direction as the end point.
func (c *LineClassifier) Classify(g touch.TrackedGesture) *Result {
	if dominance(g, 1, c.minEmptyFrames) <= c.relation {
		return nil
	}

	single := singleTouchPoints(g)
	if len(single) == 0 {
		return nil
	}

	pts := g.Points()
	start := single[0]
	end := farthestFrom(start, pts)

	length := start.Dist(end)
	if length <= c.minLength {
		return nil
	}

	var deviation float64
	for _, p := range pts {
		d := distanceFromSegment(p, start, end)
		if d > c.maxDistFromLine {
			return nil
		}
		deviation = math.Max(deviation, d)
	}

	return NewResult(NameLine, 1-0.5*deviation/c.maxDistFromLine, []geom.Point{start, end}, map[string]any{
		ParamAngle:      angleOf(start, end),
		ParamLength:     length,
		ParamFirstTouch: start,
		ParamLastTouch:  end,
	})
}

package gesture

import (
	"math"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/geom"
	"github.com/ayusman/tactus/internal/touch"
)

// PinchClassifier recognizes two contacts moving towards or away from each other.
type PinchClassifier struct {
	maxDistFromLine float64
	minChange       float64
	stationary      float64
	minEmptyFrames  int
	relation        float64
}

// NewPinchClassifier creates a PinchClassifier with the thresholds of cfg.
func NewPinchClassifier(cfg config.Config) *PinchClassifier {
	return &PinchClassifier{
		maxDistFromLine: cfg.MaxDistFromLine,
		minChange:       cfg.MinPinchChange,
		stationary:      cfg.StationaryDistance,
		minEmptyFrames:  cfg.MinEmptyFrames,
		relation:        cfg.MinBlobRelation,
	}
}

// Name returns the gesture family of the classifier.
func (c *PinchClassifier) Name() string {
	return NamePinch
}

// Classify accepts sessions dominated by two-touch frames. The start
// positions are taken from the first two-touch frame, which must lie in the
// first third of the session, and the end positions from the last one, which
// must lie in the last third. Both contacts have to stay near the line from
// their start to their end position, and the distance between them has to
// change by more than MinPinchChange relative to the larger of the two.
//
// The expanding parameter is 1 if the contacts moved apart and -1 if they
// converged. If one contact never left its start position the gesture is
// reported as a one finger pinch.
func (c *PinchClassifier) Classify(g touch.TrackedGesture) *Result {
	if dominance(g, 2, c.minEmptyFrames) <= c.relation {
		return nil
	}

	n := len(g.Frames)
	first := firstFrameWith(g.Frames, 2)
	last := lastFrameWith(g.Frames, 2)
	if first < 0 || first*3 >= n || (n-1-last)*3 >= n {
		return nil
	}

	start := g.Frames[first]
	a0, b0 := start.Touches[0], start.Touches[1]
	a1, ok := g.Frames[last].ByID(a0.ID)
	if !ok {
		return nil
	}
	b1, ok := g.Frames[last].ByID(b0.ID)
	if !ok {
		return nil
	}

	stationary := false
	for _, pair := range [][2]touch.Touch{{a0, a1}, {b0, b1}} {
		tr, ok := g.Trajectories[pair[0].ID]
		if !ok {
			return nil
		}
		from, to := pair[0].Position(), pair[1].Position()
		if !c.onSegment(tr, from, to) {
			return nil
		}
		if c.stays(tr, from) {
			stationary = true
		}
	}

	d0 := a0.Position().Dist(b0.Position())
	d1 := a1.Position().Dist(b1.Position())
	longer := math.Max(d0, d1)
	if longer == 0 {
		return nil
	}
	change := math.Abs(d0-d1) / longer
	if change <= c.minChange {
		return nil
	}

	expanding := -1.0
	if d1 > d0 {
		expanding = 1.0
	}

	name := NamePinch
	if stationary {
		name = NameOneFingerPinch
	}

	pts := []geom.Point{a0.Position(), b0.Position(), a1.Position(), b1.Position()}
	return NewResult(name, math.Min(1, change), pts, map[string]any{
		ParamExpanding:  expanding,
		ParamContacts:   2,
		ParamFirstTouch: pts[0],
		ParamLastTouch:  pts[2],
	})
}

// onSegment reports whether all samples of tr lie within MaxDistFromLine of the segment from-to.
func (c *PinchClassifier) onSegment(tr touch.Trajectory, from, to geom.Point) bool {
	for _, s := range tr.Samples {
		if distanceFromSegment(s.Point, from, to) > c.maxDistFromLine {
			return false
		}
	}
	return true
}

// stays reports whether all samples of tr lie within StationaryDistance of p.
func (c *PinchClassifier) stays(tr touch.Trajectory, p geom.Point) bool {
	for _, s := range tr.Samples {
		if s.Point.Dist(p) > c.stationary {
			return false
		}
	}
	return true
}

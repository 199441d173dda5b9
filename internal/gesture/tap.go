package gesture

import (
	"math"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/geom"
	"github.com/ayusman/tactus/internal/touch"
)

// TapClassifier recognizes one or more taps on the same spot.
type TapClassifier struct {
	maxDistance float64
}

// NewTapClassifier creates a TapClassifier using the tap threshold of cfg.
func NewTapClassifier(cfg config.Config) *TapClassifier {
	return &TapClassifier{maxDistance: cfg.MaxTapDistance}
}

// Name returns the gesture family of the classifier.
func (c *TapClassifier) Name() string {
	return NameTap
}

// Classify accepts sessions in which no frame holds more than one touch, no
// touch grows to MaxTapDistance and no contact drifts further than that from
// the first one. Contact runs separated by empty frames are counted as taps.
func (c *TapClassifier) Classify(g touch.TrackedGesture) *Result {
	var (
		first     geom.Point
		touched   bool
		inContact bool
		taps      int
		drift     float64
	)

	for _, f := range g.Frames {
		if f.Len() > 1 {
			return nil
		}
		if f.Empty() {
			inContact = false
			continue
		}

		t := f.Touches[0]
		if t.Extent() >= c.maxDistance {
			return nil
		}

		p := t.Position()
		if !touched {
			first = p
			touched = true
		}
		d := p.Dist(first)
		if d > c.maxDistance {
			return nil
		}
		drift = math.Max(drift, d)

		if !inContact {
			taps++
			inContact = true
		}
	}

	if !touched {
		return nil
	}

	return NewResult(NameTap, 1-0.1*drift/c.maxDistance, []geom.Point{first}, map[string]any{
		ParamTaps:       taps,
		ParamFirstTouch: first,
	})
}

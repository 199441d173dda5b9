package gesture

import (
	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/geom"
	"github.com/ayusman/tactus/internal/touch"
)

// DragClassifier recognizes a fixed number of contacts moving together.
type DragClassifier struct {
	contacts       int
	minEmptyFrames int
	relation       float64
}

// NewDragClassifier creates a DragClassifier for cfg.DragContacts contacts.
func NewDragClassifier(cfg config.Config) *DragClassifier {
	return &DragClassifier{
		contacts:       cfg.DragContacts,
		minEmptyFrames: cfg.MinEmptyFrames,
		relation:       cfg.MinBlobRelation,
	}
}

// Name returns the gesture family of the classifier.
func (c *DragClassifier) Name() string {
	return NameDrag
}

// Classify accepts sessions dominated by frames with exactly DragContacts
// touches. The path is not checked; start and end are the centroids of the
// first and last qualifying frames.
func (c *DragClassifier) Classify(g touch.TrackedGesture) *Result {
	share := dominance(g, c.contacts, c.minEmptyFrames)
	if share <= c.relation {
		return nil
	}

	first := firstFrameWith(g.Frames, c.contacts)
	last := lastFrameWith(g.Frames, c.contacts)
	if first < 0 {
		return nil
	}

	var pts []geom.Point
	for _, f := range g.Frames[first : last+1] {
		if f.Len() == c.contacts {
			pts = append(pts, f.Points()...)
		}
	}

	start := g.Frames[first].Centroid()
	end := g.Frames[last].Centroid()
	return NewResult(NameDrag, share, []geom.Point{start, end}, map[string]any{
		ParamContacts:   c.contacts,
		ParamDimensions: dimensions(pts),
		ParamAngle:      angleOf(start, end),
		ParamFirstTouch: start,
		ParamLastTouch:  end,
	})
}

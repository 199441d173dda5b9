// Package tracker assigns persistent trajectory IDs to touch contacts across frames.
package tracker

import (
	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/kdtree"
	"github.com/ayusman/tactus/internal/monitoring"
	"github.com/ayusman/tactus/internal/touch"
)

// Tracker follows the contacts of one gesture session.
//
// Sensor-assigned touch IDs are not trusted. Each frame is matched against
// the previous one and every touch gets either the ID of the contact it
// continues or a new ID from a per-session counter.
type Tracker struct {
	cfg    config.Config
	frames []touch.Frame
	nextID int

	// OnTrackedFrame, if set, is called with the previous and the newly
	// tracked frame after every tracked frame. prev is empty for the first
	// frame of a session.
	OnTrackedFrame func(prev, cur touch.Frame)
}

// New creates a new Tracker with the given configuration.
func New(cfg config.Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// InitiateTracking clears the frame history and resets the ID counter.
func (t *Tracker) InitiateTracking() {
	t.frames = nil
	t.nextID = 0
}

// AddFrame tracks f against the previous frame and appends it to the history.
// Returns the tracked copy of f, or false if the frame was dropped because
// it holds more than MaxBlobs touches. f itself is not modified.
func (t *Tracker) AddFrame(f touch.Frame) (touch.Frame, bool) {
	if f.Len() > t.cfg.MaxBlobs {
		monitoring.Logf("Dropping frame with %d touches (max %d)", f.Len(), t.cfg.MaxBlobs)
		return touch.Frame{}, false
	}

	cur := f.Clone()
	for i := range cur.Touches {
		cur.Touches[i].ID = i
	}

	var prev touch.Frame
	if len(t.frames) > 0 {
		prev = t.frames[len(t.frames)-1]
	}

	if prev.Empty() {
		for i := range cur.Touches {
			cur.Touches[i].ID = t.newID()
		}
	} else {
		t.match(prev, cur)
	}

	t.frames = append(t.frames, cur)

	if t.OnTrackedFrame != nil {
		t.OnTrackedFrame(prev, cur)
	}

	return cur, true
}

// match copies trajectory IDs from prev onto the touches of cur that continue
// a previous contact and gives new IDs to the rest.
func (t *Tracker) match(prev, cur touch.Frame) {
	tree := kdtree.New(kdtree.Points(cur.Points()),
		kdtree.Cutoff(t.cfg.KdCutoff),
		kdtree.BoundsLevel(t.cfg.KdBoundsLevel),
	)

	window := t.cfg.AssignmentWindow
	rows := min(prev.Len(), window)
	cols := min(cur.Len(), window)
	if prev.Len() > window || cur.Len() > window {
		monitoring.Logf("Assignment window exceeded (%d -> %d touches), matching the first %d only",
			prev.Len(), cur.Len(), window)
	}

	threshold := t.cfg.MatchThreshold()

	cost := make([][]float64, rows)
	for i := range cost {
		cost[i] = make([]float64, cols)
		for j := range cost[i] {
			cost[i][j] = NoData
		}

		p := prev.Touches[i].Position()
		for _, j := range tree.WithinRadius(p, threshold) {
			if j < cols {
				cost[i][j] = p.Dist(tree.Point(j))
			}
		}
	}

	a := Assign(cost, threshold)
	for i, j := range a.Cols {
		if j < 0 {
			continue
		}
		cur.Touches[j].ID = prev.Touches[i].ID
		tree.Delete(j)
	}

	for _, j := range tree.IncludedPoints() {
		cur.Touches[j].ID = t.newID()
	}
}

func (t *Tracker) newID() int {
	id := t.nextID
	t.nextID++
	return id
}

// Len returns the number of tracked frames in the current session.
func (t *Tracker) Len() int {
	return len(t.frames)
}

// Frames returns the tracked frames of the current session.
func (t *Tracker) Frames() []touch.Frame {
	frames := make([]touch.Frame, len(t.frames))
	for i, f := range t.frames {
		frames[i] = f.Clone()
	}
	return frames
}

// TrackedBlobs returns the samples of every trajectory seen in the session.
func (t *Tracker) TrackedBlobs() map[int][]touch.Sample {
	blobs := make(map[int][]touch.Sample)
	for id, tr := range touch.Trajectories(t.frames) {
		blobs[id] = tr.Samples
	}
	return blobs
}

// Gesture returns the frame history of the session with its trajectories.
func (t *Tracker) Gesture() touch.TrackedGesture {
	return touch.NewTrackedGesture(t.Frames())
}

// Package touch defines the frame and trajectory types exchanged between the
// touch sensor, the blob tracker and the gesture classifiers.
package touch

import (
	"math"
	"sort"
	"time"

	"github.com/ayusman/tactus/internal/geom"
)

// Touch represents a single contact detected in one frame.
type Touch struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	PinX      int     `json:"pin_x"`     // position rounded to the pin grid
	PinY      int     `json:"pin_y"`     // position rounded to the pin grid
	Intensity float64 `json:"intensity"` // 0.0-1.0
	ExtentX   float64 `json:"extent_x"`  // horizontal blob diameter
	ExtentY   float64 `json:"extent_y"`  // vertical blob diameter
	ID        int     `json:"id"`        // assigned by the tracker
}

// NewTouch creates a Touch at x, y with its pin position rounded from the coordinates.
func NewTouch(x, y, intensity, extentX, extentY float64) Touch {
	return Touch{
		X:         x,
		Y:         y,
		PinX:      int(math.Round(x)),
		PinY:      int(math.Round(y)),
		Intensity: intensity,
		ExtentX:   extentX,
		ExtentY:   extentY,
	}
}

// Position returns the touch position as a point carrying the touch ID.
func (t Touch) Position() geom.Point {
	return geom.Point{X: t.X, Y: t.Y, ID: t.ID}
}

// Extent returns the larger of the horizontal and vertical blob diameters.
func (t Touch) Extent() float64 {
	return math.Max(t.ExtentX, t.ExtentY)
}

// Frame is the set of touches captured at one sampling instant.
type Frame struct {
	Timestamp time.Time `json:"timestamp"`
	Touches   []Touch   `json:"touches"`
}

// NewFrame creates a Frame holding the given touches.
func NewFrame(ts time.Time, touches ...Touch) Frame {
	return Frame{Timestamp: ts, Touches: touches}
}

// Len returns the number of touches in the frame.
func (f Frame) Len() int {
	return len(f.Touches)
}

// Empty reports whether the frame holds no touch.
func (f Frame) Empty() bool {
	return len(f.Touches) == 0
}

// Clone returns a deep copy of the frame.
func (f Frame) Clone() Frame {
	c := Frame{Timestamp: f.Timestamp}
	if f.Touches != nil {
		c.Touches = make([]Touch, len(f.Touches))
		copy(c.Touches, f.Touches)
	}
	return c
}

// Points returns the positions of all touches in the frame.
func (f Frame) Points() []geom.Point {
	pts := make([]geom.Point, len(f.Touches))
	for i, t := range f.Touches {
		pts[i] = t.Position()
	}
	return pts
}

// Centroid returns the mean position of the touches in the frame.
func (f Frame) Centroid() geom.Point {
	return geom.Centroid(f.Points())
}

// ByID returns the touch with the given ID.
func (f Frame) ByID(id int) (Touch, bool) {
	for _, t := range f.Touches {
		if t.ID == id {
			return t, true
		}
	}
	return Touch{}, false
}

// Sample is one timestamped position of a trajectory.
type Sample struct {
	Timestamp time.Time  `json:"timestamp"`
	Point     geom.Point `json:"point"`
}

// Trajectory is the ordered list of samples produced by one tracked contact.
type Trajectory struct {
	ID      int      `json:"id"`
	Samples []Sample `json:"samples"`
}

// First returns the first sample position.
func (t Trajectory) First() geom.Point {
	if len(t.Samples) == 0 {
		return geom.Point{}
	}
	return t.Samples[0].Point
}

// Last returns the last sample position.
func (t Trajectory) Last() geom.Point {
	if len(t.Samples) == 0 {
		return geom.Point{}
	}
	return t.Samples[len(t.Samples)-1].Point
}

// TrackedGesture is the frame history of one recognition session together with
// the trajectories derived from it.
type TrackedGesture struct {
	Frames       []Frame            `json:"frames"`
	Trajectories map[int]Trajectory `json:"trajectories"`
}

// NewTrackedGesture derives the trajectories of frames by scanning them once.
// Touch IDs are taken as trajectory IDs, so frames must either come from the
// tracker or from a sensor that already reports stable contact IDs.
func NewTrackedGesture(frames []Frame) TrackedGesture {
	return TrackedGesture{
		Frames:       frames,
		Trajectories: Trajectories(frames),
	}
}

// Trajectories builds a map from trajectory ID to the samples of that ID,
// one sample per frame in which the ID appears.
func Trajectories(frames []Frame) map[int]Trajectory {
	trajectories := make(map[int]Trajectory)
	for _, f := range frames {
		for _, t := range f.Touches {
			tr := trajectories[t.ID]
			tr.ID = t.ID
			tr.Samples = append(tr.Samples, Sample{Timestamp: f.Timestamp, Point: t.Position()})
			trajectories[t.ID] = tr
		}
	}
	return trajectories
}

// IDs returns the trajectory IDs in ascending order.
func (g TrackedGesture) IDs() []int {
	ids := make([]int, 0, len(g.Trajectories))
	for id := range g.Trajectories {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Points returns the positions of all touches of all frames in frame order.
func (g TrackedGesture) Points() []geom.Point {
	var pts []geom.Point
	for _, f := range g.Frames {
		pts = append(pts, f.Points()...)
	}
	return pts
}

// CountFrames returns how many frames hold exactly n touches and how many do not.
func (g TrackedGesture) CountFrames(n int) (matching, other int) {
	for _, f := range g.Frames {
		if f.Len() == n {
			matching++
		} else {
			other++
		}
	}
	return matching, other
}

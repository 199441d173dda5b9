package sensor

import (
	"math"
	"time"

	"github.com/valyala/fastrand"

	"github.com/ayusman/tactus/internal/geom"
	"github.com/ayusman/tactus/internal/touch"
)

// FrameInterval is the sampling interval used by the preset sequences.
const FrameInterval = 20 * time.Millisecond

// presetEpoch is the timestamp of the first frame of every preset sequence.
var presetEpoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Sequence builds preset frames from per-frame contact positions.
// Every sequence starts and ends with one empty frame, the way a finger
// lifts on and off the surface.
func Sequence(contacts [][]geom.Point) []touch.Frame {
	frames := make([]touch.Frame, 0, len(contacts)+2)
	frames = append(frames, touch.Frame{Timestamp: presetEpoch})

	for _, pts := range contacts {
		f := touch.Frame{Timestamp: presetEpoch.Add(time.Duration(len(frames)) * FrameInterval)}
		for i, p := range pts {
			t := touch.NewTouch(p.X, p.Y, 1.0, 1.0, 1.0)
			t.ID = i
			f.Touches = append(f.Touches, t)
		}
		frames = append(frames, f)
	}

	frames = append(frames, touch.Frame{Timestamp: presetEpoch.Add(time.Duration(len(frames)) * FrameInterval)})
	return frames
}

// TapFrames returns a sequence of taps at the given position.
// Each tap holds the contact for contactFrames frames with half a pin of
// jitter; taps are separated by two empty frames.
func TapFrames(at geom.Point, taps, contactFrames int) []touch.Frame {
	var contacts [][]geom.Point
	for tap := 0; tap < taps; tap++ {
		if tap > 0 {
			contacts = append(contacts, nil, nil)
		}
		for i := 0; i < contactFrames; i++ {
			jitter := 0.5
			if i%2 == 1 {
				jitter = -0.5
			}
			contacts = append(contacts, []geom.Point{geom.Pt(at.X+jitter, at.Y)})
		}
	}
	return Sequence(contacts)
}

// LineFrames returns a single contact moving straight from one point to another.
func LineFrames(from, to geom.Point, steps int) []touch.Frame {
	contacts := make([][]geom.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		contacts = append(contacts, []geom.Point{lerp(from, to, float64(i)/float64(steps))})
	}
	return Sequence(contacts)
}

// CircleFrames returns a single contact moving along an arc of the given
// angle in degrees. Surface coordinates grow rightwards and downwards, so an
// increasing angle runs clockwise on the surface.
func CircleFrames(center geom.Point, radius, arc float64, steps int, clockwise bool) []touch.Frame {
	n := steps + 1
	if arc >= 360 {
		n = steps
	}

	sign := 1.0
	if !clockwise {
		sign = -1.0
	}

	contacts := make([][]geom.Point, 0, n)
	for i := 0; i < n; i++ {
		theta := sign * float64(i) * arc / float64(steps) * math.Pi / 180
		contacts = append(contacts, []geom.Point{
			geom.Pt(center.X+radius*math.Cos(theta), center.Y+radius*math.Sin(theta)),
		})
	}
	return Sequence(contacts)
}

// PinchFrames returns two contacts placed symmetrically around center whose
// distance changes linearly from startDist to endDist.
func PinchFrames(center geom.Point, startDist, endDist float64, steps int) []touch.Frame {
	contacts := make([][]geom.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		d := startDist + (endDist-startDist)*float64(i)/float64(steps)
		contacts = append(contacts, []geom.Point{
			geom.Pt(center.X-d/2, center.Y),
			geom.Pt(center.X+d/2, center.Y),
		})
	}
	return Sequence(contacts)
}

// OneFingerPinchFrames returns one contact resting at anchor while a second
// contact moves towards or away from it.
func OneFingerPinchFrames(anchor geom.Point, startDist, endDist float64, steps int) []touch.Frame {
	contacts := make([][]geom.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		d := startDist + (endDist-startDist)*float64(i)/float64(steps)
		contacts = append(contacts, []geom.Point{anchor, geom.Pt(anchor.X+d, anchor.Y)})
	}
	return Sequence(contacts)
}

// DragFrames returns the given number of contacts moving together from one
// point to another, stacked six pins apart vertically.
func DragFrames(from, to geom.Point, contacts, steps int) []touch.Frame {
	frames := make([][]geom.Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		p := lerp(from, to, float64(i)/float64(steps))
		pts := make([]geom.Point, contacts)
		for k := range pts {
			pts[k] = geom.Pt(p.X, p.Y+6*float64(k))
		}
		frames = append(frames, pts)
	}
	return Sequence(frames)
}

// ScatterFrames returns a single contact jumping to n pseudo-random positions
// within a size×size area. The sequence is deterministic for a given seed.
func ScatterFrames(seed uint32, n int, size float64) []touch.Frame {
	var rng fastrand.RNG
	rng.Seed(seed | 1) // a zero state reseeds from the runtime

	coord := func() float64 {
		return float64(rng.Uint32n(scatterResolution)) / scatterResolution * size
	}

	contacts := make([][]geom.Point, 0, n)
	for i := 0; i < n; i++ {
		x := coord()
		contacts = append(contacts, []geom.Point{geom.Pt(x, coord())})
	}
	return Sequence(contacts)
}

const scatterResolution = 1 << 20

func lerp(a, b geom.Point, t float64) geom.Point {
	return geom.Pt(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t)
}

// SemiCircleFrames returns a single contact moving along half a circle.
func SemiCircleFrames(center geom.Point, radius float64, steps int, clockwise bool) []touch.Frame {
	return CircleFrames(center, radius, 180, steps, clockwise)
}

package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/touch"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func frameAt(i int, pts ...[2]float64) touch.Frame {
	f := touch.Frame{Timestamp: epoch.Add(time.Duration(i) * 20 * time.Millisecond)}
	for k, p := range pts {
		tc := touch.NewTouch(p[0], p[1], 1, 1, 1)
		tc.ID = 100 + k // sensor IDs are ignored
		f.Touches = append(f.Touches, tc)
	}
	return f
}

func ids(f touch.Frame) []int {
	out := make([]int, len(f.Touches))
	for i, t := range f.Touches {
		out[i] = t.ID
	}
	return out
}

func TestTracker_FirstFrameGetsNewIDs(t *testing.T) {
	tr := New(config.Default())

	got, ok := tr.AddFrame(frameAt(0, [2]float64{1, 1}, [2]float64{20, 20}, [2]float64{40, 1}))
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, ids(got))
}

func TestTracker_KeepsIDsForMovingTouches(t *testing.T) {
	tr := New(config.Default())

	tr.AddFrame(frameAt(0, [2]float64{0, 0}, [2]float64{60, 0}))
	for i := 1; i <= 10; i++ {
		x := float64(i) * 3
		// Report the touches in alternating order to make sure IDs follow positions.
		var f touch.Frame
		if i%2 == 0 {
			f = frameAt(i, [2]float64{x, 0}, [2]float64{60 - x, 10})
		} else {
			f = frameAt(i, [2]float64{60 - x, 10}, [2]float64{x, 0})
		}
		got, ok := tr.AddFrame(f)
		require.True(t, ok)

		for _, tc := range got.Touches {
			if tc.Y == 0 {
				assert.Equal(t, 0, tc.ID, "frame %d: left touch changed ID", i)
			} else {
				assert.Equal(t, 1, tc.ID, "frame %d: right touch changed ID", i)
			}
		}
	}

	blobs := tr.TrackedBlobs()
	require.Len(t, blobs, 2)
	assert.Len(t, blobs[0], 11)
	assert.Len(t, blobs[1], 11)
}

func TestTracker_MinimisesTotalMovement(t *testing.T) {
	tr := New(config.Default())

	// Greedy nearest matching would give touch 0 the contact at x=5 and
	// force touch 1 to jump 22 units; the solver picks the smaller total.
	tr.AddFrame(frameAt(0, [2]float64{0, 0}, [2]float64{12, 0}))
	got, _ := tr.AddFrame(frameAt(1, [2]float64{5, 0}, [2]float64{-10, 0}))

	assert.Equal(t, []int{1, 0}, ids(got))
}

func TestTracker_NewTouchGetsUnusedID(t *testing.T) {
	tr := New(config.Default())

	tr.AddFrame(frameAt(0, [2]float64{0, 0}))
	tr.AddFrame(frameAt(1, [2]float64{2, 0}))
	got, _ := tr.AddFrame(frameAt(2, [2]float64{4, 0}, [2]float64{80, 80}))

	assert.Equal(t, []int{0, 1}, ids(got))

	// A jump beyond the match threshold starts a new trajectory.
	got, _ = tr.AddFrame(frameAt(3, [2]float64{4, 50}))
	assert.Equal(t, []int{2}, ids(got))
}

func TestTracker_EmptyFrameResetsMatching(t *testing.T) {
	tr := New(config.Default())

	tr.AddFrame(frameAt(0, [2]float64{5, 5}))
	tr.AddFrame(frameAt(1))
	got, ok := tr.AddFrame(frameAt(2, [2]float64{5, 5}))

	require.True(t, ok)
	assert.Equal(t, []int{1}, ids(got), "touch after an empty frame should start a new trajectory")
	assert.Equal(t, 3, tr.Len())
}

func TestTracker_DropsFramesAboveMaxBlobs(t *testing.T) {
	cfg := config.Default()
	tr := New(cfg)
	tr.AddFrame(frameAt(0, [2]float64{1, 1}))

	var pts [][2]float64
	for i := 0; i < cfg.MaxBlobs+1; i++ {
		pts = append(pts, [2]float64{float64(i * 3), 0})
	}
	_, ok := tr.AddFrame(frameAt(1, pts...))

	assert.False(t, ok)
	assert.Equal(t, 1, tr.Len(), "dropped frame must not be added to the history")
}

func TestTracker_DegradesBeyondAssignmentWindow(t *testing.T) {
	cfg := config.Default()
	tr := New(cfg)

	var first, second [][2]float64
	for i := 0; i < 9; i++ {
		first = append(first, [2]float64{float64(i * 30), 0})
		second = append(second, [2]float64{float64(i*30 + 1), 1})
	}
	tr.AddFrame(frameAt(0, first...))
	got, ok := tr.AddFrame(frameAt(1, second...))
	require.True(t, ok)

	// The first seven touches fall inside the window and keep their IDs;
	// the rest are treated as new contacts.
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 9, 10}, ids(got))
}

func TestTracker_InitiateTrackingResets(t *testing.T) {
	tr := New(config.Default())
	tr.AddFrame(frameAt(0, [2]float64{1, 1}, [2]float64{30, 30}))
	tr.AddFrame(frameAt(1, [2]float64{1, 1}))

	tr.InitiateTracking()
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.TrackedBlobs())

	got, _ := tr.AddFrame(frameAt(2, [2]float64{1, 1}))
	assert.Equal(t, []int{0}, ids(got), "ID counter should restart at zero")
}

func TestTracker_OnTrackedFrame(t *testing.T) {
	tr := New(config.Default())

	var calls int
	var lastPrev, lastCur touch.Frame
	tr.OnTrackedFrame = func(prev, cur touch.Frame) {
		calls++
		lastPrev, lastCur = prev, cur
	}

	tr.AddFrame(frameAt(0, [2]float64{1, 1}))
	assert.True(t, lastPrev.Empty())

	tr.AddFrame(frameAt(1, [2]float64{2, 1}))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1.0, lastPrev.Touches[0].X)
	assert.Equal(t, 2.0, lastCur.Touches[0].X)
}

func TestTracker_DoesNotModifyInput(t *testing.T) {
	tr := New(config.Default())
	f := frameAt(0, [2]float64{1, 1})

	tr.AddFrame(f)
	assert.Equal(t, 100, f.Touches[0].ID)

	frames := tr.Frames()
	frames[0].Touches[0].X = 99
	assert.Equal(t, 1.0, tr.Frames()[0].Touches[0].X, "Frames should return copies")
}

func TestTracker_Gesture(t *testing.T) {
	tr := New(config.Default())
	for i := 0; i < 5; i++ {
		tr.AddFrame(frameAt(i, [2]float64{float64(i), 0}))
	}

	g := tr.Gesture()
	assert.Len(t, g.Frames, 5)
	require.Contains(t, g.Trajectories, 0)
	assert.Len(t, g.Trajectories[0].Samples, 5)
}

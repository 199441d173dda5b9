package app

import (
	"errors"
	"testing"
	"time"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/geom"
	"github.com/ayusman/tactus/internal/gesture"
	"github.com/ayusman/tactus/internal/monitoring"
	"github.com/ayusman/tactus/internal/sensor"
	"github.com/ayusman/tactus/internal/touch"
)

func init() {
	monitoring.SetLogger(nil)
}

func newApp(t *testing.T, src sensor.Source) *App {
	t.Helper()
	a, err := New(Config{
		Source:        src,
		Recognition:   config.Default(),
		FrameInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

// feed runs frames followed by enough empty frames to end the session.
func feed(a *App, frames []touch.Frame) []*gesture.Result {
	var results []*gesture.Result
	for _, f := range frames {
		if res := a.processFrame(f); res != nil {
			results = append(results, res)
		}
	}
	for i := 0; i < a.config.IdleFrames; i++ {
		if res := a.processFrame(touch.Frame{}); res != nil {
			results = append(results, res)
		}
	}
	return results
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := New(Config{Recognition: config.Default()}); err == nil {
		t.Error("expected error without a source")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.AssignmentWindow = 0
	if _, err := New(Config{Source: sensor.NewMockSource(), Recognition: cfg}); err == nil {
		t.Error("expected error for an invalid config")
	}
}

func TestNew_Defaults(t *testing.T) {
	a, err := New(Config{Source: sensor.NewMockSource(), Recognition: config.Default()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if a.config.FrameInterval != sensor.FrameInterval {
		t.Errorf("expected interval %v, got %v", sensor.FrameInterval, a.config.FrameInterval)
	}
	if a.config.IdleFrames != DefaultIdleFrames {
		t.Errorf("expected %d idle frames, got %d", DefaultIdleFrames, a.config.IdleFrames)
	}
	if !a.IsEnabled() {
		t.Error("expected app to be enabled")
	}
}

func TestProcessFrame_Sessions(t *testing.T) {
	tests := []struct {
		name   string
		frames []touch.Frame
		want   string
	}{
		{"line", sensor.LineFrames(geom.Pt(0, 0), geom.Pt(20, 0), 10), gesture.NameLine},
		{"circle", sensor.CircleFrames(geom.Pt(20, 20), 10, 360, 16, false), gesture.NameCircle},
		{"pinch", sensor.PinchFrames(geom.Pt(20, 20), 5, 30, 10), gesture.NamePinch},
		{"drag", sensor.DragFrames(geom.Pt(0, 30), geom.Pt(0, 0), 3, 10), gesture.NameDrag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newApp(t, sensor.NewMockSource())
			results := feed(a, tt.frames)
			if len(results) != 1 {
				t.Fatalf("expected 1 result, got %d", len(results))
			}
			if results[0].Name != tt.want {
				t.Errorf("expected %q, got %q", tt.want, results[0].Name)
			}
			if a.recognizer.Evaluating() {
				t.Error("expected session to be finished")
			}
		})
	}
}

func TestProcessFrame_GapStaysInSession(t *testing.T) {
	a := newApp(t, sensor.NewMockSource())

	results := feed(a, sensor.TapFrames(geom.Pt(10, 10), 2, 3))
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if taps, _ := results[0].Param(gesture.ParamTaps); taps != 2 {
		t.Errorf("expected 2 taps, got %v", taps)
	}
}

func TestProcessFrame_IdleWithoutTouches(t *testing.T) {
	a := newApp(t, sensor.NewMockSource())

	if results := feed(a, []touch.Frame{{}, {}, {}}); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if a.recognizer.Evaluating() {
		t.Error("expected no session without touches")
	}
}

func TestApp_StartStop(t *testing.T) {
	src := sensor.NewMockSource(sensor.LineFrames(geom.Pt(0, 0), geom.Pt(0, 20), 10)...)
	a := newApp(t, src)

	got := make(chan *gesture.Result, 1)
	a.OnGesture(func(res *gesture.Result) {
		select {
		case got <- res:
		default:
		}
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	// Starting twice is a no-op
	if err := a.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	select {
	case res := <-got:
		if res.Name != gesture.NameLine {
			t.Errorf("expected %q, got %q", gesture.NameLine, res.Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a gesture")
	}

	a.Stop()

	if _, err := src.ReadFrame(); !errors.Is(err, sensor.ErrClosed) {
		t.Errorf("expected source to be closed, got %v", err)
	}
}

func TestApp_StopsWhenSourceCloses(t *testing.T) {
	src := sensor.NewMockSource()
	src.Close()

	a := newApp(t, src)
	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not stop on a closed source")
	}
	a.Stop()
}

func TestApp_SetEnabled(t *testing.T) {
	a := newApp(t, sensor.NewMockSource())

	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("expected app to be disabled")
	}
	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("expected app to be enabled")
	}
}

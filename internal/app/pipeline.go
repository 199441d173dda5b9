package app

import (
	"errors"
	"time"

	"github.com/ayusman/tactus/internal/gesture"
	"github.com/ayusman/tactus/internal/monitoring"
	"github.com/ayusman/tactus/internal/sensor"
	"github.com/ayusman/tactus/internal/touch"
)

// runPipeline reads a frame from the sensor on every tick and feeds it to the
// recognizer until stop is closed or the source is closed.
func (a *App) runPipeline(stop <-chan struct{}) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.config.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// Skip processing if recognition is disabled
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.source.ReadFrame()
			if errors.Is(err, sensor.ErrClosed) {
				monitoring.Logf("Sensor closed, stopping pipeline")
				return
			}
			if err != nil {
				monitoring.Logf("Error reading frame: %v", err)
				continue
			}

			if res := a.processFrame(frame); res != nil {
				a.notify(res)
			}
		}
	}
}

// processFrame advances the session state by one frame and returns the
// gesture recognized when a session ends.
//
// A session starts with the first frame holding touches. Empty frames are
// held back while a session runs: if touches return before IdleFrames empty
// frames have passed, the held frames are delivered first so that the gap
// stays part of the session. Otherwise a single empty frame marks the lift-off
// and the session is finished.
func (a *App) processFrame(f touch.Frame) *gesture.Result {
	lock := a.recognizer.Locker()
	lock.Lock()
	defer lock.Unlock()

	rec := a.recognizer

	if f.Empty() {
		if !rec.Evaluating() {
			return nil
		}
		a.held = append(a.held, f)
		if len(a.held) < a.config.IdleFrames {
			return nil
		}

		a.add(a.held[0])
		a.held = a.held[:0]
		res, err := rec.FinishEvaluation()
		if err != nil {
			monitoring.Logf("Error finishing session: %v", err)
			return nil
		}
		return res
	}

	if !rec.Evaluating() {
		rec.StartEvaluation()
		a.held = a.held[:0]
	}
	for _, held := range a.held {
		a.add(held)
	}
	a.held = a.held[:0]
	a.add(f)
	return nil
}

func (a *App) add(f touch.Frame) {
	if err := a.recognizer.AddFrame(f); err != nil {
		monitoring.Logf("Error adding frame: %v", err)
	}
}

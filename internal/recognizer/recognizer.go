// Package recognizer runs gesture recognition sessions: it feeds frames to the
// blob tracker and classifies the tracked session when it ends.
package recognizer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/gesture"
	"github.com/ayusman/tactus/internal/monitoring"
	"github.com/ayusman/tactus/internal/touch"
	"github.com/ayusman/tactus/internal/tracker"
)

// ErrNotEvaluating is returned by AddFrame and FinishEvaluation when no
// session has been started.
var ErrNotEvaluating = errors.New("recognizer: no evaluation in progress")

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithLogger sets the logger used for recognition diagnostics.
// By default messages go to monitoring.Logf.
func WithLogger(logf func(format string, v ...any)) Option {
	return func(r *Recognizer) {
		if logf != nil {
			r.logf = logf
		}
	}
}

// WithFrameObserver registers a callback invoked with the previous and the
// newly tracked frame for every frame accepted by the tracker.
func WithFrameObserver(fn func(prev, cur touch.Frame)) Option {
	return func(r *Recognizer) {
		r.tracker.OnTrackedFrame = fn
	}
}

// Recognizer runs one gesture session at a time.
//
// The session calls are not synchronized. Callers delivering frames from one
// goroutine while finishing sessions from another must hold Locker around
// every call.
type Recognizer struct {
	mu          sync.Mutex
	cfg         config.Config
	tracker     *tracker.Tracker
	tap         gesture.Classifier
	classifiers []gesture.Classifier
	evaluating  bool
	session     string
	logf        func(format string, v ...any)
}

// New creates a Recognizer that only knows the tap classifier. The tap
// classifier always runs before the classifiers added with AddClassifier.
func New(cfg config.Config, opts ...Option) (*Recognizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	r := &Recognizer{
		cfg:     cfg,
		tracker: tracker.New(cfg),
		tap:     gesture.NewTapClassifier(cfg),
		logf: func(format string, v ...any) {
			monitoring.Logf(format, v...)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewDefault creates a Recognizer with the built-in classifiers registered in
// the order pinch, line, circle, drag.
func NewDefault(cfg config.Config, opts ...Option) (*Recognizer, error) {
	r, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	r.AddClassifier(gesture.NewPinchClassifier(cfg))
	r.AddClassifier(gesture.NewLineClassifier(cfg))
	r.AddClassifier(gesture.NewCircleClassifier(cfg))
	r.AddClassifier(gesture.NewDragClassifier(cfg))
	return r, nil
}

// Locker returns the lock callers use to serialize session calls.
func (r *Recognizer) Locker() sync.Locker {
	return &r.mu
}

// Config returns the configuration of the recognizer.
func (r *Recognizer) Config() config.Config {
	return r.cfg
}

// AddClassifier appends c to the classifier list. Classifiers are consulted
// in registration order and the first match wins.
func (r *Recognizer) AddClassifier(c gesture.Classifier) {
	r.classifiers = append(r.classifiers, c)
}

// Classifiers returns the names of all classifiers in the order they are consulted.
func (r *Recognizer) Classifiers() []string {
	names := make([]string, 0, len(r.classifiers)+1)
	names = append(names, r.tap.Name())
	for _, c := range r.classifiers {
		names = append(names, c.Name())
	}
	return names
}

// Evaluating reports whether a session is in progress.
func (r *Recognizer) Evaluating() bool {
	return r.evaluating
}

// Session returns the ID of the running session, or "" if idle.
func (r *Recognizer) Session() string {
	return r.session
}

// StartEvaluation starts a new session and returns its ID. A session that is
// still running is abandoned.
func (r *Recognizer) StartEvaluation() string {
	if r.evaluating {
		r.logf("Abandoning session %s after %d frames", r.session, r.tracker.Len())
	}

	r.tracker.InitiateTracking()
	r.evaluating = true
	r.session = uuid.NewString()
	return r.session
}

// AddFrame hands f to the tracker. Frames the tracker drops are not an error.
func (r *Recognizer) AddFrame(f touch.Frame) error {
	if !r.evaluating {
		return ErrNotEvaluating
	}

	r.tracker.AddFrame(f)
	return nil
}

// FinishEvaluation ends the session and classifies it. The result is nil if
// no classifier recognized the session.
func (r *Recognizer) FinishEvaluation() (*gesture.Result, error) {
	if !r.evaluating {
		return nil, ErrNotEvaluating
	}

	g := r.tracker.Gesture()
	session := r.session

	r.tracker.InitiateTracking()
	r.evaluating = false
	r.session = ""

	res := r.Classify(g)
	if res == nil {
		r.logf("Session %s: no gesture in %d frames", session, len(g.Frames))
		return nil, nil
	}

	r.logf("Gesture recognized: %s (confidence: %.3f)", res.Name, res.Confidence)
	return res, nil
}

// Classify runs the classifiers on an already tracked session and returns the
// first result, or nil.
func (r *Recognizer) Classify(g touch.TrackedGesture) *gesture.Result {
	if res := r.tap.Classify(g); res != nil {
		return res
	}
	for _, c := range r.classifiers {
		if res := c.Classify(g); res != nil {
			return res
		}
	}
	return nil
}

// Recognize runs a complete session over frames.
func (r *Recognizer) Recognize(frames []touch.Frame) (*gesture.Result, error) {
	r.StartEvaluation()
	for _, f := range frames {
		if err := r.AddFrame(f); err != nil {
			return nil, err
		}
	}
	return r.FinishEvaluation()
}

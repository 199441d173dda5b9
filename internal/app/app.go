// Package app connects a touch sensor to the gesture recognizer.
package app

import (
	"errors"
	"sync"
	"time"

	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/gesture"
	"github.com/ayusman/tactus/internal/monitoring"
	"github.com/ayusman/tactus/internal/recognizer"
	"github.com/ayusman/tactus/internal/sensor"
	"github.com/ayusman/tactus/internal/touch"
)

// DefaultIdleFrames is the number of consecutive empty frames that end a session.
const DefaultIdleFrames = 5

// Config holds configuration options for the application.
type Config struct {
	Source        sensor.Source
	Recognition   config.Config
	FrameInterval time.Duration // sensor polling interval, defaults to sensor.FrameInterval
	IdleFrames    int           // empty frames that end a session, defaults to DefaultIdleFrames
}

// GestureCallback is called for every recognized gesture.
type GestureCallback func(res *gesture.Result)

// App polls a touch sensor and runs recognition sessions over its frames.
type App struct {
	config     Config
	source     sensor.Source
	recognizer *recognizer.Recognizer
	callbacks  []GestureCallback
	enabled    bool
	mu         sync.RWMutex
	stopCh     chan struct{}
	wg         sync.WaitGroup

	// empty frames held back from the running session
	held []touch.Frame
}

// New creates a new App instance with the given configuration.
func New(cfg Config) (*App, error) {
	if cfg.Source == nil {
		return nil, errors.New("app: no sensor source")
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = sensor.FrameInterval
	}
	if cfg.IdleFrames <= 0 {
		cfg.IdleFrames = DefaultIdleFrames
	}

	rec, err := recognizer.NewDefault(cfg.Recognition)
	if err != nil {
		return nil, err
	}

	return &App{
		config:     cfg,
		source:     cfg.Source,
		recognizer: rec,
		enabled:    true,
	}, nil
}

// SetEnabled enables or disables gesture recognition.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnGesture registers a callback for recognized gestures.
func (a *App) OnGesture(cb GestureCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, cb)
}

// Recognizer returns the recognizer driven by the pipeline.
func (a *App) Recognizer() *recognizer.Recognizer {
	return a.recognizer
}

// Start begins polling the sensor.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go a.runPipeline(a.stopCh)

	monitoring.Logf("Recognition pipeline started (interval %v)", a.config.FrameInterval)
	return nil
}

// Stop halts the pipeline and closes the sensor source.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	a.mu.Unlock()

	a.wg.Wait()

	if err := a.source.Close(); err != nil {
		monitoring.Logf("Error closing sensor: %v", err)
	}

	monitoring.Logf("Recognition pipeline stopped")
}

func (a *App) notify(res *gesture.Result) {
	a.mu.RLock()
	callbacks := append([]GestureCallback(nil), a.callbacks...)
	a.mu.RUnlock()

	for _, cb := range callbacks {
		cb(res)
	}
}

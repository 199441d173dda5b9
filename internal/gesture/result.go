// Package gesture classifies tracked touch sessions into gestures.
package gesture

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/ayusman/tactus/internal/geom"
	"github.com/ayusman/tactus/internal/touch"
)

// Gesture names reported in Result.Name.
const (
	NameTap            = "tap"
	NameLine           = "line"
	NameCircle         = "circle"
	NameSemiCircle     = "semi circle"
	NamePinch          = "pinch"
	NameOneFingerPinch = "one finger pinch"
	NameDrag           = "drag"
)

// Parameter keys used in Result.Params.
const (
	ParamTaps       = "taps"
	ParamAngle      = "angle"
	ParamLength     = "length"
	ParamDirection  = "direction"
	ParamRadius     = "radius"
	ParamExpanding  = "expanding"
	ParamContacts   = "contacts"
	ParamDimensions = "dimensions"
	ParamFirstTouch = "FirstTouch"
	ParamLastTouch  = "LastTouch"
)

// Rotation directions reported by the circle classifier.
const (
	Clockwise        = "clockwise"
	CounterClockwise = "counterclockwise"
)

// Result represents a recognized gesture.
type Result struct {
	Name       string         `json:"name"`       // gesture label
	Confidence float64        `json:"confidence"` // 0-1, higher is better
	Points     []geom.Point   `json:"points"`     // representative points, e.g. start and end
	Params     map[string]any `json:"params"`     // gesture specific parameters
}

// NewResult creates a Result holding copies of points and params.
func NewResult(name string, confidence float64, points []geom.Point, params map[string]any) *Result {
	r := &Result{
		Name:       name,
		Confidence: confidence,
		Points:     append([]geom.Point(nil), points...),
		Params:     make(map[string]any, len(params)),
	}
	maps.Copy(r.Params, params)
	return r
}

// Param returns the named parameter.
func (r *Result) Param(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.Params[key]
	return v, ok
}

// Float returns the named parameter if it holds a number.
func (r *Result) Float(key string) (float64, bool) {
	v, ok := r.Param(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func (r *Result) String() string {
	if r == nil {
		return "<none>"
	}

	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (confidence: %.3f)", r.Name, r.Confidence)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, r.Params[k])
	}
	return b.String()
}

// Classifier recognizes one family of gestures.
//
// Classify is a pure function of the tracked session: it must not modify g
// and returns nil if the session does not match the classifier's pattern.
type Classifier interface {
	Name() string
	Classify(g touch.TrackedGesture) *Result
}

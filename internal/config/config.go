// Package config holds the tunable thresholds of the tracker and the gesture classifiers.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the tuning parameters of the recognition pipeline.
// Distances are in touch-surface units (pins).
type Config struct {
	// Tracker params
	MaxMovementPerFrame float64 `json:"max_movement_per_frame"` // expected contact movement between frames
	MovementSlack       float64 `json:"movement_slack"`         // factor applied to MaxMovementPerFrame when matching
	MaxBlobs            int     `json:"max_blobs"`              // frames with more touches are dropped
	AssignmentWindow    int     `json:"assignment_window"`      // max touches per frame considered by the solver

	// k-d tree params
	KdCutoff      int `json:"kd_cutoff"`
	KdBoundsLevel int `json:"kd_bounds_level"`

	// Classifier params
	MaxTapDistance     float64 `json:"max_tap_distance"`
	MaxDistFromLine    float64 `json:"max_dist_from_line"`
	MinLineLength      float64 `json:"min_line_length"`
	MinEmptyFrames     int     `json:"min_empty_frames"`
	MaxCircleVariance  float64 `json:"max_circle_variance"`
	MinCircleRadius    float64 `json:"min_circle_radius"`
	LeftRightDistVar   float64 `json:"left_right_dist_var"`
	MinBlobRelation    float64 `json:"min_blob_relation"`
	MinPinchChange     float64 `json:"min_pinch_change"`
	StationaryDistance float64 `json:"stationary_distance"`
	DragContacts       int     `json:"drag_contacts"`
}

// Default returns a Config with the tuned default values.
func Default() Config {
	return Config{
		MaxMovementPerFrame: 20,
		MovementSlack:       1.25,
		MaxBlobs:            20,
		AssignmentWindow:    7,

		KdCutoff:      6,
		KdBoundsLevel: 3,

		MaxTapDistance:     5,
		MaxDistFromLine:    4,
		MinLineLength:      8,
		MinEmptyFrames:     2,
		MaxCircleVariance:  0.1,
		MinCircleRadius:    4,
		LeftRightDistVar:   0.35,
		MinBlobRelation:    0.5,
		MinPinchChange:     0.5,
		StationaryDistance: 2,
		DragContacts:       3,
	}
}

// MatchThreshold returns the largest distance the tracker accepts between a
// contact in one frame and its continuation in the next.
func (c Config) MatchThreshold() float64 {
	return c.MaxMovementPerFrame * c.MovementSlack
}

// Validate checks that all parameters are within usable ranges.
func (c Config) Validate() error {
	var errs []error

	if c.MaxMovementPerFrame <= 0 {
		errs = append(errs, fmt.Errorf("max_movement_per_frame must be positive, got %v", c.MaxMovementPerFrame))
	}
	if c.MovementSlack < 1 {
		errs = append(errs, fmt.Errorf("movement_slack must be at least 1, got %v", c.MovementSlack))
	}
	if c.MaxBlobs < 1 {
		errs = append(errs, fmt.Errorf("max_blobs must be at least 1, got %d", c.MaxBlobs))
	}
	if c.AssignmentWindow < 1 || c.AssignmentWindow > 16 {
		errs = append(errs, fmt.Errorf("assignment_window must be between 1 and 16, got %d", c.AssignmentWindow))
	}
	if c.KdCutoff < 1 {
		errs = append(errs, fmt.Errorf("kd_cutoff must be at least 1, got %d", c.KdCutoff))
	}
	if c.KdBoundsLevel < 0 {
		errs = append(errs, fmt.Errorf("kd_bounds_level must not be negative, got %d", c.KdBoundsLevel))
	}
	if c.MaxTapDistance <= 0 {
		errs = append(errs, fmt.Errorf("max_tap_distance must be positive, got %v", c.MaxTapDistance))
	}
	if c.MaxDistFromLine <= 0 {
		errs = append(errs, fmt.Errorf("max_dist_from_line must be positive, got %v", c.MaxDistFromLine))
	}
	if c.MinLineLength < 0 {
		errs = append(errs, fmt.Errorf("min_line_length must not be negative, got %v", c.MinLineLength))
	}
	if c.MinEmptyFrames < 0 {
		errs = append(errs, fmt.Errorf("min_empty_frames must not be negative, got %d", c.MinEmptyFrames))
	}
	if c.MaxCircleVariance <= 0 {
		errs = append(errs, fmt.Errorf("max_circle_variance must be positive, got %v", c.MaxCircleVariance))
	}
	if c.LeftRightDistVar <= 0 || c.LeftRightDistVar > 1 {
		errs = append(errs, fmt.Errorf("left_right_dist_var must be in (0, 1], got %v", c.LeftRightDistVar))
	}
	if c.MinBlobRelation <= 0 {
		errs = append(errs, fmt.Errorf("min_blob_relation must be positive, got %v", c.MinBlobRelation))
	}
	if c.MinPinchChange <= 0 || c.MinPinchChange >= 1 {
		errs = append(errs, fmt.Errorf("min_pinch_change must be in (0, 1), got %v", c.MinPinchChange))
	}
	if c.StationaryDistance < 0 {
		errs = append(errs, fmt.Errorf("stationary_distance must not be negative, got %v", c.StationaryDistance))
	}
	if c.DragContacts < 2 {
		errs = append(errs, fmt.Errorf("drag_contacts must be at least 2, got %d", c.DragContacts))
	}

	return errors.Join(errs...)
}

// Load reads a JSON config file. Fields omitted from the file keep their
// default values, so partial configs are safe.
func Load(path string) (Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return Config{}, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if info.Size() > maxFileSize {
		return Config{}, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

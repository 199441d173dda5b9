// Package sensor defines the boundary to the touch-sensor adapter that produces frames.
package sensor

import "github.com/ayusman/tactus/internal/touch"

// Source defines the interface for touch frame producers.
type Source interface {
	// ReadFrame returns the touches detected at the current sampling instant.
	// Returns an empty frame if nothing touches the surface.
	ReadFrame() (touch.Frame, error)

	// Close releases any resources held by the source.
	Close() error
}

// Package driver holds the LED output sinks. The frame loop hands a
// finished RGB frame to exactly one Driver per frame; everything
// hardware-specific (brightness scaling, power capping, wire
// encoding) lives behind this boundary.
package driver

import "math"

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// applyWhiteCap scales any LED whose channel sum exceeds
// whiteCap*3*255 back down to the cap. Keeps worst-case current in
// check when several animations saturate the same slots.
func applyWhiteCap(rgb []byte, whiteCap float64) {
	if whiteCap <= 0 || whiteCap >= 1 {
		return
	}
	limit := whiteCap * 3.0 * 255.0
	for i := 0; i+2 < len(rgb); i += 3 {
		s := float64(rgb[i]) + float64(rgb[i+1]) + float64(rgb[i+2])
		if s > limit && s > 0 {
			scale := limit / s
			rgb[i] = byte(math.Round(float64(rgb[i]) * scale))
			rgb[i+1] = byte(math.Round(float64(rgb[i+1]) * scale))
			rgb[i+2] = byte(math.Round(float64(rgb[i+2]) * scale))
		}
	}
}

func scaleByte(v byte, f float64) byte {
	return byte(math.Round(float64(v) * f))
}

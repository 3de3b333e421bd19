package anim

import "math"

// Color is one LED's additive RGB value. Channels are 0..255 linear;
// gamma and white balance belong to the output driver.
type Color struct {
	R, G, B uint8
}

func satAdd(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// Add returns the per-channel saturating sum of c and o. This is the
// blend rule for overlapping animation instances: contributions sum
// and clamp at 255, they never overwrite each other.
func (c Color) Add(o Color) Color {
	return Color{satAdd(c.R, o.R), satAdd(c.G, o.G), satAdd(c.B, o.B)}
}

// Scale returns c scaled by a brightness factor clamped to [0,1].
func (c Color) Scale(f float64) Color {
	if f <= 0 {
		return Color{}
	}
	if f >= 1 {
		return c
	}
	return Color{
		R: uint8(math.Round(float64(c.R) * f)),
		G: uint8(math.Round(float64(c.G) * f)),
		B: uint8(math.Round(float64(c.B) * f)),
	}
}

// HSV converts hue/saturation/value in [0,1] to a Color.
func HSV(h, s, v float64) Color {
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - f*s)
	t := v * (1.0 - (1.0-f)*s)
	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return Color{uint8(r * 255), uint8(g * 255), uint8(b * 255)}
}

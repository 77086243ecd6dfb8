package light

import "time"

// scale8 scales an 8-bit value by a factor (0-255 maps to 0.0-1.0)
func scale8(value, scale uint8) uint8 {
	return uint8((uint16(value) * uint16(scale)) >> 8)
}

// blend8 blends two 8-bit values. amount 0 is all a, 255 is all b
func blend8(a, b, amount uint8) uint8 {
	return uint8(int32(a) + ((int32(b)-int32(a))*int32(amount))>>8)
}

// progress8 maps elapsed time within duration to 0-255
func progress8(elapsed, duration time.Duration) uint8 {
	if duration <= 0 {
		return 0
	}

	if elapsed >= duration {
		return 255
	}

	return uint8(elapsed * 255 / duration)
}

// approach8 moves a toward b by the blend amount, snapping once the
// remaining distance is too small for the integer blend to make progress
func approach8(a, b, amount uint8) uint8 {
	next := blend8(a, b, amount)
	if next == a {
		return b
	}

	return next
}

// scaleColor applies one brightness factor to all three channels
func scaleColor(c RGB, scale uint8) RGB {
	return RGB{
		R: scale8(c.R, scale),
		G: scale8(c.G, scale),
		B: scale8(c.B, scale),
	}
}

// hsv2rgb converts an 8-bit HSV triple to RGB. The hue wheel is divided
// into six 43-step sectors
func hsv2rgb(h, s, v uint8) RGB {
	if s == 0 {
		return RGB{R: v, G: v, B: v}
	}

	sector := h / 43
	rem := (h - sector*43) * 6

	p := scale8(v, 255-s)
	q := scale8(v, 255-scale8(s, rem))
	t := scale8(v, 255-scale8(s, 255-rem))

	switch sector {
	case 0:
		return RGB{R: v, G: t, B: p}
	case 1:
		return RGB{R: q, G: v, B: p}
	case 2:
		return RGB{R: p, G: v, B: t}
	case 3:
		return RGB{R: p, G: q, B: v}
	case 4:
		return RGB{R: t, G: p, B: v}
	default:
		return RGB{R: v, G: p, B: q}
	}
}

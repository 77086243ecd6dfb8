package light

import "time"

// effect renders one frame into dst given the time since the effect
// started and the color currently requested
type effect interface {
	render(dst []RGB, elapsed time.Duration, color RGB)
}

// staticEffect paints the whole strip in one color
type staticEffect struct{}

func (staticEffect) render(dst []RGB, _ time.Duration, color RGB) {
	for i := range dst {
		dst[i] = color
	}
}

// rainbowEffect cycles a hue gradient across the strip
type rainbowEffect struct {
	cycle time.Duration
}

func (e rainbowEffect) render(dst []RGB, elapsed time.Duration, _ RGB) {
	cycle := e.cycle
	if cycle <= 0 {
		cycle = 3 * time.Second
	}

	baseHue := uint8(elapsed % cycle * 255 / cycle)

	n := len(dst)
	for i := range dst {
		offset := uint8(i * 255 / n)
		dst[i] = hsv2rgb(baseHue+offset, 255, 255)
	}
}

// breatheEffect fades the requested color in and out
type breatheEffect struct {
	period time.Duration
}

func (e breatheEffect) render(dst []RGB, elapsed time.Duration, color RGB) {
	period := e.period
	if period <= 0 {
		period = 4 * time.Second
	}

	phase := progress8(elapsed%period, period)

	// triangle wave: up during the first half, down during the second
	level := phase * 2
	if phase >= 128 {
		level = (255 - phase) * 2
	}

	c := scaleColor(color, level)
	for i := range dst {
		dst[i] = c
	}
}

func effectByName(name string) effect {
	switch name {
	case EffectRainbow:
		return rainbowEffect{}
	case EffectBreathe:
		return breatheEffect{}
	default:
		return staticEffect{}
	}
}

// Effects lists the effect names the engine supports, in announcement order
func Effects() []string {
	return []string{EffectStatic, EffectRainbow, EffectBreathe}
}

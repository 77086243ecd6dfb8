// Package light holds the LED strip state model, the effect engine and the
// serial strip driver.
package light

// RGB one LED color
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Color modes reported to the automation layer
const (
	ColorModeRGB  = "rgb"
	ColorModeTemp = "color_temp"
)

// Effect names accepted by the engine
const (
	EffectStatic  = "static"
	EffectRainbow = "rainbow"
	EffectBreathe = "breathe"
)

// State full light state as observed and persisted
type State struct {
	On         bool   `yaml:"on" json:"on"`
	Brightness uint8  `yaml:"brightness" json:"brightness"`
	Color      RGB    `yaml:"color" json:"color"`
	ColorTemp  uint16 `yaml:"colorTemp" json:"colorTemp"` // mireds
	ColorMode  string `yaml:"colorMode" json:"colorMode"`
	Effect     string `yaml:"effect" json:"effect"`
}

// DefaultState initial state on first boot, before anything is persisted
func DefaultState() State {
	return State{
		On:         false,
		Brightness: 255,
		Color:      RGB{R: 255, G: 255, B: 255},
		ColorTemp:  300,
		ColorMode:  ColorModeRGB,
		Effect:     EffectStatic,
	}
}

// Change partial state update. Nil fields keep their current value
type Change struct {
	On         *bool
	Brightness *uint8
	Color      *RGB
	ColorTemp  *uint16
	Effect     *string
}

// Apply merges the change into s and reports whether anything changed
func (c Change) Apply(s *State) bool {
	changed := false

	if c.On != nil && s.On != *c.On {
		s.On = *c.On
		changed = true
	}

	if c.Brightness != nil && s.Brightness != *c.Brightness {
		s.Brightness = *c.Brightness
		changed = true
	}

	if c.Color != nil && s.Color != *c.Color {
		s.Color = *c.Color
		s.ColorMode = ColorModeRGB
		changed = true
	}

	if c.ColorTemp != nil && s.ColorTemp != *c.ColorTemp {
		s.ColorTemp = *c.ColorTemp
		s.ColorMode = ColorModeTemp
		changed = true
	}

	if c.Effect != nil && s.Effect != *c.Effect {
		s.Effect = *c.Effect
		changed = true
	}

	return changed
}

// TempToRGB approximates a mireds color temperature as an RGB color.
// Coarse on purpose, the strip has no calibrated white channel
func TempToRGB(mireds uint16) RGB {
	if mireds < 154 {
		mireds = 154
	}
	if mireds > 500 {
		mireds = 500
	}

	// 154 mireds (6500K, cool) .. 500 mireds (2000K, warm)
	warm := uint32(mireds-154) * 255 / (500 - 154)

	return RGB{
		R: 255,
		G: uint8(255 - warm*60/255),
		B: uint8(255 - warm*160/255),
	}
}

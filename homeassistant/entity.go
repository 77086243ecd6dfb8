package homeassistant

import (
	"github.com/glowbridge/glowbridge/light"
)

// Device describes the physical device entities belong to
type Device struct {
	ID           string
	Name         string
	Manufacturer string
	Model        string
	SWVersion    string
}

// LightEntity light entity description used for discovery
type LightEntity struct {
	ID         string
	Name       string
	Device     Device
	Icon       string
	Brightness bool
	ColorModes []string
	Effects    []string
	MinMireds  uint16
	MaxMireds  uint16
	Optimistic bool
}

// NumberEntity number entity description used for discovery
type NumberEntity struct {
	ID          string
	Name        string
	Device      Device
	Icon        string
	DeviceClass string
	Unit        string
	Min         int
	Max         int
	Step        float64
	Mode        string
}

// LightRegistration binds a light entity to its state source and
// command sink
type LightRegistration struct {
	Entity    LightEntity
	State     func() light.State
	OnCommand func(light.Change)
}

// NumberRegistration binds a number entity to its value source and
// command sink
type NumberRegistration struct {
	Entity    NumberEntity
	Value     func() int
	OnCommand func(int)
}

func deviceInfo(d Device) DeviceInfo {
	return DeviceInfo{
		Name:         d.Name,
		Identifiers:  []string{d.ID},
		Manufacturer: d.Manufacturer,
		Model:        d.Model,
		SWVersion:    d.SWVersion,
	}
}

func lightDiscovery(e LightEntity) LightDiscovery {
	return LightDiscovery{
		Name:                e.Name,
		UniqueID:            UniqueID(e.Device.ID, e.ID),
		Schema:              "json",
		StateTopic:          StateTopic(e.Device.ID, e.ID),
		CommandTopic:        CommandTopic(e.Device.ID, e.ID),
		Device:              deviceInfo(e.Device),
		Icon:                e.Icon,
		Brightness:          e.Brightness,
		Effect:              len(e.Effects) > 0,
		EffectList:          e.Effects,
		SupportedColorModes: e.ColorModes,
		MinMireds:           e.MinMireds,
		MaxMireds:           e.MaxMireds,
		Optimistic:          e.Optimistic,
	}
}

func numberDiscovery(e NumberEntity) NumberDiscovery {
	return NumberDiscovery{
		Name:         e.Name,
		UniqueID:     UniqueID(e.Device.ID, e.ID),
		StateTopic:   StateTopic(e.Device.ID, e.ID),
		CommandTopic: CommandTopic(e.Device.ID, e.ID),
		Device:       deviceInfo(e.Device),
		Icon:         e.Icon,
		DeviceClass:  e.DeviceClass,
		Unit:         e.Unit,
		Min:          e.Min,
		Max:          e.Max,
		Step:         e.Step,
		Mode:         e.Mode,
	}
}

func stateToWire(s light.State) LightState {
	if !s.On {
		return LightState{State: "OFF"}
	}

	out := LightState{
		State:      "ON",
		Brightness: s.Brightness,
		ColorMode:  s.ColorMode,
		Effect:     s.Effect,
	}

	switch s.ColorMode {
	case light.ColorModeTemp:
		out.ColorTemp = s.ColorTemp
	default:
		out.Color = &RGBColor{R: s.Color.R, G: s.Color.G, B: s.Color.B}
	}

	return out
}

func commandToChange(cmd LightCommand) light.Change {
	var change light.Change

	switch cmd.State {
	case "ON":
		on := true
		change.On = &on
	case "OFF":
		on := false
		change.On = &on
	}

	change.Brightness = cmd.Brightness
	change.ColorTemp = cmd.ColorTemp

	if cmd.Color != nil {
		change.Color = &light.RGB{R: cmd.Color.R, G: cmd.Color.G, B: cmd.Color.B}
	}

	if cmd.Effect != "" {
		effect := cmd.Effect
		change.Effect = &effect
	}

	return change
}

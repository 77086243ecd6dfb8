package homeassistant

// Wire payloads. Field names and optionality match what the automation
// platform expects for MQTT discovery and JSON-schema lights.

// DeviceInfo groups entities under one device in the UI
type DeviceInfo struct {
	Name         string   `json:"name"`
	Identifiers  []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	SWVersion    string   `json:"sw_version,omitempty"`
}

// LightDiscovery discovery config for a JSON-schema light
type LightDiscovery struct {
	Name                string     `json:"name"`
	UniqueID            string     `json:"unique_id"`
	Schema              string     `json:"schema"`
	StateTopic          string     `json:"state_topic"`
	CommandTopic        string     `json:"command_topic"`
	Device              DeviceInfo `json:"device"`
	Icon                string     `json:"icon,omitempty"`
	Brightness          bool       `json:"brightness,omitempty"`
	Effect              bool       `json:"effect,omitempty"`
	EffectList          []string   `json:"effect_list,omitempty"`
	SupportedColorModes []string   `json:"supported_color_modes,omitempty"`
	MinMireds           uint16     `json:"min_mireds,omitempty"`
	MaxMireds           uint16     `json:"max_mireds,omitempty"`
	Optimistic          bool       `json:"optimistic,omitempty"`
}

// NumberDiscovery discovery config for a number entity
type NumberDiscovery struct {
	Name         string     `json:"name"`
	UniqueID     string     `json:"unique_id"`
	StateTopic   string     `json:"state_topic"`
	CommandTopic string     `json:"command_topic"`
	Device       DeviceInfo `json:"device"`
	Icon         string     `json:"icon,omitempty"`
	DeviceClass  string     `json:"device_class,omitempty"`
	Unit         string     `json:"unit_of_measurement,omitempty"`
	Min          int        `json:"min"`
	Max          int        `json:"max"`
	Step         float64    `json:"step,omitempty"`
	Mode         string     `json:"mode,omitempty"`
}

// RGBColor color payload inside light state and commands
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// LightState state payload published on the state topic
type LightState struct {
	State      string    `json:"state"`
	Brightness uint8     `json:"brightness,omitempty"`
	ColorMode  string    `json:"color_mode,omitempty"`
	ColorTemp  uint16    `json:"color_temp,omitempty"`
	Color      *RGBColor `json:"color,omitempty"`
	Effect     string    `json:"effect,omitempty"`
}

// LightCommand command payload received on the command topic. Absent
// fields leave the corresponding light attribute unchanged
type LightCommand struct {
	State      string    `json:"state,omitempty"`
	Brightness *uint8    `json:"brightness,omitempty"`
	ColorTemp  *uint16   `json:"color_temp,omitempty"`
	Color      *RGBColor `json:"color,omitempty"`
	Effect     string    `json:"effect,omitempty"`
}

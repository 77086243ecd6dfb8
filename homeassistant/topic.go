// Package homeassistant announces device entities over MQTT discovery and
// translates between the automation wire format and the light domain types.
package homeassistant

import "fmt"

const discoveryPrefix = "homeassistant"

// ConfigTopic returns the discovery config topic for an entity.
// Format: homeassistant/{component}/{deviceID}_{entityID}/config
func ConfigTopic(component, deviceID, entityID string) string {
	return fmt.Sprintf("%s/%s/%s_%s/config", discoveryPrefix, component, deviceID, entityID)
}

// StateTopic returns the state topic for an entity.
// Format: {deviceID}/{entityID}
func StateTopic(deviceID, entityID string) string {
	return deviceID + "/" + entityID
}

// CommandTopic returns the command topic for an entity.
// Format: {deviceID}/{entityID}/set
func CommandTopic(deviceID, entityID string) string {
	return StateTopic(deviceID, entityID) + "/set"
}

// UniqueID returns the unique id for an entity.
// Format: {deviceID}_{entityID}
func UniqueID(deviceID, entityID string) string {
	return deviceID + "_" + entityID
}

package packet

// ProtocolVersion describes versions implemented by this package
type ProtocolVersion byte

const (
	// ProtocolV31 describes spec MQIsdp
	ProtocolV31 = ProtocolVersion(0x3)
	// ProtocolV311 describes spec v3.1.1
	ProtocolV311 = ProtocolVersion(0x4)
)

// SupportedVersions is a map of the version number to the protocol name,
// "MQIsdp" for 0x3 and "MQTT" for 0x4
var SupportedVersions = map[ProtocolVersion]string{
	ProtocolV31:  "MQIsdp",
	ProtocolV311: "MQTT",
}

const (
	// MaxLPString maximum size of length-prefixed string
	MaxLPString = 65535
)

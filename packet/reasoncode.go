package packet

// ReasonCode contains return codes used by the v3.1.1 client role
type ReasonCode byte

// nolint: golint
const (
	// CodeSuccess operation accepted
	CodeSuccess ReasonCode = 0x00
	// CodeRefusedUnacceptableProtocolVersion the server does not support the
	// level of the MQTT protocol requested by the client
	CodeRefusedUnacceptableProtocolVersion ReasonCode = 0x01
	// CodeRefusedIdentifierRejected the client identifier is not allowed
	CodeRefusedIdentifierRejected ReasonCode = 0x02
	// CodeRefusedServerUnavailable the network connection has been made but
	// the MQTT service is unavailable
	CodeRefusedServerUnavailable ReasonCode = 0x03
	// CodeRefusedBadUsernameOrPassword the data in the user name or password
	// is malformed
	CodeRefusedBadUsernameOrPassword ReasonCode = 0x04
	// CodeRefusedNotAuthorized the client is not authorized to connect
	CodeRefusedNotAuthorized ReasonCode = 0x05
)

var codeDesc = map[ReasonCode]string{
	CodeSuccess:                            "The Connection is accepted",
	CodeRefusedUnacceptableProtocolVersion: "The Server does not support the level of the MQTT protocol requested by the Client",
	CodeRefusedIdentifierRejected:          "The Client identifier is not allowed",
	CodeRefusedServerUnavailable:           "Server refused connection",
	CodeRefusedBadUsernameOrPassword:       "The data in the user name or password is malformed",
	CodeRefusedNotAuthorized:               "The Client is not authorized to connect",
}

// Value convert reason code to byte type
func (c ReasonCode) Value() byte {
	return byte(c)
}

// IsValidForType check either reason code is valid for given packet type
func (c ReasonCode) IsValidForType(p Type) bool {
	if p != CONNACK {
		return c == CodeSuccess
	}

	_, ok := codeDesc[c]
	return ok
}

// Error returns the description of the ReasonCode
func (c ReasonCode) Error() string {
	if s, ok := codeDesc[c]; ok {
		return s
	}

	return "unknown error"
}

// Desc return code description
func (c ReasonCode) Desc() string {
	return c.Error()
}

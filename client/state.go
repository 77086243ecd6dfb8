package client

// ConnectionState of the session. Transitions are the only way
// session-dependent operations become legal
type ConnectionState uint8

// Session states
const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

var stateName = [4]string{
	"DISCONNECTED",
	"CONNECTING",
	"CONNECTED",
	"DISCONNECTING",
}

func (s ConnectionState) String() string {
	if int(s) >= len(stateName) {
		return "UNKNOWN"
	}

	return stateName[s]
}

package protocol

import "encoding/json"

const Version = "1.0"

// Frame types on the gateway socket.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeMessage = "MESSAGE"
	TypeSend    = "SEND"
)

// BaseFrame lets us route unknown JSON frames by type.
type BaseFrame struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseFrame, error) {
	var f BaseFrame
	err := json.Unmarshal(b, &f)
	return f, err
}

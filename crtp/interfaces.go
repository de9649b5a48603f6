package crtp

// RequestPacketPtr is implemented by every outgoing packet type. Bytes
// returns the payload only; the header byte is prepended by the sender.
type RequestPacketPtr interface {
	Port() Port
	Channel() Channel
	Bytes() []byte
}

// ResponsePacketPtr is implemented by every incoming packet type.
// LoadFromBytes receives the full packet including the header byte, which
// has already been verified against Port() and Channel().
type ResponsePacketPtr interface {
	Port() Port
	Channel() Channel
	LoadFromBytes([]byte) error
}

// PacketBytes renders a request into its on-wire form: header byte followed
// by the payload.
func PacketBytes(request RequestPacketPtr) []byte {
	body := request.Bytes()
	packet := make([]byte, len(body)+1)
	packet[0] = HeaderBytes(request.Port(), request.Channel())
	copy(packet[1:], body)
	return packet
}

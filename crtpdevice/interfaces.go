package crtpdevice

// Ack is the link layer's synchronous reply to a sent packet. Data holds
// whatever the device chose to answer with, which is not necessarily a
// response to the packet that was just sent.
type Ack struct {
	Received bool
	Data     []byte
}

// Datarate enumerates the air datarates supported by the radio.
type Datarate uint16

const (
	Datarate250KPS Datarate = iota
	Datarate1MPS
	Datarate2MPS
)

// RadioConfig is the radio state a transport must be in before a packet for
// a given connection goes out. Transports apply it lazily: reconfiguration
// only happens when a field differs from the device's current setting.
type RadioConfig struct {
	Channel   uint8
	Address   uint64
	Datarate  Datarate
	AckEnable bool
}

// Transport is a physical channel to one device slot, shared by all logical
// connections addressing that slot. Callers hold Lock across
// Configure+SendPacket so that the configure-then-send sequence is one
// atomic critical section.
type Transport interface {
	Lock()
	Unlock()

	Configure(cfg RadioConfig) error
	SendPacket(data []byte) (Ack, error)
	SendPacketNoAck(data []byte) error

	Close()
}

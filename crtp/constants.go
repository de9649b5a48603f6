package crtp

const (
	PortConsole    Port = 0x00
	PortParam      Port = 0x02
	PortSetpoint   Port = 0x03
	PortMem        Port = 0x04
	PortLog        Port = 0x05
	PortPosition   Port = 0x06
	PortTrajectory Port = 0x08
	PortPlatform   Port = 0x0D
	PortLink       Port = 0x0F
	PortEmpty1     Port = 0xF3
	PortEmpty2     Port = 0xF7
	PortGreedy     Port = 0xFF
)

// MaxPayloadSize is the largest CRTP payload the link can carry, excluding
// the header byte.
const MaxPayloadSize = 31

type Header byte
type Port byte
type Channel byte

func HeaderBytes(port Port, channel Channel) byte {
	var link byte = 3
	return ((byte(port) & 0x0F) << 4) |
		((link & 0x03) << 2) |
		((byte(channel) & 0x03) << 0)
}

func (header Header) Channel() Channel {
	return Channel((byte(header) >> 0) & 0x03)
}

func (header Header) Port() Port {
	return Port((byte(header) >> 4) & 0x0F)
}

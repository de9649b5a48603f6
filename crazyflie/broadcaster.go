package crazyflie

import (
	"github.com/AkihikoHONDA/crazyflie-ros/crtp"
	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

// Broadcaster addresses every vehicle on a channel at once. Sends are
// fire-and-forget with acks disabled: with many receivers there is no
// meaningful ack to wait for.
type Broadcaster struct {
	link      LinkAddress
	transport crtpdevice.Transport
	config    crtpdevice.RadioConfig
}

// NewBroadcaster acquires the shared radio transport for a radio:// URI.
// USB links cannot broadcast.
func NewBroadcaster(uri string, hub *crtpdevice.Hub) (*Broadcaster, error) {
	link, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if link.USB {
		return nil, ErrorBroadcastRequiresRadio
	}

	transport, err := hub.Radio(link.DevID)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{
		link:      link,
		transport: transport,
		config: crtpdevice.RadioConfig{
			Channel:   link.Channel,
			Address:   link.Address,
			Datarate:  link.Datarate,
			AckEnable: false,
		},
	}, nil
}

func (bc *Broadcaster) sendPacket(data []byte) error {
	bc.transport.Lock()
	defer bc.transport.Unlock()

	if err := bc.transport.Configure(bc.config); err != nil {
		return err
	}
	return bc.transport.SendPacketNoAck(data)
}

// StartTrajectory starts the uploaded trajectory on every vehicle.
func (bc *Broadcaster) StartTrajectory() error {
	return bc.sendPacket(crtp.PacketBytes(&TrajectoryRequestStart{}))
}

// Takeoff commands a vertical takeoff to height over duration.
func (bc *Broadcaster) Takeoff(height float32, duration uint16) error {
	return bc.sendPacket(crtp.PacketBytes(&TrajectoryRequestTakeoff{height, duration}))
}

// Land commands a vertical landing to height over duration.
func (bc *Broadcaster) Land(height float32, duration uint16) error {
	return bc.sendPacket(crtp.PacketBytes(&TrajectoryRequestLand{height, duration}))
}

// ExternalPosition is one vehicle's compact position-plus-yaw sample for
// the broadcast pose stream.
type ExternalPosition struct {
	ID      uint8
	X, Y, Z float32
	Yaw     float32
}

const externalPositionSlotSize = 9 // id + 4 half floats

// SendExternalPositions broadcasts position samples, three vehicles per
// packet, half-precision encoded. Unused slots carry id 0.
func (bc *Broadcaster) SendExternalPositions(states []ExternalPosition) error {
	packet := make([]byte, 1+3*externalPositionSlotSize)

	reset := func() {
		for i := range packet {
			packet[i] = 0
		}
		packet[0] = crtp.HeaderBytes(crtp.PortPosition, 2)
	}
	reset()

	for i, state := range states {
		slot := packet[1+(i%3)*externalPositionSlotSize:]
		slot[0] = state.ID
		putHalf(slot[1:], state.X)
		putHalf(slot[3:], state.Y)
		putHalf(slot[5:], state.Z)
		putHalf(slot[7:], state.Yaw)

		if i%3 == 2 || i == len(states)-1 {
			if err := bc.sendPacket(packet); err != nil {
				return err
			}
			reset()
		}
	}
	return nil
}

func putHalf(b []byte, v float32) {
	half := singleToHalf(v)
	b[0] = byte(half)
	b[1] = byte(half >> 8)
}

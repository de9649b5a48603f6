package crazyflie

import (
	"encoding/binary"

	"github.com/AkihikoHONDA/crazyflie-ros/crtp"
)

const (
	trajectoryCommandReset   uint8 = 0x00
	trajectoryCommandAdd     uint8 = 0x01
	trajectoryCommandStart   uint8 = 0x02
	trajectoryCommandTakeoff uint8 = 0x03
	trajectoryCommandLand    uint8 = 0x04
	trajectoryCommandHover   uint8 = 0x05
)

// ---- TRAJECTORY REQUEST: RESET ----
type TrajectoryRequestReset struct{}

func (p *TrajectoryRequestReset) Port() crtp.Port {
	return crtp.PortTrajectory
}

func (p *TrajectoryRequestReset) Channel() crtp.Channel {
	return 0
}

func (p *TrajectoryRequestReset) Bytes() []byte {
	return []byte{trajectoryCommandReset}
}

// ---- TRAJECTORY RESPONSE: RESET ----
type TrajectoryResponseReset struct{}

func (p *TrajectoryResponseReset) Port() crtp.Port {
	return crtp.PortTrajectory
}

func (p *TrajectoryResponseReset) Channel() crtp.Channel {
	return 0
}

func (p *TrajectoryResponseReset) LoadFromBytes(b []byte) error {
	if b[1] != trajectoryCommandReset {
		return crtp.ErrorPacketIncorrectType
	}
	// acknowledgement only
	return nil
}

// ---- TRAJECTORY REQUEST: ADD FRAGMENT ----
// One fragment of a segment's 33-float payload. Command, segment id and
// offset together identify the fragment; they are also its ack match key.
type TrajectoryRequestAddFragment struct {
	ID     uint8
	Offset uint8 // index into the segment's 33-float array
	Values []float32
}

func (p *TrajectoryRequestAddFragment) Port() crtp.Port {
	return crtp.PortTrajectory
}

func (p *TrajectoryRequestAddFragment) Channel() crtp.Channel {
	return 0
}

func (p *TrajectoryRequestAddFragment) Bytes() []byte {
	packet := make([]byte, 4+4*len(p.Values))
	packet[0] = trajectoryCommandAdd
	packet[1] = p.ID
	packet[2] = p.Offset
	packet[3] = uint8(len(p.Values))
	for i, v := range p.Values {
		copy(packet[4+4*i:], float32ToBytes(v))
	}
	return packet
}

// ---- TRAJECTORY RESPONSE: ADD FRAGMENT ----
type TrajectoryResponseAddFragment struct {
	ID     uint8
	Offset uint8
}

func (p *TrajectoryResponseAddFragment) Port() crtp.Port {
	return crtp.PortTrajectory
}

func (p *TrajectoryResponseAddFragment) Channel() crtp.Channel {
	return 0
}

func (p *TrajectoryResponseAddFragment) LoadFromBytes(b []byte) error {
	if b[1] != trajectoryCommandAdd || b[2] != p.ID || b[3] != p.Offset {
		return crtp.ErrorPacketIncorrectType
	}
	return nil
}

// ---- TRAJECTORY REQUEST: START ----
type TrajectoryRequestStart struct{}

func (p *TrajectoryRequestStart) Port() crtp.Port {
	return crtp.PortTrajectory
}

func (p *TrajectoryRequestStart) Channel() crtp.Channel {
	return 0
}

func (p *TrajectoryRequestStart) Bytes() []byte {
	return []byte{trajectoryCommandStart}
}

// ---- TRAJECTORY REQUEST: TAKEOFF ----
type TrajectoryRequestTakeoff struct {
	Height   float32
	Duration uint16 // milliseconds
}

func (p *TrajectoryRequestTakeoff) Port() crtp.Port {
	return crtp.PortTrajectory
}

func (p *TrajectoryRequestTakeoff) Channel() crtp.Channel {
	return 0
}

func (p *TrajectoryRequestTakeoff) Bytes() []byte {
	packet := make([]byte, 7)
	packet[0] = trajectoryCommandTakeoff
	copy(packet[1:5], float32ToBytes(p.Height))
	binary.LittleEndian.PutUint16(packet[5:7], p.Duration)
	return packet
}

// ---- TRAJECTORY REQUEST: LAND ----
type TrajectoryRequestLand struct {
	Height   float32
	Duration uint16 // milliseconds
}

func (p *TrajectoryRequestLand) Port() crtp.Port {
	return crtp.PortTrajectory
}

func (p *TrajectoryRequestLand) Channel() crtp.Channel {
	return 0
}

func (p *TrajectoryRequestLand) Bytes() []byte {
	packet := make([]byte, 7)
	packet[0] = trajectoryCommandLand
	copy(packet[1:5], float32ToBytes(p.Height))
	binary.LittleEndian.PutUint16(packet[5:7], p.Duration)
	return packet
}

// ---- TRAJECTORY REQUEST: HOVER ----
type TrajectoryRequestHover struct {
	X, Y, Z, Yaw float32
}

func (p *TrajectoryRequestHover) Port() crtp.Port {
	return crtp.PortTrajectory
}

func (p *TrajectoryRequestHover) Channel() crtp.Channel {
	return 0
}

func (p *TrajectoryRequestHover) Bytes() []byte {
	packet := make([]byte, 17)
	packet[0] = trajectoryCommandHover
	copy(packet[1:5], float32ToBytes(p.X))
	copy(packet[5:9], float32ToBytes(p.Y))
	copy(packet[9:13], float32ToBytes(p.Z))
	copy(packet[13:17], float32ToBytes(p.Yaw))
	return packet
}

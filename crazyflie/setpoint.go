package crazyflie

import (
	"encoding/binary"

	"github.com/AkihikoHONDA/crazyflie-ros/crtp"
)

// SendPing pokes the vehicle with an idle-marker packet; whatever comes
// back in the ack is dispatched as unsolicited data.
func (cf *Crazyflie) SendPing() error {
	return cf.sendPacketHandleAck(pingPacket)
}

// SendSetpoint sends one roll/pitch/yawrate/thrust setpoint,
// fire-and-forget.
func (cf *Crazyflie) SendSetpoint(roll, pitch, yawrate float32, thrust uint16) error {
	packet := make([]byte, 1+3*4+2)
	packet[0] = crtp.HeaderBytes(crtp.PortSetpoint, 0)
	copy(packet[1:5], float32ToBytes(roll))
	copy(packet[5:9], float32ToBytes(pitch))
	copy(packet[9:13], float32ToBytes(yawrate))
	binary.LittleEndian.PutUint16(packet[13:15], thrust)

	return cf.sendPacketHandleAck(packet)
}

// SendExternalPosition feeds one external position estimate to the
// vehicle, fire-and-forget.
func (cf *Crazyflie) SendExternalPosition(x, y, z float32) error {
	packet := make([]byte, 1+3*4)
	packet[0] = crtp.HeaderBytes(crtp.PortPosition, 0)
	copy(packet[1:5], float32ToBytes(x))
	copy(packet[5:9], float32ToBytes(y))
	copy(packet[9:13], float32ToBytes(z))

	return cf.sendPacketHandleAck(packet)
}

// ExternalPose is a full external pose sample for one vehicle.
type ExternalPose struct {
	ID             uint8
	X, Y, Z        float32
	Q0, Q1, Q2, Q3 float32 // unit quaternion
}

const externalPoseSlotSize = 15 // id + 3 half floats + 4 int16

func encodeExternalPose(b []byte, pose ExternalPose) {
	b[0] = pose.ID
	binary.LittleEndian.PutUint16(b[1:3], singleToHalf(pose.X))
	binary.LittleEndian.PutUint16(b[3:5], singleToHalf(pose.Y))
	binary.LittleEndian.PutUint16(b[5:7], singleToHalf(pose.Z))
	binary.LittleEndian.PutUint16(b[7:9], uint16(int16(pose.Q0*32768.0)))
	binary.LittleEndian.PutUint16(b[9:11], uint16(int16(pose.Q1*32768.0)))
	binary.LittleEndian.PutUint16(b[11:13], uint16(int16(pose.Q2*32768.0)))
	binary.LittleEndian.PutUint16(b[13:15], uint16(int16(pose.Q3*32768.0)))
}

// SendExternalPose sends a compact (half-precision) pose with orientation.
// The packet carries two pose slots; the second is left empty.
func (cf *Crazyflie) SendExternalPose(pose ExternalPose) error {
	packet := make([]byte, 1+2*externalPoseSlotSize)
	packet[0] = crtp.HeaderBytes(crtp.PortPosition, 1)
	encodeExternalPose(packet[1:], pose)
	// second slot id 0 marks it unused

	return cf.sendPacketHandleAck(packet)
}

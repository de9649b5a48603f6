package crazyflie

// Reboot sequences per the platform service protocol. Unlike the batch
// engine, these resend until the link acks: a reboot is issued exactly when
// the link is about to go away, so per-packet retry is the only option.

var (
	rebootInitPacket         = []byte{0xFF, 0xFE, 0xFF}
	rebootToFirmwarePacket   = []byte{0xFF, 0xFE, 0xF0, 0x01}
	rebootToBootloaderPacket = []byte{0xFF, 0xFE, 0xF0, 0x00}
)

func (cf *Crazyflie) sendPacketUntilAcked(packet []byte) error {
	for {
		ack, err := cf.sendPacket(packet)
		if err != nil {
			return err
		}
		if ack.Received {
			return nil
		}
	}
}

// Reboot restarts the vehicle into firmware.
func (cf *Crazyflie) Reboot() error {
	if err := cf.sendPacketUntilAcked(rebootInitPacket); err != nil {
		return err
	}
	return cf.sendPacketUntilAcked(rebootToFirmwarePacket)
}

// RebootToBootloader restarts the vehicle into its radio bootloader. The
// bootloader listens on a different address and channel; this connection is
// not usable afterwards.
func (cf *Crazyflie) RebootToBootloader() error {
	if err := cf.sendPacketUntilAcked(rebootInitPacket); err != nil {
		return err
	}
	return cf.sendPacketUntilAcked(rebootToBootloaderPacket)
}

package crazyradio

import (
	"sync"
	"time"

	"github.com/kylelemons/gousb/usb"

	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

// RadioDevice drives one Crazyradio PA dongle. One instance exists per
// device slot; all connections sharing the dongle serialize their
// configure+send+read sequences through Lock/Unlock.
type RadioDevice struct {
	device  *usb.Device
	context *usb.Context
	lock    sync.Mutex
	dataOut usb.Endpoint
	dataIn  usb.Endpoint

	current crtpdevice.RadioConfig
}

// Open claims the devID-th Crazyradio dongle on the bus and brings it into
// a known default state. It satisfies the crtpdevice.Opener signature.
func Open(devID int) (crtpdevice.Transport, error) {
	usbContext := usb.NewContext()
	usbContext.Debug(0)

	radioDevices, _ := usbContext.ListDevices(
		func(desc *usb.Descriptor) bool {
			return desc.Vendor == radioVendorID && desc.Product == radioProductID
		})

	if devID >= len(radioDevices) {
		for _, dev := range radioDevices {
			dev.Close()
		}
		usbContext.Close()
		return nil, ErrorDeviceNotFound
	}

	for i, dev := range radioDevices {
		if i != devID {
			dev.Close()
		}
	}

	return openRadio(usbContext, radioDevices[devID])
}

func openRadio(context *usb.Context, dev *usb.Device) (*RadioDevice, error) {
	dOut, err := dev.OpenEndpoint(1, 0, 0, 0x01)
	if err != nil {
		dev.Close()
		context.Close()
		return nil, err
	}

	dIn, err := dev.OpenEndpoint(1, 0, 0, 0x81)
	if err != nil {
		dev.Close()
		context.Close()
		return nil, err
	}

	dev.ControlTimeout = 250 * time.Millisecond
	dev.ReadTimeout = 50 * time.Millisecond
	dev.WriteTimeout = 50 * time.Millisecond

	radio := &RadioDevice{
		device:  dev,
		context: context,
		dataOut: dOut,
		dataIn:  dIn,
	}

	// known default state, mirrored in radio.current
	defaults := crtpdevice.RadioConfig{
		Channel:   80,
		Address:   0xE7E7E7E7E7,
		Datarate:  crtpdevice.Datarate2MPS,
		AckEnable: true,
	}
	if err := radio.setChannel(defaults.Channel); err != nil {
		radio.Close()
		return nil, err
	}
	if err := radio.setAddress(defaults.Address); err != nil {
		radio.Close()
		return nil, err
	}
	if err := radio.setDatarate(defaults.Datarate); err != nil {
		radio.Close()
		return nil, err
	}
	if err := radio.setAckEnable(defaults.AckEnable); err != nil {
		radio.Close()
		return nil, err
	}
	radio.current = defaults

	radio.setPower(RadioPower_0DBM)
	radio.setArc(0)
	radio.setArdBytes(32)

	return radio, nil
}

func (radio *RadioDevice) Close() {
	radio.device.Close()
	radio.context.Close()
}

func (radio *RadioDevice) Lock() {
	radio.lock.Lock()
}

func (radio *RadioDevice) Unlock() {
	radio.lock.Unlock()
}

// Configure brings the dongle into the requested state. Each field is only
// written out when it differs from the dongle's current setting, so
// round-robin use by connections with identical settings costs nothing.
func (radio *RadioDevice) Configure(cfg crtpdevice.RadioConfig) error {
	if cfg.Address != radio.current.Address {
		if err := radio.setAddress(cfg.Address); err != nil {
			return err
		}
		radio.current.Address = cfg.Address
	}
	if cfg.Channel != radio.current.Channel {
		if err := radio.setChannel(cfg.Channel); err != nil {
			return err
		}
		radio.current.Channel = cfg.Channel
	}
	if cfg.Datarate != radio.current.Datarate {
		if err := radio.setDatarate(cfg.Datarate); err != nil {
			return err
		}
		radio.current.Datarate = cfg.Datarate
	}
	if cfg.AckEnable != radio.current.AckEnable {
		if err := radio.setAckEnable(cfg.AckEnable); err != nil {
			return err
		}
		radio.current.AckEnable = cfg.AckEnable
	}
	return nil
}

// SendPacket writes one packet and blocks until the dongle reports the
// acknowledgement state of the transfer.
func (radio *RadioDevice) SendPacket(data []byte) (crtpdevice.Ack, error) {
	if err := radio.write(data); err != nil {
		return crtpdevice.Ack{}, err
	}

	// ACK USB report:
	// byte 0: bit 0 ack received, bit 1 power detector, bits 4-7 retry count
	// bytes 1..n: the acked packet, if any
	resp := make([]byte, 40)
	length, err := radio.dataIn.Read(resp)
	if err != nil {
		return crtpdevice.Ack{}, err
	}

	ack := crtpdevice.Ack{
		Received: resp[0]&0x01 != 0,
		Data:     resp[1:length],
	}
	return ack, nil
}

// SendPacketNoAck writes one packet without waiting for an acknowledgement
// report. Only meaningful with AckEnable false (broadcast role).
func (radio *RadioDevice) SendPacketNoAck(data []byte) error {
	return radio.write(data)
}

func (radio *RadioDevice) write(data []byte) error {
	length, err := radio.dataOut.Write(data)
	if err != nil {
		return err
	}
	if len(data) != length {
		return ErrorWriteLength
	}
	return nil
}

func (radio *RadioDevice) setChannel(channel uint8) error {
	if channel > 125 {
		return ErrorInvalidChannel
	}

	_, err := radio.device.Control(usb.REQUEST_TYPE_VENDOR, uint8(SET_RADIO_CHANNEL), uint16(channel), 0, nil)
	return err
}

func (radio *RadioDevice) setDatarate(datarate crtpdevice.Datarate) error {
	if datarate > crtpdevice.Datarate2MPS {
		return ErrorInvalidDatarate
	}

	_, err := radio.device.Control(usb.REQUEST_TYPE_VENDOR, uint8(SET_DATA_RATE), uint16(datarate), 0, nil)
	return err
}

func (radio *RadioDevice) setPower(power radioPower) error {
	if power > RadioPower_0DBM {
		return ErrorInvalidPower
	}

	_, err := radio.device.Control(usb.REQUEST_TYPE_VENDOR, uint8(SET_RADIO_POWER), uint16(power), 0, nil)
	return err
}

func (radio *RadioDevice) setArc(arc uint8) error {
	if arc > 15 {
		return ErrorInvalidArc
	}

	_, err := radio.device.Control(usb.REQUEST_TYPE_VENDOR, uint8(SET_RADIO_ARC), uint16(arc), 0, nil)
	return err
}

func (radio *RadioDevice) setArdBytes(nbytes uint8) error {
	// 0x00 - 0 bytes ... 0x20 - 32 bytes
	if nbytes > 0x20 {
		return ErrorInvalidArdBytes
	}

	_, err := radio.device.Control(usb.REQUEST_TYPE_VENDOR, uint8(SET_RADIO_ARD), uint16(0x80|nbytes), 0, nil)
	return err
}

func (radio *RadioDevice) setAckEnable(enable bool) error {
	val := uint16(0)
	if enable {
		val = 1
	}

	_, err := radio.device.Control(usb.REQUEST_TYPE_VENDOR, uint8(SET_ACK_ENABLE), val, 0, nil)
	return err
}

func (radio *RadioDevice) setAddress(address uint64) error {
	a := make([]byte, 5)
	a[4] = uint8((address >> 0) & 0xFF)
	a[3] = uint8((address >> 8) & 0xFF)
	a[2] = uint8((address >> 16) & 0xFF)
	a[1] = uint8((address >> 24) & 0xFF)
	a[0] = uint8((address >> 32) & 0xFF)

	_, err := radio.device.Control(usb.REQUEST_TYPE_VENDOR, uint8(SET_RADIO_ADDRESS), 0, 0, a)
	return err
}

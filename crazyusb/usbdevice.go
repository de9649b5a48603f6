package crazyusb

import (
	"sync"
	"time"

	"github.com/kylelemons/gousb/usb"

	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

const (
	usbVendorID  = 0x0483
	usbProductID = 0x5740
)

// UsbDevice is a Crazyflie attached directly over USB. The CRTP stream is
// carried on a bulk endpoint pair; there is no radio state, so Configure is
// a no-op and every read doubles as the "ack".
type UsbDevice struct {
	device  *usb.Device
	context *usb.Context
	lock    sync.Mutex
	dataOut usb.Endpoint
	dataIn  usb.Endpoint
}

// Open claims the devID-th USB-attached Crazyflie. It satisfies the
// crtpdevice.Opener signature.
func Open(devID int) (crtpdevice.Transport, error) {
	usbContext := usb.NewContext()
	usbContext.Debug(0)

	usbDevices, _ := usbContext.ListDevices(
		func(desc *usb.Descriptor) bool {
			return desc.Vendor == usbVendorID && desc.Product == usbProductID
		})

	if devID >= len(usbDevices) {
		for _, dev := range usbDevices {
			dev.Close()
		}
		usbContext.Close()
		return nil, ErrorDeviceNotFound
	}

	for i, dev := range usbDevices {
		if i != devID {
			dev.Close()
		}
	}
	dev := usbDevices[devID]

	dev.ControlTimeout = 200 * time.Millisecond
	dev.ReadTimeout = 20 * time.Millisecond
	dev.WriteTimeout = 20 * time.Millisecond

	dOut, err := dev.OpenEndpoint(1, 0, 0, 0x01)
	if err != nil {
		dev.Close()
		usbContext.Close()
		return nil, err
	}

	dIn, err := dev.OpenEndpoint(1, 0, 0, 0x81)
	if err != nil {
		dev.Close()
		usbContext.Close()
		return nil, err
	}

	// enable CRTP-over-USB on the Crazyflie
	_, err = dev.Control(usb.REQUEST_TYPE_VENDOR, 0x01, 0x01, 1, nil)
	if err != nil {
		dev.Close()
		usbContext.Close()
		return nil, err
	}

	return &UsbDevice{
		device:  dev,
		context: usbContext,
		dataOut: dOut,
		dataIn:  dIn,
	}, nil
}

func (d *UsbDevice) Close() {
	// disable CRTP-over-USB before letting go of the device
	d.device.Control(usb.REQUEST_TYPE_VENDOR, 0x01, 0x01, 0, nil)
	d.device.Close()
	d.context.Close()
}

func (d *UsbDevice) Lock() {
	d.lock.Lock()
}

func (d *UsbDevice) Unlock() {
	d.lock.Unlock()
}

// Configure is a no-op: a USB link has no address, channel or datarate.
func (d *UsbDevice) Configure(cfg crtpdevice.RadioConfig) error {
	return nil
}

func (d *UsbDevice) SendPacket(data []byte) (crtpdevice.Ack, error) {
	if err := d.write(data); err != nil {
		return crtpdevice.Ack{}, err
	}

	resp := make([]byte, 64)
	length, err := d.dataIn.Read(resp)
	if err != nil {
		// a read timeout is the USB equivalent of a missing ack
		return crtpdevice.Ack{}, nil
	}

	return crtpdevice.Ack{
		Received: length > 0,
		Data:     resp[:length],
	}, nil
}

func (d *UsbDevice) SendPacketNoAck(data []byte) error {
	return d.write(data)
}

func (d *UsbDevice) write(data []byte) error {
	length, err := d.dataOut.Write(data)
	if err != nil {
		return err
	}
	if len(data) != length {
		return ErrorWriteLength
	}
	return nil
}

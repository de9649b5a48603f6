package crazyusb

import "fmt"

type usbError uint8

func (e usbError) Error() string {
	return fmt.Sprintf("crazyusb: %s", usbErrorString[e])
}

const (
	ErrorDeviceNotFound usbError = iota
	ErrorWriteLength
)

var usbErrorString = map[usbError]string{
	ErrorDeviceNotFound: "device not found",
	ErrorWriteLength:    "incorrect number of bytes written to endpoint",
}

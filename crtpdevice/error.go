package crtpdevice

import "fmt"

type deviceError uint8

func (e deviceError) Error() string {
	return fmt.Sprintf("crtpdevice: %s", deviceErrorString[e])
}

const (
	ErrorInvalidDeviceID deviceError = iota
)

var deviceErrorString = map[deviceError]string{
	ErrorInvalidDeviceID: "device index outside the supported slot table",
}

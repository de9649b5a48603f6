package crazyflie

import (
	"fmt"

	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

// LinkAddress identifies the physical path to one vehicle. It is immutable
// after parsing and selects which transport slot a connection shares.
type LinkAddress struct {
	DevID    int
	Channel  uint8
	Datarate crtpdevice.Datarate
	Address  uint64
	USB      bool
}

const DefaultAddress uint64 = 0xE7E7E7E7E7

// ParseURI accepts the two supported link URI forms:
//
//	radio://<dev>/<channel>/<rate><K|M>[/<hex address>]
//	usb://<dev>
func ParseURI(uri string) (LinkAddress, error) {
	var link LinkAddress
	var channel, rate int
	var rateType rune

	n, _ := fmt.Sscanf(uri, "radio://%d/%d/%d%c/%x", &link.DevID, &channel, &rate, &rateType, &link.Address)
	if n != 5 {
		n, _ = fmt.Sscanf(uri, "radio://%d/%d/%d%c", &link.DevID, &channel, &rate, &rateType)
		if n == 4 {
			link.Address = DefaultAddress
		}
	}

	if n >= 4 {
		if link.DevID < 0 || link.DevID >= crtpdevice.MaxRadios {
			return LinkAddress{}, ErrorInvalidDeviceID
		}
		if channel < 0 || channel > 125 {
			return LinkAddress{}, ErrorInvalidURI
		}
		link.Channel = uint8(channel)

		switch {
		case rate == 250 && rateType == 'K':
			link.Datarate = crtpdevice.Datarate250KPS
		case rate == 1 && rateType == 'M':
			link.Datarate = crtpdevice.Datarate1MPS
		case rate == 2 && rateType == 'M':
			link.Datarate = crtpdevice.Datarate2MPS
		default:
			return LinkAddress{}, ErrorInvalidURI
		}
		return link, nil
	}

	n, _ = fmt.Sscanf(uri, "usb://%d", &link.DevID)
	if n == 1 {
		if link.DevID < 0 || link.DevID >= crtpdevice.MaxUSB {
			return LinkAddress{}, ErrorInvalidDeviceID
		}
		link.USB = true
		return link, nil
	}

	return LinkAddress{}, ErrorInvalidURI
}

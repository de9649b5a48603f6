package crazyflie

import (
	"testing"

	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

func TestParseURI(t *testing.T) {
	cases := []struct {
		uri  string
		want LinkAddress
	}{
		{"radio://0/80/2M", LinkAddress{0, 80, crtpdevice.Datarate2MPS, DefaultAddress, false}},
		{"radio://1/10/250K", LinkAddress{1, 10, crtpdevice.Datarate250KPS, DefaultAddress, false}},
		{"radio://0/125/1M", LinkAddress{0, 125, crtpdevice.Datarate1MPS, DefaultAddress, false}},
		{"radio://2/80/2M/E7E7E7E701", LinkAddress{2, 80, crtpdevice.Datarate2MPS, 0xE7E7E7E701, false}},
		{"usb://0", LinkAddress{DevID: 0, USB: true}},
		{"usb://3", LinkAddress{DevID: 3, USB: true}},
	}

	for _, c := range cases {
		got, err := ParseURI(c.uri)
		if err != nil {
			t.Errorf("%s: %s", c.uri, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %+v, want %+v", c.uri, got, c.want)
		}
	}
}

func TestParseURIRejects(t *testing.T) {
	cases := []struct {
		uri string
		err error
	}{
		{"radio://0/126/2M", ErrorInvalidURI},
		{"radio://0/80/3M", ErrorInvalidURI},
		{"radio://0/80/500K", ErrorInvalidURI},
		{"radio://16/80/2M", ErrorInvalidDeviceID},
		{"usb://4", ErrorInvalidDeviceID},
		{"serial://0", ErrorInvalidURI},
		{"radio://", ErrorInvalidURI},
		{"", ErrorInvalidURI},
	}

	for _, c := range cases {
		if _, err := ParseURI(c.uri); err != c.err {
			t.Errorf("%s: err = %v, want %v", c.uri, err, c.err)
		}
	}
}

package crazyflie

import (
	"bytes"
	"testing"

	"github.com/AkihikoHONDA/crazyflie-ros/crtp"
	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

func TestConnectSharesTransportPerSlot(t *testing.T) {
	opened := 0
	hub := crtpdevice.NewHub(
		func(devID int) (crtpdevice.Transport, error) {
			opened++
			return &fakeTransport{}, nil
		},
		nil,
	)

	cf1, err := Connect("radio://0/80/2M", hub)
	if err != nil {
		t.Fatalf("connect: %s", err)
	}
	cf2, err := Connect("radio://0/90/2M/E7E7E7E702", hub)
	if err != nil {
		t.Fatalf("connect: %s", err)
	}

	if opened != 1 {
		t.Errorf("radio opened %d times, want 1", opened)
	}
	if cf1.transport != cf2.transport {
		t.Error("connections on one dongle got different transports")
	}
	if cf1.Address() != DefaultAddress || cf2.Address() != 0xE7E7E7E702 {
		t.Errorf("addresses = %X, %X", cf1.Address(), cf2.Address())
	}
}

func TestConnectBadURI(t *testing.T) {
	hub := crtpdevice.NewHub(nil, nil)
	if _, err := Connect("radio://0/200/2M", hub); err != ErrorInvalidURI {
		t.Errorf("err = %v, want ErrorInvalidURI", err)
	}
}

func TestConsoleAccumulation(t *testing.T) {
	cf := newTestCrazyflie(&fakeTransport{})
	header := crtp.HeaderBytes(crtp.PortConsole, 0)

	cf.handleConsoleFrame(append([]byte{header}, "SYS: Crazyf"...))
	if cf.accumulatedConsolePrint != "SYS: Crazyf" {
		t.Errorf("accumulated = %q", cf.accumulatedConsolePrint)
	}

	cf.handleConsoleFrame(append([]byte{header}, "lie is up\npartial"...))
	if cf.accumulatedConsolePrint != "partial" {
		t.Errorf("accumulated after newline = %q", cf.accumulatedConsolePrint)
	}
}

func TestEmptyAckCallback(t *testing.T) {
	cf := newTestCrazyflie(&fakeTransport{})

	var gotRSSI uint8
	cf.SetEmptyAckCallback(func(rssi uint8) { gotRSSI = rssi })

	cf.handleAck(ackWith(0xFF, 0x01, 61))
	if gotRSSI != 61 {
		t.Errorf("rssi = %d, want 61", gotRSSI)
	}

	// markers without the rssi tag are ignored
	gotRSSI = 0
	cf.handleAck(ackWith(0xFF, 0x00, 99))
	if gotRSSI != 0 {
		t.Error("callback fired for an untagged marker")
	}
}

func TestSendSetpointWireFormat(t *testing.T) {
	ft := &fakeTransport{}
	cf := newTestCrazyflie(ft)

	if err := cf.SendSetpoint(1.5, -2.5, 90, 30000); err != nil {
		t.Fatalf("setpoint: %s", err)
	}

	if len(ft.sent) != 1 {
		t.Fatalf("sent %d packets", len(ft.sent))
	}
	p := ft.sent[0]
	if p[0] != crtp.HeaderBytes(crtp.PortSetpoint, 0) {
		t.Errorf("header = %#02x", p[0])
	}
	if len(p) != 15 {
		t.Fatalf("packet is %d bytes, want 15", len(p))
	}
	if bytesToFloat32(p[1:5]) != 1.5 || bytesToFloat32(p[5:9]) != -2.5 || bytesToFloat32(p[9:13]) != 90 {
		t.Errorf("attitude fields = % x", p[1:13])
	}
	if p[13] != 0x30 || p[14] != 0x75 { // 30000 little endian
		t.Errorf("thrust bytes = %x %x", p[13], p[14])
	}
}

func TestSendExternalPositionWireFormat(t *testing.T) {
	ft := &fakeTransport{}
	cf := newTestCrazyflie(ft)

	if err := cf.SendExternalPosition(0.5, -1, 2); err != nil {
		t.Fatalf("position: %s", err)
	}

	p := ft.sent[0]
	if p[0] != crtp.HeaderBytes(crtp.PortPosition, 0) || len(p) != 13 {
		t.Fatalf("packet = % x", p)
	}
	if bytesToFloat32(p[1:5]) != 0.5 || bytesToFloat32(p[5:9]) != -1 || bytesToFloat32(p[9:13]) != 2 {
		t.Errorf("position fields = % x", p[1:])
	}
}

func TestRebootResendsUntilAcked(t *testing.T) {
	ft := &fakeTransport{}
	cf := newTestCrazyflie(ft)

	// the link drops the first transmission of every packet
	lost := map[string]bool{}
	ft.respond = func(data []byte) crtpdevice.Ack {
		if !lost[string(data)] {
			lost[string(data)] = true
			return crtpdevice.Ack{}
		}
		return crtpdevice.Ack{Received: true}
	}

	if err := cf.Reboot(); err != nil {
		t.Fatalf("reboot: %s", err)
	}

	if len(ft.sent) != 4 {
		t.Fatalf("sent %d packets, want 4", len(ft.sent))
	}
	if !bytes.Equal(ft.sent[0], rebootInitPacket) || !bytes.Equal(ft.sent[1], rebootInitPacket) {
		t.Errorf("init packets = %x %x", ft.sent[0], ft.sent[1])
	}
	if !bytes.Equal(ft.sent[3], rebootToFirmwarePacket) {
		t.Errorf("final packet = %x", ft.sent[3])
	}
}

package crtpdevice

import "testing"

type fakeTransport struct {
	devID int
}

func (f *fakeTransport) Lock()                               {}
func (f *fakeTransport) Unlock()                             {}
func (f *fakeTransport) Configure(cfg RadioConfig) error     { return nil }
func (f *fakeTransport) SendPacket(data []byte) (Ack, error) { return Ack{}, nil }
func (f *fakeTransport) SendPacketNoAck(data []byte) error   { return nil }
func (f *fakeTransport) Close()                              {}

func TestHubSharesSlot(t *testing.T) {
	opened := 0
	hub := NewHub(func(devID int) (Transport, error) {
		opened++
		return &fakeTransport{devID}, nil
	}, nil)

	a, err := hub.Radio(3)
	if err != nil {
		t.Fatal(err)
	}
	b, err := hub.Radio(3)
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("two connections to the same slot got different transports")
	}
	if opened != 1 {
		t.Errorf("opener called %d times, want 1", opened)
	}
}

func TestHubDistinctSlots(t *testing.T) {
	hub := NewHub(func(devID int) (Transport, error) {
		return &fakeTransport{devID}, nil
	}, nil)

	a, _ := hub.Radio(0)
	b, _ := hub.Radio(1)
	if a == b {
		t.Error("distinct slots returned the same transport")
	}
}

func TestHubRange(t *testing.T) {
	hub := NewHub(nil, nil)

	if _, err := hub.Radio(MaxRadios); err != ErrorInvalidDeviceID {
		t.Errorf("Radio(%d) err = %v, want ErrorInvalidDeviceID", MaxRadios, err)
	}
	if _, err := hub.Radio(-1); err != ErrorInvalidDeviceID {
		t.Errorf("Radio(-1) err = %v, want ErrorInvalidDeviceID", err)
	}
	if _, err := hub.USB(MaxUSB); err != ErrorInvalidDeviceID {
		t.Errorf("USB(%d) err = %v, want ErrorInvalidDeviceID", MaxUSB, err)
	}
}

package crtpdevice

import "sync"

const (
	MaxRadios = 16
	MaxUSB    = 4
)

// Opener constructs the transport for a device index on first use.
type Opener func(devID int) (Transport, error)

type slot struct {
	lock      sync.Mutex
	transport Transport
}

// Hub owns the process-wide transport tables: one slot per radio dongle and
// one per USB-attached device, each lazily opened on first access and never
// torn down. Every slot carries its own lock so unrelated devices are not
// serialized against each other.
type Hub struct {
	openRadio Opener
	openUSB   Opener

	radioSlots [MaxRadios]slot
	usbSlots   [MaxUSB]slot
}

func NewHub(openRadio, openUSB Opener) *Hub {
	return &Hub{openRadio: openRadio, openUSB: openUSB}
}

// Radio returns the shared transport for radio dongle devID, opening it if
// this is the first connection to address that slot.
func (h *Hub) Radio(devID int) (Transport, error) {
	if devID < 0 || devID >= MaxRadios {
		return nil, ErrorInvalidDeviceID
	}
	return h.radioSlots[devID].get(devID, h.openRadio)
}

// USB returns the shared transport for USB device devID.
func (h *Hub) USB(devID int) (Transport, error) {
	if devID < 0 || devID >= MaxUSB {
		return nil, ErrorInvalidDeviceID
	}
	return h.usbSlots[devID].get(devID, h.openUSB)
}

func (s *slot) get(devID int, open Opener) (Transport, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.transport == nil {
		transport, err := open(devID)
		if err != nil {
			return nil, err
		}
		s.transport = transport
	}
	return s.transport, nil
}

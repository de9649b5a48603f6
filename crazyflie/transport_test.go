package crazyflie

import (
	"time"

	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

// fakeTransport is a scripted link: respond decides what ack each sent
// packet gets. With no script every send is acked empty.
type fakeTransport struct {
	respond func(data []byte) crtpdevice.Ack
	sendErr error

	sent    [][]byte
	noAck   [][]byte
	configs []crtpdevice.RadioConfig
}

func (t *fakeTransport) Lock()   {}
func (t *fakeTransport) Unlock() {}

func (t *fakeTransport) Configure(cfg crtpdevice.RadioConfig) error {
	t.configs = append(t.configs, cfg)
	return nil
}

func (t *fakeTransport) SendPacket(data []byte) (crtpdevice.Ack, error) {
	packet := append([]byte(nil), data...)
	t.sent = append(t.sent, packet)
	if t.sendErr != nil {
		return crtpdevice.Ack{}, t.sendErr
	}
	if t.respond == nil {
		return crtpdevice.Ack{Received: true}, nil
	}
	return t.respond(packet), nil
}

func (t *fakeTransport) SendPacketNoAck(data []byte) error {
	t.noAck = append(t.noAck, append([]byte(nil), data...))
	return nil
}

func (t *fakeTransport) Close() {}

func ackWith(data ...byte) crtpdevice.Ack {
	return crtpdevice.Ack{Received: true, Data: data}
}

// fakeClock hands out strictly increasing times, one step per reading.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	t := c.t
	c.t = c.t.Add(c.step)
	return t
}

func newTestCrazyflie(transport *fakeTransport) *Crazyflie {
	link := LinkAddress{DevID: 0, Channel: 80, Datarate: crtpdevice.Datarate2MPS, Address: DefaultAddress}
	return newCrazyflie(link, transport)
}

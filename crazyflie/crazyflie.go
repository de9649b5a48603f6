package crazyflie

import (
	"time"

	"github.com/AkihikoHONDA/crazyflie-ros/crazyradio"
	"github.com/AkihikoHONDA/crazyflie-ros/crazyusb"
	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

// LogDataCallback receives one decoded log-block push: the on-board
// timestamp and one float64 per declared variable.
type LogDataCallback func(timestamp uint32, values []float64)

// Crazyflie is one logical connection to a vehicle. All operations are
// synchronous and run on the caller's goroutine; the shared transport
// serializes packet exchanges across connections.
type Crazyflie struct {
	link      LinkAddress
	transport crtpdevice.Transport
	config    crtpdevice.RadioConfig

	now func() time.Time

	// link quality, sampled over a fixed window of sends
	numPackets          uint32
	numAcks             uint32
	linkQualityCallback func(quality float64)
	emptyAckCallback    func(rssi uint8)

	// console printing
	accumulatedConsolePrint string

	// batch request engine
	batchRequests       []batchEntry
	numRequestsFinished int

	// log TOC and block registry
	logTocEntries []LogTocEntry
	logCRC        uint32
	logBlocks     map[uint8]*logBlockRegistration

	// parameter TOC and value cache
	paramTocEntries []ParamTocEntry
	paramCRC        uint32
	paramValues     map[uint8]ParamValue

	lastTrajectoryID uint8
}

// NewHub returns a transport registry backed by the real radio and USB
// device openers. One hub is meant to exist per process and be handed to
// every connection.
func NewHub() *crtpdevice.Hub {
	return crtpdevice.NewHub(crazyradio.Open, crazyusb.Open)
}

// Connect parses a link URI and acquires the shared transport for its
// device slot. The connection holds no device-side state yet; callers
// normally follow up with RequestParamToc and RequestLogToc.
func Connect(uri string, hub *crtpdevice.Hub) (*Crazyflie, error) {
	link, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	var transport crtpdevice.Transport
	if link.USB {
		transport, err = hub.USB(link.DevID)
	} else {
		transport, err = hub.Radio(link.DevID)
	}
	if err != nil {
		return nil, err
	}

	return newCrazyflie(link, transport), nil
}

func newCrazyflie(link LinkAddress, transport crtpdevice.Transport) *Crazyflie {
	return &Crazyflie{
		link:      link,
		transport: transport,
		config: crtpdevice.RadioConfig{
			Channel:   link.Channel,
			Address:   link.Address,
			Datarate:  link.Datarate,
			AckEnable: true,
		},
		now:         time.Now,
		logBlocks:   make(map[uint8]*logBlockRegistration),
		paramValues: make(map[uint8]ParamValue),
	}
}

func (cf *Crazyflie) Address() uint64 {
	return cf.link.Address
}

// SetLinkQualityCallback registers the observer that receives one
// acks/attempts sample per window of 100 sends.
func (cf *Crazyflie) SetLinkQualityCallback(cb func(quality float64)) {
	cf.linkQualityCallback = cb
}

// SetEmptyAckCallback registers the observer for empty-queue markers, which
// carry an RSSI sample on recent firmware.
func (cf *Crazyflie) SetEmptyAckCallback(cb func(rssi uint8)) {
	cf.emptyAckCallback = cb
}

package crazyflie

import (
	"bytes"
	"fmt"
	"time"

	"github.com/AkihikoHONDA/crazyflie-ros/crtp"
	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

const (
	defaultBaseTimeout    = 2 * time.Second
	defaultTimePerRequest = 10 * time.Millisecond

	// number of keep-alive probes sent between passes over pending
	// requests; the vehicle only talks when polled
	probeRunLength = 10

	linkQualityWindow = 100
)

var pingPacket = []byte{0xFF}

type batchEntry struct {
	request         []byte // full packet, header byte included
	numBytesToMatch int
	finished        bool
	ack             crtpdevice.Ack
}

// BatchTimeoutError reports a batch that missed its deadline, listing the
// entry indices that never received a matching ack. The connection's
// in-progress state is not usable after this.
type BatchTimeoutError struct {
	Unfinished []int
}

func (e *BatchTimeoutError) Error() string {
	return fmt.Sprintf("crazyflie: batch request timed out, unfinished entries %v", e.Unfinished)
}

func (cf *Crazyflie) startBatchRequest() {
	cf.batchRequests = cf.batchRequests[:0]
	cf.numRequestsFinished = 0
}

// addRequest appends an outgoing packet to the current batch. An ack is
// accepted as this entry's response when its header byte matches and its
// first numBytesToMatch payload bytes equal the request's.
func (cf *Crazyflie) addRequest(request crtp.RequestPacketPtr, numBytesToMatch int) {
	cf.batchRequests = append(cf.batchRequests, batchEntry{
		request:         crtp.PacketBytes(request),
		numBytesToMatch: numBytesToMatch,
	})
}

func (cf *Crazyflie) handleRequests() error {
	return cf.handleRequestsTimeout(defaultBaseTimeout, defaultTimePerRequest)
}

// handleRequestsTimeout runs the batch to completion: pass over the pending
// entries transmitting each once, then pump the link with a run of probes,
// and repeat. Every ack, probe acks included, goes through the matcher, so
// delayed responses and fresh telemetry both surface. Fails fatally when
// wall-clock time exceeds baseTimeout + timePerRequest per entry.
func (cf *Crazyflie) handleRequestsTimeout(baseTimeout, timePerRequest time.Duration) error {
	deadline := cf.now().Add(baseTimeout + time.Duration(len(cf.batchRequests))*timePerRequest)

	sendProbes := false
	for cf.numRequestsFinished < len(cf.batchRequests) {
		if !sendProbes {
			for i := range cf.batchRequests {
				if cf.batchRequests[i].finished {
					continue
				}
				ack, err := cf.sendPacket(cf.batchRequests[i].request)
				if err != nil {
					return err
				}
				cf.handleBatchAck(ack)

				if cf.now().After(deadline) {
					return cf.batchTimeout()
				}
			}
			sendProbes = true
		} else {
			for i := 0; i < probeRunLength; i++ {
				ack, err := cf.sendPacket(pingPacket)
				if err != nil {
					return err
				}
				cf.handleBatchAck(ack)

				if cf.now().After(deadline) {
					return cf.batchTimeout()
				}
			}
			sendProbes = false
		}
	}
	return nil
}

// handleBatchAck offers an ack to the pending entries: the first unfinished
// entry whose header byte and match prefix agree captures it. Matching is
// by content, not arrival order. Unmatched acks fall through to the generic
// unsolicited handler, exactly once.
func (cf *Crazyflie) handleBatchAck(ack crtpdevice.Ack) {
	if !ack.Received || len(ack.Data) == 0 {
		return
	}

	for i := range cf.batchRequests {
		entry := &cf.batchRequests[i]
		if entry.finished {
			continue
		}
		if entry.request[0] != ack.Data[0] {
			continue
		}
		n := entry.numBytesToMatch
		if len(ack.Data) < 1+n {
			continue
		}
		if !bytes.Equal(ack.Data[1:1+n], entry.request[1:1+n]) {
			continue
		}

		entry.ack = ack
		entry.finished = true
		cf.numRequestsFinished++
		return
	}

	cf.handleAck(ack)
}

func (cf *Crazyflie) batchTimeout() error {
	err := &BatchTimeoutError{}
	for i := range cf.batchRequests {
		if !cf.batchRequests[i].finished {
			err.Unfinished = append(err.Unfinished, i)
		}
	}
	return err
}

// requestResult returns the raw ack captured for entry index. Asking for an
// unfinished entry is a programming error, not a runtime condition: the
// batch either completed or handleRequests returned an error.
func (cf *Crazyflie) requestResult(index int) []byte {
	entry := &cf.batchRequests[index]
	if !entry.finished {
		panic(fmt.Sprintf("crazyflie: result requested for unfinished batch entry %d", index))
	}
	return entry.ack.Data
}

func (cf *Crazyflie) requestResultInto(index int, response crtp.ResponsePacketPtr) error {
	return response.LoadFromBytes(cf.requestResult(index))
}

// sendPacket performs one blocking exchange with the vehicle. The
// configure-then-send sequence runs under the transport lock so connections
// sharing a dongle cannot interleave radio state. Rolling link-quality
// counters are connection-owned and sampled every linkQualityWindow sends.
func (cf *Crazyflie) sendPacket(data []byte) (crtpdevice.Ack, error) {
	cf.transport.Lock()
	err := cf.transport.Configure(cf.config)
	var ack crtpdevice.Ack
	if err == nil {
		ack, err = cf.transport.SendPacket(data)
	}
	cf.transport.Unlock()

	if err != nil {
		return crtpdevice.Ack{}, err
	}

	cf.numPackets++
	if ack.Received {
		cf.numAcks++
	}
	if cf.numPackets == linkQualityWindow {
		if cf.linkQualityCallback != nil {
			cf.linkQualityCallback(float64(cf.numAcks) / float64(cf.numPackets))
		}
		cf.numPackets = 0
		cf.numAcks = 0
	}

	return ack, nil
}

// sendPacketHandleAck is the fire-and-forget path: a single exchange whose
// ack is fed straight to the unsolicited handler, since nothing is waiting
// to correlate it.
func (cf *Crazyflie) sendPacketHandleAck(data []byte) error {
	ack, err := cf.sendPacket(data)
	if err != nil {
		return err
	}
	cf.handleAck(ack)
	return nil
}

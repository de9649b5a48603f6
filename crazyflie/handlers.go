package crazyflie

import (
	"log"
	"strings"

	"github.com/AkihikoHONDA/crazyflie-ros/crtp"
	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

// handleAck dispatches an unsolicited frame over the header byte. This is
// the path by which pure push data arrives, whether a batch is outstanding
// or not. Nothing here is fatal.
func (cf *Crazyflie) handleAck(ack crtpdevice.Ack) {
	if !ack.Received || len(ack.Data) == 0 {
		return
	}

	header := crtp.Header(ack.Data[0])

	switch {
	case header.Port() == crtp.PortConsole:
		cf.handleConsoleFrame(ack.Data)

	case header.Port() == crtp.PortLog && header.Channel() == logChannelData:
		cf.handleLogDataFrame(ack.Data)

	case header.Port() == crtp.PortLink && header.Channel() == 3:
		// empty-queue marker; carries an RSSI sample on recent firmware
		if cf.emptyAckCallback != nil && len(ack.Data) >= 3 && ack.Data[1] == 0x01 {
			cf.emptyAckCallback(ack.Data[2])
		}

	case header.Port() == crtp.PortLog,
		header.Port() == crtp.PortParam,
		header.Port() == crtp.PortTrajectory:
		// response-shaped frame with no batch entry left to claim it,
		// e.g. a duplicate ack after its request already finished
		log.Printf("%X: stale response port=%d channel=%d len=%d",
			cf.link.Address, header.Port(), header.Channel(), len(ack.Data))

	default:
		log.Printf("%X: unknown frame port=%d channel=%d len=%d",
			cf.link.Address, header.Port(), header.Channel(), len(ack.Data))
	}
}

// handleConsoleFrame accumulates console text and prints it per line; the
// firmware fragments lines arbitrarily across packets.
func (cf *Crazyflie) handleConsoleFrame(data []byte) {
	str := string(data[1:])
	for {
		i := strings.Index(str, "\n")
		if i == -1 {
			cf.accumulatedConsolePrint += str
			return
		}
		log.Printf("%X: %s%s", cf.link.Address, cf.accumulatedConsolePrint, str[:i])
		str = str[i+1:]
		cf.accumulatedConsolePrint = ""
	}
}

package crazyflie

import (
	"encoding/binary"
	"strings"

	"github.com/AkihikoHONDA/crazyflie-ros/crtp"
)

const (
	logChannelToc     crtp.Channel = 0
	logChannelControl crtp.Channel = 1
	logChannelData    crtp.Channel = 2
)

const (
	logCommandGetItem uint8 = 0x00
	logCommandGetInfo uint8 = 0x01

	logControlCreateBlock uint8 = 0x00
	logControlDeleteBlock uint8 = 0x02
	logControlStartBlock  uint8 = 0x03
	logControlStopBlock   uint8 = 0x04
	logControlReset       uint8 = 0x05
)

func logControlError(code uint8) error {
	switch code {
	case 0:
		return nil
	case 2:
		return ErrorLogBlockOrItemNotFound
	case 7:
		return ErrorLogBlockTooLong
	case 12:
		return ErrorLogBlockNoMemory
	default:
		return ErrorUnknown
	}
}

// ---- LOG REQUEST: GET INFO ----
type LogRequestGetInfo struct{}

func (p *LogRequestGetInfo) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogRequestGetInfo) Channel() crtp.Channel {
	return logChannelToc
}

func (p *LogRequestGetInfo) Bytes() []byte {
	return []byte{logCommandGetInfo}
}

// ---- LOG RESPONSE: GET INFO ----
type LogResponseGetInfo struct {
	Count     int
	CRC       uint32
	MaxPacket uint8
	MaxOps    uint8
}

func (p *LogResponseGetInfo) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogResponseGetInfo) Channel() crtp.Channel {
	return logChannelToc
}

func (p *LogResponseGetInfo) LoadFromBytes(b []byte) error {
	if b[1] != logCommandGetInfo {
		return crtp.ErrorPacketIncorrectType
	}

	p.Count = int(b[2])
	p.CRC = binary.LittleEndian.Uint32(b[3 : 3+4])
	p.MaxPacket = b[7]
	p.MaxOps = b[8]

	return nil
}

// ---- LOG REQUEST: GET ITEM ----
type LogRequestGetItem struct{ ID uint8 }

func (p *LogRequestGetItem) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogRequestGetItem) Channel() crtp.Channel {
	return logChannelToc
}

func (p *LogRequestGetItem) Bytes() []byte {
	return []byte{logCommandGetItem, p.ID}
}

// ---- LOG RESPONSE: GET ITEM ----
type LogResponseGetItem struct {
	ID       uint8
	Datatype uint8
	Group    string
	Name     string
}

func (p *LogResponseGetItem) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogResponseGetItem) Channel() crtp.Channel {
	return logChannelToc
}

func (p *LogResponseGetItem) LoadFromBytes(b []byte) error {
	if b[1] != logCommandGetItem {
		return crtp.ErrorPacketIncorrectType
	}

	p.ID = b[2]
	p.Datatype = b[3]

	str := strings.SplitN(string(b[4:]), "\x00", 3)
	if len(str) < 2 {
		return crtp.ErrorPacketIncorrectType
	}
	p.Group = str[0]
	p.Name = str[1]

	return nil
}

// ---- LOG REQUEST: BLOCK ADD ----
type LogRequestBlockAdd struct {
	BlockID           uint8
	VariableIDs       []uint8
	VariableDatatypes []uint8
}

func (p *LogRequestBlockAdd) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogRequestBlockAdd) Channel() crtp.Channel {
	return logChannelControl
}

func (p *LogRequestBlockAdd) Bytes() []byte {
	packet := make([]byte, 2*len(p.VariableIDs)+2)
	packet[0] = logControlCreateBlock
	packet[1] = p.BlockID
	for i := 0; i < len(p.VariableIDs); i++ {
		packet[2+2*i] = p.VariableDatatypes[i]
		packet[2+2*i+1] = p.VariableIDs[i]
	}
	return packet
}

// ---- LOG RESPONSE: BLOCK ADD ----
type LogResponseBlockAdd struct {
	BlockID uint8
}

func (p *LogResponseBlockAdd) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogResponseBlockAdd) Channel() crtp.Channel {
	return logChannelControl
}

func (p *LogResponseBlockAdd) LoadFromBytes(b []byte) error {
	if b[1] != logControlCreateBlock || b[2] != p.BlockID {
		return crtp.ErrorPacketIncorrectType
	}
	return logControlError(b[3])
}

// ---- LOG REQUEST: BLOCK START ----
type LogRequestBlockStart struct {
	BlockID uint8
	Period  uint8 // units of 10ms
}

func (p *LogRequestBlockStart) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogRequestBlockStart) Channel() crtp.Channel {
	return logChannelControl
}

func (p *LogRequestBlockStart) Bytes() []byte {
	return []byte{logControlStartBlock, p.BlockID, p.Period}
}

// ---- LOG RESPONSE: BLOCK START ----
type LogResponseBlockStart struct {
	BlockID uint8
}

func (p *LogResponseBlockStart) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogResponseBlockStart) Channel() crtp.Channel {
	return logChannelControl
}

func (p *LogResponseBlockStart) LoadFromBytes(b []byte) error {
	if b[1] != logControlStartBlock || b[2] != p.BlockID {
		return crtp.ErrorPacketIncorrectType
	}
	return logControlError(b[3])
}

// ---- LOG REQUEST: BLOCK STOP ----
type LogRequestBlockStop struct {
	BlockID uint8
}

func (p *LogRequestBlockStop) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogRequestBlockStop) Channel() crtp.Channel {
	return logChannelControl
}

func (p *LogRequestBlockStop) Bytes() []byte {
	return []byte{logControlStopBlock, p.BlockID}
}

// ---- LOG RESPONSE: BLOCK STOP ----
type LogResponseBlockStop struct {
	BlockID uint8
}

func (p *LogResponseBlockStop) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogResponseBlockStop) Channel() crtp.Channel {
	return logChannelControl
}

func (p *LogResponseBlockStop) LoadFromBytes(b []byte) error {
	if b[1] != logControlStopBlock || b[2] != p.BlockID {
		return crtp.ErrorPacketIncorrectType
	}
	return logControlError(b[3])
}

// ---- LOG REQUEST: BLOCK DELETE ----
type LogRequestBlockDelete struct {
	BlockID uint8
}

func (p *LogRequestBlockDelete) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogRequestBlockDelete) Channel() crtp.Channel {
	return logChannelControl
}

func (p *LogRequestBlockDelete) Bytes() []byte {
	return []byte{logControlDeleteBlock, p.BlockID}
}

// ---- LOG RESPONSE: BLOCK DELETE ----
type LogResponseBlockDelete struct {
	BlockID uint8
}

func (p *LogResponseBlockDelete) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogResponseBlockDelete) Channel() crtp.Channel {
	return logChannelControl
}

func (p *LogResponseBlockDelete) LoadFromBytes(b []byte) error {
	if b[1] != logControlDeleteBlock || b[2] != p.BlockID {
		return crtp.ErrorPacketIncorrectType
	}
	return logControlError(b[3])
}

// ---- LOG REQUEST: RESET ----
type LogRequestReset struct{}

func (p *LogRequestReset) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogRequestReset) Channel() crtp.Channel {
	return logChannelControl
}

func (p *LogRequestReset) Bytes() []byte {
	return []byte{logControlReset}
}

// ---- LOG RESPONSE: RESET ----
type LogResponseReset struct{}

func (p *LogResponseReset) Port() crtp.Port {
	return crtp.PortLog
}

func (p *LogResponseReset) Channel() crtp.Channel {
	return logChannelControl
}

func (p *LogResponseReset) LoadFromBytes(b []byte) error {
	if b[1] != logControlReset {
		return crtp.ErrorPacketIncorrectType
	}
	// acknowledgement only
	return nil
}

package crazyflie

import (
	"encoding/binary"
	"strings"

	"github.com/AkihikoHONDA/crazyflie-ros/crtp"
)

const (
	paramChannelToc   crtp.Channel = 0
	paramChannelRead  crtp.Channel = 1
	paramChannelWrite crtp.Channel = 2
)

const (
	paramCommandGetItem uint8 = 0x00
	paramCommandGetInfo uint8 = 0x01
)

// ---- PARAM REQUEST: GET INFO ----
type ParamRequestGetInfo struct{}

func (p *ParamRequestGetInfo) Port() crtp.Port {
	return crtp.PortParam
}

func (p *ParamRequestGetInfo) Channel() crtp.Channel {
	return paramChannelToc
}

func (p *ParamRequestGetInfo) Bytes() []byte {
	return []byte{paramCommandGetInfo}
}

// ---- PARAM RESPONSE: GET INFO ----
type ParamResponseGetInfo struct {
	Count int
	CRC   uint32
}

func (p *ParamResponseGetInfo) Port() crtp.Port {
	return crtp.PortParam
}

func (p *ParamResponseGetInfo) Channel() crtp.Channel {
	return paramChannelToc
}

func (p *ParamResponseGetInfo) LoadFromBytes(b []byte) error {
	if b[1] != paramCommandGetInfo {
		return crtp.ErrorPacketIncorrectType
	}

	p.Count = int(b[2])
	p.CRC = binary.LittleEndian.Uint32(b[3 : 3+4])

	return nil
}

// ---- PARAM REQUEST: GET ITEM ----
type ParamRequestGetItem struct{ ID uint8 }

func (p *ParamRequestGetItem) Port() crtp.Port {
	return crtp.PortParam
}

func (p *ParamRequestGetItem) Channel() crtp.Channel {
	return paramChannelToc
}

func (p *ParamRequestGetItem) Bytes() []byte {
	return []byte{paramCommandGetItem, p.ID}
}

// ---- PARAM RESPONSE: GET ITEM ----
type ParamResponseGetItem struct {
	ID       uint8
	Datatype ParamType
	ReadOnly bool
	Group    string
	Name     string
}

func (p *ParamResponseGetItem) Port() crtp.Port {
	return crtp.PortParam
}

func (p *ParamResponseGetItem) Channel() crtp.Channel {
	return paramChannelToc
}

func (p *ParamResponseGetItem) LoadFromBytes(b []byte) error {
	if b[1] != paramCommandGetItem {
		return crtp.ErrorPacketIncorrectType
	}

	p.ID = b[2]
	p.Datatype = ParamType(b[3] & 0x0F)
	p.ReadOnly = b[3]&(1<<6) != 0

	str := strings.SplitN(string(b[4:]), "\x00", 3)
	if len(str) < 2 {
		return crtp.ErrorPacketIncorrectType
	}
	p.Group = str[0]
	p.Name = str[1]

	return nil
}

// ---- PARAM REQUEST: READ VALUE ----
type ParamRequestReadValue struct {
	ID uint8
}

func (p *ParamRequestReadValue) Port() crtp.Port {
	return crtp.PortParam
}

func (p *ParamRequestReadValue) Channel() crtp.Channel {
	return paramChannelRead
}

func (p *ParamRequestReadValue) Bytes() []byte {
	return []byte{p.ID}
}

// ---- PARAM RESPONSE: READ VALUE ----
type ParamResponseReadValue struct {
	ID   uint8
	Data []byte
}

func (p *ParamResponseReadValue) Port() crtp.Port {
	return crtp.PortParam
}

func (p *ParamResponseReadValue) Channel() crtp.Channel {
	return paramChannelRead
}

func (p *ParamResponseReadValue) LoadFromBytes(b []byte) error {
	if b[1] != p.ID {
		return crtp.ErrorPacketIncorrectType
	}

	p.Data = b[2:]
	return nil
}

// ---- PARAM REQUEST: WRITE VALUE ----
type ParamRequestWriteValue struct {
	ID   uint8
	Data []byte
}

func (p *ParamRequestWriteValue) Port() crtp.Port {
	return crtp.PortParam
}

func (p *ParamRequestWriteValue) Channel() crtp.Channel {
	return paramChannelWrite
}

func (p *ParamRequestWriteValue) Bytes() []byte {
	return append([]byte{p.ID}, p.Data...)
}

// ---- PARAM RESPONSE: WRITE VALUE ----
type ParamResponseWriteValue struct {
	ID uint8
}

func (p *ParamResponseWriteValue) Port() crtp.Port {
	return crtp.PortParam
}

func (p *ParamResponseWriteValue) Channel() crtp.Channel {
	return paramChannelWrite
}

func (p *ParamResponseWriteValue) LoadFromBytes(b []byte) error {
	if b[1] != p.ID {
		return crtp.ErrorPacketIncorrectType
	}
	// b[2:] echoes the written value
	return nil
}

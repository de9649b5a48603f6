package crazyflie

import (
	"encoding/binary"
	"log"
	"math"

	"github.com/AkihikoHONDA/crazyflie-ros/cache"
)

// ParamType is the packed type byte of a parameter TOC entry:
// width | kind<<2 | unsigned<<3.
type ParamType uint8

const (
	ParamTypeInt8   ParamType = 0x0
	ParamTypeInt16  ParamType = 0x1
	ParamTypeInt32  ParamType = 0x2
	ParamTypeFloat  ParamType = 0x6
	ParamTypeUint8  ParamType = 0x8
	ParamTypeUint16 ParamType = 0x9
	ParamTypeUint32 ParamType = 0xA
)

var paramTypeToSize = map[ParamType]int{
	ParamTypeInt8:   1,
	ParamTypeInt16:  2,
	ParamTypeInt32:  4,
	ParamTypeFloat:  4,
	ParamTypeUint8:  1,
	ParamTypeUint16: 2,
	ParamTypeUint32: 4,
}

var paramTypeToName = map[ParamType]string{
	ParamTypeInt8:   "int8",
	ParamTypeInt16:  "int16",
	ParamTypeInt32:  "int32",
	ParamTypeFloat:  "float",
	ParamTypeUint8:  "uint8",
	ParamTypeUint16: "uint16",
	ParamTypeUint32: "uint32",
}

func (t ParamType) String() string {
	return paramTypeToName[t]
}

// ParamTocEntry is one device-exposed parameter.
type ParamTocEntry struct {
	ID       uint8
	Type     ParamType
	ReadOnly bool
	Group    string
	Name     string
}

// ParamValue holds one parameter value as its 4-byte wire representation,
// reinterpreted per the declared type.
type ParamValue struct {
	Type ParamType
	wire [4]byte
}

// ParamValueFromWire captures a value read off the link.
func ParamValueFromWire(t ParamType, b []byte) ParamValue {
	v := ParamValue{Type: t}
	copy(v.wire[:], b)
	return v
}

// ParamValueFromFloat64 converts a host-side number into the wire
// representation for the given type.
func ParamValueFromFloat64(t ParamType, val float64) ParamValue {
	v := ParamValue{Type: t}
	switch t {
	case ParamTypeUint8, ParamTypeInt8:
		v.wire[0] = uint8(int64(val))
	case ParamTypeUint16, ParamTypeInt16:
		binary.LittleEndian.PutUint16(v.wire[:2], uint16(int64(val)))
	case ParamTypeUint32, ParamTypeInt32:
		binary.LittleEndian.PutUint32(v.wire[:], uint32(int64(val)))
	case ParamTypeFloat:
		binary.LittleEndian.PutUint32(v.wire[:], math.Float32bits(float32(val)))
	}
	return v
}

// Bytes returns the value trimmed to its on-wire width: 1, 2 or 4 bytes.
func (v ParamValue) Bytes() []byte {
	return v.wire[:paramTypeToSize[v.Type]]
}

// Float64 widens any of the seven primitive types for display and glue use.
func (v ParamValue) Float64() float64 {
	switch v.Type {
	case ParamTypeUint8:
		return float64(v.wire[0])
	case ParamTypeInt8:
		return float64(int8(v.wire[0]))
	case ParamTypeUint16:
		return float64(binary.LittleEndian.Uint16(v.wire[:2]))
	case ParamTypeInt16:
		return float64(int16(binary.LittleEndian.Uint16(v.wire[:2])))
	case ParamTypeUint32:
		return float64(binary.LittleEndian.Uint32(v.wire[:]))
	case ParamTypeInt32:
		return float64(int32(binary.LittleEndian.Uint32(v.wire[:])))
	case ParamTypeFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(v.wire[:])))
	}
	return 0
}

// RequestParamToc walks the parameter table of contents: one info request
// for the count, then a single batch interleaving item-metadata and
// value-read requests so initial values arrive along with the names.
func (cf *Crazyflie) RequestParamToc() error {
	count, _, err := cf.paramTocGetInfo()
	if err != nil {
		return err
	}
	return cf.paramTocFetchItems(count)
}

// RequestParamTocCached is RequestParamToc with a gob cache for the entry
// metadata; values are always read fresh from the device.
func (cf *Crazyflie) RequestParamTocCached() error {
	count, crc, err := cf.paramTocGetInfo()
	if err != nil {
		return err
	}

	var entries []ParamTocEntry
	if cache.LoadParam(crc, &entries) == nil && len(entries) == count {
		cf.paramTocEntries = entries
		return cf.paramReadInitialValues()
	}

	if err := cf.paramTocFetchItems(count); err != nil {
		return err
	}

	if err := cache.SaveParam(crc, cf.paramTocEntries); err != nil {
		log.Printf("%X: param TOC cache save failed: %s", cf.link.Address, err)
	}
	return nil
}

func (cf *Crazyflie) paramTocGetInfo() (int, uint32, error) {
	cf.startBatchRequest()
	cf.addRequest(&ParamRequestGetInfo{}, 1)
	if err := cf.handleRequests(); err != nil {
		return 0, 0, err
	}

	info := &ParamResponseGetInfo{}
	if err := cf.requestResultInto(0, info); err != nil {
		return 0, 0, err
	}
	cf.paramCRC = info.CRC
	return info.Count, info.CRC, nil
}

func (cf *Crazyflie) paramTocFetchItems(count int) error {
	cf.startBatchRequest()
	for i := 0; i < count; i++ {
		cf.addRequest(&ParamRequestGetItem{uint8(i)}, 2)
		cf.addRequest(&ParamRequestReadValue{uint8(i)}, 1)
	}
	if err := cf.handleRequests(); err != nil {
		return err
	}

	entries := make([]ParamTocEntry, count)
	values := make(map[uint8]ParamValue, count)
	for i := 0; i < count; i++ {
		item := &ParamResponseGetItem{}
		if err := cf.requestResultInto(2*i+0, item); err != nil {
			return err
		}
		value := &ParamResponseReadValue{ID: uint8(i)}
		if err := cf.requestResultInto(2*i+1, value); err != nil {
			return err
		}

		entries[i] = ParamTocEntry{
			ID:       uint8(i),
			Type:     item.Datatype,
			ReadOnly: item.ReadOnly,
			Group:    item.Group,
			Name:     item.Name,
		}
		values[uint8(i)] = ParamValueFromWire(item.Datatype, value.Data)
	}

	cf.paramTocEntries = entries
	cf.paramValues = values
	return nil
}

func (cf *Crazyflie) paramReadInitialValues() error {
	cf.startBatchRequest()
	for _, entry := range cf.paramTocEntries {
		cf.addRequest(&ParamRequestReadValue{entry.ID}, 1)
	}
	if err := cf.handleRequests(); err != nil {
		return err
	}

	values := make(map[uint8]ParamValue, len(cf.paramTocEntries))
	for i, entry := range cf.paramTocEntries {
		value := &ParamResponseReadValue{ID: entry.ID}
		if err := cf.requestResultInto(i, value); err != nil {
			return err
		}
		values[entry.ID] = ParamValueFromWire(entry.Type, value.Data)
	}
	cf.paramValues = values
	return nil
}

// ParamTocEntries returns the discovered parameter TOC.
func (cf *Crazyflie) ParamTocEntries() []ParamTocEntry {
	return cf.paramTocEntries
}

// LookupParamTocEntry finds a parameter by its group and name.
func (cf *Crazyflie) LookupParamTocEntry(group, name string) (ParamTocEntry, bool) {
	for _, entry := range cf.paramTocEntries {
		if entry.Group == group && entry.Name == name {
			return entry, true
		}
	}
	return ParamTocEntry{}, false
}

// SetParam writes a parameter value and, on success, updates the local
// cache optimistically; the value is not read back from the device.
// Writing to an id that is not in the TOC fails before anything is sent.
// Note: read-only entries are not rejected client-side, matching firmware
// behavior of refusing the write itself.
func (cf *Crazyflie) SetParam(id uint8, value ParamValue) error {
	entry, ok := cf.paramTocEntryByID(id)
	if !ok {
		return ErrorParamNotFound
	}

	value.Type = entry.Type
	cf.startBatchRequest()
	cf.addRequest(&ParamRequestWriteValue{id, value.Bytes()}, 1)
	if err := cf.handleRequests(); err != nil {
		return err
	}
	if err := cf.requestResultInto(0, &ParamResponseWriteValue{ID: id}); err != nil {
		return err
	}

	cf.paramValues[id] = value
	return nil
}

// SetParamFromFloat64 converts per the entry's declared type, then writes.
func (cf *Crazyflie) SetParamFromFloat64(id uint8, val float64) error {
	entry, ok := cf.paramTocEntryByID(id)
	if !ok {
		return ErrorParamNotFound
	}
	return cf.SetParam(id, ParamValueFromFloat64(entry.Type, val))
}

// GetParam returns the locally cached value for id.
func (cf *Crazyflie) GetParam(id uint8) (ParamValue, error) {
	value, ok := cf.paramValues[id]
	if !ok {
		return ParamValue{}, ErrorParamNotFound
	}
	return value, nil
}

func (cf *Crazyflie) paramTocEntryByID(id uint8) (ParamTocEntry, bool) {
	for _, entry := range cf.paramTocEntries {
		if entry.ID == id {
			return entry, true
		}
	}
	return ParamTocEntry{}, false
}

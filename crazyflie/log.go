package crazyflie

import (
	"encoding/binary"
	"log"
	"math"
	"strings"
	"time"

	"github.com/AkihikoHONDA/crazyflie-ros/cache"
)

// splitVariableName splits a "group.name" reference.
func splitVariableName(full string) (group, name string, ok bool) {
	return strings.Cut(full, ".")
}

// LogType tags a TOC variable with its on-wire representation.
type LogType uint8

const (
	LogTypeUint8   LogType = 1
	LogTypeUint16  LogType = 2
	LogTypeUint32  LogType = 3
	LogTypeInt8    LogType = 4
	LogTypeInt16   LogType = 5
	LogTypeInt32   LogType = 6
	LogTypeFloat   LogType = 7
	LogTypeFloat16 LogType = 8
)

var logTypeToSize = map[LogType]int{
	LogTypeUint8:   1,
	LogTypeUint16:  2,
	LogTypeUint32:  4,
	LogTypeInt8:    1,
	LogTypeInt16:   2,
	LogTypeInt32:   4,
	LogTypeFloat:   4,
	LogTypeFloat16: 2,
}

var logTypeToFloat64 = map[LogType](func([]byte) float64){
	LogTypeUint8:   func(b []byte) float64 { return float64(b[0]) },
	LogTypeUint16:  func(b []byte) float64 { return float64(binary.LittleEndian.Uint16(b)) },
	LogTypeUint32:  func(b []byte) float64 { return float64(binary.LittleEndian.Uint32(b)) },
	LogTypeInt8:    func(b []byte) float64 { return float64(int8(b[0])) },
	LogTypeInt16:   func(b []byte) float64 { return float64(int16(binary.LittleEndian.Uint16(b))) },
	LogTypeInt32:   func(b []byte) float64 { return float64(int32(binary.LittleEndian.Uint32(b))) },
	LogTypeFloat:   func(b []byte) float64 { return float64(bytesToFloat32(b)) },
	LogTypeFloat16: func(b []byte) float64 { return float64(halfToSingle(binary.LittleEndian.Uint16(b))) },
}

// LogTocEntry is one device-exposed log variable. Entries are immutable
// once discovery completes; re-running discovery replaces the whole set.
type LogTocEntry struct {
	ID    uint8
	Type  LogType
	Group string
	Name  string
}

const maxLogVariables = 30

type logBlockRegistration struct {
	id       uint8
	entries  []LogTocEntry
	callback LogDataCallback
}

// RequestLogToc walks the device's log table of contents: one info request
// for the count, then one batch of per-item requests. On timeout the TOC is
// left inconsistent and the connection should be brought up again.
func (cf *Crazyflie) RequestLogToc() error {
	count, _, err := cf.logTocGetInfo()
	if err != nil {
		return err
	}
	return cf.logTocFetchItems(count)
}

// RequestLogTocCached is RequestLogToc with a gob cache keyed by the TOC
// CRC: a hit skips the item walk entirely.
func (cf *Crazyflie) RequestLogTocCached() error {
	count, crc, err := cf.logTocGetInfo()
	if err != nil {
		return err
	}

	var entries []LogTocEntry
	if cache.LoadLog(crc, &entries) == nil && len(entries) == count {
		cf.logTocEntries = entries
		return nil
	}

	if err := cf.logTocFetchItems(count); err != nil {
		return err
	}

	if err := cache.SaveLog(crc, cf.logTocEntries); err != nil {
		log.Printf("%X: log TOC cache save failed: %s", cf.link.Address, err)
	}
	return nil
}

func (cf *Crazyflie) logTocGetInfo() (int, uint32, error) {
	cf.startBatchRequest()
	cf.addRequest(&LogRequestGetInfo{}, 1)
	if err := cf.handleRequests(); err != nil {
		return 0, 0, err
	}

	info := &LogResponseGetInfo{}
	if err := cf.requestResultInto(0, info); err != nil {
		return 0, 0, err
	}
	cf.logCRC = info.CRC
	return info.Count, info.CRC, nil
}

func (cf *Crazyflie) logTocFetchItems(count int) error {
	cf.startBatchRequest()
	for i := 0; i < count; i++ {
		cf.addRequest(&LogRequestGetItem{uint8(i)}, 2)
	}
	if err := cf.handleRequests(); err != nil {
		return err
	}

	entries := make([]LogTocEntry, count)
	for i := 0; i < count; i++ {
		item := &LogResponseGetItem{}
		if err := cf.requestResultInto(i, item); err != nil {
			return err
		}
		entries[i] = LogTocEntry{
			ID:    uint8(i),
			Type:  LogType(item.Datatype),
			Group: item.Group,
			Name:  item.Name,
		}
	}
	cf.logTocEntries = entries
	return nil
}

// LogTocEntries returns the discovered log TOC.
func (cf *Crazyflie) LogTocEntries() []LogTocEntry {
	return cf.logTocEntries
}

// LookupLogTocEntry finds a variable by its group and name.
func (cf *Crazyflie) LookupLogTocEntry(group, name string) (LogTocEntry, bool) {
	for _, entry := range cf.logTocEntries {
		if entry.Group == group && entry.Name == name {
			return entry, true
		}
	}
	return LogTocEntry{}, false
}

// LogReset asks the device to drop every configured log block.
func (cf *Crazyflie) LogReset() error {
	cf.startBatchRequest()
	cf.addRequest(&LogRequestReset{}, 1)
	return cf.handleRequests()
}

// RegisterLogBlock allocates the lowest free block id and attaches the push
// callback. It does not talk to the device; NewLogBlock does.
func (cf *Crazyflie) RegisterLogBlock(cb LogDataCallback) (uint8, error) {
	for id := 0; id < 255; id++ {
		if _, ok := cf.logBlocks[uint8(id)]; !ok {
			cf.logBlocks[uint8(id)] = &logBlockRegistration{id: uint8(id), callback: cb}
			return uint8(id), nil
		}
	}
	return 0, ErrorLogBlockNoMemory
}

// UnregisterLogBlock frees a block id for immediate reuse. Pushes still in
// flight for the old id are dropped with a log line.
func (cf *Crazyflie) UnregisterLogBlock(id uint8) {
	delete(cf.logBlocks, id)
}

// handleLogDataFrame decodes one pushed telemetry frame: block id, 24-bit
// timestamp, then the packed variable values.
func (cf *Crazyflie) handleLogDataFrame(data []byte) {
	if len(data) < 5 {
		return
	}

	blockID := data[1]
	block, ok := cf.logBlocks[blockID]
	if !ok {
		log.Printf("%X: data for unknown log block %d", cf.link.Address, blockID)
		return
	}

	timestamp := uint32(data[2]) | uint32(data[3])<<8 | uint32(data[4])<<16

	values := make([]float64, 0, len(block.entries))
	idx := 5
	for _, entry := range block.entries {
		size := logTypeToSize[entry.Type]
		if idx+size > len(data) {
			log.Printf("%X: log block %d frame truncated at variable %s.%s",
				cf.link.Address, blockID, entry.Group, entry.Name)
			return
		}
		values = append(values, logTypeToFloat64[entry.Type](data[idx:idx+size]))
		idx += size
	}

	if block.callback != nil {
		block.callback(timestamp, values)
	}
}

// LogBlock is a device-side periodic telemetry block built from named TOC
// variables.
type LogBlock struct {
	cf *Crazyflie
	id uint8
}

// NewLogBlock registers a block id, resolves the "group.name" variable
// references against the TOC and creates the block on the device.
func (cf *Crazyflie) NewLogBlock(variables []string, cb LogDataCallback) (*LogBlock, error) {
	if len(variables) > maxLogVariables {
		return nil, ErrorLogBlockTooLong
	}

	entries := make([]LogTocEntry, len(variables))
	ids := make([]uint8, len(variables))
	types := make([]uint8, len(variables))
	for i, name := range variables {
		group, varName, ok := splitVariableName(name)
		if !ok {
			return nil, ErrorLogBlockOrItemNotFound
		}
		entry, found := cf.LookupLogTocEntry(group, varName)
		if !found {
			return nil, ErrorLogBlockOrItemNotFound
		}
		entries[i] = entry
		ids[i] = entry.ID
		types[i] = uint8(entry.Type)
	}

	id, err := cf.RegisterLogBlock(cb)
	if err != nil {
		return nil, err
	}
	cf.logBlocks[id].entries = entries

	cf.startBatchRequest()
	cf.addRequest(&LogRequestBlockAdd{id, ids, types}, 2)
	if err := cf.handleRequests(); err != nil {
		cf.UnregisterLogBlock(id)
		return nil, err
	}
	if err := cf.requestResultInto(0, &LogResponseBlockAdd{BlockID: id}); err != nil {
		cf.UnregisterLogBlock(id)
		return nil, err
	}

	return &LogBlock{cf: cf, id: id}, nil
}

func (b *LogBlock) ID() uint8 {
	return b.id
}

// Start begins periodic pushes. The period is quantized to the nearest
// multiple of 10ms, which is the firmware's tick.
func (b *LogBlock) Start(period time.Duration) error {
	quantized := uint8(math.Floor(period.Seconds()*100.0 + 0.5))
	if quantized == 0 {
		return ErrorLogBlockPeriodTooShort
	}

	b.cf.startBatchRequest()
	b.cf.addRequest(&LogRequestBlockStart{b.id, quantized}, 2)
	if err := b.cf.handleRequests(); err != nil {
		return err
	}
	return b.cf.requestResultInto(0, &LogResponseBlockStart{BlockID: b.id})
}

func (b *LogBlock) Stop() error {
	b.cf.startBatchRequest()
	b.cf.addRequest(&LogRequestBlockStop{b.id}, 2)
	if err := b.cf.handleRequests(); err != nil {
		return err
	}
	return b.cf.requestResultInto(0, &LogResponseBlockStop{BlockID: b.id})
}

// Delete removes the block on the device and frees its id.
func (b *LogBlock) Delete() error {
	b.cf.startBatchRequest()
	b.cf.addRequest(&LogRequestBlockDelete{b.id}, 2)
	err := b.cf.handleRequests()
	if err == nil {
		err = b.cf.requestResultInto(0, &LogResponseBlockDelete{BlockID: b.id})
	}
	b.cf.UnregisterLogBlock(b.id)
	return err
}

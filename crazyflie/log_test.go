package crazyflie

import (
	"testing"
	"time"

	"github.com/AkihikoHONDA/crazyflie-ros/crtp"
	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

// fakeLogDevice scripts a device exposing three log variables and accepting
// block control commands.
func fakeLogDevice(ft *fakeTransport) {
	tocHeader := crtp.HeaderBytes(crtp.PortLog, logChannelToc)
	controlHeader := crtp.HeaderBytes(crtp.PortLog, logChannelControl)

	items := [][]byte{
		{tocHeader, logCommandGetItem, 0, uint8(LogTypeFloat), 's', 't', 'a', 'b', 0, 'r', 'o', 'l', 'l', 0},
		{tocHeader, logCommandGetItem, 1, uint8(LogTypeUint16), 's', 't', 'a', 'b', 0, 't', 'h', 'r', 'u', 's', 't', 0},
		{tocHeader, logCommandGetItem, 2, uint8(LogTypeFloat16), 'p', 'm', 0, 'v', 'b', 'a', 't', 0},
	}

	ft.respond = func(data []byte) crtpdevice.Ack {
		switch data[0] {
		case tocHeader:
			if data[1] == logCommandGetInfo {
				resp := append([]byte{tocHeader, logCommandGetInfo, 3}, uint32ToBytes(0x12345678)...)
				resp = append(resp, 26, 8)
				return ackWith(resp...)
			}
			if int(data[2]) < len(items) {
				return ackWith(items[data[2]]...)
			}
		case controlHeader:
			// echo command and block id with an ok status
			return ackWith(controlHeader, data[1], data[2], 0)
		}
		return crtpdevice.Ack{Received: true}
	}
}

func TestRequestLogToc(t *testing.T) {
	ft := &fakeTransport{}
	cf := newTestCrazyflie(ft)
	fakeLogDevice(ft)

	if err := cf.RequestLogToc(); err != nil {
		t.Fatalf("toc: %s", err)
	}

	entries := cf.LogTocEntries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if cf.logCRC != 0x12345678 {
		t.Errorf("crc = %#x", cf.logCRC)
	}

	roll, ok := cf.LookupLogTocEntry("stab", "roll")
	if !ok || roll.Type != LogTypeFloat || roll.ID != 0 {
		t.Errorf("stab.roll = %+v, found %v", roll, ok)
	}
	vbat, ok := cf.LookupLogTocEntry("pm", "vbat")
	if !ok || vbat.Type != LogTypeFloat16 || vbat.ID != 2 {
		t.Errorf("pm.vbat = %+v, found %v", vbat, ok)
	}
	if _, ok := cf.LookupLogTocEntry("stab", "pitch"); ok {
		t.Error("found a variable the device does not expose")
	}
}

func TestRequestLogTocDeterministic(t *testing.T) {
	ft := &fakeTransport{}
	cf := newTestCrazyflie(ft)
	fakeLogDevice(ft)

	if err := cf.RequestLogToc(); err != nil {
		t.Fatalf("first walk: %s", err)
	}
	first := append([]LogTocEntry(nil), cf.LogTocEntries()...)

	if err := cf.RequestLogToc(); err != nil {
		t.Fatalf("second walk: %s", err)
	}
	second := cf.LogTocEntries()

	if len(first) != len(second) {
		t.Fatalf("walks disagree on count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRegisterLogBlockIDs(t *testing.T) {
	cf := newTestCrazyflie(&fakeTransport{})

	id0, err := cf.RegisterLogBlock(nil)
	if err != nil || id0 != 0 {
		t.Fatalf("first id = %d, %v", id0, err)
	}
	id1, _ := cf.RegisterLogBlock(nil)
	if id1 != 1 {
		t.Errorf("second id = %d, want 1", id1)
	}

	cf.UnregisterLogBlock(id0)
	reused, _ := cf.RegisterLogBlock(nil)
	if reused != 0 {
		t.Errorf("freed id not reused, got %d", reused)
	}
}

func TestRegisterLogBlockExhaustion(t *testing.T) {
	cf := newTestCrazyflie(&fakeTransport{})

	for i := 0; i < 255; i++ {
		if _, err := cf.RegisterLogBlock(nil); err != nil {
			t.Fatalf("register %d: %s", i, err)
		}
	}
	if _, err := cf.RegisterLogBlock(nil); err != ErrorLogBlockNoMemory {
		t.Errorf("err = %v, want ErrorLogBlockNoMemory", err)
	}
}

func TestNewLogBlock(t *testing.T) {
	ft := &fakeTransport{}
	cf := newTestCrazyflie(ft)
	fakeLogDevice(ft)

	if err := cf.RequestLogToc(); err != nil {
		t.Fatalf("toc: %s", err)
	}

	block, err := cf.NewLogBlock([]string{"stab.roll", "pm.vbat"}, nil)
	if err != nil {
		t.Fatalf("block: %s", err)
	}
	if block.ID() != 0 {
		t.Errorf("block id = %d", block.ID())
	}

	// the create packet interleaves type and id per variable
	controlHeader := crtp.HeaderBytes(crtp.PortLog, logChannelControl)
	var create []byte
	for _, p := range ft.sent {
		if p[0] == controlHeader && p[1] == logControlCreateBlock {
			create = p
		}
	}
	if create == nil {
		t.Fatal("no create packet sent")
	}
	want := []byte{controlHeader, logControlCreateBlock, 0,
		uint8(LogTypeFloat), 0, uint8(LogTypeFloat16), 2}
	if string(create) != string(want) {
		t.Errorf("create packet = %x, want %x", create, want)
	}

	if err := block.Start(100 * time.Millisecond); err != nil {
		t.Fatalf("start: %s", err)
	}
	var start []byte
	for _, p := range ft.sent {
		if p[0] == controlHeader && p[1] == logControlStartBlock {
			start = p
		}
	}
	if start == nil || start[3] != 10 {
		t.Errorf("start packet = %x, want period byte 10", start)
	}

	if err := block.Stop(); err != nil {
		t.Fatalf("stop: %s", err)
	}
	if err := block.Delete(); err != nil {
		t.Fatalf("delete: %s", err)
	}
	if _, ok := cf.logBlocks[0]; ok {
		t.Error("block id still registered after delete")
	}
}

func TestNewLogBlockUnknownVariable(t *testing.T) {
	ft := &fakeTransport{}
	cf := newTestCrazyflie(ft)
	fakeLogDevice(ft)

	if err := cf.RequestLogToc(); err != nil {
		t.Fatalf("toc: %s", err)
	}

	if _, err := cf.NewLogBlock([]string{"stab.pitch"}, nil); err != ErrorLogBlockOrItemNotFound {
		t.Errorf("unknown variable: err = %v", err)
	}
	if _, err := cf.NewLogBlock([]string{"noseparator"}, nil); err != ErrorLogBlockOrItemNotFound {
		t.Errorf("malformed name: err = %v", err)
	}
	if len(cf.logBlocks) != 0 {
		t.Errorf("failed block left a registration behind")
	}
}

func TestLogBlockStartPeriodTooShort(t *testing.T) {
	cf := newTestCrazyflie(&fakeTransport{})
	block := &LogBlock{cf: cf, id: 0}

	if err := block.Start(3 * time.Millisecond); err != ErrorLogBlockPeriodTooShort {
		t.Errorf("err = %v, want ErrorLogBlockPeriodTooShort", err)
	}
}

func TestHandleLogDataFrame(t *testing.T) {
	cf := newTestCrazyflie(&fakeTransport{})

	var gotTimestamp uint32
	var gotValues []float64
	cf.logBlocks[5] = &logBlockRegistration{
		id: 5,
		entries: []LogTocEntry{
			{ID: 0, Type: LogTypeFloat},
			{ID: 1, Type: LogTypeInt16},
		},
		callback: func(timestamp uint32, values []float64) {
			gotTimestamp = timestamp
			gotValues = values
		},
	}

	header := crtp.HeaderBytes(crtp.PortLog, logChannelData)
	frame := []byte{header, 5, 0x10, 0x20, 0x30}
	frame = append(frame, float32ToBytes(1.25)...)
	frame = append(frame, uint16ToBytes(0xFF38)...) // int16 -200

	cf.handleLogDataFrame(frame)

	if gotTimestamp != 0x302010 {
		t.Errorf("timestamp = %#x, want 0x302010", gotTimestamp)
	}
	if len(gotValues) != 2 || gotValues[0] != 1.25 || gotValues[1] != -200 {
		t.Errorf("values = %v, want [1.25 -200]", gotValues)
	}
}

func TestHandleLogDataFrameUnknownBlock(t *testing.T) {
	cf := newTestCrazyflie(&fakeTransport{})

	header := crtp.HeaderBytes(crtp.PortLog, logChannelData)
	// must not panic, the frame is dropped
	cf.handleLogDataFrame([]byte{header, 9, 1, 2, 3, 4})
}

func TestHandleLogDataFrameTruncated(t *testing.T) {
	cf := newTestCrazyflie(&fakeTransport{})

	called := false
	cf.logBlocks[1] = &logBlockRegistration{
		id:       1,
		entries:  []LogTocEntry{{ID: 0, Type: LogTypeFloat}},
		callback: func(uint32, []float64) { called = true },
	}

	header := crtp.HeaderBytes(crtp.PortLog, logChannelData)
	cf.handleLogDataFrame([]byte{header, 1, 1, 2, 3, 4, 5}) // 2 of 4 value bytes

	if called {
		t.Error("callback fired for a truncated frame")
	}
}

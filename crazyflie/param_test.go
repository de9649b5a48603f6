package crazyflie

import (
	"bytes"
	"testing"

	"github.com/AkihikoHONDA/crazyflie-ros/crtp"
	"github.com/AkihikoHONDA/crazyflie-ros/crtpdevice"
)

// fakeParamDevice scripts a two-parameter device: a writable float and a
// read-only uint8.
func fakeParamDevice(ft *fakeTransport) {
	tocHeader := crtp.HeaderBytes(crtp.PortParam, paramChannelToc)
	readHeader := crtp.HeaderBytes(crtp.PortParam, paramChannelRead)
	writeHeader := crtp.HeaderBytes(crtp.PortParam, paramChannelWrite)

	values := map[uint8][]byte{
		0: float32ToBytes(1.5),
		1: {7},
	}

	ft.respond = func(data []byte) crtpdevice.Ack {
		switch data[0] {
		case tocHeader:
			if data[1] == paramCommandGetInfo {
				resp := append([]byte{tocHeader, paramCommandGetInfo, 2}, uint32ToBytes(0xCAFEF00D)...)
				return ackWith(resp...)
			}
			switch data[2] {
			case 0:
				return ackWith(tocHeader, paramCommandGetItem, 0, uint8(ParamTypeFloat),
					'p', 'i', 'd', 0, 'k', 'p', 0)
			case 1:
				return ackWith(tocHeader, paramCommandGetItem, 1, uint8(ParamTypeUint8)|1<<6,
					'c', 'p', 'u', 0, 'i', 'd', 0)
			}
		case readHeader:
			resp := append([]byte{readHeader, data[1]}, values[data[1]]...)
			return ackWith(resp...)
		case writeHeader:
			values[data[1]] = append([]byte(nil), data[2:]...)
			return ackWith(writeHeader, data[1])
		}
		return crtpdevice.Ack{Received: true}
	}
}

func TestRequestParamToc(t *testing.T) {
	ft := &fakeTransport{}
	cf := newTestCrazyflie(ft)
	fakeParamDevice(ft)

	if err := cf.RequestParamToc(); err != nil {
		t.Fatalf("toc: %s", err)
	}

	entries := cf.ParamTocEntries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if cf.paramCRC != 0xCAFEF00D {
		t.Errorf("crc = %#x", cf.paramCRC)
	}

	kp, ok := cf.LookupParamTocEntry("pid", "kp")
	if !ok {
		t.Fatal("pid.kp not found")
	}
	if kp.Type != ParamTypeFloat || kp.ReadOnly {
		t.Errorf("pid.kp = %+v", kp)
	}

	id, ok := cf.LookupParamTocEntry("cpu", "id")
	if !ok {
		t.Fatal("cpu.id not found")
	}
	if id.Type != ParamTypeUint8 || !id.ReadOnly {
		t.Errorf("cpu.id = %+v", id)
	}

	// initial values arrived with the walk
	if v, err := cf.GetParam(kp.ID); err != nil || v.Float64() != 1.5 {
		t.Errorf("pid.kp value = %v, %v", v.Float64(), err)
	}
	if v, err := cf.GetParam(id.ID); err != nil || v.Float64() != 7 {
		t.Errorf("cpu.id value = %v, %v", v.Float64(), err)
	}
}

func TestSetParam(t *testing.T) {
	ft := &fakeTransport{}
	cf := newTestCrazyflie(ft)
	fakeParamDevice(ft)

	if err := cf.RequestParamToc(); err != nil {
		t.Fatalf("toc: %s", err)
	}

	if err := cf.SetParamFromFloat64(0, 2.5); err != nil {
		t.Fatalf("set: %s", err)
	}
	if v, _ := cf.GetParam(0); v.Float64() != 2.5 {
		t.Errorf("cached value = %v, want 2.5", v.Float64())
	}

	// the write went out trimmed to the float's four wire bytes
	writeHeader := crtp.HeaderBytes(crtp.PortParam, paramChannelWrite)
	var write []byte
	for _, p := range ft.sent {
		if p[0] == writeHeader {
			write = p
		}
	}
	if write == nil {
		t.Fatal("no write packet sent")
	}
	if !bytes.Equal(write[2:], float32ToBytes(2.5)) {
		t.Errorf("write payload = %x", write[2:])
	}
}

func TestSetParamUnknownID(t *testing.T) {
	ft := &fakeTransport{}
	cf := newTestCrazyflie(ft)
	fakeParamDevice(ft)

	if err := cf.RequestParamToc(); err != nil {
		t.Fatalf("toc: %s", err)
	}
	sent := len(ft.sent)

	if err := cf.SetParamFromFloat64(99, 1); err != ErrorParamNotFound {
		t.Errorf("err = %v, want ErrorParamNotFound", err)
	}
	if len(ft.sent) != sent {
		t.Errorf("write to unknown id reached the link")
	}
}

func TestParamValueWidths(t *testing.T) {
	cases := []struct {
		t    ParamType
		val  float64
		size int
	}{
		{ParamTypeInt8, -5, 1},
		{ParamTypeUint8, 200, 1},
		{ParamTypeInt16, -1000, 2},
		{ParamTypeUint16, 50000, 2},
		{ParamTypeInt32, -100000, 4},
		{ParamTypeUint32, 3000000000, 4},
		{ParamTypeFloat, -0.125, 4},
	}

	for _, c := range cases {
		v := ParamValueFromFloat64(c.t, c.val)
		if len(v.Bytes()) != c.size {
			t.Errorf("%s: %d wire bytes, want %d", c.t, len(v.Bytes()), c.size)
		}
		if got := ParamValueFromWire(c.t, v.Bytes()).Float64(); got != c.val {
			t.Errorf("%s: round trip %v -> %v", c.t, c.val, got)
		}
	}
}

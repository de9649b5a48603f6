package crazyflie

import (
	"math"
	"testing"
)

func TestHalfRoundTrip(t *testing.T) {
	// values exactly representable in binary16 survive the round trip
	values := []float32{0, 1, -1, 0.5, -0.25, 2, 1024, -2048, 65504, -65504, 0.000061035156}
	for _, v := range values {
		if got := halfToSingle(singleToHalf(v)); got != v {
			t.Errorf("round trip %v -> %v", v, got)
		}
	}
}

func TestSingleToHalfRounding(t *testing.T) {
	cases := []struct {
		in   float32
		want uint16
	}{
		{1.0, 0x3C00},
		{-2.0, 0xC000},
		{65504, 0x7BFF},          // largest finite half
		{65520, 0x7C00},          // rounds up past the largest half, lands on inf
		{1e6, 0x7C00},            // overflow to +inf
		{-1e6, 0xFC00},           // overflow to -inf
		{1.00048828125, 0x3C01},  // one ulp above 1
		{1.00024414062, 0x3C00},  // rounds back down to 1
		{5.9604645e-8, 0x0000},   // subnormal result flushes to +0
		{-5.9604645e-8, 0x8000},  // and keeps its sign
		{float32(math.Inf(1)), 0x7C00},
		{float32(math.Inf(-1)), 0xFC00},
		{float32(math.NaN()), 0x7E00},
	}

	for _, c := range cases {
		if got := singleToHalf(c.in); got != c.want {
			t.Errorf("singleToHalf(%v) = %#04x, want %#04x", c.in, got, c.want)
		}
	}
}

func TestHalfToSingle(t *testing.T) {
	cases := []struct {
		in   uint16
		want float32
	}{
		{0x0000, 0},
		{0x3C00, 1},
		{0xC000, -2},
		{0x7BFF, 65504},
		{0x0001, 5.9604645e-8}, // smallest subnormal half
		{0x03FF, 6.097555e-5},  // largest subnormal half
		{0x0400, 6.1035156e-5}, // smallest normal half
	}

	for _, c := range cases {
		if got := halfToSingle(c.in); got != c.want {
			t.Errorf("halfToSingle(%#04x) = %v, want %v", c.in, got, c.want)
		}
	}

	if !math.IsInf(float64(halfToSingle(0x7C00)), 1) {
		t.Error("0x7C00 should decode to +inf")
	}
	if !math.IsInf(float64(halfToSingle(0xFC00)), -1) {
		t.Error("0xFC00 should decode to -inf")
	}
	if !math.IsNaN(float64(halfToSingle(0x7E00))) {
		t.Error("0x7E00 should decode to NaN")
	}

	if halfToSingle(0x8000) != 0 || !math.Signbit(float64(halfToSingle(0x8000))) {
		t.Error("0x8000 should decode to -0")
	}
}

func TestWireByteOrder(t *testing.T) {
	if got := uint16ToBytes(0x1234); got[0] != 0x34 || got[1] != 0x12 {
		t.Errorf("uint16ToBytes = %x", got)
	}
	if got := uint32ToBytes(0xDEADBEEF); got[0] != 0xEF || got[3] != 0xDE {
		t.Errorf("uint32ToBytes = %x", got)
	}
	if got := bytesToFloat32(float32ToBytes(3.14159)); got != 3.14159 {
		t.Errorf("float32 round trip = %v", got)
	}
}

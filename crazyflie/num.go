package crazyflie

import (
	"encoding/binary"
	"math"
)

// everything on the wire is little endian

func uint16ToBytes(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func uint32ToBytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func float32ToBytes(v float32) []byte {
	return uint32ToBytes(math.Float32bits(v))
}

func bytesToFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// singleToHalf converts a float32 to IEEE binary16 with round-to-nearest on
// the dropped mantissa bits. NaN maps to 0x7E00, values beyond the half
// range to the signed infinity, and subnormal results flush to signed zero,
// matching the firmware's compact pose encoding.
func singleToHalf(f float32) uint16 {
	num := math.Float32bits(f)
	s := num >> 31
	e := (num >> 23) & 0xFF

	if e == 255 && num&0x007FFFFF != 0 {
		return 0x7E00 // NaN
	}
	if e > 127+15 {
		if s != 0 {
			return 0xFC00
		}
		return 0x7C00 // +/- inf
	}
	if e < 127-14 {
		return uint16(s << 15) // flush subnormal results to zero
	}

	// mantissa rounding may carry into the exponent; the addition
	// propagates it, and an overflow lands exactly on infinity
	m := ((num >> 13) & 0x3FF) + ((num >> 12) & 1)
	return uint16((s << 15) | ((e-127+15)<<10 + m))
}

// halfToSingle maps a binary16 into binary32; every half value has an exact
// single representation.
func halfToSingle(val uint16) float32 {
	s := uint32(val) >> 15
	e := (uint32(val) >> 10) & 0x1F

	var fp32 uint32
	switch {
	case e == 0x1F:
		if val&0x03FF != 0 {
			fp32 = 0x7FC00000 // NaN
		} else if s == 0 {
			fp32 = 0x7F800000
		} else {
			fp32 = 0xFF800000
		}
	case e == 0:
		m := uint32(val & 0x3FF)
		if m == 0 {
			fp32 = s << 31 // signed zero
		} else {
			// subnormal half: normalize into a binary32 exponent
			e = 127 - 15 + 1
			for m&0x400 == 0 {
				m <<= 1
				e--
			}
			fp32 = (s << 31) | (e << 23) | ((m & 0x3FF) << 13)
		}
	default:
		fp32 = (s << 31) | ((e + 127 - 15) << 23) | (uint32(val&0x3FF) << 13)
	}

	return math.Float32frombits(fp32)
}

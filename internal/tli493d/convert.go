// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tli493d

import "math"

// Sensitivity of the three measurement ranges in LSB per millitesla.
// Full covers ±160mT, short ±100mT, extra-short (W2BW only) ±50mT.
const (
	lsbPerMTFull       = 7.7
	lsbPerMTShort      = 15.4
	lsbPerMTExtraShort = 30.8
)

// Temperature conversion: 0.24 °C per LSB, 1180 LSB offset at 25 °C.
const (
	tempScale  = 0.24
	tempOffset = 1180
	tempRef    = 25.0
)

// Bounds of the signed 12-bit ADC output.
const (
	adcMin = -2048
	adcMax = 2047
)

// decode12 assembles a signed 12-bit two's-complement reading from an upper
// byte (bits 11:4) and the top nibble of a lower byte (bits 3:0), sign
// extended to int16. The arithmetic right shift keeps the sign.
func decode12(upper, lower uint8) int16 {
	v := int16(uint16(upper)<<8 | uint16(lower&0xF0))
	return v >> 4
}

// toMilliTesla scales a raw ADC value by the LSB/mT sensitivity of the
// active range.
func toMilliTesla(raw int16, lsbPerMT float64) float64 {
	return float64(raw) / lsbPerMT
}

// toCelsius converts a raw temperature reading to degrees Celsius.
func toCelsius(raw int16) float64 {
	return float64(raw-tempOffset)*tempScale + tempRef
}

// lsbPerMT returns the sensitivity of a measurement range.
func lsbPerMT(r Range) float64 {
	switch r {
	case RangeShort:
		return lsbPerMTShort
	case RangeExtraShort:
		return lsbPerMTExtraShort
	default:
		return lsbPerMTFull
	}
}

// ratioToLSB converts a normalized threshold ratio in [-1, 1] to the raw
// LSB representation, rounding to the nearest representable value. ok is
// false outside the domain.
func ratioToLSB(ratio float64) (int16, bool) {
	if math.IsNaN(ratio) || ratio < -1 || ratio > 1 {
		return 0, false
	}
	raw := int(math.Round(ratio * adcMax))
	if raw < adcMin {
		raw = adcMin
	}
	return int16(raw), true
}

// mtToLSB converts a physical threshold in millitesla to raw LSB using the
// sensitivity of the active range. ok is false when the result leaves the
// 12-bit domain.
func mtToLSB(mt, lsbPerMT float64) (int16, bool) {
	if math.IsNaN(mt) {
		return 0, false
	}
	raw := int(math.Round(mt * lsbPerMT))
	if raw < adcMin || raw > adcMax {
		return 0, false
	}
	return int16(raw), true
}

// thresholdBits splits a raw 12-bit threshold into the register encoding:
// bits 11:4 go to the per-axis threshold byte, bits 3:1 to the shared LSB
// register. Bit 0 is not representable and is dropped by the hardware.
func thresholdBits(raw int16) (msb, lsb3 uint8) {
	v := uint16(raw) & 0x0FFF
	return uint8(v >> 4), uint8(v>>1) & 0x07
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tli493d

import (
	"math"
	"testing"
)

func TestDecode12(t *testing.T) {
	tests := []struct {
		name  string
		upper uint8
		lower uint8
		want  int16
	}{
		{"zero", 0x00, 0x00, 0},
		{"max positive", 0x7F, 0xF0, 2047},
		{"min negative", 0x80, 0x00, -2048},
		{"minus one", 0xFF, 0xF0, -1},
		{"small positive", 0x04, 0xD0, 77},
		{"small negative", 0xFB, 0x30, -77},
		{"lower nibble ignored", 0x04, 0xDF, 77},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decode12(tt.upper, tt.lower); got != tt.want {
				t.Errorf("decode12(0x%02X, 0x%02X) = %d, want %d", tt.upper, tt.lower, got, tt.want)
			}
		})
	}
}

func TestDecode12RoundTrip(t *testing.T) {
	for raw := -2048; raw <= 2047; raw++ {
		v := uint16(int16(raw)) & 0x0FFF
		upper := uint8(v >> 4)
		lower := uint8(v&0x0F) << 4
		if got := decode12(upper, lower); got != int16(raw) {
			t.Fatalf("decode12 round trip failed at %d: got %d", raw, got)
		}
	}
}

func TestToMilliTesla(t *testing.T) {
	tests := []struct {
		name  string
		raw   int16
		scale float64
		want  float64
	}{
		{"full range", 77, lsbPerMTFull, 10.0},
		{"short range", 77, lsbPerMTShort, 5.0},
		{"extra-short range", 77, lsbPerMTExtraShort, 2.5},
		{"negative", -77, lsbPerMTFull, -10.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toMilliTesla(tt.raw, tt.scale); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("toMilliTesla(%d, %g) = %g, want %g", tt.raw, tt.scale, got, tt.want)
			}
		})
	}
}

func TestToCelsius(t *testing.T) {
	tests := []struct {
		name string
		raw  int16
		want float64
	}{
		{"reference point", 1180, 25.0},
		{"above reference", 1280, 49.0},
		{"below reference", 1080, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toCelsius(tt.raw); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("toCelsius(%d) = %g, want %g", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRatioToLSB(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  int16
		ok    bool
	}{
		{"zero", 0, 0, true},
		{"full positive", 1, 2047, true},
		{"full negative", -1, -2047, true},
		{"half", 0.5, 1024, true},
		{"above domain", 1.01, 0, false},
		{"below domain", -1.01, 0, false},
		{"nan", math.NaN(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ratioToLSB(tt.ratio)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ratioToLSB(%g) = (%d, %v), want (%d, %v)", tt.ratio, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMtToLSB(t *testing.T) {
	tests := []struct {
		name  string
		mt    float64
		scale float64
		want  int16
		ok    bool
	}{
		{"10mT full range", 10, lsbPerMTFull, 77, true},
		{"negative 10mT", -10, lsbPerMTFull, -77, true},
		{"out of domain", 300, lsbPerMTFull, 0, false},
		{"nan", math.NaN(), lsbPerMTFull, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mtToLSB(tt.mt, tt.scale)
			if ok != tt.ok || got != tt.want {
				t.Errorf("mtToLSB(%g, %g) = (%d, %v), want (%d, %v)", tt.mt, tt.scale, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestThresholdBits(t *testing.T) {
	tests := []struct {
		name string
		raw  int16
		msb  uint8
		lsb3 uint8
	}{
		{"zero", 0, 0x00, 0},
		{"max positive", 2047, 0x7F, 0x07},
		{"min negative", -2048, 0x80, 0},
		{"small positive", 77, 0x04, 6},
		{"small negative", -77, 0xFB, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msb, lsb3 := thresholdBits(tt.raw)
			if msb != tt.msb || lsb3 != tt.lsb3 {
				t.Errorf("thresholdBits(%d) = (0x%02X, %d), want (0x%02X, %d)", tt.raw, msb, lsb3, tt.msb, tt.lsb3)
			}
		})
	}
}

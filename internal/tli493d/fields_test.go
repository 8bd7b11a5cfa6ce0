// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tli493d

import (
	"math/bits"
	"testing"
)

func TestSetFieldRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		id   fieldID
		v    uint8
	}{
		{"trigger", fieldTrig, 2},
		{"mode", fieldMode, 3},
		{"update rate", fieldPRD, 5},
		{"wake-up request", fieldWU, 1},
		{"threshold msb", fieldXH1, 0xA5},
		{"threshold lsb", fieldXH2, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Dev{}
			if err := d.setField(tt.id, tt.v); err != nil {
				t.Fatalf("setField: %v", err)
			}
			got, err := d.getField(tt.id)
			if err != nil {
				t.Fatalf("getField: %v", err)
			}
			if got != tt.v {
				t.Errorf("round trip = %d, want %d", got, tt.v)
			}
		})
	}
}

func TestSetFieldKeepsSiblingBits(t *testing.T) {
	d := &Dev{}
	// Fill the configuration byte, then rewrite one field in the middle.
	d.regs[regConfig] = 0xFF
	if err := d.setField(fieldTrig, 0); err != nil {
		t.Fatalf("setField: %v", err)
	}
	if got := d.regs[regConfig]; got != 0xCF {
		t.Errorf("regConfig = 0x%02X, want 0xCF", got)
	}
	if err := d.setField(fieldTrig, 2); err != nil {
		t.Fatalf("setField: %v", err)
	}
	if got := d.regs[regConfig]; got != 0xEF {
		t.Errorf("regConfig = 0x%02X, want 0xEF", got)
	}
}

func TestSetFieldMasksValueWidth(t *testing.T) {
	d := &Dev{}
	if err := d.setField(fieldTrig, 0xFF); err != nil {
		t.Fatalf("setField: %v", err)
	}
	if got := d.regs[regConfig]; got != 0x30 {
		t.Errorf("regConfig = 0x%02X, want only the trigger bits 0x30", got)
	}
}

func TestSetFieldRejectsReadOnly(t *testing.T) {
	for _, id := range []fieldID{fieldBX1, fieldT, fieldCF, fieldWA, fieldFRM, fieldType} {
		d := &Dev{}
		if err := d.setField(id, 1); err != ErrInvalidField {
			t.Errorf("setField(%d) = %v, want ErrInvalidField", id, err)
		}
		if d.regs != (&Dev{}).regs {
			t.Errorf("setField(%d) modified the mirror on rejection", id)
		}
	}
}

// Fields within one register byte must not overlap: a field write may never
// disturb a sibling.
func TestFieldTableNonOverlapping(t *testing.T) {
	var combined [regCount]uint8
	for id, f := range regFields {
		if f.mask == 0 {
			t.Fatalf("field %d has an empty mask", id)
		}
		if (f.mask>>f.shift)&1 != 1 {
			t.Fatalf("field %d: shift %d does not align with mask 0x%02X", id, f.shift, f.mask)
		}
		if combined[f.reg]&f.mask != 0 {
			t.Fatalf("field %d overlaps a sibling in register 0x%02X", id, f.reg)
		}
		combined[f.reg] |= f.mask
	}
	// Every measurement byte must be fully described.
	for _, r := range []uint8{regBX, regBY, regBZ, regTemp, regBX2, regTemp2, regDiag} {
		if bits.OnesCount8(combined[r]) != 8 {
			t.Fatalf("register 0x%02X: measurement byte not fully covered (mask 0x%02X)", r, combined[r])
		}
	}
}

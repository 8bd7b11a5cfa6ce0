// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tli493d

// setField stores v (masked to the field's width) into the register mirror
// without disturbing sibling bits of the same byte. No bus I/O happens here;
// the change reaches the sensor on the next flush.
func (d *Dev) setField(id fieldID, v uint8) error {
	f := regFields[id]
	if f.access == accessRO {
		return ErrInvalidField
	}
	d.regs[f.reg] = d.regs[f.reg]&^f.mask | v<<f.shift&f.mask
	return nil
}

// getField returns the field bits from the mirror, right-aligned.
func (d *Dev) getField(id fieldID) (uint8, error) {
	f := regFields[id]
	if f.access == accessWO {
		return 0, ErrInvalidField
	}
	return (d.regs[f.reg] & f.mask) >> f.shift, nil
}

// fieldBits is getField for fields known to be readable.
func (d *Dev) fieldBits(id fieldID) uint8 {
	v, _ := d.getField(id)
	return v
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tli493d

import "math/bits"

// The chip validates every configuration commit against two odd-parity bits:
// CP over the wake-up/configuration block (0x07-0x10, excluding the CP bit
// itself) and FP over the mode registers (0x11 and 0x13, excluding FP).
// Both are recomputed inside flush, so a commit with stale parity cannot be
// expressed through this package.

const (
	cpMask = 0x01 // bit 0 of regConfig
	fpMask = 0x80 // bit 7 of regMod1
)

// updateConfigParity sets CP so the total count of set bits over registers
// 0x07-0x10, including CP, is odd.
func (d *Dev) updateConfigParity() {
	n := 0
	for r := regXL; r <= regConfig; r++ {
		b := d.regs[r]
		if r == regConfig {
			b &^= cpMask
		}
		n += bits.OnesCount8(b)
	}
	d.regs[regConfig] &^= cpMask
	if n%2 == 0 {
		d.regs[regConfig] |= cpMask
	}
}

// updateFuseParity sets FP so the total count of set bits over registers
// 0x11 and 0x13, including FP, is odd.
func (d *Dev) updateFuseParity() {
	n := bits.OnesCount8(d.regs[regMod1]&^fpMask) + bits.OnesCount8(d.regs[regMod2])
	d.regs[regMod1] &^= fpMask
	if n%2 == 0 {
		d.regs[regMod1] |= fpMask
	}
}

// configParityOdd reports whether the CP invariant currently holds in the
// mirror. Wake-up may only be engaged while it does.
func (d *Dev) configParityOdd() bool {
	n := 0
	for r := regXL; r <= regConfig; r++ {
		n += bits.OnesCount8(d.regs[r])
	}
	return n%2 == 1
}

// flush recomputes the parity bits for every parity-protected register in
// the touched set and writes the affected bytes to the bus in address order.
// The parity carrier registers are written even when not explicitly listed.
func (d *Dev) flush(regs ...uint8) error {
	var touched [regCount]bool
	for _, r := range regs {
		touched[r] = true
	}
	cp := false
	for r := regXL; r <= regConfig; r++ {
		if touched[r] {
			cp = true
		}
	}
	if cp {
		d.updateConfigParity()
		touched[regConfig] = true
	}
	if touched[regMod1] || touched[regMod2] {
		d.updateFuseParity()
		touched[regMod1] = true
	}
	for r := uint8(0); r < regCount; r++ {
		if !touched[r] {
			continue
		}
		if err := d.bus.WriteRegister(r, d.regs[r]); err != nil {
			return ErrBus
		}
	}
	return nil
}

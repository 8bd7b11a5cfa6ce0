// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tli493d

import (
	"errors"
	"math/bits"
	"sync"
)

// SimBus is an in-memory stand-in for the sensor, used by tests and by the
// hardware-less producer. It models the chip-side behavior the driver
// depends on: the register file, the frame counter, the CF/FF parity flags,
// the T test flag and the WA wake-up flag.
type SimBus struct {
	mu         sync.Mutex
	regs       [regCount]uint8
	writes     int
	failRead   bool
	failWrite  bool
	shortFrame int // if >0, the next read returns this many bytes
}

// NewSimBus returns a simulated sensor in its power-on state.
func NewSimBus() *SimBus {
	s := &SimBus{}
	s.reset()
	return s
}

func (s *SimBus) reset() {
	s.regs = [regCount]uint8{}
	s.regs[regDiag] = 0x08 | 0x04 // PD3, PD0: both supplies good
	s.regs[regVer] = 0x29         // TYPE=W2BW, HWV=9
	s.settle()
}

// settle recomputes the chip-maintained diagnosis and wake-up flags after a
// register write, the way the silicon does between I2C stop and start.
func (s *SimBus) settle() {
	cp := 0
	for r := regXL; r <= regConfig; r++ {
		cp += bits.OnesCount8(s.regs[r])
	}
	fp := bits.OnesCount8(s.regs[regMod1]) + bits.OnesCount8(s.regs[regMod2])

	diag := s.regs[regDiag] &^ (0x40 | 0x20 | 0x10)
	if fp%2 == 1 {
		diag |= 0x40 // FF
	}
	if cp%2 == 1 {
		diag |= 0x20 // CF
	}
	testMode := s.regs[regTMode]&0xC0 != 0 || s.regs[regMod2]&0x01 != 0
	if testMode {
		diag |= 0x10 // T
	}
	s.regs[regDiag] = diag

	wa := s.regs[regWU]&0x40 != 0 && diag&0x20 != 0 && !testMode
	s.regs[regWU] &^= 0x80
	if wa {
		s.regs[regWU] |= 0x80
	}
}

func (s *SimBus) ReadRegisters(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRead {
		return 0, errors.New("sim: bus read failure")
	}
	n := len(p)
	if s.shortFrame > 0 && s.shortFrame < n {
		n = s.shortFrame
	}
	copy(p[:n], s.regs[:n])
	// Frame counter increments on every completed read-out.
	s.regs[regDiag] = s.regs[regDiag]&^0x03 | (s.regs[regDiag]+1)&0x03
	return n, nil
}

func (s *SimBus) WriteRegister(addr, value uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return errors.New("sim: bus write failure")
	}
	if int(addr) >= regCount {
		return errors.New("sim: register address out of range")
	}
	s.regs[addr] = value
	s.writes++
	s.settle()
	return nil
}

func (s *SimBus) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return errors.New("sim: bus reset failure")
	}
	s.reset()
	return nil
}

// SetFlux loads raw 12-bit X/Y/Z readings into the measurement registers.
func (s *SimBus) SetFlux(x, y, z int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vx, vy, vz := uint16(x)&0x0FFF, uint16(y)&0x0FFF, uint16(z)&0x0FFF
	s.regs[regBX] = uint8(vx >> 4)
	s.regs[regBY] = uint8(vy >> 4)
	s.regs[regBZ] = uint8(vz >> 4)
	s.regs[regBX2] = uint8(vx&0x0F)<<4 | uint8(vy&0x0F)
	s.regs[regTemp2] = s.regs[regTemp2]&^0x0F | uint8(vz&0x0F)
}

// SetTemperature loads a temperature in degrees Celsius, encoded the way
// the ADC reports it.
func (s *SimBus) SetTemperature(c float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw := uint16(int16((c-tempRef)/tempScale)+tempOffset) & 0x0FFF
	s.regs[regTemp] = uint8(raw >> 4)
	s.regs[regTemp2] = s.regs[regTemp2]&^0xC0 | uint8(raw&0x0C)<<4
}

// SetFailRead makes subsequent reads fail with a transport error.
func (s *SimBus) SetFailRead(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRead = fail
}

// SetFailWrite makes subsequent writes fail with a transport error.
func (s *SimBus) SetFailWrite(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = fail
}

// SetShortFrame truncates subsequent reads to n bytes, simulating a frame
// length mismatch. Zero restores full frames.
func (s *SimBus) SetShortFrame(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shortFrame = n
}

// Reg returns one register byte, for assertions.
func (s *SimBus) Reg(addr uint8) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[addr]
}

// Writes returns how many single-byte register writes the device has seen.
func (s *SimBus) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

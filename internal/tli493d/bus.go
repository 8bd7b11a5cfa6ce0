// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tli493d

import (
	"time"

	"periph.io/x/conn/v3/i2c"
)

// 7-bit I2C addresses of the four supported product variants.
const (
	AddrA0 uint16 = 0x35
	AddrA1 uint16 = 0x22
	AddrA2 uint16 = 0x78
	AddrA3 uint16 = 0x44
)

// Bus is the byte transport the driver runs on. Reads always stream from
// register 0x00 and fill p; the transport reports how many bytes the device
// actually produced so the driver can detect a malformed frame. A Bus
// implementation owns electrical concerns (addressing, start/stop, timing);
// the driver owns the register/value model.
type Bus interface {
	ReadRegisters(p []byte) (int, error)
	WriteRegister(addr, value uint8) error
	Reset() error
}

// I2CBus drives the sensor over a periph.io I2C bus.
type I2CBus struct {
	bus         i2c.Bus
	dev         i2c.Dev
	oneByteRead bool
}

// NewI2CBus wraps an open I2C bus for one sensor. oneByteRead selects the
// one-byte read protocol (plain sequential read from register 0); otherwise
// the two-byte protocol sends the start address first.
func NewI2CBus(bus i2c.Bus, addr uint16, oneByteRead bool) *I2CBus {
	if addr == 0 {
		addr = AddrA0
	}
	return &I2CBus{
		bus:         bus,
		dev:         i2c.Dev{Addr: addr, Bus: bus},
		oneByteRead: oneByteRead,
	}
}

func (b *I2CBus) ReadRegisters(p []byte) (int, error) {
	if b.oneByteRead {
		if err := b.dev.Tx(nil, p); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	if err := b.dev.Tx([]byte{0x00}, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (b *I2CBus) WriteRegister(addr, value uint8) error {
	return b.dev.Tx([]byte{addr, value}, nil)
}

// Reset issues the power-on reset sequence: two recovery frames followed by
// two general-call resets, then a settle delay for the chip to reload its
// fuses.
func (b *I2CBus) Reset() error {
	for _, frame := range [][]byte{{0xFF}, {0xFF}, {0x00}, {0x00}} {
		if err := b.bus.Tx(0x00, frame, nil); err != nil {
			return err
		}
	}
	time.Sleep(30 * time.Microsecond)
	return nil
}

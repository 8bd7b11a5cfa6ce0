// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"sync"

	"github.com/relabs-tech/magnetic_probe/internal/tli493d"
)

// Manager owns the live sensor instance shared between the producer loop and
// the register-debug tooling, serializing access to the bus.
type Manager struct {
	mu  sync.Mutex
	dev *tli493d.Dev
	bus tli493d.Bus
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// InitManager stores the sensor and its bus as the process-wide instance.
// Only the first call has any effect.
func InitManager(dev *tli493d.Dev, bus tli493d.Bus) {
	managerOnce.Do(func() {
		globalManager = &Manager{dev: dev, bus: bus}
	})
}

// GetManager returns the process-wide sensor manager, or nil before
// InitManager has been called.
func GetManager() *Manager {
	return globalManager
}

// Device returns the managed sensor.
func (m *Manager) Device() *tli493d.Dev {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dev
}

// Sample reads out a fresh measurement and returns the decoded components in
// millitesla plus the temperature in Celsius.
func (m *Manager) Sample() (bx, by, bz, tempC float64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.dev.Update(); err != nil {
		return 0, 0, 0, 0, err
	}
	return m.dev.X(), m.dev.Y(), m.dev.Z(), m.dev.Temperature(), nil
}

// ReadRegister refreshes the register mirror and returns one byte of it.
func (m *Manager) ReadRegister(addr uint8) (uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.dev.SyncMirror(); err != nil {
		return 0, err
	}
	regs := m.dev.Mirror()
	if int(addr) >= len(regs) {
		return 0, fmt.Errorf("register address 0x%02X out of range", addr)
	}
	return regs[addr], nil
}

// ReadAllRegisters refreshes the register mirror and returns a copy of it.
func (m *Manager) ReadAllRegisters() ([tli493d.RegisterCount]uint8, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.dev.SyncMirror(); err != nil {
		return [tli493d.RegisterCount]uint8{}, err
	}
	return m.dev.Mirror(), nil
}

// WriteRegister pokes one raw register byte, bypassing the driver's parity
// maintenance. Debug use only: a careless write can flip CF and park the
// chip. The mirror is resynchronized afterwards so the driver sees the
// device's actual state.
func (m *Manager) WriteRegister(addr, value uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int(addr) >= tli493d.RegisterCount {
		return fmt.Errorf("register address 0x%02X out of range", addr)
	}
	if err := m.bus.WriteRegister(addr, value); err != nil {
		return err
	}
	return m.dev.SyncMirror()
}

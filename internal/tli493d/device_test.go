// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tli493d_test

import (
	"math"
	"testing"

	"github.com/relabs-tech/magnetic_probe/internal/tli493d"
)

func newTestDev(t *testing.T, opts tli493d.Opts) (*tli493d.Dev, *tli493d.SimBus) {
	t.Helper()
	sim := tli493d.NewSimBus()
	dev, err := tli493d.New(sim, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return dev, sim
}

func TestNewConfiguresSensor(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)

	if dev.Mode() != tli493d.MasterControlled {
		t.Errorf("Mode() = %d, want master controlled", dev.Mode())
	}
	// One-byte protocol and master-controlled mode in MOD1.
	if mod1 := sim.Reg(0x11); mod1&0x10 == 0 || mod1&0x03 != 0x01 {
		t.Errorf("MOD1 = 0x%02X, want PR set and MODE=1", mod1)
	}
	// Master-controlled mode defaults to triggering before the read phase.
	if cfg := sim.Reg(0x10); cfg&0x30 != 0x10 {
		t.Errorf("CONFIG = 0x%02X, want TRIG=1", cfg)
	}
	// Both parity flags must confirm the initial configuration.
	if diag := sim.Reg(0x06); diag&0x60 != 0x60 {
		t.Errorf("DIAG = 0x%02X, want FF and CF set", diag)
	}
}

func TestNewRejectsReservedEncodings(t *testing.T) {
	tests := []struct {
		name string
		opts tli493d.Opts
		want error
	}{
		{"reserved mode", tli493d.Opts{Mode: 2}, tli493d.ErrInvalidMode},
		{"reserved range", tli493d.Opts{Mode: tli493d.MasterControlled, Range: 2}, tli493d.ErrInvalidRange},
		{"rate out of range", tli493d.Opts{Mode: tli493d.MasterControlled, UpdateRate: 8}, tli493d.ErrInvalidRate},
		{"bz off with temperature on", tli493d.Opts{Mode: tli493d.MasterControlled, DisableBz: true}, tli493d.ErrTemperatureOn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tli493d.New(tli493d.NewSimBus(), tt.opts); err != tt.want {
				t.Errorf("New = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateDecodesSample(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)
	sim.SetFlux(77, -77, 770)
	sim.SetTemperature(31.0)

	if err := dev.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := dev.X(); math.Abs(got-10.0) > 1e-9 {
		t.Errorf("X() = %g, want 10.0", got)
	}
	if got := dev.Y(); math.Abs(got+10.0) > 1e-9 {
		t.Errorf("Y() = %g, want -10.0", got)
	}
	if got := dev.Z(); math.Abs(got-100.0) > 1e-9 {
		t.Errorf("Z() = %g, want 100.0", got)
	}
	// Temperature quantizes to 0.24 °C steps.
	if got := dev.Temperature(); math.Abs(got-31.0) > 0.25 {
		t.Errorf("Temperature() = %g, want ~31.0", got)
	}
}

func TestUpdateAngles(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)

	sim.SetFlux(770, 0, 0)
	if err := dev.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := dev.Azimuth(); math.Abs(got) > 1e-9 {
		t.Errorf("Azimuth() = %g, want 0", got)
	}
	if got := dev.Norm(); math.Abs(got-100.0) > 1e-9 {
		t.Errorf("Norm() = %g, want 100.0", got)
	}

	sim.SetFlux(0, 770, 0)
	if err := dev.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := dev.Azimuth(); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("Azimuth() = %g, want pi/2", got)
	}

	sim.SetFlux(0, 0, 770)
	if err := dev.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := dev.Polar(); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("Polar() = %g, want pi/2", got)
	}
}

func TestUpdateKeepsSampleOnFrameError(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)
	sim.SetFlux(77, 0, 0)
	if err := dev.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	sim.SetFlux(770, 770, 770)
	sim.SetShortFrame(5)
	if err := dev.Update(); err != tli493d.ErrFrame {
		t.Fatalf("Update = %v, want ErrFrame", err)
	}
	if got := dev.X(); math.Abs(got-10.0) > 1e-9 {
		t.Errorf("X() = %g after frame error, want the previous 10.0", got)
	}

	sim.SetShortFrame(0)
	if err := dev.Update(); err != nil {
		t.Fatalf("Update after recovery: %v", err)
	}
	if got := dev.X(); math.Abs(got-100.0) > 1e-9 {
		t.Errorf("X() = %g after recovery, want 100.0", got)
	}
}

func TestUpdateKeepsSampleOnBusError(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)
	sim.SetFlux(77, 0, 0)
	if err := dev.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	sim.SetFailRead(true)
	if err := dev.Update(); err != tli493d.ErrBus {
		t.Fatalf("Update = %v, want ErrBus", err)
	}
	if got := dev.X(); math.Abs(got-10.0) > 1e-9 {
		t.Errorf("X() = %g after bus error, want the previous 10.0", got)
	}
}

func TestThresholdOrderRejectedBeforeWrites(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)
	before := sim.Writes()

	if err := dev.SetWakeUpThresholdLSB(100, 200, 0, 0, 0, 0); err != tli493d.ErrThresholdOrder {
		t.Fatalf("SetWakeUpThresholdLSB = %v, want ErrThresholdOrder", err)
	}
	if err := dev.SetWakeUpThreshold(0.1, 0.5, 0, 0, 0, 0); err != tli493d.ErrThresholdOrder {
		t.Fatalf("SetWakeUpThreshold = %v, want ErrThresholdOrder", err)
	}
	if got := sim.Writes(); got != before {
		t.Errorf("%d registers written on rejected calls, want 0", got-before)
	}
}

func TestThresholdDomainRejectedBeforeWrites(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)
	before := sim.Writes()

	if err := dev.SetWakeUpThresholdLSB(3000, 0, 0, 0, 0, 0); err != tli493d.ErrThresholdDomain {
		t.Fatalf("SetWakeUpThresholdLSB = %v, want ErrThresholdDomain", err)
	}
	if got := sim.Writes(); got != before {
		t.Errorf("%d registers written on a rejected call, want 0", got-before)
	}
	if err := dev.SetWakeUpThreshold(1.5, 0, 0, 0, 0, 0); err != tli493d.ErrThresholdDomain {
		t.Fatalf("SetWakeUpThreshold = %v, want ErrThresholdDomain", err)
	}
}

// A window wider than half the output range is committed to the device but
// reported as a failure.
func TestThresholdSpanCommittedButReported(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)
	before := sim.Writes()

	err := dev.SetWakeUpThresholdLSB(2047, -2047, 0, 0, 0, 0)
	if err != tli493d.ErrThresholdSpan {
		t.Fatalf("SetWakeUpThresholdLSB = %v, want ErrThresholdSpan", err)
	}
	if sim.Writes() == before {
		t.Fatal("no registers written, span violation must still commit")
	}
	if got := sim.Reg(0x08); got != 0x7F {
		t.Errorf("XH = 0x%02X, want 0x7F", got)
	}
	if got := sim.Reg(0x07); got != 0x80 {
		t.Errorf("XL = 0x%02X, want 0x80", got)
	}
}

func TestThresholdEncoding(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)

	if err := dev.SetWakeUpThresholdLSB(77, -77, 0, 0, 0, 0); err != nil {
		t.Fatalf("SetWakeUpThresholdLSB: %v", err)
	}
	if got := sim.Reg(0x08); got != 0x04 {
		t.Errorf("XH msb = 0x%02X, want 0x04", got)
	}
	if got := sim.Reg(0x0D) & 0x07; got != 6 {
		t.Errorf("XH lsb3 = %d, want 6", got)
	}
	if got := sim.Reg(0x07); got != 0xFB {
		t.Errorf("XL msb = 0x%02X, want 0xFB", got)
	}
	if got := sim.Reg(0x0D) >> 3 & 0x07; got != 1 {
		t.Errorf("XL lsb3 = %d, want 1", got)
	}
}

func TestWakeUpEngageAndRelease(t *testing.T) {
	dev, _ := newTestDev(t, tli493d.DefaultOpts)

	if err := dev.SetWakeUpThreshold(0.5, -0.5, 0.5, -0.5, 0.5, -0.5); err != nil {
		t.Fatalf("SetWakeUpThreshold: %v", err)
	}
	if err := dev.EnableWakeUp(); err != nil {
		t.Fatalf("EnableWakeUp: %v", err)
	}
	enabled, err := dev.WakeUpEnabled()
	if err != nil {
		t.Fatalf("WakeUpEnabled: %v", err)
	}
	if !enabled {
		t.Fatal("wake-up not engaged with valid parity and no test mode")
	}

	if err := dev.DisableWakeUp(); err != nil {
		t.Fatalf("DisableWakeUp: %v", err)
	}
	enabled, err = dev.WakeUpEnabled()
	if err != nil {
		t.Fatalf("WakeUpEnabled: %v", err)
	}
	if enabled {
		t.Fatal("wake-up still engaged after release")
	}
}

func TestWakeUpRefusedInTestMode(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)

	// Poke the test-mode bits behind the driver's back. This also breaks the
	// committed block parity, so both engage preconditions fail.
	if err := sim.WriteRegister(0x0E, 0xC0); err != nil {
		t.Fatalf("WriteRegister: %v", err)
	}
	if err := dev.EnableWakeUp(); err != nil {
		t.Fatalf("EnableWakeUp: %v", err)
	}
	if got := sim.Reg(0x0D) & 0x40; got != 0 {
		t.Error("WU bit set, wake-up must not be requested in test mode")
	}
	enabled, err := dev.WakeUpEnabled()
	if err != nil {
		t.Fatalf("WakeUpEnabled: %v", err)
	}
	if enabled {
		t.Error("wake-up engaged in test mode")
	}
}

func TestExtraShortRangeGuardedByWakeUp(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)

	if err := dev.SetWakeUpThreshold(0.5, -0.5, 0.5, -0.5, 0.5, -0.5); err != nil {
		t.Fatalf("SetWakeUpThreshold: %v", err)
	}
	if err := dev.EnableWakeUp(); err != nil {
		t.Fatalf("EnableWakeUp: %v", err)
	}

	if err := dev.SetMeasurementRange(tli493d.RangeExtraShort); err != tli493d.ErrWakeUpActive {
		t.Fatalf("SetMeasurementRange = %v, want ErrWakeUpActive", err)
	}
	if dev.MeasurementRange() != tli493d.RangeFull {
		t.Error("range changed despite the rejection")
	}

	if err := dev.DisableWakeUp(); err != nil {
		t.Fatalf("DisableWakeUp: %v", err)
	}
	if err := dev.SetMeasurementRange(tli493d.RangeExtraShort); err != nil {
		t.Fatalf("SetMeasurementRange after release: %v", err)
	}
	if sim.Reg(0x13)&0x01 == 0 {
		t.Error("X4 bit clear in extra-short range")
	}

	// The new sensitivity applies from the next sample on.
	sim.SetFlux(77, 0, 0)
	if err := dev.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := dev.X(); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("X() = %g in extra-short range, want 2.5", got)
	}
}

func TestDisableBzRequiresTemperatureOff(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.DefaultOpts)

	if err := dev.DisableBz(); err != tli493d.ErrTemperatureOn {
		t.Fatalf("DisableBz = %v, want ErrTemperatureOn", err)
	}
	if err := dev.DisableTemperature(); err != nil {
		t.Fatalf("DisableTemperature: %v", err)
	}
	if err := dev.DisableBz(); err != nil {
		t.Fatalf("DisableBz after temperature off: %v", err)
	}
	if got := sim.Reg(0x10) & 0xC0; got != 0xC0 {
		t.Errorf("CONFIG = 0x%02X, want DT and AM set", sim.Reg(0x10))
	}
}

func TestTriggerIgnoredInLowPowerMode(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.Opts{Mode: tli493d.LowPower, OneByteRead: true})

	before := sim.Writes()
	if err := dev.SetTrigger(tli493d.TriggerAfterReg5); err != nil {
		t.Fatalf("SetTrigger: %v", err)
	}
	if got := sim.Writes(); got != before {
		t.Errorf("%d registers written, trigger must be a no-op in low-power mode", got-before)
	}
	if err := dev.SetTrigger(3); err != tli493d.ErrInvalidTrigger {
		t.Errorf("SetTrigger(3) = %v, want ErrInvalidTrigger", err)
	}
}

func TestVersion(t *testing.T) {
	dev, _ := newTestDev(t, tli493d.DefaultOpts)
	typ, hwv, err := dev.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if typ != 2 || hwv != 9 {
		t.Errorf("Version() = (%d, %d), want (2, 9)", typ, hwv)
	}
}

func TestDiagnosisSnapshot(t *testing.T) {
	dev, _ := newTestDev(t, tli493d.DefaultOpts)
	snap, err := dev.Diagnosis()
	if err != nil {
		t.Fatalf("Diagnosis: %v", err)
	}
	if snap[6]&0x0C != 0x0C {
		t.Errorf("DIAG = 0x%02X, want PD3 and PD0 set", snap[6])
	}
	if snap[6]&0x20 == 0 {
		t.Errorf("DIAG = 0x%02X, want CF set after configuration", snap[6])
	}
}

func TestUpdateRate(t *testing.T) {
	dev, sim := newTestDev(t, tli493d.Opts{Mode: tli493d.LowPower, OneByteRead: true})

	if err := dev.SetUpdateRate(5); err != nil {
		t.Fatalf("SetUpdateRate: %v", err)
	}
	if got := sim.Reg(0x13) >> 5; got != 5 {
		t.Errorf("PRD = %d, want 5", got)
	}
	if err := dev.SetUpdateRate(8); err != tli493d.ErrInvalidRate {
		t.Errorf("SetUpdateRate(8) = %v, want ErrInvalidRate", err)
	}
}

func TestFrameCounterAdvances(t *testing.T) {
	dev, _ := newTestDev(t, tli493d.DefaultOpts)

	first, err := dev.Diagnosis()
	if err != nil {
		t.Fatalf("Diagnosis: %v", err)
	}
	if err := dev.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	second, err := dev.Diagnosis()
	if err != nil {
		t.Fatalf("Diagnosis: %v", err)
	}
	if first[6]&0x03 == second[6]&0x03 {
		t.Error("frame counter did not advance between read-outs")
	}
}

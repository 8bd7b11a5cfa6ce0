// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package tli493d drives Infineon's TLI493D-W2BW 3D magnetic sensor over a
// register-oriented bus. The driver owns a mirror of the 23-byte register
// file; named fields are read and written through the descriptor table in
// registers.go, and every commit of a parity-protected byte recomputes the
// chip's CP/FP parity bits on the way out.
//
// A Dev is not safe for concurrent use; run one instance per physical
// sensor from one controlling goroutine.
package tli493d

import (
	"errors"
	"fmt"
	"math"
)

// AccessMode selects how measurements and ADC conversions are scheduled.
// The encoding 2 is reserved by the chip and rejected.
type AccessMode uint8

const (
	LowPower         AccessMode = 0 // cyclic conversions at the configured update rate
	MasterControlled AccessMode = 1 // powered down until a read triggers a conversion
	Fast             AccessMode = 3 // continuous conversions
)

// Range selects the measurement range; smaller ranges have higher
// sensitivity. The encoding 2 is reserved.
type Range uint8

const (
	RangeFull       Range = 0 // ±160 mT, 7.7 LSB/mT
	RangeShort      Range = 1 // ±100 mT, 15.4 LSB/mT
	RangeExtraShort Range = 3 // ±50 mT, 30.8 LSB/mT (W2BW only)
)

// Trigger selects when master-controlled mode starts a conversion.
type Trigger uint8

const (
	TriggerNone       Trigger = 0
	TriggerBeforeRead Trigger = 1 // ADC start before the first MSB is clocked out
	TriggerAfterReg5  Trigger = 2 // ADC start after register 0x05 is read
)

var (
	// ErrBus reports a transport-level failure; ErrFrame a read-out whose
	// length did not match the active read protocol. Neither is retried
	// internally.
	ErrBus   = errors.New("tli493d: bus transport error")
	ErrFrame = errors.New("tli493d: frame length mismatch")

	ErrInvalidField    = errors.New("tli493d: field access violates register direction")
	ErrInvalidMode     = errors.New("tli493d: reserved access mode encoding")
	ErrInvalidRange    = errors.New("tli493d: reserved measurement range encoding")
	ErrInvalidTrigger  = errors.New("tli493d: invalid trigger policy")
	ErrInvalidRate     = errors.New("tli493d: update rate out of range")
	ErrWakeUpActive    = errors.New("tli493d: extra-short range requires wake-up disabled")
	ErrTemperatureOn   = errors.New("tli493d: disabling Bz requires temperature disabled")
	ErrThresholdDomain = errors.New("tli493d: wake-up threshold outside representable domain")
	ErrThresholdOrder  = errors.New("tli493d: wake-up upper threshold below lower threshold")
	ErrThresholdSpan   = errors.New("tli493d: wake-up span exceeds half the output range")
)

// Opts configures the sensor at start-up.
type Opts struct {
	Mode       AccessMode
	Range      Range
	Trigger    Trigger // master-controlled mode only; zero keeps the mode default
	UpdateRate uint8   // low-power update rate, 0 (fastest) to 7

	// OneByteRead selects the one-byte read protocol: reads stream the
	// whole register file. The two-byte protocol reads the 7-byte
	// measurement frame only.
	OneByteRead bool

	Reset              bool // issue the reset sequence before configuring
	DisableTemperature bool
	DisableBz          bool // requires DisableTemperature
}

// DefaultOpts matches the power-up intent of the reference firmware.
var DefaultOpts = Opts{Mode: MasterControlled, Range: RangeFull, OneByteRead: true}

// Dev is one TLI493D sensor. All configuration state lives in the register
// mirror; the decoded measurement sample is kept alongside the scale factor
// that was active when it was captured.
type Dev struct {
	bus         Bus
	oneByteRead bool
	regs        [regCount]uint8

	mode  AccessMode
	rng   Range
	scale float64 // LSB/mT of the configured range

	x, y, z, temp int16
	sampleScale   float64 // LSB/mT at capture time
}

// New configures the sensor and returns a ready driver.
func New(bus Bus, opts Opts) (*Dev, error) {
	if err := validMode(opts.Mode); err != nil {
		return nil, err
	}
	if err := validRange(opts.Range); err != nil {
		return nil, err
	}
	if opts.UpdateRate > 7 {
		return nil, ErrInvalidRate
	}
	if opts.DisableBz && !opts.DisableTemperature {
		return nil, ErrTemperatureOn
	}

	d := &Dev{
		bus:         bus,
		oneByteRead: opts.OneByteRead,
		mode:        opts.Mode,
		rng:         opts.Range,
		scale:       lsbPerMT(opts.Range),
		sampleScale: lsbPerMT(opts.Range),
	}

	if opts.Reset {
		if err := bus.Reset(); err != nil {
			return nil, fmt.Errorf("tli493d: reset: %w", err)
		}
	}
	if err := d.sync(frameFull); err != nil {
		return nil, fmt.Errorf("tli493d: initial register read-out: %w", err)
	}

	if opts.OneByteRead {
		d.setField(fieldPR, 1)
	} else {
		d.setField(fieldPR, 0)
	}
	d.applyMode(opts.Mode)
	if opts.Mode == MasterControlled && opts.Trigger != TriggerNone {
		if opts.Trigger > TriggerAfterReg5 {
			return nil, ErrInvalidTrigger
		}
		d.setField(fieldTrig, uint8(opts.Trigger))
	}
	d.applyRange(opts.Range)
	if opts.DisableTemperature {
		d.setField(fieldDT, 1)
	}
	if opts.DisableBz {
		d.setField(fieldAM, 1)
	}
	d.setField(fieldPRD, opts.UpdateRate)

	if err := d.flush(regConfig, regMod1, regMod2); err != nil {
		return nil, fmt.Errorf("tli493d: initial configuration: %w", err)
	}
	if err := d.sync(frameFull); err != nil {
		return nil, fmt.Errorf("tli493d: post-configuration read-out: %w", err)
	}
	return d, nil
}

func validMode(m AccessMode) error {
	switch m {
	case LowPower, MasterControlled, Fast:
		return nil
	}
	return ErrInvalidMode
}

func validRange(r Range) error {
	switch r {
	case RangeFull, RangeShort, RangeExtraShort:
		return nil
	}
	return ErrInvalidRange
}

// applyMode writes the MODE field and re-derives the dependent trigger
// default: master-controlled mode triggers the ADC before the first MSB,
// the cyclic modes do not use triggering.
func (d *Dev) applyMode(m AccessMode) {
	d.setField(fieldMode, uint8(m))
	if m == MasterControlled {
		d.setField(fieldTrig, uint8(TriggerBeforeRead))
	} else {
		d.setField(fieldTrig, uint8(TriggerNone))
	}
}

func (d *Dev) applyRange(r Range) {
	switch r {
	case RangeFull:
		d.setField(fieldX2, 0)
		d.setField(fieldX4, 0)
	case RangeShort:
		d.setField(fieldX2, 1)
		d.setField(fieldX4, 0)
	case RangeExtraShort:
		d.setField(fieldX2, 1)
		d.setField(fieldX4, 1)
	}
}

// sync reads the first n registers from the device and re-synchronizes the
// mirror wholesale. The mirror is untouched on any failure.
func (d *Dev) sync(n int) error {
	buf := make([]byte, n)
	got, err := d.bus.ReadRegisters(buf)
	if err != nil {
		return ErrBus
	}
	if got != n {
		return ErrFrame
	}
	copy(d.regs[:n], buf)
	return nil
}

// SetAccessMode switches the operating mode and its dependent defaults.
func (d *Dev) SetAccessMode(m AccessMode) error {
	if err := validMode(m); err != nil {
		return err
	}
	d.applyMode(m)
	if err := d.flush(regConfig, regMod1); err != nil {
		return err
	}
	d.mode = m
	return nil
}

// SetTrigger selects the conversion trigger. Triggering is meaningful only
// in master-controlled mode; in low-power mode the call is a no-op.
func (d *Dev) SetTrigger(t Trigger) error {
	if t > TriggerAfterReg5 {
		return ErrInvalidTrigger
	}
	if d.mode == LowPower {
		return nil
	}
	d.setField(fieldTrig, uint8(t))
	return d.flush(regConfig)
}

// SetUpdateRate sets the low-power measurement update rate, 0 (fastest) to
// 7 (slowest).
func (d *Dev) SetUpdateRate(rate uint8) error {
	if rate > 7 {
		return ErrInvalidRate
	}
	d.setField(fieldPRD, rate)
	return d.flush(regMod2)
}

// SetMeasurementRange switches the measurement range. Extra-short range
// drives the chip's test channel and is rejected while wake-up is engaged;
// disable wake-up first.
func (d *Dev) SetMeasurementRange(r Range) error {
	if err := validRange(r); err != nil {
		return err
	}
	if r == RangeExtraShort {
		enabled, err := d.WakeUpEnabled()
		if err != nil {
			return err
		}
		if enabled {
			return ErrWakeUpActive
		}
	}
	d.applyRange(r)
	if err := d.flush(regConfig, regMod2); err != nil {
		return err
	}
	d.rng = r
	d.scale = lsbPerMT(r)
	return nil
}

// EnableTemperature re-enables temperature conversion (the power-up state).
func (d *Dev) EnableTemperature() error {
	d.setField(fieldDT, 0)
	return d.flush(regConfig)
}

// DisableTemperature stops temperature conversion to save power.
func (d *Dev) DisableTemperature() error {
	d.setField(fieldDT, 1)
	return d.flush(regConfig)
}

// EnableBz re-enables Bz conversion.
func (d *Dev) EnableBz() error {
	d.setField(fieldAM, 0)
	return d.flush(regConfig)
}

// DisableBz stops Bz conversion. The chip only honors this with temperature
// conversion already off.
func (d *Dev) DisableBz() error {
	if d.fieldBits(fieldDT) != 1 {
		return ErrTemperatureOn
	}
	d.setField(fieldAM, 1)
	return d.flush(regConfig)
}

// EnableInterrupt allows the sensor to pulse /INT on conversion completion.
// The INT and CA register bits are active-low: a set bit switches the
// feature off.
func (d *Dev) EnableInterrupt() error {
	d.setField(fieldInt, 0)
	return d.flush(regMod1)
}

// DisableInterrupt suppresses /INT pulses. With collision avoidance still
// enabled this turns into clock stretching during conversions.
func (d *Dev) DisableInterrupt() error {
	d.setField(fieldInt, 1)
	return d.flush(regMod1)
}

// EnableCollisionAvoidance makes the sensor suppress interrupts between bus
// start and stop conditions.
func (d *Dev) EnableCollisionAvoidance() error {
	d.setField(fieldCA, 0)
	return d.flush(regMod1)
}

// DisableCollisionAvoidance lets read-outs collide with conversions.
func (d *Dev) DisableCollisionAvoidance() error {
	d.setField(fieldCA, 1)
	return d.flush(regMod1)
}

// EnableWakeUp requests the wake-up function. The chip only engages it when
// no test mode is active, the configuration parity is odd and the CF flag
// confirms it; when the preconditions are unmet the call is a no-op and the
// caller is expected to poll WakeUpEnabled.
func (d *Dev) EnableWakeUp() error {
	if err := d.sync(frameMeas); err != nil {
		return err
	}
	if d.fieldBits(fieldT) != 0 || d.fieldBits(fieldCF) != 1 || !d.configParityOdd() {
		return nil
	}
	d.setField(fieldWU, 1)
	return d.flush(regWU)
}

// DisableWakeUp releases the wake-up function.
func (d *Dev) DisableWakeUp() error {
	d.setField(fieldWU, 0)
	return d.flush(regWU)
}

// WakeUpEnabled reports whether the chip actually engaged wake-up (WA
// flag). In the one-byte read protocol the flag is refreshed from the
// device; the two-byte protocol cannot reach register 0x0D, so the last
// synchronized state is reported.
func (d *Dev) WakeUpEnabled() (bool, error) {
	if d.oneByteRead {
		if err := d.sync(frameFull); err != nil {
			return false, err
		}
	}
	return d.fieldBits(fieldWA) == 1, nil
}

// SetWakeUpThreshold sets the six wake-up thresholds as normalized ratios
// of the output range, each in [-1, 1]. /INT is suppressed while all three
// components sit inside their window.
func (d *Dev) SetWakeUpThreshold(xh, xl, yh, yl, zh, zl float64) error {
	vals := [6]float64{xh, xl, yh, yl, zh, zl}
	var raw [6]int16
	for i, v := range vals {
		r, ok := ratioToLSB(v)
		if !ok {
			return ErrThresholdDomain
		}
		raw[i] = r
	}
	return d.SetWakeUpThresholdLSB(raw[0], raw[1], raw[2], raw[3], raw[4], raw[5])
}

// SetWakeUpThresholdMT sets the six wake-up thresholds in millitesla,
// converted with the sensitivity of the active range.
func (d *Dev) SetWakeUpThresholdMT(xh, xl, yh, yl, zh, zl float64) error {
	vals := [6]float64{xh, xl, yh, yl, zh, zl}
	var raw [6]int16
	for i, v := range vals {
		r, ok := mtToLSB(v, d.scale)
		if !ok {
			return ErrThresholdDomain
		}
		raw[i] = r
	}
	return d.SetWakeUpThresholdLSB(raw[0], raw[1], raw[2], raw[3], raw[4], raw[5])
}

// SetWakeUpThresholdLSB sets the six wake-up thresholds in raw LSB, each in
// [-2048, 2047]. Domain and ordering violations fail before any register is
// touched. A window wider than half the output range is still committed —
// the hardware accepts the values — but reported as a failure, because
// interrupts with such a window are unreliable.
func (d *Dev) SetWakeUpThresholdLSB(xh, xl, yh, yl, zh, zl int16) error {
	axes := [3]struct{ h, l int16 }{{xh, xl}, {yh, yl}, {zh, zl}}
	for _, a := range axes {
		if a.h < adcMin || a.h > adcMax || a.l < adcMin || a.l > adcMax {
			return ErrThresholdDomain
		}
		if a.h < a.l {
			return ErrThresholdOrder
		}
	}
	spanViolation := false
	for _, a := range axes {
		if int(a.h)-int(a.l) > (adcMax-adcMin+1)/2 {
			spanViolation = true
		}
	}

	hi := [3][2]fieldID{{fieldXH1, fieldXH2}, {fieldYH1, fieldYH2}, {fieldZH1, fieldZH2}}
	lo := [3][2]fieldID{{fieldXL1, fieldXL2}, {fieldYL1, fieldYL2}, {fieldZL1, fieldZL2}}
	for i, a := range axes {
		msb, lsb3 := thresholdBits(a.h)
		d.setField(hi[i][0], msb)
		d.setField(hi[i][1], lsb3)
		msb, lsb3 = thresholdBits(a.l)
		d.setField(lo[i][0], msb)
		d.setField(lo[i][1], lsb3)
	}
	if err := d.flush(regXL, regXH, regYL, regYH, regZL, regZH, regWU, regTMode, regTPhase); err != nil {
		return err
	}
	if spanViolation {
		return ErrThresholdSpan
	}
	return nil
}

// Update performs one measurement read-out: a single multi-byte read whose
// expected length follows the active read protocol, then decode of X, Y, Z
// and temperature. On ErrBus or ErrFrame the previously decoded sample
// stays available unchanged.
func (d *Dev) Update() error {
	n := frameMeas
	if d.oneByteRead {
		n = frameFull
	}
	buf := make([]byte, n)
	got, err := d.bus.ReadRegisters(buf)
	if err != nil {
		return ErrBus
	}
	if got != n {
		return ErrFrame
	}
	copy(d.regs[:n], buf)

	d.x = decode12(d.regs[regBX], d.regs[regBX2])
	d.y = decode12(d.regs[regBY], d.regs[regBX2]<<4)
	d.z = decode12(d.regs[regBZ], d.regs[regTemp2]<<4)
	d.temp = decode12(d.regs[regTemp], d.regs[regTemp2]&0xC0)
	d.sampleScale = d.scale
	return nil
}

// X returns the Bx component of the last sample in millitesla.
func (d *Dev) X() float64 { return toMilliTesla(d.x, d.sampleScale) }

// Y returns the By component of the last sample in millitesla.
func (d *Dev) Y() float64 { return toMilliTesla(d.y, d.sampleScale) }

// Z returns the Bz component of the last sample in millitesla.
func (d *Dev) Z() float64 { return toMilliTesla(d.z, d.sampleScale) }

// Temperature returns the last sample's temperature in degrees Celsius.
func (d *Dev) Temperature() float64 { return toCelsius(d.temp) }

// Norm returns the magnitude of the field vector in millitesla.
func (d *Dev) Norm() float64 {
	x, y, z := d.X(), d.Y(), d.Z()
	return math.Sqrt(x*x + y*y + z*z)
}

// Azimuth returns atan2(y, x) in radians.
func (d *Dev) Azimuth() float64 { return math.Atan2(d.Y(), d.X()) }

// Polar returns the polar angle atan2(z, sqrt(x²+y²)) in radians.
func (d *Dev) Polar() float64 { return math.Atan2(d.Z(), math.Hypot(d.X(), d.Y())) }

// Diagnosis reads and returns the 7-byte diagnosis snapshot (registers
// 0x00-0x06).
func (d *Dev) Diagnosis() ([7]uint8, error) {
	var snap [7]uint8
	if err := d.sync(frameMeas); err != nil {
		return snap, err
	}
	copy(snap[:], d.regs[:frameMeas])
	return snap, nil
}

// Version returns the chip's TYPE and HWV identity fields. The two-byte
// read protocol cannot reach register 0x16; the mirror value is reported.
func (d *Dev) Version() (typ, hwv uint8, err error) {
	if d.oneByteRead {
		if err := d.sync(frameFull); err != nil {
			return 0, 0, err
		}
	}
	return d.fieldBits(fieldType), d.fieldBits(fieldHWV), nil
}

// Reset issues the reset sequence and rewrites the full configuration.
func (d *Dev) Reset() error {
	if err := d.bus.Reset(); err != nil {
		return ErrBus
	}
	if err := d.flush(regXL, regXH, regYL, regYH, regZL, regZH,
		regWU, regTMode, regTPhase, regConfig, regMod1, regMod2); err != nil {
		return err
	}
	return d.sync(frameFull)
}

// Mode returns the configured access mode.
func (d *Dev) Mode() AccessMode { return d.mode }

// MeasurementRange returns the configured range.
func (d *Dev) MeasurementRange() Range { return d.rng }

// Mirror returns a copy of the register mirror, for diagnostics tooling.
func (d *Dev) Mirror() [regCount]uint8 { return d.regs }

// SyncMirror refreshes the mirror from the device: the full register file
// in the one-byte read protocol, the measurement frame otherwise.
func (d *Dev) SyncMirror() error {
	if d.oneByteRead {
		return d.sync(frameFull)
	}
	return d.sync(frameMeas)
}

// RegisterCount is the size of the device register file.
const RegisterCount = regCount

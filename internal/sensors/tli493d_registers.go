// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

// BitField describes one named field within a register byte.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// RegisterInfo provides register names, descriptions, access types and bit
// field definitions for the register-debug tooling.
type RegisterInfo struct {
	Address     string     `json:"address"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "R", "RW"
	Default     string     `json:"default,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

// TLI493DRegisterMap returns metadata for all TLI493D-W2BW registers.
func TLI493DRegisterMap() []RegisterInfo {
	return []RegisterInfo{
		// Measurement Registers (Read-Only)
		{Address: "0x00", Name: "BX", Description: "Bx Magnetic Field High Byte", Access: "R",
			BitFields: []BitField{
				{Bits: "7:0", Name: "BX", Description: "Bx[11:4] two's complement", Values: "-2048..2047 after nibble merge"},
			}},
		{Address: "0x01", Name: "BY", Description: "By Magnetic Field High Byte", Access: "R",
			BitFields: []BitField{
				{Bits: "7:0", Name: "BY", Description: "By[11:4] two's complement"},
			}},
		{Address: "0x02", Name: "BZ", Description: "Bz Magnetic Field High Byte", Access: "R",
			BitFields: []BitField{
				{Bits: "7:0", Name: "BZ", Description: "Bz[11:4] two's complement"},
			}},
		{Address: "0x03", Name: "TEMP", Description: "Temperature High Byte", Access: "R",
			BitFields: []BitField{
				{Bits: "7:0", Name: "TEMP", Description: "Temp[11:4], 0.24°C/LSB, 1180 LSB offset at 25°C"},
			}},
		{Address: "0x04", Name: "BX2", Description: "Bx/By Low Nibbles", Access: "R",
			BitFields: []BitField{
				{Bits: "7:4", Name: "BX", Description: "Bx[3:0]"},
				{Bits: "3:0", Name: "BY", Description: "By[3:0]"},
			}},
		{Address: "0x05", Name: "TEMP2", Description: "Temp/Bz Low Bits and Sensor ID", Access: "R",
			BitFields: []BitField{
				{Bits: "7:6", Name: "TEMP", Description: "Temp[3:2]"},
				{Bits: "5:4", Name: "ID", Description: "Sensor channel ID"},
				{Bits: "3:0", Name: "BZ", Description: "Bz[3:0]"},
			}},
		{Address: "0x06", Name: "DIAG", Description: "Diagnosis", Access: "R",
			BitFields: []BitField{
				{Bits: "7", Name: "P", Description: "Data parity", Values: ""},
				{Bits: "6", Name: "FF", Description: "Fuse parity flag", Values: "1=mode registers valid"},
				{Bits: "5", Name: "CF", Description: "Configuration parity flag", Values: "1=configuration valid"},
				{Bits: "4", Name: "T", Description: "Test mode flag", Values: "0=normal operation"},
				{Bits: "3", Name: "PD3", Description: "Power supply diagnosis 3"},
				{Bits: "2", Name: "PD0", Description: "Power supply diagnosis 0"},
				{Bits: "1:0", Name: "FRM", Description: "Frame counter, increments per read-out"},
			}},

		// Wake-Up Threshold Registers
		{Address: "0x07", Name: "XL", Description: "Wake-Up Lower Threshold X", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:0", Name: "XL", Description: "Threshold bits [11:4]"},
			}},
		{Address: "0x08", Name: "XH", Description: "Wake-Up Upper Threshold X", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:0", Name: "XH", Description: "Threshold bits [11:4]"},
			}},
		{Address: "0x09", Name: "YL", Description: "Wake-Up Lower Threshold Y", Access: "RW", Default: "0x00"},
		{Address: "0x0A", Name: "YH", Description: "Wake-Up Upper Threshold Y", Access: "RW", Default: "0x00"},
		{Address: "0x0B", Name: "ZL", Description: "Wake-Up Lower Threshold Z", Access: "RW", Default: "0x00"},
		{Address: "0x0C", Name: "ZH", Description: "Wake-Up Upper Threshold Z", Access: "RW", Default: "0x00"},
		{Address: "0x0D", Name: "WU", Description: "Wake-Up Control", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "WA", Description: "Wake-up active (chip-maintained)", Values: "read-only"},
				{Bits: "6", Name: "WU", Description: "Wake-up enable request"},
				{Bits: "5:3", Name: "XL", Description: "Lower threshold X bits [3:1]"},
				{Bits: "2:0", Name: "XH", Description: "Upper threshold X bits [3:1]"},
			}},
		{Address: "0x0E", Name: "TMODE", Description: "Test Mode / Y Threshold Low Bits", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:6", Name: "TST", Description: "Test mode select", Values: "0=off"},
				{Bits: "5:3", Name: "YL", Description: "Lower threshold Y bits [3:1]"},
				{Bits: "2:0", Name: "YH", Description: "Upper threshold Y bits [3:1]"},
			}},
		{Address: "0x0F", Name: "TPHASE", Description: "Trigger Phase / Z Threshold Low Bits", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:6", Name: "PH", Description: "Trigger phase adjust"},
				{Bits: "5:3", Name: "ZL", Description: "Lower threshold Z bits [3:1]"},
				{Bits: "2:0", Name: "ZH", Description: "Upper threshold Z bits [3:1]"},
			}},

		// Configuration Registers
		{Address: "0x10", Name: "CONFIG", Description: "Measurement Configuration", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "DT", Description: "Disable temperature conversion", Values: "0=enabled, 1=disabled"},
				{Bits: "6", Name: "AM", Description: "Disable Bz conversion", Values: "0=enabled, 1=disabled"},
				{Bits: "5:4", Name: "TRIG", Description: "Conversion trigger", Values: "0=none, 1=before read, 2=after register 5"},
				{Bits: "3", Name: "X2", Description: "Short range select", Values: "0=±160mT, 1=±100mT"},
				{Bits: "2:1", Name: "TL_MAG", Description: "Temperature compensation for the magnetic channels"},
				{Bits: "0", Name: "CP", Description: "Configuration parity over 0x07-0x10", Values: "odd parity"},
			}},
		{Address: "0x11", Name: "MOD1", Description: "Mode Register 1", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7", Name: "FP", Description: "Fuse parity over 0x11 and 0x13", Values: "odd parity"},
				{Bits: "6:5", Name: "IICADR", Description: "I2C address select A0-A3"},
				{Bits: "4", Name: "PR", Description: "Read protocol", Values: "1=one-byte, 0=two-byte"},
				{Bits: "3", Name: "CA", Description: "Collision avoidance", Values: "0=enabled, 1=disabled"},
				{Bits: "2", Name: "INT", Description: "Interrupt pulses", Values: "0=enabled, 1=disabled"},
				{Bits: "1:0", Name: "MODE", Description: "Access mode", Values: "0=low power, 1=master controlled, 3=fast (2 reserved)"},
			}},
		{Address: "0x12", Name: "RESERVED", Description: "Factory reserved", Access: "R"},
		{Address: "0x13", Name: "MOD2", Description: "Mode Register 2", Access: "RW", Default: "0x00",
			BitFields: []BitField{
				{Bits: "7:5", Name: "PRD", Description: "Low-power update rate", Values: "0=fastest .. 7=slowest"},
				{Bits: "0", Name: "X4", Description: "Extra-short range select (with X2=1)", Values: "1=±50mT"},
			}},
		{Address: "0x14", Name: "RESERVED", Description: "Factory reserved", Access: "R"},
		{Address: "0x15", Name: "RESERVED", Description: "Factory reserved", Access: "R"},
		{Address: "0x16", Name: "VER", Description: "Version", Access: "R", Default: "0x29",
			BitFields: []BitField{
				{Bits: "5:4", Name: "TYPE", Description: "Product type", Values: "2=W2BW"},
				{Bits: "3:0", Name: "HWV", Description: "Hardware version"},
			}},
	}
}

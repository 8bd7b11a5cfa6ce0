// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tli493d

// Register addresses of the TLI493D-W2BW. The readable/writable register
// space is 23 bytes starting at 0x00; reads always stream from address 0.
const (
	regBX     = 0x00 // Bx[11:4]
	regBY     = 0x01 // By[11:4]
	regBZ     = 0x02 // Bz[11:4]
	regTemp   = 0x03 // Temp[11:4]
	regBX2    = 0x04 // Bx[3:0] (7:4), By[3:0] (3:0)
	regTemp2  = 0x05 // Temp[3:2] (7:6), ID (5:4), Bz[3:0] (3:0)
	regDiag   = 0x06 // P, FF, CF, T, PD3, PD0, FRM
	regXL     = 0x07 // wake-up lower threshold X, bits [11:4]
	regXH     = 0x08 // wake-up upper threshold X, bits [11:4]
	regYL     = 0x09
	regYH     = 0x0A
	regZL     = 0x0B
	regZH     = 0x0C
	regWU     = 0x0D // WA (7), WU (6), XL[3:1] (5:3), XH[3:1] (2:0)
	regTMode  = 0x0E // TST (7:6), YL[3:1] (5:3), YH[3:1] (2:0)
	regTPhase = 0x0F // PH (7:6), ZL[3:1] (5:3), ZH[3:1] (2:0)
	regConfig = 0x10 // DT (7), AM (6), TRIG (5:4), X2 (3), TL_mag (2:1), CP (0)
	regMod1   = 0x11 // FP (7), IICADR (6:5), PR (4), CA (3), INT (2), MODE (1:0)
	regMod2   = 0x13 // PRD (7:5), X4 (0); 0x12 is factory reserved
	regVer    = 0x16 // TYPE (5:4), HWV (3:0); 0x14-0x15 are factory reserved

	regCount = 23
)

// Frame lengths for the two read protocols. The one-byte protocol streams
// the whole register file; the two-byte protocol returns the measurement
// frame (registers 0x00-0x06) only.
const (
	frameFull = regCount
	frameMeas = 7
)

type fieldAccess uint8

const (
	accessRO fieldAccess = iota
	accessWO
	accessRW
)

// fieldDesc locates one named configuration or measurement field inside the
// register file. Fields within the same byte never overlap, except that the
// parity bits CP and FP are computed over the bytes that contain them.
type fieldDesc struct {
	reg    uint8
	mask   uint8
	shift  uint8
	access fieldAccess
}

type fieldID uint8

const (
	fieldBX1 fieldID = iota
	fieldBX2
	fieldBY1
	fieldBY2
	fieldBZ1
	fieldBZ2
	fieldTemp1
	fieldTemp2
	fieldChID
	fieldP
	fieldFF
	fieldCF
	fieldT
	fieldPD3
	fieldPD0
	fieldFRM
	fieldXL1
	fieldXL2
	fieldXH1
	fieldXH2
	fieldYL1
	fieldYL2
	fieldYH1
	fieldYH2
	fieldZL1
	fieldZL2
	fieldZH1
	fieldZH2
	fieldWA
	fieldWU
	fieldTST
	fieldPH
	fieldDT
	fieldAM
	fieldTrig
	fieldX2
	fieldTLMag
	fieldCP
	fieldFP
	fieldIICAddr
	fieldPR
	fieldCA
	fieldInt
	fieldMode
	fieldPRD
	fieldX4
	fieldType
	fieldHWV
)

// regFields is the full field descriptor table of the W2BW.
var regFields = [...]fieldDesc{
	fieldBX1:   {regBX, 0xFF, 0, accessRO},
	fieldBX2:   {regBX2, 0xF0, 4, accessRO},
	fieldBY1:   {regBY, 0xFF, 0, accessRO},
	fieldBY2:   {regBX2, 0x0F, 0, accessRO},
	fieldBZ1:   {regBZ, 0xFF, 0, accessRO},
	fieldBZ2:   {regTemp2, 0x0F, 0, accessRO},
	fieldTemp1: {regTemp, 0xFF, 0, accessRO},
	fieldTemp2: {regTemp2, 0xC0, 6, accessRO},
	fieldChID:  {regTemp2, 0x30, 4, accessRO},
	fieldP:     {regDiag, 0x80, 7, accessRO},
	fieldFF:    {regDiag, 0x40, 6, accessRO},
	fieldCF:    {regDiag, 0x20, 5, accessRO},
	fieldT:     {regDiag, 0x10, 4, accessRO},
	fieldPD3:   {regDiag, 0x08, 3, accessRO},
	fieldPD0:   {regDiag, 0x04, 2, accessRO},
	fieldFRM:   {regDiag, 0x03, 0, accessRO},

	fieldXL1: {regXL, 0xFF, 0, accessRW},
	fieldXL2: {regWU, 0x38, 3, accessRW},
	fieldXH1: {regXH, 0xFF, 0, accessRW},
	fieldXH2: {regWU, 0x07, 0, accessRW},
	fieldYL1: {regYL, 0xFF, 0, accessRW},
	fieldYL2: {regTMode, 0x38, 3, accessRW},
	fieldYH1: {regYH, 0xFF, 0, accessRW},
	fieldYH2: {regTMode, 0x07, 0, accessRW},
	fieldZL1: {regZL, 0xFF, 0, accessRW},
	fieldZL2: {regTPhase, 0x38, 3, accessRW},
	fieldZH1: {regZH, 0xFF, 0, accessRW},
	fieldZH2: {regTPhase, 0x07, 0, accessRW},

	fieldWA:  {regWU, 0x80, 7, accessRO},
	fieldWU:  {regWU, 0x40, 6, accessRW},
	fieldTST: {regTMode, 0xC0, 6, accessRW},
	fieldPH:  {regTPhase, 0xC0, 6, accessRW},

	fieldDT:    {regConfig, 0x80, 7, accessRW},
	fieldAM:    {regConfig, 0x40, 6, accessRW},
	fieldTrig:  {regConfig, 0x30, 4, accessRW},
	fieldX2:    {regConfig, 0x08, 3, accessRW},
	fieldTLMag: {regConfig, 0x06, 1, accessRW},
	fieldCP:    {regConfig, 0x01, 0, accessRW},

	fieldFP:      {regMod1, 0x80, 7, accessRW},
	fieldIICAddr: {regMod1, 0x60, 5, accessRW},
	fieldPR:      {regMod1, 0x10, 4, accessRW},
	fieldCA:      {regMod1, 0x08, 3, accessRW},
	fieldInt:     {regMod1, 0x04, 2, accessRW},
	fieldMode:    {regMod1, 0x03, 0, accessRW},

	fieldPRD: {regMod2, 0xE0, 5, accessRW},
	fieldX4:  {regMod2, 0x01, 0, accessRW},

	fieldType: {regVer, 0x30, 4, accessRO},
	fieldHWV:  {regVer, 0x0F, 0, accessRO},
}

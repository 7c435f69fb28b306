// This file is part of Perivale.
//
// Perivale is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Perivale is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Perivale.  If not, see <https://www.gnu.org/licenses/>.

package cpu

// RV32I opcodes for the subset the harness synthesises. Nothing outside
// this subset is ever fed to the device.
const (
	opImm   = 0x13 // ADDI
	opLui   = 0x37 // LUI
	opStore = 0x23 // SW
	opLoad  = 0x03 // LW
)

// funct3 for word-sized loads and stores.
const funct3Word = 0x2

// Registers used by the synthesiser. The base register is tp (x4), which
// the CPU initialises to the MMIO base address at reset. The scratch
// register receives immediates on the way to a store and load results on
// the way back.
const (
	RegZero    = 0
	RegScratch = 1
	RegBase    = 4
)

// NumRegs is the size of the register file.
const NumRegs = 32

// Addi encodes an ADDI instruction. The immediate is interpreted as a
// signed 12-bit value; only the low 12 bits of imm are encoded.
func Addi(rd, rs1 int, imm int32) uint32 {
	return uint32(imm&0xfff)<<20 | uint32(rs1)<<15 | uint32(rd)<<7 | opImm
}

// Lui encodes an LUI instruction with a 20-bit upper immediate.
func Lui(rd int, imm20 uint32) uint32 {
	return (imm20&0xfffff)<<12 | uint32(rd)<<7 | opLui
}

// Sw encodes a store-word of rs2 to offset(rs1). The 12-bit offset is
// split across the two immediate fields of the S-type format.
func Sw(rs1, rs2 int, offset int32) uint32 {
	off := uint32(offset) & 0xfff
	return (off>>5)<<25 | uint32(rs2)<<20 | uint32(rs1)<<15 |
		funct3Word<<12 | (off&0x1f)<<7 | opStore
}

// Lw encodes a load-word from offset(rs1) into rd.
func Lw(rd, rs1 int, offset int32) uint32 {
	return uint32(offset&0xfff)<<20 | uint32(rs1)<<15 |
		funct3Word<<12 | uint32(rd)<<7 | opLoad
}

// Nop is the canonical RV32 no-operation: ADDI x0, x0, 0.
func Nop() uint32 {
	return Addi(RegZero, RegZero, 0)
}

// operation is the decoded form of an instruction word.
type operation int

const (
	opNop operation = iota
	opAddImm
	opLoadUpper
	opStoreWord
	opLoadWord
)

type instruction struct {
	op  operation
	rd  int
	rs1 int
	rs2 int
	imm int32
}

// signExtend12 interprets the low 12 bits of v as a signed value.
func signExtend12(v uint32) int32 {
	return int32(v<<20) >> 20
}

// decode an instruction word. ok is false for anything outside the
// supported subset.
func decode(word uint32) (instruction, bool) {
	var ins instruction

	rd := int(word >> 7 & 0x1f)
	rs1 := int(word >> 15 & 0x1f)
	rs2 := int(word >> 20 & 0x1f)
	funct3 := word >> 12 & 0x7

	switch word & 0x7f {
	case opImm:
		if funct3 != 0 {
			return ins, false
		}
		ins = instruction{op: opAddImm, rd: rd, rs1: rs1, imm: signExtend12(word >> 20)}
		if rd == RegZero && rs1 == RegZero && ins.imm == 0 {
			ins.op = opNop
		}

	case opLui:
		ins = instruction{op: opLoadUpper, rd: rd, imm: int32(word & 0xfffff000)}

	case opStore:
		if funct3 != funct3Word {
			return ins, false
		}
		off := (word>>25)<<5 | (word >> 7 & 0x1f)
		ins = instruction{op: opStoreWord, rs1: rs1, rs2: rs2, imm: signExtend12(off)}

	case opLoad:
		if funct3 != funct3Word {
			return ins, false
		}
		ins = instruction{op: opLoadWord, rd: rd, rs1: rs1, imm: signExtend12(word >> 20)}

	default:
		return ins, false
	}

	return ins, true
}

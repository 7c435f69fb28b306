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

// SplitImm splits a 32-bit value into the upper-immediate and signed
// 12-bit addend of an LUI/ADDI pair, such that
//
//	(upper << 12) + lower == value
//
// with 32-bit wrap-around, for every possible value.
//
// Because the addend is interpreted as signed, the split is not a simple
// shift and mask: if the low 12 bits, taken as a signed value, would be
// negative, the upper immediate is incremented by one to compensate. Get
// this wrong and every value whose low 12 bits are 0x800 or above is
// corrupted silently.
func SplitImm(value uint32) (upper uint32, lower int32) {
	upper = (value>>12 + value>>11&0x1) & 0xfffff
	lower = signExtend12(value)
	return upper, lower
}

// fitsImm12 is true if the value can be expressed as a single signed
// 12-bit immediate.
func fitsImm12(value uint32) bool {
	return int32(value) == signExtend12(value)
}

// SynthWrite32 returns the minimal instruction sequence that writes a
// 32-bit value to an offset from the base register. Values that fit in a
// signed 12-bit immediate take a single ADDI into the scratch register;
// anything else needs the LUI/ADDI pair from SplitImm. The final
// instruction is always the store.
func SynthWrite32(offset uint32, value uint32) []uint32 {
	if fitsImm12(value) {
		return []uint32{
			Addi(RegScratch, RegZero, int32(value)),
			Sw(RegBase, RegScratch, int32(offset)),
		}
	}

	upper, lower := SplitImm(value)
	return []uint32{
		Lui(RegScratch, upper),
		Addi(RegScratch, RegScratch, lower),
		Sw(RegBase, RegScratch, int32(offset)),
	}
}

// SynthRead32 returns the instruction sequence that reads the 32-bit value
// at an offset from the base register into the scratch register. The
// caller retrieves the value from the register file once the instruction
// has retired.
func SynthRead32(offset uint32) []uint32 {
	return []uint32{
		Lw(RegScratch, RegBase, int32(offset)),
	}
}

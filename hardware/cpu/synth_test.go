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

package cpu_test

import (
	"testing"

	"github.com/perivale/perivale/hardware/cpu"
	"github.com/perivale/perivale/random"
	"github.com/perivale/perivale/test"
)

func TestSplitImm(t *testing.T) {
	// the boundary cases. 0x800 is the first low-half value that reads as
	// negative when sign extended.
	vals := []uint32{
		0x00000000, 0x00000001, 0x000007ff, 0x00000800, 0x00000fff,
		0x00001000, 0x00001800, 0xdeadbeef, 0x7fffffff, 0x80000000,
		0xfffff7ff, 0xfffff800, 0xffffffff,
	}

	for _, v := range vals {
		upper, lower := cpu.SplitImm(v)
		test.Equate(t, upper<<12+uint32(lower), v)
		test.Equate(t, upper&0xfff00000, 0)
	}
}

func TestSplitImmRandom(t *testing.T) {
	rnd := random.NewRandom(1)
	for i := 0; i < 10000; i++ {
		v := rnd.Uint32()
		upper, lower := cpu.SplitImm(v)
		if upper<<12+uint32(lower) != v {
			t.Fatalf("split of %08x does not recombine: upper=%05x lower=%d", v, upper, lower)
		}
	}
}

func TestEncodings(t *testing.T) {
	test.Equate(t, cpu.Nop(), 0x00000013)
	test.Equate(t, cpu.Addi(cpu.RegScratch, cpu.RegZero, 0x100), 0x10000093)
	test.Equate(t, cpu.Lui(cpu.RegScratch, 0xdeadc), 0xdeadc0b7)
	test.Equate(t, cpu.Addi(cpu.RegScratch, cpu.RegScratch, -273), 0xeef08093)
	test.Equate(t, cpu.Sw(cpu.RegBase, cpu.RegScratch, 0x08), 0x00122423)
	test.Equate(t, cpu.Sw(cpu.RegBase, cpu.RegScratch, 0x3c), 0x02122e23)
	test.Equate(t, cpu.Lw(cpu.RegScratch, cpu.RegBase, 0x28), 0x02822083)
}

func TestSynthWrite32(t *testing.T) {
	// small values take the two-instruction form
	seq := cpu.SynthWrite32(0x08, 0x100)
	test.Equate(t, len(seq), 2)
	test.Equate(t, seq[0], 0x10000093)
	test.Equate(t, seq[1], 0x00122423)

	// a negative-reading low half forces the corrected three-instruction
	// form
	seq = cpu.SynthWrite32(0x3c, 0xdeadbeef)
	test.Equate(t, len(seq), 3)
	test.Equate(t, seq[0], 0xdeadc0b7)
	test.Equate(t, seq[1], 0xeef08093)
	test.Equate(t, seq[2], 0x02122e23)
}

func TestSynthRead32(t *testing.T) {
	seq := cpu.SynthRead32(0x28)
	test.Equate(t, len(seq), 1)
	test.Equate(t, seq[0], 0x02822083)
}

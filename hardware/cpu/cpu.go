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

// Package cpu models the pipelined RISC-V core in front of the peripheral
// block, and the instruction synthesiser that targets it.
//
// This is not a general-purpose instruction-set simulation. The core
// executes exactly the subset the synthesiser emits (ADDI, LUI, SW, LW and
// the canonical NOP), one instruction at a time, with the fetch and bus
// timing of the real device: instructions arrive through a bit-serial
// fetch taking FetchCycles per word, stores occupy one bus cycle and loads
// occupy the full bit-serial read window.
package cpu

import (
	"fmt"

	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/hardware/mmio"
)

// FetchCycles is the number of cycles taken to fetch one instruction word
// through the bit-serial flash interface.
const FetchCycles = 8

// UnsupportedInstruction is the fault raised when a fed word decodes to
// nothing in the supported subset.
const UnsupportedInstruction = "cpu: unsupported instruction: %08x"

type state int

const (
	stIdle state = iota
	stFetch
	stExec
	stStore
	stLoad
)

// CPU is the fetch-execute model. It never initiates anything on its own:
// instructions are queued with PushInstr and consumed one at a time.
type CPU struct {
	regs [NumRegs]uint32

	queue []uint32

	state   state
	word    uint32
	ins     instruction
	counter int

	// value sampled from the bus during a load window
	loadVal uint32

	retired uint64
	fault   error
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU() *CPU {
	mc := &CPU{}
	mc.Reset()
	return mc
}

// Reset the core: clears the register file, the fetch queue and any fault.
// The base register is re-initialised to the MMIO base address, which is
// what the device's boot code does before the harness takes over.
func (mc *CPU) Reset() {
	for i := range mc.regs {
		mc.regs[i] = 0
	}
	mc.regs[RegBase] = mmio.Base
	mc.queue = mc.queue[:0]
	mc.state = stIdle
	mc.retired = 0
	mc.fault = nil
}

func (mc *CPU) String() string {
	return fmt.Sprintf("retired=%d queued=%d x1=%08x", mc.retired, len(mc.queue), mc.regs[RegScratch])
}

// PushInstr queues one instruction word for fetching.
func (mc *CPU) PushInstr(word uint32) {
	mc.queue = append(mc.queue, word)
}

// Retired returns the number of instructions fully executed since reset.
func (mc *CPU) Retired() uint64 {
	return mc.retired
}

// Busy returns true while an instruction is queued, fetching or executing.
func (mc *CPU) Busy() bool {
	return mc.state != stIdle || len(mc.queue) > 0
}

// Reg returns the current value of a CPU register.
func (mc *CPU) Reg(reg int) uint32 {
	return mc.regs[reg]
}

// Fault returns the first execution fault since reset, if any.
func (mc *CPU) Fault() error {
	return mc.fault
}

// setReg writes a register, preserving the hard-wired zero register.
func (mc *CPU) setReg(reg int, value uint32) {
	if reg != RegZero {
		mc.regs[reg] = value
	}
}

func (mc *CPU) retire() {
	mc.retired++
	mc.state = stIdle
}

// Step advances the core by one cycle, asserting its bus lines through the
// supplied pins. The pins are re-driven every cycle; when the core has
// nothing to do all lines rest at idle.
func (mc *CPU) Step(p *mmio.Pins) {
	p.Idle()

	switch mc.state {
	case stIdle:
		if len(mc.queue) == 0 {
			return
		}
		mc.word = mc.queue[0]
		mc.queue = mc.queue[1:]
		mc.state = stFetch
		mc.counter = FetchCycles

	case stFetch:
		mc.counter--
		if mc.counter > 0 {
			return
		}

		ins, ok := decode(mc.word)
		if !ok {
			if mc.fault == nil {
				mc.fault = curated.Errorf(UnsupportedInstruction, mc.word)
			}
			// retire the bad word as a NOP so the feeder does not hang
			mc.retire()
			return
		}

		mc.ins = ins
		mc.counter = 0
		switch ins.op {
		case opStoreWord:
			mc.state = stStore
		case opLoadWord:
			mc.state = stLoad
		default:
			mc.state = stExec
		}

	case stExec:
		switch mc.ins.op {
		case opNop:
			// no effect
		case opAddImm:
			mc.setReg(mc.ins.rd, mc.regs[mc.ins.rs1]+uint32(mc.ins.imm))
		case opLoadUpper:
			mc.setReg(mc.ins.rd, uint32(mc.ins.imm))
		}
		mc.retire()

	case stStore:
		switch mc.counter {
		case 0:
			p.Addr = mc.regs[mc.ins.rs1] + uint32(mc.ins.imm)
			p.WData = mc.regs[mc.ins.rs2]
			p.WriteN = mmio.LineWord
			mc.counter++
		case 1:
			// lines already returned to idle at the top of Step
			mc.retire()
		}

	case stLoad:
		// the load occupies the full read window: the address is held for
		// the window length, the value is sampled once the data lines have
		// settled, and the completion pulse serialises the side effect
		addr := mc.regs[mc.ins.rs1] + uint32(mc.ins.imm)

		switch {
		case mc.counter < 8:
			p.Addr = addr
			p.ReadN = mmio.LineWord
			if mc.counter == 2 {
				mc.loadVal = p.RData
			}
			mc.counter++

		case mc.counter == 8:
			p.Addr = addr
			p.ReadN = mmio.LineWord
			p.ReadComplete = true
			mc.counter++

		default:
			mc.setReg(mc.ins.rd, mc.loadVal)
			mc.retire()
		}
	}
}

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

package hardware

import (
	"fmt"

	"github.com/perivale/perivale/hardware/cpu"
	"github.com/perivale/perivale/hardware/mmio"
	"github.com/perivale/perivale/hardware/peripherals"
	"github.com/perivale/perivale/logger"
)

// SoC is the root of the simulated device: the CPU core, the peripheral
// block and the bus lines between them. It implements the substrate the
// bus drivers operate on.
//
// Step ordering within a cycle is load bearing. The CPU (or the forced
// override lines) asserts first, the peripheral block advances its clocked
// state, and only then are bus writes applied; a write therefore wins over
// any internal tick landing on the same cycle, the RTC increment in
// particular. Read data is latched on the first active cycle of a read
// window and held until the strobe releases, which is what keeps the
// window stable while countdown registers continue to tick underneath.
type SoC struct {
	CPU    *cpu.CPU
	Periph *peripherals.Block

	pins  mmio.Pins
	input uint8

	// read window latch
	latched  bool
	latchVal uint32

	// completion pulse edge detect
	lastComplete bool

	// a watchdog expiry holds the device in reset; the full reboot is
	// applied when the pulse ends
	inReset bool

	cycles uint64
}

// NewSoC is the preferred method of initialisation for the SoC type.
func NewSoC() *SoC {
	s := &SoC{
		CPU:    cpu.NewCPU(),
		Periph: peripherals.NewBlock(),
	}
	s.pins.Idle()
	return s
}

func (s *SoC) String() string {
	return fmt.Sprintf("cycles=%d cpu: %s", s.cycles, s.CPU.String())
}

// Pins returns the bus lines shared with the drivers.
func (s *SoC) Pins() *mmio.Pins {
	return &s.pins
}

// SetInput drives the external input pins. The value holds until the next
// call.
func (s *SoC) SetInput(v uint8) {
	s.input = v
}

// OutputPins returns the current state of the external output pins.
func (s *SoC) OutputPins() uint8 {
	return s.Periph.OutputPins()
}

// Cycles returns the number of cycles stepped since creation.
func (s *SoC) Cycles() uint64 {
	return s.cycles
}

// Reset the device: CPU, peripheral block and bus lines. Equivalent to a
// hardware reset.
func (s *SoC) Reset() {
	s.CPU.Reset()
	s.Periph.Reset()
	s.pins.Idle()
	s.pins.Override = false
	s.latched = false
	s.lastComplete = false
	s.inReset = false
}

// Step advances the device the specified number of cycles.
func (s *SoC) Step(cycles int) {
	for i := 0; i < cycles; i++ {
		s.step()
	}
}

func (s *SoC) step() {
	s.cycles++

	// watchdog reset takes precedence over everything. the device is held
	// quiescent for the duration of the pulse and rebooted as it ends.
	if s.Periph.ResetAsserted() {
		s.inReset = true
		return
	}
	if s.inReset {
		s.inReset = false
		logger.Logf("soc", "watchdog expiry: device reset after %d cycles", s.cycles)
		s.Reset()
		return
	}

	// the CPU drives the bus lines unless the override flag detaches it
	if !s.pins.Override {
		s.CPU.Step(&s.pins)
	}

	// clocked peripheral state advances before bus writes are applied
	s.Periph.Step(s.input)

	slot := mmio.SlotFromAddr(s.pins.Addr)

	if s.pins.WriteN == mmio.LineWord && mmio.IsMMIO(s.pins.Addr) {
		s.Periph.Write(slot, s.pins.WData)
	}

	if s.pins.ReadN == mmio.LineWord {
		if !s.latched {
			if mmio.IsMMIO(s.pins.Addr) {
				s.latchVal = s.Periph.Read(slot)
			} else {
				s.latchVal = mmio.Unmapped
			}
			s.latched = true
		}
		s.pins.RData = s.latchVal

		// the completion pulse serialises the read side effect, exactly
		// once per window
		if s.pins.ReadComplete && !s.lastComplete && mmio.IsMMIO(s.pins.Addr) {
			s.Periph.ReadCompleted(slot)
		}
	} else {
		s.latched = false
	}
	s.lastComplete = s.pins.ReadComplete
}

// PushInstr queues one instruction word for the CPU's fetch pipeline.
func (s *SoC) PushInstr(word uint32) {
	s.CPU.PushInstr(word)
}

// Retired returns the number of instructions the CPU has fully executed.
func (s *SoC) Retired() uint64 {
	return s.CPU.Retired()
}

// Busy returns true while the CPU has an instruction queued, fetching or
// executing.
func (s *SoC) Busy() bool {
	return s.CPU.Busy()
}

// Reg returns the current value of a CPU register.
func (s *SoC) Reg(reg int) uint32 {
	return s.CPU.Reg(reg)
}

// Fault returns the first CPU execution fault since reset, if any.
func (s *SoC) Fault() error {
	return s.CPU.Fault()
}

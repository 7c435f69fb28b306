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

package bus

import (
	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/hardware/cpu"
	"github.com/perivale/perivale/hardware/mmio"
)

// retireBudget is the cycle bound per injected instruction. Generous: the
// longest instruction is a fetch plus a full load window, well under this.
const retireBudget = 64

// Inject is the CPU-path bus driver. It delegates address arithmetic to
// the instruction synthesiser and feeds the resulting words through the
// device's own fetch pipeline; a read's value is extracted from the
// destination register after retirement.
type Inject struct {
	core CPU
}

// NewInject is the preferred method of initialisation for the Inject type.
func NewInject(core CPU) *Inject {
	return &Inject{core: core}
}

func (drv *Inject) String() string {
	return "inject"
}

func (drv *Inject) check() error {
	if drv.core.Pins().Override {
		return curated.Errorf(DriverConflict, "injection attempted while the override lines are forced")
	}
	return nil
}

// exec feeds a sequence of instruction words to the core and steps the
// substrate until all of them have retired. The wait is bounded; a core
// that stops retiring is a fault in the device, not a reason to spin.
func (drv *Inject) exec(words []uint32) error {
	if err := drv.check(); err != nil {
		return err
	}

	target := drv.core.Retired() + uint64(len(words))
	for _, w := range words {
		drv.core.PushInstr(w)
	}

	budget := len(words) * retireBudget
	for c := 0; c < budget; c++ {
		if drv.core.Retired() >= target && !drv.core.Busy() {
			if err := drv.core.Fault(); err != nil {
				return err
			}
			return nil
		}
		drv.core.Step(1)
	}

	return curated.Errorf(InstructionStuck, budget)
}

// Write stores a value to a slot through the CPU: an immediate build of
// the value in the scratch register followed by a store against the base
// register.
func (drv *Inject) Write(slot mmio.Slot, data uint32) error {
	return drv.exec(cpu.SynthWrite32(mmio.Offset(slot), data))
}

// Read loads a slot through the CPU. The load occupies the full read
// window and serialises the completion pulse, exactly as the direct driver
// does; the value lands in the scratch register.
func (drv *Inject) Read(slot mmio.Slot) (uint32, error) {
	if err := drv.exec(cpu.SynthRead32(mmio.Offset(slot))); err != nil {
		return 0, err
	}
	return drv.core.Reg(cpu.RegScratch), nil
}

// Peek through the CPU path is a full Read: a load instruction always
// completes its window, there is no way to sample without the pulse. For
// slots with no read side effect the two are indistinguishable; for the
// side-effecting slots use the Override driver when a true peek is needed.
func (drv *Inject) Peek(slot mmio.Slot) (uint32, error) {
	return drv.Read(slot)
}

// FillerTick injects one NOP and runs it to retirement. The device's
// hidden clocked state advances while the CPU stays in a state the next
// injection can rely on.
func (drv *Inject) FillerTick() (int, error) {
	if err := drv.check(); err != nil {
		return 0, err
	}

	target := drv.core.Retired() + 1
	drv.core.PushInstr(cpu.Nop())

	for c := 0; c < retireBudget; c++ {
		drv.core.Step(1)
		if drv.core.Retired() >= target && !drv.core.Busy() {
			return c + 1, nil
		}
	}

	return retireBudget, curated.Errorf(InstructionStuck, retireBudget)
}

// Release waits for the core to go quiescent. The Inject driver forces
// nothing, so quiescence is all the other driver needs.
func (drv *Inject) Release() error {
	for c := 0; c < retireBudget; c++ {
		if !drv.core.Busy() {
			return nil
		}
		drv.core.Step(1)
	}
	return curated.Errorf(InstructionStuck, retireBudget)
}

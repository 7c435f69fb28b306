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

// Package bus defines the transaction contract between the harness and the
// device under test, and the two drivers that implement it.
//
// The Override driver forces the bus lines directly, cycle by cycle. The
// Inject driver synthesises CPU instructions and lets the device's own CPU
// perform the access. Both present the same Driver interface so that the
// scenario driver and the reference models never know which path is in use.
//
// Only one driver may have live control of the bus at any instant.
// Enabling one fully releases the other's signals first; a violation is a
// DriverConflict error.
package bus

import "github.com/perivale/perivale/hardware/mmio"

// Substrate is the clocked simulation the drivers operate on. Step advances
// the simulation; all state the device exposes is sampled and driven
// through the Pins.
type Substrate interface {
	Step(cycles int)
	Pins() *mmio.Pins
}

// CPU is the additional surface needed by the Inject driver: an instruction
// feed into the device's fetch pipeline and observation of the register
// file after retirement.
type CPU interface {
	Substrate

	// PushInstr queues one instruction word for fetching.
	PushInstr(word uint32)

	// Retired returns the number of instructions fully executed since
	// reset.
	Retired() uint64

	// Busy returns true while an instruction is queued, fetching or
	// executing.
	Busy() bool

	// Reg returns the current value of a CPU register.
	Reg(reg int) uint32

	// Fault returns the first execution fault since reset, if any.
	Fault() error
}

// Driver is the logical bus-transaction contract. Write completes in a
// single device cycle. Read occupies the full multi-cycle read window and
// triggers the slot's read side effect exactly once. Peek samples the slot
// without serialising a completion pulse, so no side effect occurs.
//
// Drivers are synchronous: calls do not return until the transaction's
// cycle count has elapsed on the substrate. In-flight transactions cannot
// be cancelled.
type Driver interface {
	Write(slot mmio.Slot, data uint32) error
	Read(slot mmio.Slot) (uint32, error)
	Peek(slot mmio.Slot) (uint32, error)

	// FillerTick advances the substrate by one unit of idle stimulus that
	// is safe to interleave with transactions. The number of cycles
	// consumed is returned: one for the Override driver, a whole NOP for
	// the Inject driver.
	FillerTick() (int, error)

	// Release any claim the driver has on the bus so the other driver can
	// take over.
	Release() error

	String() string
}

// Error patterns for protocol violations raised by the drivers.
const (
	// a sample taken during a read window differed from the first sample
	ReadWindowInstability = "bus: read window instability: %s: first sample %08x, cycle %d sample %08x"

	// a driver was used while the other had live control of the bus
	DriverConflict = "bus: driver conflict: %s"

	// the CPU did not retire an injected instruction within the budget
	InstructionStuck = "bus: instruction not retired after %d cycles"
)

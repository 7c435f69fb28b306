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

// Package timing coordinates the filler cycles needed to let hidden
// clocked state evolve between bus transactions: countdown registers, the
// RTC, the serial engines. All waits are bounded; a condition that never
// comes true is reported as a stuck engine, never spun on forever.
package timing

import (
	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/hardware/bus"
	"github.com/perivale/perivale/hardware/mmio"
)

// StuckEngine is the error raised when a bounded wait runs out of ticks.
const StuckEngine = "timing: %s: condition not met after %d ticks"

// Manager runs filler stimulus through whichever bus driver is active. The
// unit of a wait is the driver's filler tick, so the CPU's view of the bus
// stays consistent no matter which driver is in use.
type Manager struct {
	drv bus.Driver
}

// NewManager is the preferred method of initialisation for the Manager
// type.
func NewManager(drv bus.Driver) *Manager {
	return &Manager{drv: drv}
}

// Await polls a condition between filler ticks, up to maxTicks of them. An
// error from the condition aborts the wait; exhausting the budget is a
// StuckEngine error.
func (m *Manager) Await(check func() (bool, error), maxTicks int) error {
	for i := 0; i <= maxTicks; i++ {
		ok, err := check()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if _, err := m.drv.FillerTick(); err != nil {
			return err
		}
	}
	return curated.Errorf(StuckEngine, m.drv.String(), maxTicks)
}

// AwaitClear waits until a peek of the slot shows every bit of the mask
// clear. The slot's value at that point is returned. Busy-bit polling is
// the main use, so the sampling is non-serialising: no read side effects
// are triggered by the poll.
func (m *Manager) AwaitClear(slot mmio.Slot, mask uint32, maxTicks int) (uint32, error) {
	var val uint32
	err := m.Await(func() (bool, error) {
		var err error
		val, err = m.drv.Peek(slot)
		if err != nil {
			return false, err
		}
		return val&mask == 0, nil
	}, maxTicks)
	return val, err
}

// AwaitSet waits until a peek of the slot shows every bit of the mask set.
func (m *Manager) AwaitSet(slot mmio.Slot, mask uint32, maxTicks int) (uint32, error) {
	var val uint32
	err := m.Await(func() (bool, error) {
		var err error
		val, err = m.drv.Peek(slot)
		if err != nil {
			return false, err
		}
		return val&mask == mask, nil
	}, maxTicks)
	return val, err
}

// FillFor advances the device by at least the specified number of cycles
// of idle stimulus. The cancel function, if not nil, is consulted between
// ticks; cancellation is not an error. The number of cycles actually
// consumed is returned.
func (m *Manager) FillFor(cycles int, cancel func() bool) (int, error) {
	consumed := 0
	for consumed < cycles {
		if cancel != nil && cancel() {
			return consumed, nil
		}
		n, err := m.drv.FillerTick()
		if err != nil {
			return consumed, err
		}
		consumed += n
	}
	return consumed, nil
}

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

package peripherals

import "fmt"

// Timer is the general-purpose countdown timer. The remaining count
// decrements once per microsecond tick while enabled. Reaching zero raises
// the interrupt line; a reload clears it.
type Timer struct {
	remaining uint32
	enabled   bool
	irq       bool
}

// NewTimer is the preferred method of initialisation for the Timer type.
func NewTimer() *Timer {
	t := &Timer{}
	t.Reset()
	return t
}

func (t *Timer) Reset() {
	t.remaining = 0
	t.enabled = false
	t.irq = false
}

func (t *Timer) String() string {
	return fmt.Sprintf("remaining=%d enabled=%v irq=%v", t.remaining, t.enabled, t.irq)
}

// IRQ is true once the countdown has expired and no reload has occurred.
func (t *Timer) IRQ() bool {
	return t.irq
}

// write reloads the countdown. A zero reload disables the timer; unlike
// the watchdog there is no arming latch.
func (t *Timer) write(data uint32) {
	t.remaining = data
	t.enabled = data != 0
	t.irq = false
}

func (t *Timer) read() uint32 {
	return t.remaining
}

// Tick advances the timer by one microsecond.
func (t *Timer) Tick() {
	if !t.enabled {
		return
	}
	t.remaining--
	if t.remaining == 0 {
		t.enabled = false
		t.irq = true
	}
}

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

// WDTResetCycles is the length of the reset pulse the watchdog holds the
// system in when the countdown expires.
const WDTResetCycles = 32

// Watchdog is the write-once-armed countdown. The first non-zero write
// arms it; after that a zero write is ignored, only a non-zero reload
// changes the count. Expiry asserts the system reset line for a fixed
// number of cycles. Only a hardware reset disarms it.
type Watchdog struct {
	remaining uint32
	armed     bool

	// cycles left of the reset pulse; non-zero means expiry fired
	resetHold int
}

// NewWatchdog is the preferred method of initialisation for the Watchdog
// type.
func NewWatchdog() *Watchdog {
	w := &Watchdog{}
	w.Reset()
	return w
}

func (w *Watchdog) Reset() {
	w.remaining = 0
	w.armed = false
	w.resetHold = 0
}

func (w *Watchdog) String() string {
	return fmt.Sprintf("remaining=%d armed=%v", w.remaining, w.armed)
}

// Armed is true once the watchdog has received its first non-zero reload.
// It never returns to false short of a hardware reset.
func (w *Watchdog) Armed() bool {
	return w.armed
}

// write (re)arms the countdown. Writing zero never disarms: once armed,
// the in-flight count keeps running.
func (w *Watchdog) write(data uint32) {
	if data == 0 {
		return
	}
	w.remaining = data
	w.armed = true
}

func (w *Watchdog) read() uint32 {
	return w.remaining
}

// Tick advances the watchdog by one microsecond. Expiry starts the reset
// pulse.
func (w *Watchdog) Tick() {
	if !w.armed || w.remaining == 0 {
		return
	}
	w.remaining--
	if w.remaining == 0 {
		w.resetHold = WDTResetCycles
	}
}

// ResetAsserted reports whether the watchdog is currently holding the
// system in reset. Called by the system every cycle; the pulse self-clears
// after WDTResetCycles calls.
func (w *Watchdog) ResetAsserted() bool {
	if w.resetHold == 0 {
		return false
	}
	w.resetHold--
	return true
}

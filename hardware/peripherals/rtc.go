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

// usPerSecond is the number of microsecond ticks in one RTC second.
const usPerSecond = 1000000

// RTC is the 32-bit seconds counter. A bus write on the same tick as the
// internal increment must win over the increment; the block guarantees
// this by applying bus writes after Tick in the cycle ordering.
type RTC struct {
	seconds uint32
	usCount uint32
}

// NewRTC is the preferred method of initialisation for the RTC type.
func NewRTC() *RTC {
	r := &RTC{}
	r.Reset()
	return r
}

func (r *RTC) Reset() {
	r.seconds = 0
	r.usCount = 0
}

func (r *RTC) String() string {
	return fmt.Sprintf("seconds=%d", r.seconds)
}

// write sets the seconds counter. The sub-second count restarts so the
// next increment is a full second away.
func (r *RTC) write(data uint32) {
	r.seconds = data
	r.usCount = 0
}

func (r *RTC) read() uint32 {
	return r.seconds
}

// Tick advances the RTC by one microsecond.
func (r *RTC) Tick() {
	r.usCount++
	if r.usCount >= usPerSecond {
		r.usCount = 0
		r.seconds++
	}
}

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

package mmio

// Values for the two-bit write_n/read_n control lines. The block performs
// a 32-bit access when the low bit of the line is clear.
const (
	LineIdle = uint8(0b11)
	LineWord = uint8(0b10)
)

// Pins is the set of bus lines shared between a bus master and the device.
// A master asserts the control lines; the device drives RData.
//
// The layout mirrors the top-level port list of the hardware: an override
// flag that detaches the CPU from the bus, address/data lines, the two-bit
// write and read strobes and the read-completion pulse.
type Pins struct {
	Override     bool
	Addr         uint32
	WData        uint32
	WriteN       uint8
	ReadN        uint8
	ReadComplete bool

	// driven by the device. latched for the duration of a read window.
	RData uint32
}

// Idle returns all control lines to their resting state. The override flag
// is not touched; releasing that is the bus master's decision.
func (p *Pins) Idle() {
	p.Addr = 0
	p.WData = 0
	p.WriteN = LineIdle
	p.ReadN = LineIdle
	p.ReadComplete = false
}

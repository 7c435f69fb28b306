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

// idlePeriphPins is what the internal peripheral functions drive on the
// output pins when nothing interesting is happening. GPIO select bits that
// are clear pass these through.
const idlePeriphPins = uint8(0x55)

// GPIO models the pin multiplexer. Each output pin carries either the
// software-written GPIO value or the corresponding internal peripheral
// function, chosen per-bit by the select register.
type GPIO struct {
	out uint8
	sel uint8
	in  uint8

	// pins driven by the internal peripheral functions this cycle
	periph uint8
}

// NewGPIO is the preferred method of initialisation for the GPIO type.
func NewGPIO() *GPIO {
	g := &GPIO{}
	g.Reset()
	return g
}

func (g *GPIO) Reset() {
	g.out = 0
	g.sel = 0
	g.in = 0
	g.periph = idlePeriphPins
}

func (g *GPIO) String() string {
	return fmt.Sprintf("out=%02x sel=%02x in=%02x", g.out, g.sel, g.in)
}

// SetInput sets the externally driven input pins.
func (g *GPIO) SetInput(v uint8) {
	g.in = v
}

// Input returns the current input pin state.
func (g *GPIO) Input() uint8 {
	return g.in
}

// SetPeriphPins is called by the block each cycle with the values the
// internal peripheral functions want on the output pins.
func (g *GPIO) SetPeriphPins(v uint8) {
	g.periph = v
}

// OutputPins returns the multiplexed output pin state.
func (g *GPIO) OutputPins() uint8 {
	return (g.out & g.sel) | (g.periph &^ g.sel)
}

func (g *GPIO) writeOut(data uint32) {
	g.out = uint8(data)
}

func (g *GPIO) writeSel(data uint32) {
	g.sel = uint8(data)
}

func (g *GPIO) readOut() uint32 {
	return uint32(g.out)
}

func (g *GPIO) readSel() uint32 {
	return uint32(g.sel)
}

func (g *GPIO) readIn() uint32 {
	return uint32(g.in)
}

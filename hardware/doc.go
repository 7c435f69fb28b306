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

// Package hardware is the base package for the device simulation. It and
// its sub-packages contain everything required to stand in for the real
// chip: the CPU core, the peripheral block and the bus lines between them.
//
// The SoC type is the root of the simulation. The harness drives it only
// through the bus package's Substrate and CPU interfaces, so a real
// hardware backend could replace it without the rest of the harness
// noticing.
package hardware

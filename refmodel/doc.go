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

// Package refmodel contains the software oracles that hardware observations
// are compared against: the CRC16-MODBUS algorithm and the seal engine's
// commit/monotonic-counter protocol.
//
// Nothing in this package touches the bus or the clock. The models are
// deliberately independent of the simulation so that a defect in the
// hardware model cannot hide behind shared code.
package refmodel

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

// Package peripherals is the cycle-level model of the peripheral block:
// sixteen register slots behind a common decode. One chip, one file.
//
// The Block type owns the decode and the read-data latch. Peripherals with
// hidden clocked state (the CRC engine, the seal engine, the countdown
// registers, the serial engines) advance in Step; everything else is
// combinational. Read side effects happen only on the read-completion
// pulse, which is what makes repeated reads of a side-effecting slot
// deterministic and exactly-once.
package peripherals

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

// SPIByteCycles is the length of one eight-bit transfer: eight clocks per
// bit at the fixed divider.
const SPIByteCycles = 64

// SPIBusyBit is bit 0 of the SPI_STATUS slot.
const SPIBusyBit = uint32(0x1)

// spiCSPin is the output pin carrying chip select, active low, when the
// pin multiplexer leaves it in peripheral mode.
const spiCSPin = uint8(0x10)

// SPI is the serial master with a loopback-style slave model: each
// transfer shifts out the written byte and shifts in the byte written by
// the previous transfer.
type SPI struct {
	busy int
	tx   uint8
	rx   uint8

	// the byte the slave model will return on the next transfer
	slaveNext uint8
}

// NewSPI is the preferred method of initialisation for the SPI type.
func NewSPI() *SPI {
	s := &SPI{}
	s.Reset()
	return s
}

func (s *SPI) Reset() {
	s.busy = 0
	s.tx = 0
	s.rx = 0
	s.slaveNext = 0
}

func (s *SPI) String() string {
	return fmt.Sprintf("busy=%v rx=%02x", s.busy > 0, s.rx)
}

// Busy is true while a transfer is shifting.
func (s *SPI) Busy() bool {
	return s.busy > 0
}

// writeData starts a transfer. Writes while busy are dropped.
func (s *SPI) writeData(data uint32) {
	if s.busy > 0 {
		return
	}
	s.tx = uint8(data)
	s.busy = SPIByteCycles
}

// readData returns the byte received on the most recent transfer.
func (s *SPI) readData() uint32 {
	return uint32(s.rx)
}

func (s *SPI) readStatus() uint32 {
	if s.busy > 0 {
		return SPIBusyBit
	}
	return 0
}

// Step advances the transfer one cycle. The exchange lands on the final
// cycle.
func (s *SPI) Step() {
	if s.busy == 0 {
		return
	}
	s.busy--
	if s.busy == 0 {
		s.rx = s.slaveNext
		s.slaveNext = s.tx
	}
}

// CSPin returns the chip-select pin state: low while a transfer is in
// flight, high otherwise.
func (s *SPI) CSPin() uint8 {
	if s.busy > 0 {
		return 0
	}
	return spiCSPin
}

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

// ByteCycles is the number of cycles the CRC engine is busy for each byte
// fed to it. The engine processes one bit per cycle.
const ByteCycles = 8

// control bits of the CRC16 slot on write.
const (
	CRCInitBit = uint32(0x100)
)

// status bit of the CRC16 slot on read.
const (
	CRCBusyBit = uint32(1 << 16)
)

// CRC16 is the hardware CRC engine. It is shared: the CRC16 slot writes to
// it directly and the seal engine borrows it for a whole commit. Busy is
// visible to both users, which is what makes the arbitration observable
// from the bus.
type CRC16 struct {
	acc     uint16
	pending uint8
	cycles  int
}

// NewCRC16 is the preferred method of initialisation for the CRC16 type.
func NewCRC16() *CRC16 {
	crc := &CRC16{}
	crc.Reset()
	return crc
}

// Reset the engine to its post-hardware-reset state.
func (crc *CRC16) Reset() {
	crc.acc = 0xffff
	crc.cycles = 0
}

func (crc *CRC16) String() string {
	return fmt.Sprintf("acc=%04x busy=%v", crc.acc, crc.Busy())
}

// Busy is true while a byte is being folded into the accumulator.
func (crc *CRC16) Busy() bool {
	return crc.cycles > 0
}

// Init restarts accumulation. Partial state is discarded even if the
// engine is mid-byte.
func (crc *CRC16) Init() {
	crc.acc = 0xffff
	crc.cycles = 0
}

// Feed one byte into the engine. The byte is accepted only when the engine
// is idle; the return value says whether it was.
func (crc *CRC16) Feed(data uint8) bool {
	if crc.Busy() {
		return false
	}
	crc.pending = data
	crc.cycles = ByteCycles
	return true
}

// Sum returns the current accumulator value. Reads while busy are legal
// and see the accumulator as it was before the in-flight byte.
func (crc *CRC16) Sum() uint16 {
	return crc.acc
}

// Step the engine one cycle. The pending byte lands in the accumulator on
// the final busy cycle.
func (crc *CRC16) Step() {
	if crc.cycles == 0 {
		return
	}

	crc.cycles--
	if crc.cycles > 0 {
		return
	}

	crc.acc ^= uint16(crc.pending)
	for i := 0; i < 8; i++ {
		if crc.acc&0x0001 == 0x0001 {
			crc.acc = crc.acc>>1 ^ 0xa001
		} else {
			crc.acc >>= 1
		}
	}
}

// write handles a bus write to the CRC16 slot: bit 8 is the init pulse,
// bits [7:0] the byte to feed. A byte written while the engine is busy is
// dropped; the init pulse always lands.
func (crc *CRC16) write(data uint32) {
	if data&CRCInitBit == CRCInitBit {
		crc.Init()
		return
	}
	crc.Feed(uint8(data))
}

// read returns the CRC16 slot value: busy flag in bit 16, accumulator in
// bits [15:0].
func (crc *CRC16) read() uint32 {
	v := uint32(crc.acc)
	if crc.Busy() {
		v |= CRCBusyBit
	}
	return v
}

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

package refmodel

// crc16Init is the accumulator value after an init pulse.
const crc16Init = uint16(0xffff)

// crc16Poly is the reflected form of the 0x8005 polynomial.
const crc16Poly = uint16(0xa001)

// CRC16 computes the CRC16-MODBUS checksum of the byte sequence.
func CRC16(data []byte) uint16 {
	crc := NewCRC16()
	crc.Feed(data...)
	return crc.Sum()
}

// CRC16Stream is the streaming form of the CRC16 function. It mirrors the
// hardware engine's lifecycle: an Init restarts accumulation from the init
// value no matter how many bytes have been fed, which is exactly what the
// engine does when the init bit is written mid-stream.
type CRC16Stream struct {
	acc uint16
}

// NewCRC16 is the preferred method of initialisation for the CRC16Stream
// type.
func NewCRC16() *CRC16Stream {
	return &CRC16Stream{acc: crc16Init}
}

// Init restarts accumulation, discarding any partial state.
func (crc *CRC16Stream) Init() {
	crc.acc = crc16Init
}

// Feed the stream with bytes.
func (crc *CRC16Stream) Feed(data ...byte) {
	for _, b := range data {
		crc.acc ^= uint16(b)
		for i := 0; i < 8; i++ {
			if crc.acc&0x0001 == 0x0001 {
				crc.acc = (crc.acc >> 1) ^ crc16Poly
			} else {
				crc.acc >>= 1
			}
		}
	}
}

// Sum returns the current accumulator value.
func (crc *CRC16Stream) Sum() uint16 {
	return crc.acc
}

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

// bits of the I2C_DATA slot. the same bit positions carry command flags on
// write and status flags on read.
const (
	I2CStartBit = uint32(0x400) // write
	I2CStopBit  = uint32(0x200) // write
	I2CReadBit  = uint32(0x100) // write

	I2CRxValidBit = uint32(0x400) // read
	I2CMissAckBit = uint32(0x200) // read
	I2CBusyBit    = uint32(0x100) // read
)

// SHT31Addr is the 7-bit address of the attached temperature/humidity
// sensor model. It is the only responding target on the bus.
const SHT31Addr = uint8(0x44)

// sht31Response is the fixed measurement the sensor model returns:
// temperature, humidity, each with its own checksum byte.
var sht31Response = [6]uint8{0x63, 0x32, 0xa1, 0x8c, 0xa4, 0xdb}

// i2c frame states, applied when the busy countdown reaches zero.
type i2cFrame int

const (
	frameNone i2cFrame = iota
	frameAddr
	frameWrite
	frameRead
)

// I2C is the bit-serial master plus the single attached slave model. Each
// frame on the wire, address or data, is nine bit slots of four prescaled
// quarters; the busy bit holds for the whole frame.
type I2C struct {
	prescale uint16

	busy    int
	frame   i2cFrame
	pending uint8
	stop    bool

	// addressed is true while a transaction to a responding target is
	// open. cleared by a stop flag or an address miss.
	addressed bool
	missAck   bool

	rxValid bool
	rxByte  uint8
	respIdx int
}

// NewI2C is the preferred method of initialisation for the I2C type.
func NewI2C() *I2C {
	i := &I2C{}
	i.Reset()
	return i
}

func (i *I2C) Reset() {
	i.prescale = 0
	i.busy = 0
	i.frame = frameNone
	i.pending = 0
	i.stop = false
	i.addressed = false
	i.missAck = false
	i.rxValid = false
	i.rxByte = 0
	i.respIdx = 0
}

func (i *I2C) String() string {
	return fmt.Sprintf("prescale=%d busy=%v addressed=%v", i.prescale, i.busy > 0, i.addressed)
}

// I2CFrameCycles is the length of one nine-bit frame at the given
// prescale. Bench code that cannot sample the data slot without a
// completion pulse waits this long between commands instead of polling.
func I2CFrameCycles(prescale uint16) int {
	return 9 * 4 * (int(prescale) + 1)
}

// frameCycles is the length of one nine-bit frame at the current prescale.
func (i *I2C) frameCycles() int {
	return I2CFrameCycles(i.prescale)
}

// writeData starts a frame. Commands while busy are dropped; callers poll
// the busy bit between frames.
func (i *I2C) writeData(data uint32) {
	if i.busy > 0 {
		return
	}

	i.stop = data&I2CStopBit == I2CStopBit

	switch {
	case data&I2CStartBit == I2CStartBit:
		i.frame = frameAddr
		i.pending = uint8(data)
		i.missAck = false
	case data&I2CReadBit == I2CReadBit:
		i.frame = frameRead
	default:
		i.frame = frameWrite
		i.pending = uint8(data)
	}

	i.busy = i.frameCycles()
}

// writeConfig sets the clock prescale.
func (i *I2C) writeConfig(data uint32) {
	i.prescale = uint16(data)
}

// readData returns status flags and the most recent received byte.
func (i *I2C) readData() uint32 {
	v := uint32(i.rxByte)
	if i.rxValid {
		v |= I2CRxValidBit
	}
	if i.missAck {
		v |= I2CMissAckBit
	}
	if i.busy > 0 {
		v |= I2CBusyBit
	}
	return v
}

// readDataCompleted consumes the received byte.
func (i *I2C) readDataCompleted() {
	i.rxValid = false
}

func (i *I2C) readConfig() uint32 {
	return uint32(i.prescale)
}

// Step advances the master one cycle. Frame effects land when the busy
// countdown expires.
func (i *I2C) Step() {
	if i.busy == 0 {
		return
	}
	i.busy--
	if i.busy > 0 {
		return
	}

	switch i.frame {
	case frameAddr:
		target := i.pending >> 1
		i.addressed = target == SHT31Addr
		i.missAck = !i.addressed
		if i.addressed {
			i.respIdx = 0
		}
	case frameWrite:
		if !i.addressed {
			i.missAck = true
		}
		// command bytes to the sensor model are accepted and ignored
	case frameRead:
		if i.addressed {
			i.rxByte = sht31Response[i.respIdx%len(sht31Response)]
			i.respIdx++
			i.rxValid = true
		} else {
			i.missAck = true
		}
	}
	i.frame = frameNone

	if i.stop {
		i.addressed = false
		i.stop = false
	}
}

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

// UART timing. 115200 baud from a 25MHz clock is 217 cycles per bit; a
// frame is start bit, eight data bits and a stop bit.
const (
	UARTBitCycles   = 217
	UARTFrameCycles = UARTBitCycles * 10
)

// bits of the UART_STATUS slot.
const (
	UARTTxBusyBit  = uint32(0x1)
	UARTRxValidBit = uint32(0x2)
)

// uartTxPin is the output pin carrying the serial TX line.
const uartTxPin = uint8(0x01)

// UART is the serial port. A write to the data slot starts a frame
// transmission; a completed read of the data slot pops the oldest received
// byte. Writes while transmitting are dropped.
type UART struct {
	txByte   uint8
	txCycles int

	// received bytes awaiting a pop. pushed by external stimulus.
	rx []uint8

	// transmitted frames, oldest first. observed by scenarios.
	sent []uint8
}

// NewUART is the preferred method of initialisation for the UART type.
func NewUART() *UART {
	u := &UART{}
	u.Reset()
	return u
}

func (u *UART) Reset() {
	u.txByte = 0
	u.txCycles = 0
	u.rx = u.rx[:0]
	u.sent = u.sent[:0]
}

func (u *UART) String() string {
	return fmt.Sprintf("txbusy=%v rx=%d sent=%d", u.txCycles > 0, len(u.rx), len(u.sent))
}

// Receive queues a byte as though it arrived on the RX line.
func (u *UART) Receive(b uint8) {
	u.rx = append(u.rx, b)
}

// Sent returns the bytes transmitted since reset, oldest first.
func (u *UART) Sent() []uint8 {
	return u.sent
}

// TxBusy is true while a frame is on the wire.
func (u *UART) TxBusy() bool {
	return u.txCycles > 0
}

func (u *UART) writeData(data uint32) {
	if u.txCycles > 0 {
		return
	}
	u.txByte = uint8(data)
	u.txCycles = UARTFrameCycles
}

// readData returns the oldest received byte without popping it. The pop
// happens on the read-completion pulse.
func (u *UART) readData() uint32 {
	if len(u.rx) == 0 {
		return 0
	}
	return uint32(u.rx[0])
}

// readDataCompleted pops the byte just read.
func (u *UART) readDataCompleted() {
	if len(u.rx) > 0 {
		u.rx = u.rx[1:]
	}
}

func (u *UART) readStatus() uint32 {
	var v uint32
	if u.txCycles > 0 {
		v |= UARTTxBusyBit
	}
	if len(u.rx) > 0 {
		v |= UARTRxValidBit
	}
	return v
}

// Step advances the transmitter one cycle. The frame lands on the final
// cycle.
func (u *UART) Step() {
	if u.txCycles == 0 {
		return
	}
	u.txCycles--
	if u.txCycles == 0 {
		u.sent = append(u.sent, u.txByte)
	}
}

// TxPin returns the state of the TX output pin. High when idle; a crude
// level model of the frame while transmitting, good enough for the pin
// multiplexer.
func (u *UART) TxPin() uint8 {
	if u.txCycles == 0 {
		return uartTxPin
	}
	bit := (UARTFrameCycles - u.txCycles) / UARTBitCycles
	switch {
	case bit == 0: // start bit
		return 0
	case bit <= 8:
		if u.txByte>>(bit-1)&1 == 1 {
			return uartTxPin
		}
		return 0
	default: // stop bit
		return uartTxPin
	}
}

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

import (
	"strings"

	"github.com/perivale/perivale/hardware/mmio"
)

// CyclesPerUS is the number of clock cycles in one microsecond tick. The
// countdown peripherals and the RTC advance on the tick, not the clock.
const CyclesPerUS = 25

// Block is the full peripheral block behind the sixteen defined slots. It
// owns the slot decode, the microsecond divider and the shared CRC engine
// the seal engine borrows.
type Block struct {
	GPIO  *GPIO
	CRC   *CRC16
	UART  *UART
	I2C   *I2C
	SPI   *SPI
	RTC   *RTC
	Seal  *Seal
	Timer *Timer
	WDT   *Watchdog
	Sys   *SysInfo

	usDiv int
}

// NewBlock is the preferred method of initialisation for the Block type.
func NewBlock() *Block {
	b := &Block{
		GPIO:  NewGPIO(),
		CRC:   NewCRC16(),
		UART:  NewUART(),
		I2C:   NewI2C(),
		SPI:   NewSPI(),
		RTC:   NewRTC(),
		Timer: NewTimer(),
		WDT:   NewWatchdog(),
		Sys:   NewSysInfo(),
	}
	b.Seal = NewSeal(b.CRC)
	return b
}

// Reset every peripheral. The microsecond divider restarts.
func (b *Block) Reset() {
	b.GPIO.Reset()
	b.CRC.Reset()
	b.UART.Reset()
	b.I2C.Reset()
	b.SPI.Reset()
	b.RTC.Reset()
	b.Seal.Reset()
	b.Timer.Reset()
	b.WDT.Reset()
	b.Sys.Reset()
	b.usDiv = 0
}

func (b *Block) String() string {
	s := strings.Builder{}
	s.WriteString("gpio: " + b.GPIO.String() + "\n")
	s.WriteString("crc16: " + b.CRC.String() + "\n")
	s.WriteString("uart: " + b.UART.String() + "\n")
	s.WriteString("i2c: " + b.I2C.String() + "\n")
	s.WriteString("spi: " + b.SPI.String() + "\n")
	s.WriteString("rtc: " + b.RTC.String() + "\n")
	s.WriteString("seal: " + b.Seal.String() + "\n")
	s.WriteString("timer: " + b.Timer.String() + "\n")
	s.WriteString("wdt: " + b.WDT.String() + "\n")
	s.WriteString("sysinfo: " + b.Sys.String())
	return s.String()
}

// Read returns the combinational read value of a slot. Undefined slots
// return the all-ones sentinel. No side effects; those wait for the
// completion pulse.
func (b *Block) Read(slot mmio.Slot) uint32 {
	switch slot {
	case mmio.GPIOOut:
		return b.GPIO.readOut()
	case mmio.GPIOIn:
		return b.GPIO.readIn()
	case mmio.CRC16:
		return b.CRC.read()
	case mmio.GPIOOutSel:
		return b.GPIO.readSel()
	case mmio.UART:
		return b.UART.readData()
	case mmio.UARTStatus:
		return b.UART.readStatus()
	case mmio.I2CData:
		return b.I2C.readData()
	case mmio.I2CConfig:
		return b.I2C.readConfig()
	case mmio.SPI:
		return b.SPI.readData()
	case mmio.SPIStatus:
		return b.SPI.readStatus()
	case mmio.RTC:
		return b.RTC.read()
	case mmio.SealData:
		return b.Seal.readData()
	case mmio.Timer:
		return b.Timer.read()
	case mmio.WDT:
		return b.WDT.read()
	case mmio.SealCtrl:
		return b.Seal.readCtrl()
	case mmio.SysInfo:
		return b.Sys.read()
	}
	return mmio.Unmapped
}

// ReadCompleted applies the read side effect of a slot, if it has one.
// Called exactly once per completed read, on the completion pulse.
func (b *Block) ReadCompleted(slot mmio.Slot) {
	switch slot {
	case mmio.UART:
		b.UART.readDataCompleted()
	case mmio.I2CData:
		b.I2C.readDataCompleted()
	case mmio.SealData:
		b.Seal.readDataCompleted()
	}
}

// Write applies a single-cycle write to a slot. Writes to undefined or
// read-only slots are dropped.
func (b *Block) Write(slot mmio.Slot, data uint32) {
	switch slot {
	case mmio.GPIOOut:
		b.GPIO.writeOut(data)
	case mmio.CRC16:
		b.CRC.write(data)
	case mmio.GPIOOutSel:
		b.GPIO.writeSel(data)
	case mmio.UART:
		b.UART.writeData(data)
	case mmio.I2CData:
		b.I2C.writeData(data)
	case mmio.I2CConfig:
		b.I2C.writeConfig(data)
	case mmio.SPI:
		b.SPI.writeData(data)
	case mmio.RTC:
		b.RTC.write(data)
	case mmio.SealData:
		b.Seal.writeData(data)
	case mmio.Timer:
		b.Timer.write(data)
	case mmio.WDT:
		b.WDT.write(data)
	case mmio.SealCtrl:
		b.Seal.writeCtrl(data)
	}
}

// Step advances the block one clock cycle. input is the state of the
// external input pins this cycle. Bus writes for the same cycle must be
// applied after Step returns so they win over internal ticks, the RTC in
// particular.
func (b *Block) Step(input uint8) {
	b.GPIO.SetInput(input)
	b.Sys.Sense(input)

	b.CRC.Step()
	b.Seal.Step()
	b.UART.Step()
	b.I2C.Step()
	b.SPI.Step()

	b.usDiv++
	if b.usDiv >= CyclesPerUS {
		b.usDiv = 0
		b.Timer.Tick()
		b.WDT.Tick()
		b.RTC.Tick()
	}

	periph := idlePeriphPins&^(uartTxPin|spiCSPin) | b.UART.TxPin() | b.SPI.CSPin()
	b.GPIO.SetPeriphPins(periph)
}

// OutputPins returns the multiplexed output pin state.
func (b *Block) OutputPins() uint8 {
	return b.GPIO.OutputPins()
}

// ResetAsserted reports whether the watchdog is holding the system in
// reset this cycle.
func (b *Block) ResetAsserted() bool {
	return b.WDT.ResetAsserted()
}

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

package peripherals_test

import (
	"testing"

	"github.com/perivale/perivale/hardware/mmio"
	"github.com/perivale/perivale/hardware/peripherals"
	"github.com/perivale/perivale/refmodel"
	"github.com/perivale/perivale/test"
)

// step the block n cycles with idle input pins.
func step(b *peripherals.Block, n int) {
	for i := 0; i < n; i++ {
		b.Step(0)
	}
}

// feed a byte through the CRC16 slot, waiting out the busy cycles.
func feedByte(b *peripherals.Block, v uint8) {
	step(b, 1)
	b.Write(mmio.CRC16, uint32(v))
	step(b, peripherals.ByteCycles)
}

func TestCRC16AgainstModel(t *testing.T) {
	b := peripherals.NewBlock()

	data := []uint8{0x01, 0x03, 0x00, 0x00, 0x00, 0x0a}

	b.Write(mmio.CRC16, peripherals.CRCInitBit)
	for _, v := range data {
		feedByte(b, v)
	}

	test.Equate(t, b.Read(mmio.CRC16), 0xcdc5)
	test.Equate(t, b.Read(mmio.CRC16), uint32(refmodel.CRC16(data)))
}

func TestCRC16BusyVisible(t *testing.T) {
	b := peripherals.NewBlock()

	b.Write(mmio.CRC16, peripherals.CRCInitBit)
	b.Write(mmio.CRC16, 0x55)

	// mid-byte: busy flag set, accumulator still at init value
	step(b, peripherals.ByteCycles/2)
	v := b.Read(mmio.CRC16)
	test.Equate(t, v&peripherals.CRCBusyBit, peripherals.CRCBusyBit)
	test.Equate(t, v&0xffff, 0xffff)

	step(b, peripherals.ByteCycles/2)
	v = b.Read(mmio.CRC16)
	test.Equate(t, v&peripherals.CRCBusyBit, 0)
	test.Equate(t, v&0xffff, 0x7f7f)
}

func TestCRC16InitMidStream(t *testing.T) {
	b := peripherals.NewBlock()

	b.Write(mmio.CRC16, peripherals.CRCInitBit)
	b.Write(mmio.CRC16, 0xde)
	step(b, 3)

	// re-init while the engine is still chewing on the byte. partial
	// state must be discarded.
	b.Write(mmio.CRC16, peripherals.CRCInitBit)
	step(b, peripherals.ByteCycles)
	test.Equate(t, b.Read(mmio.CRC16), 0xffff)

	feedByte(b, 0x00)
	test.Equate(t, b.Read(mmio.CRC16), 0x40bf)
}

// commit a seal and wait for the engine to go idle.
func commitSeal(t *testing.T, b *peripherals.Block, sensorID uint8, value uint32) {
	t.Helper()

	b.Write(mmio.SealData, value)
	b.Write(mmio.SealCtrl, peripherals.SealCommitBit|uint32(sensorID)<<2)

	for i := 0; i < 1000; i++ {
		if b.Read(mmio.SealCtrl)&peripherals.SealBusyBit == 0 && !b.Seal.Busy() {
			return
		}
		step(b, 1)
	}
	t.Fatal("seal engine stuck busy")
}

// read the three words of the seal read sequence, applying the completion
// side effect between words.
func readSealWords(b *peripherals.Block) [3]uint32 {
	var w [3]uint32
	for i := range w {
		w[i] = b.Read(mmio.SealData)
		b.ReadCompleted(mmio.SealData)
	}
	return w
}

func TestSealCommit(t *testing.T) {
	b := peripherals.NewBlock()

	commitSeal(t, b, 0xaa, 0x00000000)
	rec := refmodel.DecodeWords(readSealWords(b))
	test.Equate(t, rec.SensorID, 0xaa)
	test.Equate(t, rec.Value, 0)
	test.Equate(t, rec.MonoCount, 0)
	test.Equate(t, rec.CRC, 0x578c)

	commitSeal(t, b, 0xff, 0xffffffff)
	rec = refmodel.DecodeWords(readSealWords(b))
	test.Equate(t, rec.MonoCount, 1)
	test.Equate(t, rec.CRC, 0xe80e)
}

func TestSealMonotonicSequence(t *testing.T) {
	b := peripherals.NewBlock()

	for i := 0; i < 10; i++ {
		commitSeal(t, b, 0x00, uint32(i)*0x01010101)
		rec := refmodel.DecodeWords(readSealWords(b))
		test.Equate(t, rec.MonoCount, i)

		model := refmodel.NewSeal()
		for j := 0; j <= i; j++ {
			model.Commit(0x00, uint32(j)*0x01010101)
		}
	}
}

func TestSealReadSequenceWraps(t *testing.T) {
	b := peripherals.NewBlock()

	commitSeal(t, b, 0x5a, 0xcafef00d)
	w := readSealWords(b)

	// a fourth completed read is back at the first word
	test.Equate(t, b.Read(mmio.SealData), w[0])
	b.ReadCompleted(mmio.SealData)
	test.Equate(t, b.Read(mmio.SealData), w[1])

	rec := refmodel.DecodeWords(w)
	want := refmodel.NewSeal().Commit(0x5a, 0xcafef00d)
	test.Equate(t, rec.CRC, want.CRC)
}

func TestUnmappedSlots(t *testing.T) {
	b := peripherals.NewBlock()
	for slot := mmio.Slot(16); slot < mmio.NumSlots; slot++ {
		test.Equate(t, b.Read(slot), mmio.Unmapped)
	}
}

func TestGPIOMux(t *testing.T) {
	b := peripherals.NewBlock()
	step(b, 1)

	// all pins in peripheral mode after reset. CS is high, TX is high.
	test.Equate(t, b.OutputPins()&0x10, 0x10)
	test.Equate(t, b.OutputPins()&0x01, 0x01)

	// all pins to GPIO mode
	b.Write(mmio.GPIOOutSel, 0xff)
	b.Write(mmio.GPIOOut, 0xc3)
	step(b, 1)
	test.Equate(t, b.OutputPins(), 0xc3)
	test.Equate(t, b.Read(mmio.GPIOOut), 0xc3)

	// only CS pin to GPIO mode, driven low
	b.Write(mmio.GPIOOutSel, 0x10)
	b.Write(mmio.GPIOOut, 0x00)
	step(b, 1)
	test.Equate(t, b.OutputPins()&0x10, 0)
}

func TestGPIOInput(t *testing.T) {
	b := peripherals.NewBlock()
	b.Step(0x3c)
	test.Equate(t, b.Read(mmio.GPIOIn), 0x3c)
}

func TestTimerCountdown(t *testing.T) {
	b := peripherals.NewBlock()

	b.Write(mmio.Timer, 5)
	test.Equate(t, b.Read(mmio.Timer), 5)

	step(b, peripherals.CyclesPerUS*3)
	test.Equate(t, b.Read(mmio.Timer), 2)
	test.Equate(t, b.Timer.IRQ(), false)

	step(b, peripherals.CyclesPerUS*2)
	test.Equate(t, b.Read(mmio.Timer), 0)
	test.Equate(t, b.Timer.IRQ(), true)

	// reload clears the interrupt
	b.Write(mmio.Timer, 10)
	test.Equate(t, b.Timer.IRQ(), false)
}

func TestWatchdogIrreversible(t *testing.T) {
	b := peripherals.NewBlock()
	test.Equate(t, b.WDT.Armed(), false)

	b.Write(mmio.WDT, 100)
	test.Equate(t, b.WDT.Armed(), true)

	// zero write never disarms and never touches the count
	b.Write(mmio.WDT, 0)
	test.Equate(t, b.WDT.Armed(), true)
	test.Equate(t, b.Read(mmio.WDT), 100)

	step(b, peripherals.CyclesPerUS*10)
	test.Equate(t, b.Read(mmio.WDT), 90)

	// non-zero reload changes the count
	b.Write(mmio.WDT, 50)
	test.Equate(t, b.Read(mmio.WDT), 50)
}

func TestWatchdogExpiry(t *testing.T) {
	b := peripherals.NewBlock()

	b.Write(mmio.WDT, 2)
	step(b, peripherals.CyclesPerUS*2)
	test.Equate(t, b.Read(mmio.WDT), 0)

	// reset pulse holds for the fixed cycle count and then clears
	for i := 0; i < peripherals.WDTResetCycles; i++ {
		test.Equate(t, b.ResetAsserted(), true)
	}
	test.Equate(t, b.ResetAsserted(), false)
}

func TestRTCIncrement(t *testing.T) {
	b := peripherals.NewBlock()

	b.Write(mmio.RTC, 1000)
	test.Equate(t, b.Read(mmio.RTC), 1000)

	// one full second of microsecond ticks
	for i := 0; i < 1000000; i++ {
		b.RTC.Tick()
	}
	test.Equate(t, b.Read(mmio.RTC), 1001)
}

func TestRTCWritePriority(t *testing.T) {
	b := peripherals.NewBlock()

	// the block contract: a write applied after Step in the same cycle
	// wins over the internal increment
	b.RTC.Tick()
	b.Write(mmio.RTC, 42)
	test.Equate(t, b.Read(mmio.RTC), 42)
}

func TestSysInfoIdentity(t *testing.T) {
	b := peripherals.NewBlock()
	v := b.Read(mmio.SysInfo)
	test.Equate(t, v&0xff, 0x10)
	test.Equate(t, v>>8&0xff, 0x01)
	test.Equate(t, v>>16, 0)
}

func TestSysInfoPPSCount(t *testing.T) {
	b := peripherals.NewBlock()

	// three rising edges on the PPS pin. a held level is one edge.
	for i := 0; i < 3; i++ {
		b.Step(0x10)
		b.Step(0x10)
		b.Step(0x00)
	}
	test.Equate(t, b.Read(mmio.SysInfo)>>16, 3)
}

func TestUARTTransmit(t *testing.T) {
	b := peripherals.NewBlock()

	b.Write(mmio.UART, 0x41)
	test.Equate(t, b.Read(mmio.UARTStatus)&peripherals.UARTTxBusyBit, peripherals.UARTTxBusyBit)

	// a write while transmitting is dropped
	b.Write(mmio.UART, 0x42)

	step(b, peripherals.UARTFrameCycles)
	test.Equate(t, b.Read(mmio.UARTStatus)&peripherals.UARTTxBusyBit, 0)

	sent := b.UART.Sent()
	test.Equate(t, len(sent), 1)
	test.Equate(t, sent[0], 0x41)
}

func TestUARTReceivePop(t *testing.T) {
	b := peripherals.NewBlock()

	b.UART.Receive(0x11)
	b.UART.Receive(0x22)

	test.Equate(t, b.Read(mmio.UARTStatus)&peripherals.UARTRxValidBit, peripherals.UARTRxValidBit)

	// repeated reads without a completion pulse see the same byte
	test.Equate(t, b.Read(mmio.UART), 0x11)
	test.Equate(t, b.Read(mmio.UART), 0x11)

	b.ReadCompleted(mmio.UART)
	test.Equate(t, b.Read(mmio.UART), 0x22)
	b.ReadCompleted(mmio.UART)
	test.Equate(t, b.Read(mmio.UARTStatus)&peripherals.UARTRxValidBit, 0)
}

// run an I2C frame to completion, with a bound on the busy poll.
func i2cFrame(t *testing.T, b *peripherals.Block, data uint32) uint32 {
	t.Helper()

	b.Write(mmio.I2CData, data)
	for i := 0; i < 100000; i++ {
		v := b.Read(mmio.I2CData)
		if v&peripherals.I2CBusyBit == 0 {
			return v
		}
		step(b, 1)
	}
	t.Fatal("i2c stuck busy")
	return 0
}

func TestI2CSensorRead(t *testing.T) {
	b := peripherals.NewBlock()
	b.Write(mmio.I2CConfig, 2)
	test.Equate(t, b.Read(mmio.I2CConfig), 2)

	// address the sensor for reading
	addr := uint32(peripherals.SHT31Addr)<<1 | 1
	v := i2cFrame(t, b, peripherals.I2CStartBit|addr)
	test.Equate(t, v&peripherals.I2CMissAckBit, 0)

	// six measurement bytes
	want := []uint32{0x63, 0x32, 0xa1, 0x8c, 0xa4, 0xdb}
	for _, w := range want {
		v = i2cFrame(t, b, peripherals.I2CReadBit)
		test.Equate(t, v&peripherals.I2CRxValidBit, peripherals.I2CRxValidBit)
		test.Equate(t, v&0xff, w)
		b.ReadCompleted(mmio.I2CData)
	}
}

func TestI2CNack(t *testing.T) {
	b := peripherals.NewBlock()
	b.Write(mmio.I2CConfig, 2)

	// nobody home at 0x77
	v := i2cFrame(t, b, peripherals.I2CStartBit|peripherals.I2CStopBit|0x77<<1)
	test.Equate(t, v&peripherals.I2CMissAckBit, peripherals.I2CMissAckBit)
}

func TestSPITransfer(t *testing.T) {
	b := peripherals.NewBlock()

	b.Write(mmio.SPI, 0x9c)
	test.Equate(t, b.Read(mmio.SPIStatus)&peripherals.SPIBusyBit, peripherals.SPIBusyBit)

	// CS low while shifting
	step(b, 1)
	test.Equate(t, b.OutputPins()&0x10, 0)

	step(b, peripherals.SPIByteCycles)
	test.Equate(t, b.Read(mmio.SPIStatus)&peripherals.SPIBusyBit, 0)

	// the slave echoes the previous transfer's byte
	b.Write(mmio.SPI, 0x01)
	step(b, peripherals.SPIByteCycles)
	test.Equate(t, b.Read(mmio.SPI), 0x9c)
}

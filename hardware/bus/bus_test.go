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

package bus_test

import (
	"testing"

	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/hardware"
	"github.com/perivale/perivale/hardware/bus"
	"github.com/perivale/perivale/hardware/mmio"
	"github.com/perivale/perivale/test"
)

func TestOverrideWriteRead(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewOverride(soc)

	err := drv.Write(mmio.GPIOOutSel, 0xff)
	test.ExpectedSuccess(t, err)
	err = drv.Write(mmio.GPIOOut, 0x5a)
	test.ExpectedSuccess(t, err)

	v, err := drv.Read(mmio.GPIOOut)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, 0x5a)
}

func TestOverrideUnmapped(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewOverride(soc)

	for slot := mmio.Slot(16); slot < mmio.NumSlots; slot++ {
		v, err := drv.Read(slot)
		test.ExpectedSuccess(t, err)
		test.Equate(t, v, mmio.Unmapped)
	}
}

func TestOverridePeekNoSideEffect(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewOverride(soc)

	soc.Periph.UART.Receive(0x11)
	soc.Periph.UART.Receive(0x22)

	// peeks do not pop the queue
	v, err := drv.Peek(mmio.UART)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, 0x11)
	v, err = drv.Peek(mmio.UART)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, 0x11)

	// a full read does
	v, err = drv.Read(mmio.UART)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, 0x11)
	v, err = drv.Read(mmio.UART)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, 0x22)
}

func TestOverrideReadWindowStability(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewOverride(soc)

	// a countdown register ticking underneath the window must still read
	// stable. the timer decrements every microsecond, well inside the
	// window length at 25 cycles each.
	err := drv.Write(mmio.Timer, 1000)
	test.ExpectedSuccess(t, err)

	for i := 0; i < 50; i++ {
		_, err := drv.Read(mmio.Timer)
		test.ExpectedSuccess(t, err)
	}
}

// unstable is a substrate whose read data changes mid-window.
type unstable struct {
	pins  mmio.Pins
	count uint32
}

func (u *unstable) Step(cycles int) {
	for i := 0; i < cycles; i++ {
		if u.pins.ReadN == mmio.LineWord {
			u.pins.RData = u.count
			u.count++
		}
	}
}

func (u *unstable) Pins() *mmio.Pins {
	return &u.pins
}

func TestOverrideRuleBViolation(t *testing.T) {
	drv := bus.NewOverride(&unstable{})

	_, err := drv.Read(mmio.GPIOOut)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, bus.ReadWindowInstability))
}

func TestInjectWriteRead(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewInject(soc)

	// a value whose low 12 bits read as negative exercises the corrected
	// immediate split end to end
	err := drv.Write(mmio.SealData, 0xdeadbeef)
	test.ExpectedSuccess(t, err)

	v, err := drv.Read(mmio.SealData)
	test.ExpectedSuccess(t, err)

	// nothing committed yet so the slot reads zero; the value is staged,
	// not readable. read something with a defined readback instead.
	test.Equate(t, v, 0)

	err = drv.Write(mmio.GPIOOutSel, 0xff)
	test.ExpectedSuccess(t, err)
	err = drv.Write(mmio.GPIOOut, 0xa5)
	test.ExpectedSuccess(t, err)
	v, err = drv.Read(mmio.GPIOOut)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, 0xa5)
}

func TestInjectFullRange(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewInject(soc)

	vals := []uint32{0x00000000, 0x000007ff, 0x00000800, 0x12345678, 0xdeadbeef, 0xffffffff}
	for _, v := range vals {
		err := drv.Write(mmio.RTC, v)
		test.ExpectedSuccess(t, err)
		got, err := drv.Read(mmio.RTC)
		test.ExpectedSuccess(t, err)
		test.Equate(t, got, v)
	}
}

func TestInjectUnmapped(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewInject(soc)

	v, err := drv.Read(mmio.Slot(23))
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, mmio.Unmapped)
}

func TestDriverExclusivity(t *testing.T) {
	soc := hardware.NewSoC()
	ovr := bus.NewOverride(soc)
	inj := bus.NewInject(soc)

	// injection while the override lines are forced is a conflict
	err := ovr.Write(mmio.GPIOOut, 0x01)
	test.ExpectedSuccess(t, err)
	err = inj.Write(mmio.GPIOOut, 0x02)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, bus.DriverConflict))

	// after release the injection path works
	err = ovr.Release()
	test.ExpectedSuccess(t, err)
	err = inj.Write(mmio.GPIOOut, 0x02)
	test.ExpectedSuccess(t, err)

	// and the override path can take over again
	err = inj.Release()
	test.ExpectedSuccess(t, err)
	v, err := ovr.Read(mmio.GPIOOut)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, 0x02)
}

func TestDriverHandoverBothDirections(t *testing.T) {
	soc := hardware.NewSoC()
	ovr := bus.NewOverride(soc)
	inj := bus.NewInject(soc)

	drivers := []bus.Driver{ovr, inj, ovr, inj}
	for i, drv := range drivers {
		err := drv.Write(mmio.GPIOOut, uint32(i))
		test.ExpectedSuccess(t, err)
		v, err := drv.Read(mmio.GPIOOut)
		test.ExpectedSuccess(t, err)
		test.Equate(t, v, uint32(i))
		err = drv.Release()
		test.ExpectedSuccess(t, err)
	}
}

func TestFillerTick(t *testing.T) {
	soc := hardware.NewSoC()

	ovr := bus.NewOverride(soc)
	n, err := ovr.FillerTick()
	test.ExpectedSuccess(t, err)
	test.Equate(t, n, 1)
	err = ovr.Release()
	test.ExpectedSuccess(t, err)

	inj := bus.NewInject(soc)
	n, err = inj.FillerTick()
	test.ExpectedSuccess(t, err)
	test.ExpectedSuccess(t, n > 1)
}

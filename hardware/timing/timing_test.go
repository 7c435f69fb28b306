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

package timing_test

import (
	"testing"

	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/hardware"
	"github.com/perivale/perivale/hardware/bus"
	"github.com/perivale/perivale/hardware/mmio"
	"github.com/perivale/perivale/hardware/peripherals"
	"github.com/perivale/perivale/hardware/timing"
	"github.com/perivale/perivale/test"
)

func TestAwaitBounded(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewOverride(soc)
	mgr := timing.NewManager(drv)

	// a condition that never comes true must be reported, not spun on
	err := mgr.Await(func() (bool, error) { return false, nil }, 100)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, timing.StuckEngine))

	// an immediately true condition consumes nothing
	cycles := soc.Cycles()
	err = mgr.Await(func() (bool, error) { return true, nil }, 100)
	test.ExpectedSuccess(t, err)
	test.Equate(t, soc.Cycles(), cycles)
}

func TestAwaitClearBusy(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewOverride(soc)
	mgr := timing.NewManager(drv)

	err := drv.Write(mmio.CRC16, peripherals.CRCInitBit)
	test.ExpectedSuccess(t, err)
	err = drv.Write(mmio.CRC16, 0xaa)
	test.ExpectedSuccess(t, err)

	v, err := mgr.AwaitClear(mmio.CRC16, peripherals.CRCBusyBit, 100)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v&0xffff, 0x3f3f)
}

func TestFillForTimer(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewOverride(soc)
	mgr := timing.NewManager(drv)

	err := drv.Write(mmio.Timer, 100)
	test.ExpectedSuccess(t, err)

	// ten microseconds of filler
	n, err := mgr.FillFor(peripherals.CyclesPerUS*10, nil)
	test.ExpectedSuccess(t, err)
	test.Equate(t, n, peripherals.CyclesPerUS*10)

	v, err := drv.Read(mmio.Timer)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v, 90)
}

func TestFillForCancel(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewOverride(soc)
	mgr := timing.NewManager(drv)

	count := 0
	n, err := mgr.FillFor(1000, func() bool {
		count++
		return count > 10
	})
	test.ExpectedSuccess(t, err)
	test.Equate(t, n, 10)
}

// the Inject driver cannot sample a slot without a completion pulse, so a
// busy-poll of a side-effecting slot would consume its state. filler waits
// sized by the frame length leave the received byte in place for the one
// read that wants it.
func TestFillerWaitPreservesReceivedByte(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewInject(soc)
	mgr := timing.NewManager(drv)

	wait := peripherals.I2CFrameCycles(0) + 8

	err := drv.Write(mmio.I2CConfig, 0)
	test.ExpectedSuccess(t, err)

	addr := uint32(peripherals.SHT31Addr)<<1 | 1
	err = drv.Write(mmio.I2CData, peripherals.I2CStartBit|addr)
	test.ExpectedSuccess(t, err)
	_, err = mgr.FillFor(wait, nil)
	test.ExpectedSuccess(t, err)

	err = drv.Write(mmio.I2CData, peripherals.I2CReadBit)
	test.ExpectedSuccess(t, err)
	_, err = mgr.FillFor(wait, nil)
	test.ExpectedSuccess(t, err)

	v, err := drv.Read(mmio.I2CData)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v&peripherals.I2CBusyBit, 0)
	test.Equate(t, v&peripherals.I2CRxValidBit, peripherals.I2CRxValidBit)
	test.Equate(t, v&0xff, 0x63)
}

func TestAwaitThroughInjectDriver(t *testing.T) {
	soc := hardware.NewSoC()
	drv := bus.NewInject(soc)
	mgr := timing.NewManager(drv)

	err := drv.Write(mmio.CRC16, peripherals.CRCInitBit)
	test.ExpectedSuccess(t, err)
	err = drv.Write(mmio.CRC16, 0x55)
	test.ExpectedSuccess(t, err)

	v, err := mgr.AwaitClear(mmio.CRC16, peripherals.CRCBusyBit, 100)
	test.ExpectedSuccess(t, err)
	test.Equate(t, v&0xffff, 0x7f7f)
}

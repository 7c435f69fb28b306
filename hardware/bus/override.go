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

package bus

import (
	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/hardware/mmio"
)

// cycle counts of the bit-serial read protocol. the address must be held
// for forceCycles before the read data is considered valid and for
// holdCycles after, followed by a one-cycle completion pulse and a
// one-cycle release.
const (
	forceCycles = 2
	holdCycles  = 6
)

// Override is the direct bus driver. It forces the device's bus lines for
// exactly the protocol's cycle counts and leaves every line de-asserted
// when idle so the CPU driver can take over.
type Override struct {
	sub Substrate

	// enabled reflects the state of the override pin as asserted by this
	// driver
	enabled bool
}

// NewOverride is the preferred method of initialisation for the Override
// type.
func NewOverride(sub Substrate) *Override {
	return &Override{sub: sub}
}

func (drv *Override) String() string {
	return "override"
}

// Enable takes control of the bus. If the substrate has a CPU the CPU must
// be quiescent; taking the bus mid-instruction would corrupt the fetch
// state.
func (drv *Override) Enable() error {
	if c, ok := drv.sub.(CPU); ok && c.Busy() {
		return curated.Errorf(DriverConflict, "override enabled while CPU is mid-instruction")
	}

	p := drv.sub.Pins()
	p.Override = true
	p.Idle()
	drv.sub.Step(1)
	drv.enabled = true

	return nil
}

// Release returns control of the bus to the CPU. All forced lines are
// de-asserted. Two cycles are allowed for the release to settle.
func (drv *Override) Release() error {
	p := drv.sub.Pins()
	p.Idle()
	p.Override = false
	drv.sub.Step(2)
	drv.enabled = false
	return nil
}

func (drv *Override) check() error {
	if !drv.enabled {
		if err := drv.Enable(); err != nil {
			return err
		}
	}
	return nil
}

// Write performs a single-cycle bus write.
func (drv *Override) Write(slot mmio.Slot, data uint32) error {
	if err := drv.check(); err != nil {
		return err
	}

	p := drv.sub.Pins()
	p.Addr = mmio.Addr(slot)
	p.WData = data
	p.WriteN = mmio.LineWord
	p.ReadN = mmio.LineIdle
	drv.sub.Step(1)

	p.WriteN = mmio.LineIdle
	drv.sub.Step(1)

	return nil
}

// Read performs a full bit-serial read: the window is held for the
// protocol's cycle count, every intra-window sample is checked against the
// first (Rule B) and the completion pulse triggers the slot's read side
// effect exactly once.
func (drv *Override) Read(slot mmio.Slot) (uint32, error) {
	if err := drv.check(); err != nil {
		return 0, err
	}

	p := drv.sub.Pins()
	p.Addr = mmio.Addr(slot)
	p.WriteN = mmio.LineIdle
	p.ReadN = mmio.LineWord
	drv.sub.Step(forceCycles)

	val := p.RData

	// hold the window, sampling every cycle. any divergence from the first
	// sample is a protocol violation, not something to be tolerated.
	for i := 0; i < holdCycles; i++ {
		drv.sub.Step(1)
		if p.RData != val {
			p.ReadN = mmio.LineIdle
			drv.sub.Step(1)
			return 0, curated.Errorf(ReadWindowInstability, slot, val, forceCycles+i+1, p.RData)
		}
	}

	// completion pulse
	p.ReadComplete = true
	drv.sub.Step(1)
	p.ReadComplete = false

	// release
	p.ReadN = mmio.LineIdle
	drv.sub.Step(1)

	return val, nil
}

// Peek samples a slot without the completion pulse. No side effect occurs:
// queue slots do not pop and the seal sequence does not advance.
func (drv *Override) Peek(slot mmio.Slot) (uint32, error) {
	if err := drv.check(); err != nil {
		return 0, err
	}

	p := drv.sub.Pins()
	p.Addr = mmio.Addr(slot)
	p.WriteN = mmio.LineIdle
	p.ReadN = mmio.LineWord
	drv.sub.Step(forceCycles)

	val := p.RData

	p.ReadN = mmio.LineIdle
	drv.sub.Step(1)

	return val, nil
}

// FillerTick advances the substrate by one idle cycle. With the override
// lines quiet the device's hidden clocked state advances normally.
func (drv *Override) FillerTick() (int, error) {
	if err := drv.check(); err != nil {
		return 0, err
	}

	drv.sub.Pins().Idle()
	drv.sub.Step(1)
	return 1, nil
}

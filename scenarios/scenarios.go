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

// Package scenarios sequences bus transactions against the device and
// compares everything observed with the reference models. A disagreement
// between model and device is the harness's primary defect-detection
// signal and is always fatal to the enclosing scenario.
//
// Scenarios are oblivious to which bus driver is active; the same list
// runs over the direct-override path and the CPU-injection path.
package scenarios

import (
	"fmt"

	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/hardware"
	"github.com/perivale/perivale/hardware/bus"
	"github.com/perivale/perivale/hardware/timing"
	"github.com/perivale/perivale/logger"
	"github.com/perivale/perivale/random"
)

// Error patterns raised by the package.
const (
	// the reference model and the observed device output disagree
	DecodeMismatch = "scenario: decode mismatch: %s: observed %08x, model %08x"

	// a named driver selection that doesn't exist
	UnknownDriver = "scenario: unknown driver: %s"
)

// maxAwait is the default retry budget for busy polls, in filler ticks.
const maxAwait = 2000

// Context is everything a scenario needs: the device, the active bus
// driver, the timing manager wrapped around it, and the scenario's own
// random source. The source is passed explicitly so that two runs with
// the same seed are bit-for-bit reproducible regardless of scenario
// order.
type Context struct {
	SoC *hardware.SoC
	Drv bus.Driver
	Mgr *timing.Manager
	Rnd *random.Random
}

// Scenario is one named sequence of transactions and checks.
type Scenario struct {
	Name string
	Run  func(ctx *Context) error
}

// Driver names accepted by NewContext.
const (
	DriverOverride = "override"
	DriverInject   = "inject"
)

// NewContext builds a fresh device and attaches the named bus driver to
// it.
func NewContext(driver string, rnd *random.Random) (*Context, error) {
	soc := hardware.NewSoC()

	var drv bus.Driver
	switch driver {
	case DriverOverride:
		drv = bus.NewOverride(soc)
	case DriverInject:
		drv = bus.NewInject(soc)
	default:
		return nil, curated.Errorf(UnknownDriver, driver)
	}

	return &Context{
		SoC: soc,
		Drv: drv,
		Mgr: timing.NewManager(drv),
		Rnd: rnd,
	}, nil
}

// expect compares an observed value with the model's and returns a
// DecodeMismatch on disagreement.
func expect(what string, observed, model uint32) error {
	if observed != model {
		return curated.Errorf(DecodeMismatch, what, observed, model)
	}
	return nil
}

// Run executes every listed scenario on a fresh device with the named
// driver. Each scenario receives a fork of the supplied random source.
// The first failure stops the run.
func Run(driver string, rnd *random.Random) error {
	for _, sc := range List() {
		ctx, err := NewContext(driver, rnd.Fork())
		if err != nil {
			return err
		}

		logger.Logf("scenarios", "%s: running with %s driver", sc.Name, ctx.Drv.String())
		if err := sc.Run(ctx); err != nil {
			return fmt.Errorf("%s (%s driver): %w", sc.Name, driver, err)
		}
	}
	return nil
}

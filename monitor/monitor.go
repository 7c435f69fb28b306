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

// Package monitor is a single-key interactive console for poking at the
// device: step it cycle by cycle, peek the register slots, dump the
// simulation state as a graphviz file. It puts the controlling terminal
// into cbreak mode so keys act immediately.
package monitor

import (
	"fmt"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/perivale/perivale/hardware/mmio"
	"github.com/perivale/perivale/hardware/peripherals"
	"github.com/perivale/perivale/logger"
	"github.com/perivale/perivale/scenarios"
)

// DotFile is where the state graph lands on a dump command.
const DotFile = "perivale.dot"

// Monitor is the interactive console. Run drives it until the quit key.
type Monitor struct {
	ctx *scenarios.Context

	input  *os.File
	output io.Writer

	canAttr    unix.Termios
	cbreakAttr unix.Termios
}

// NewMonitor is the preferred method of initialisation for the Monitor
// type.
func NewMonitor(ctx *scenarios.Context, input *os.File, output io.Writer) *Monitor {
	return &Monitor{
		ctx:    ctx,
		input:  input,
		output: output,
	}
}

// Run the console until the quit key or input error. The terminal is
// restored to canonical mode on return.
func (m *Monitor) Run() error {
	if err := termios.Tcgetattr(m.input.Fd(), &m.canAttr); err != nil {
		return err
	}
	m.cbreakAttr = m.canAttr
	termios.Cfmakecbreak(&m.cbreakAttr)

	if err := termios.Tcsetattr(m.input.Fd(), termios.TCIFLUSH, &m.cbreakAttr); err != nil {
		return err
	}
	defer termios.Tcsetattr(m.input.Fd(), termios.TCIFLUSH, &m.canAttr)

	fmt.Fprintln(m.output, "[s]tep [u]s-tick [p]eripherals [r]egisters [d]ot-dump [l]og [q]uit")

	buf := make([]byte, 1)
	for {
		if _, err := m.input.Read(buf); err != nil {
			return err
		}

		switch buf[0] {
		case 's':
			m.ctx.SoC.Step(1)
			fmt.Fprintf(m.output, "%s\n", m.ctx.SoC.String())

		case 'u':
			m.ctx.SoC.Step(peripherals.CyclesPerUS)
			fmt.Fprintf(m.output, "%s\n", m.ctx.SoC.String())

		case 'p':
			fmt.Fprintf(m.output, "%s\n", m.ctx.SoC.Periph.String())

		case 'r':
			if err := m.registers(); err != nil {
				fmt.Fprintf(m.output, "error: %s\n", err)
			}

		case 'd':
			if err := m.dump(); err != nil {
				fmt.Fprintf(m.output, "error: %s\n", err)
			}

		case 'l':
			logger.Tail(m.output, 10)

		case 'q':
			return nil
		}
	}
}

// registers peeks every defined slot through the active driver. Peeks, not
// reads: the monitor must not disturb queue or sequence state.
func (m *Monitor) registers() error {
	for slot := mmio.Slot(0); slot < mmio.NumDefined; slot++ {
		v, err := m.ctx.Drv.Peek(slot)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.output, "%-12s %08x\n", slot.String(), v)
	}
	return nil
}

// dump writes the full simulation state as a graphviz file.
func (m *Monitor) dump() error {
	f, err := os.Create(DotFile)
	if err != nil {
		return err
	}
	defer f.Close()

	memviz.Map(f, m.ctx.SoC)
	fmt.Fprintf(m.output, "state graph written to %s\n", DotFile)
	return nil
}

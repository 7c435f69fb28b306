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

// Package script exposes the bus drivers to Lua. Ad hoc experiments
// against the device can be written as scripts instead of recompiled
// scenarios; the same write/read/peek contract applies, with every slot
// name available as a global constant.
package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/hardware/mmio"
	"github.com/perivale/perivale/logger"
	"github.com/perivale/perivale/refmodel"
	"github.com/perivale/perivale/scenarios"
)

// ScriptError is the pattern wrapping any error raised inside a script.
const ScriptError = "script: %s"

// Runner owns one Lua state bound to one scenario context.
type Runner struct {
	ctx *scenarios.Context
	ls  *lua.LState
}

// NewRunner is the preferred method of initialisation for the Runner type.
// Close must be called once the runner is no longer needed.
func NewRunner(ctx *scenarios.Context) *Runner {
	r := &Runner{
		ctx: ctx,
		ls:  lua.NewState(),
	}
	r.register()
	return r
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.ls.Close()
}

// RunFile executes a script file against the device.
func (r *Runner) RunFile(path string) error {
	if err := r.ls.DoFile(path); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// RunString executes script source against the device.
func (r *Runner) RunString(src string) error {
	if err := r.ls.DoString(src); err != nil {
		return curated.Errorf(ScriptError, err)
	}
	return nil
}

// raise converts a harness error into a Lua error. Control does not
// return to the binding.
func (r *Runner) raise(err error) {
	r.ls.RaiseError("%s", err.Error())
}

func (r *Runner) register() {
	for slot := mmio.Slot(0); slot < mmio.NumSlots; slot++ {
		r.ls.SetGlobal(slot.String(), lua.LNumber(slot))
	}

	r.ls.SetGlobal("write", r.ls.NewFunction(func(ls *lua.LState) int {
		slot := mmio.Slot(ls.CheckInt(1))
		data := uint32(ls.CheckInt64(2))
		if err := r.ctx.Drv.Write(slot, data); err != nil {
			r.raise(err)
		}
		return 0
	}))

	r.ls.SetGlobal("read", r.ls.NewFunction(func(ls *lua.LState) int {
		v, err := r.ctx.Drv.Read(mmio.Slot(ls.CheckInt(1)))
		if err != nil {
			r.raise(err)
		}
		ls.Push(lua.LNumber(v))
		return 1
	}))

	r.ls.SetGlobal("peek", r.ls.NewFunction(func(ls *lua.LState) int {
		v, err := r.ctx.Drv.Peek(mmio.Slot(ls.CheckInt(1)))
		if err != nil {
			r.raise(err)
		}
		ls.Push(lua.LNumber(v))
		return 1
	}))

	r.ls.SetGlobal("fill", r.ls.NewFunction(func(ls *lua.LState) int {
		n, err := r.ctx.Mgr.FillFor(ls.CheckInt(1), nil)
		if err != nil {
			r.raise(err)
		}
		ls.Push(lua.LNumber(n))
		return 1
	}))

	r.ls.SetGlobal("await_clear", r.ls.NewFunction(func(ls *lua.LState) int {
		slot := mmio.Slot(ls.CheckInt(1))
		mask := uint32(ls.CheckInt64(2))
		max := ls.CheckInt(3)
		v, err := r.ctx.Mgr.AwaitClear(slot, mask, max)
		if err != nil {
			r.raise(err)
		}
		ls.Push(lua.LNumber(v))
		return 1
	}))

	r.ls.SetGlobal("await_set", r.ls.NewFunction(func(ls *lua.LState) int {
		slot := mmio.Slot(ls.CheckInt(1))
		mask := uint32(ls.CheckInt64(2))
		max := ls.CheckInt(3)
		v, err := r.ctx.Mgr.AwaitSet(slot, mask, max)
		if err != nil {
			r.raise(err)
		}
		ls.Push(lua.LNumber(v))
		return 1
	}))

	r.ls.SetGlobal("crc16", r.ls.NewFunction(func(ls *lua.LState) int {
		data := ls.CheckString(1)
		ls.Push(lua.LNumber(refmodel.CRC16([]byte(data))))
		return 1
	}))

	r.ls.SetGlobal("input", r.ls.NewFunction(func(ls *lua.LState) int {
		r.ctx.SoC.SetInput(uint8(ls.CheckInt(1)))
		return 0
	}))

	r.ls.SetGlobal("output", r.ls.NewFunction(func(ls *lua.LState) int {
		ls.Push(lua.LNumber(r.ctx.SoC.OutputPins()))
		return 1
	}))

	r.ls.SetGlobal("log", r.ls.NewFunction(func(ls *lua.LState) int {
		logger.Log("script", ls.CheckString(1))
		return 0
	}))

	r.ls.SetGlobal("fail", r.ls.NewFunction(func(ls *lua.LState) int {
		ls.RaiseError("%s", ls.CheckString(1))
		return 0
	}))
}

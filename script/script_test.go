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

package script_test

import (
	"testing"

	"github.com/perivale/perivale/curated"
	"github.com/perivale/perivale/random"
	"github.com/perivale/perivale/scenarios"
	"github.com/perivale/perivale/script"
	"github.com/perivale/perivale/test"
)

func newRunner(t *testing.T) *script.Runner {
	t.Helper()
	ctx, err := scenarios.NewContext(scenarios.DriverOverride, random.NewRandom(42))
	test.ExpectedSuccess(t, err)
	r := script.NewRunner(ctx)
	t.Cleanup(r.Close)
	return r
}

func TestScriptReadWrite(t *testing.T) {
	r := newRunner(t)

	err := r.RunString(`
		write(GPIO_OUT_SEL, 0xff)
		write(GPIO_OUT, 0x5a)
		local v = read(GPIO_OUT)
		if v ~= 0x5a then
			fail(string.format("gpio readback: %02x", v))
		end
	`)
	test.ExpectedSuccess(t, err)
}

func TestScriptCRC(t *testing.T) {
	r := newRunner(t)

	// feed the classic check string through the engine and compare with
	// the built-in model
	err := r.RunString(`
		write(CRC16, 0x100)
		local s = "123456789"
		for i = 1, #s do
			await_clear(CRC16, 0x10000, 1000)
			write(CRC16, s:byte(i))
			await_clear(CRC16, 0x10000, 1000)
		end
		local hw = read(CRC16) % 0x10000
		if hw ~= crc16(s) then
			fail(string.format("crc mismatch: %04x vs %04x", hw, crc16(s)))
		end
		if hw ~= 0x4b37 then
			fail("crc not the known value")
		end
	`)
	test.ExpectedSuccess(t, err)
}

func TestScriptUnmapped(t *testing.T) {
	r := newRunner(t)

	err := r.RunString(`
		for slot = 16, 31 do
			if read(slot) ~= 0xffffffff then
				fail("unmapped slot did not read as sentinel")
			end
		end
	`)
	test.ExpectedSuccess(t, err)
}

func TestScriptFailure(t *testing.T) {
	r := newRunner(t)

	err := r.RunString(`fail("deliberate")`)
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, script.ScriptError))
}

func TestScriptPins(t *testing.T) {
	r := newRunner(t)

	err := r.RunString(`
		input(0x3c)
		fill(2)
		if read(GPIO_IN) ~= 0x3c then
			fail("input pins not visible")
		end
	`)
	test.ExpectedSuccess(t, err)
}

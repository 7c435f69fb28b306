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

package random_test

import (
	"testing"

	"github.com/perivale/perivale/random"
	"github.com/perivale/perivale/test"
)

func TestReproducibility(t *testing.T) {
	a := random.NewRandom(42)
	b := random.NewRandom(42)

	for i := 0; i < 100; i++ {
		test.Equate(t, a.Uint32(), b.Uint32())
	}
}

func TestIndependence(t *testing.T) {
	// a generator's sequence must not depend on what other generators have
	// produced in the meantime
	a := random.NewRandom(42)
	noise := random.NewRandom(1)

	first := make([]uint32, 10)
	for i := range first {
		first[i] = a.Uint32()
	}

	a = random.NewRandom(42)
	for i := 0; i < 1000; i++ {
		_ = noise.Uint32()
	}

	for i := range first {
		test.Equate(t, a.Uint32(), first[i])
	}
}

func TestFork(t *testing.T) {
	a := random.NewRandom(42)
	b := random.NewRandom(42)

	// forking from identically seeded generators gives identical children
	fa := a.Fork()
	fb := b.Fork()
	test.Equate(t, fa.Uint32(), fb.Uint32())

	// and the parents remain in lockstep
	test.Equate(t, a.Uint32(), b.Uint32())
}

func TestBytes(t *testing.T) {
	a := random.NewRandom(7)
	b := a.Bytes(64)
	test.Equate(t, len(b), 64)
}

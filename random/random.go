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

// Package random should be used in preference to the math/rand package
// whenever a random number is required inside the harness.
//
// The generator is an explicit value that is passed to every scenario.
// There is deliberately no ambient package-level generator: two scenarios
// created with the same seed produce the same sequence of numbers
// regardless of what has run before them, which is what makes a failing
// run reproducible from nothing but its seed.
package random

import (
	"math/rand"
)

// Random is a reproducible random number generator.
type Random struct {
	seed int64
	rnd  *rand.Rand
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom(seed int64) *Random {
	return &Random{
		seed: seed,
		rnd:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the generator was created with.
func (rnd *Random) Seed() int64 {
	return rnd.seed
}

// Fork returns a new generator seeded from this one. Useful when a scenario
// wants an independent stream for a sub-task without disturbing its own
// sequence.
func (rnd *Random) Fork() *Random {
	return NewRandom(rnd.rnd.Int63())
}

// Intn returns a number in the range 0 to n-1.
func (rnd *Random) Intn(n int) int {
	return rnd.rnd.Intn(n)
}

// Uint32 returns a full-range 32-bit number.
func (rnd *Random) Uint32() uint32 {
	return rnd.rnd.Uint32()
}

// Byte returns a number in the range 0 to 255.
func (rnd *Random) Byte() uint8 {
	return uint8(rnd.rnd.Intn(256))
}

// Bytes returns a slice of n random bytes.
func (rnd *Random) Bytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = rnd.Byte()
	}
	return b
}

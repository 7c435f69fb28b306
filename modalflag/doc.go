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

// Package modalflag wraps the flag package from the standard library and adds
// the idea of program modes. A mode is a command line argument that selects a
// different operating mode for the program, each mode with its own flags and
// arguments (compare the go command: build, test, doc, etc.)
//
// Basic usage is the same as the flag package except that arguments are
// attached with NewArgs() before the call to Parse():
//
//	md = Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("run", "golden", "script")
//	p, err := md.Parse()
//
// The first sub-mode in the AddSubModes() list is the default and is selected
// when no mode is present on the command line. Mode comparison is case
// insensitive and Mode() always returns the mode in upper case.
//
// Once a mode has been selected, NewMode() begins a fresh flag set for that
// mode's own flags and any further sub-modes. Flags are added with the
// AddBool(), AddInt64(), etc. functions, which work like their counterparts in
// the flag package:
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		seed := md.AddInt64("seed", 0, "pseudorandom seed")
//		p, err := md.Parse()
//		...
//	}
//
// Parse() returns a ParseResult. ParseHelp means a help message has been
// printed and the program should exit quietly. Arguments left over after flag
// and mode processing are available through RemainingArgs() and GetArg().
package modalflag

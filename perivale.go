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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/perivale/perivale/golden"
	"github.com/perivale/perivale/logger"
	"github.com/perivale/perivale/modalflag"
	"github.com/perivale/perivale/monitor"
	"github.com/perivale/perivale/random"
	"github.com/perivale/perivale/scenarios"
	"github.com/perivale/perivale/script"
	"github.com/perivale/perivale/version"
)

// driver name accepted in addition to the two names known to the scenarios
// package. it means run everything twice, once with each driver.
const driverBoth = "both"

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	md.NewMode()
	md.AddSubModes("RUN", "GOLDEN", "SCRIPT", "MONITOR", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		os.Exit(0)
	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		os.Exit(10)
	}

	switch md.Mode() {
	case "RUN":
		err = run(md)
	case "GOLDEN":
		err = goldenMode(md)
	case "SCRIPT":
		err = scriptMode(md)
	case "MONITOR":
		err = monitorMode(md)
	case "VERSION":
		ver, rev, _ := version.Version()
		fmt.Printf("%s (%s)\n", ver, rev)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		os.Exit(20)
	}
}

// seedOrClock returns the seed as given, or one taken from the clock when the
// flag was left at zero. the chosen seed is always logged so a failing run can
// be reproduced.
func seedOrClock(seed int64) int64 {
	if seed == 0 {
		seed = int64(time.Now().Nanosecond())
	}
	logger.Logf("perivale", "seed: %d", seed)
	return seed
}

func run(md *modalflag.Modes) error {
	md.NewMode()

	driver := md.AddString("driver", driverBoth, "bus driver: override, inject, both")
	seed := md.AddInt64("seed", 0, "seed for randomised scenario data (0 = use clock)")
	log := md.AddBool("log", false, "echo debugging log to stdout")
	stats := md.AddBool("stats", false, "run stats server (statsview build tag only)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	if *stats {
		launchStats(os.Stdout)
	}

	var drivers []string
	switch *driver {
	case driverBoth:
		drivers = []string{scenarios.DriverOverride, scenarios.DriverInject}
	default:
		drivers = []string{*driver}
	}

	s := seedOrClock(*seed)
	for _, d := range drivers {
		// same seed for every driver. a decode mismatch that shows up with
		// one driver and not the other is then down to the driver, not the
		// data
		if err := scenarios.Run(d, random.NewRandom(s)); err != nil {
			return err
		}
		fmt.Printf("scenarios passed (%s driver)\n", d)
	}

	return nil
}

func goldenMode(md *modalflag.Modes) error {
	md.NewMode()

	seed := md.AddInt64("seed", golden.DefaultSeed, "seed for vector generation")
	count := md.AddInt64("n", golden.DefaultCount, "number of vectors to generate")
	outFile := md.AddString("o", "", "write vectors to file rather than stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		// generate
		recs := golden.Generate(random.NewRandom(*seed), int(*count))

		output := os.Stdout
		if *outFile != "" {
			output, err = os.Create(*outFile)
			if err != nil {
				return err
			}
			defer output.Close()
		}

		return golden.Write(output, recs, *seed)

	case 1:
		// verify an existing vector file
		input, err := os.Open(md.GetArg(0))
		if err != nil {
			return err
		}
		defer input.Close()

		recs, err := golden.Read(input)
		if err != nil {
			return err
		}

		if err := golden.Verify(recs); err != nil {
			return err
		}

		fmt.Printf("%d vectors verified\n", len(recs))
		return nil

	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}
}

func scriptMode(md *modalflag.Modes) error {
	md.NewMode()

	driver := md.AddString("driver", scenarios.DriverOverride, "bus driver: override, inject")
	seed := md.AddInt64("seed", 0, "seed for the script's random source (0 = use clock)")
	log := md.AddBool("log", false, "echo debugging log to stdout")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("script file required for %s mode", md)
	case 1:
		ctx, err := scenarios.NewContext(*driver, random.NewRandom(seedOrClock(*seed)))
		if err != nil {
			return err
		}

		r := script.NewRunner(ctx)
		defer r.Close()

		return r.RunFile(md.GetArg(0))
	default:
		return fmt.Errorf("too many arguments for %s mode", md)
	}
}

func monitorMode(md *modalflag.Modes) error {
	md.NewMode()

	driver := md.AddString("driver", scenarios.DriverOverride, "bus driver: override, inject")
	seed := md.AddInt64("seed", 0, "seed for randomised transactions (0 = use clock)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 0 {
		return fmt.Errorf("no arguments expected for %s mode", md)
	}

	ctx, err := scenarios.NewContext(*driver, random.NewRandom(seedOrClock(*seed)))
	if err != nil {
		return err
	}

	return monitor.NewMonitor(ctx, os.Stdin, os.Stdout).Run()
}

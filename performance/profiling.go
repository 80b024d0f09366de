// This file is part of MiniSoC.
//
// MiniSoC is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// MiniSoC is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with MiniSoC.  If not, see <https://www.gnu.org/licenses/>.

// Package performance contains the profiling helpers used by the main
// program's --profile option.
package performance

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/jetsetilly/minisoc/curated"
)

// RunWithProfiling runs the supplied function. Profile may be "cpu", "mem",
// "both" or "none"; the profile files are named after the prefix.
func RunWithProfiling(profile string, prefix string, run func() error) error {
	var cpu, mem bool

	switch profile {
	case "", "none":
	case "cpu":
		cpu = true
	case "mem":
		mem = true
	case "both":
		cpu = true
		mem = true
	default:
		return curated.Errorf("unknown profile type: %s", profile)
	}

	if cpu {
		f, err := os.Create(prefix + "_cpu.profile")
		if err != nil {
			return curated.Errorf("profiling: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return curated.Errorf("profiling: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	runErr := run()

	if mem {
		f, err := os.Create(prefix + "_mem.profile")
		if err != nil {
			return curated.Errorf("profiling: %v", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return curated.Errorf("profiling: %v", err)
		}
	}

	return runErr
}

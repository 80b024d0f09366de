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

package tracer

import (
	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/cpu/execution"
)

// Options selects which trace categories are recorded and emitted. The three
// categories are independently selectable.
type Options struct {
	Instruction      bool
	MemEvents        bool
	BranchPrediction bool
}

// Any returns true if at least one category is enabled.
func (o Options) Any() bool {
	return o.Instruction || o.MemEvents || o.BranchPrediction
}

// ShouldLog applies the trace filter: a record is emitted iff branch tracing
// is on and the record is a branch, or instruction logging is on, or
// mem-event logging is on and the record carries at least one non-fetch
// event.
func ShouldLog(record *execution.Record, options Options) bool {
	if options.BranchPrediction && record.IsBranch {
		return true
	}
	if options.Instruction {
		return true
	}
	if options.MemEvents {
		for _, ev := range record.MemEvents {
			if ev.Kind != bus.Fetch {
				return true
			}
		}
	}
	return false
}

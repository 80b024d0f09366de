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
	"fmt"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/cpu/execution"
)

func countAccesses(record *execution.Record, kind bus.AccessKind) int {
	n := 0
	for _, ev := range record.MemEvents {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func kindName(kind bus.AccessKind) string {
	switch kind {
	case bus.Read:
		return "read"
	case bus.Write:
		return "write"
	case bus.Fetch:
		return "fetch"
	}
	return "unknown"
}

// AddMetrics appends derived measurements to a record's extra fields: the
// summed memory latency, per-kind access counts and one address field per
// memory event.
func AddMetrics(record *execution.Record) {
	if record == nil {
		return
	}

	var latency uint64
	for _, ev := range record.MemEvents {
		latency += uint64(ev.Latency)
	}

	record.AddExtra("mem_latency", fmt.Sprintf("%d", latency))
	record.AddExtra("mem_reads", fmt.Sprintf("%d", countAccesses(record, bus.Read)))
	record.AddExtra("mem_writes", fmt.Sprintf("%d", countAccesses(record, bus.Write)))
	record.AddExtra("mem_fetches", fmt.Sprintf("%d", countAccesses(record, bus.Fetch)))

	for _, ev := range record.MemEvents {
		record.AddExtra("mem_"+kindName(ev.Kind), fmt.Sprintf("0x%x", ev.Address))
	}
}

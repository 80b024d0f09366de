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

package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/cpu/execution"
	"github.com/jetsetilly/minisoc/tracer"
)

// This file implements the cpu.Host interface: the bridge the executor talks
// back through for bus access, breakpoint queries and trace emission. It also
// implements expression.Environment for the debug shell.

// BusRead implements the cpu.Host interface.
func (dbg *Debugger) BusRead(access bus.Access) bus.Response {
	return dbg.machine.Bus.Read(access)
}

// BusWrite implements the cpu.Host interface.
func (dbg *Debugger) BusWrite(access bus.Access) bus.Response {
	return dbg.machine.Bus.Write(access)
}

// IsBreakpoint implements the cpu.Host interface.
func (dbg *Debugger) IsBreakpoint(address uint64) bool {
	return dbg.brk.isBreakpoint(address)
}

// HasBreakpoints implements the cpu.Host interface.
func (dbg *Debugger) HasBreakpoints() bool {
	return dbg.brk.hasBreakpoints()
}

// TraceOptions implements the cpu.Host interface.
func (dbg *Debugger) TraceOptions() tracer.Options {
	return dbg.traceOptions.Load()
}

// LogTrace implements the cpu.Host interface. The record is filtered
// against the current options, optionally annotated with derived metrics,
// formatted and written as a single line.
func (dbg *Debugger) LogTrace(record *execution.Record) {
	options := dbg.TraceOptions()
	if !tracer.ShouldLog(record, options) {
		return
	}

	dbg.traceCrit.Lock()
	defer dbg.traceCrit.Unlock()

	if dbg.traceMetrics {
		tracer.AddMetrics(record)
	}

	line := dbg.formatter(record, options)
	if line != "" {
		fmt.Fprintln(dbg.traceOutput, line)
	}
}

// Register implements the expression.Environment interface. Recognised
// names are "pc" and "rN" (or a bare register number).
func (dbg *Debugger) Register(name string) (uint64, bool) {
	if name == "pc" {
		return dbg.cpu.PC(), true
	}

	numPart := name
	if strings.HasPrefix(numPart, "r") {
		numPart = numPart[1:]
	}

	idx, err := strconv.ParseUint(numPart, 10, 32)
	if err != nil {
		return 0, false
	}

	return dbg.cpu.Register(uint32(idx)), true
}

// ReadMemory implements the expression.Environment interface. A failed read
// evaluates to zero.
func (dbg *Debugger) ReadMemory(address uint64) uint64 {
	r := dbg.machine.Bus.Read(bus.Access{Address: address, Size: 4, Kind: bus.Read})
	if !r.OK {
		return 0
	}
	return r.Data
}

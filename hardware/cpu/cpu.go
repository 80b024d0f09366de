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

package cpu

import (
	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/cpu/execution"
	"github.com/jetsetilly/minisoc/tracer"
)

// StepResult summarises a call to Executor.Step.
type StepResult struct {
	// OK is false when a fault occurred (recorded in the executor's last
	// error) or when a breakpoint was hit before the breakpointed instruction
	// executed. A breakpoint stop leaves the last error untouched, which is
	// how the controller tells the two cases apart.
	OK bool

	Instructions uint64
	Cycles       uint64
}

// Host is the capability the controller hands to an executor at attach time.
// Every bus access the executor makes goes through here, which is also where
// breakpoints are checked and trace records submitted. The controller owns
// both sides and guarantees the host outlives the executor.
type Host interface {
	BusRead(access bus.Access) bus.Response
	BusWrite(access bus.Access) bus.Response

	IsBreakpoint(address uint64) bool
	HasBreakpoints() bool

	TraceOptions() tracer.Options
	LogTrace(record *execution.Record)
}

// Executor is the contract between the machine and a pluggable CPU core. The
// executor runs exclusively on the CPU thread; bus accesses reach the bus
// sequentially through the attached host, so implementations need no internal
// locking.
type Executor interface {
	// Reset zeroes registers, cycle count, pc and the last error.
	Reset()

	// Step executes until either limit is reached, a fault occurs or a
	// breakpoint is hit. Step(0, 0) is a successful no-op.
	Step(maxInstructions uint64, maxCycles uint64) StepResult

	LastError() bus.Error

	PC() uint64
	SetPC(pc uint64)
	Cycle() uint64

	// Register index 0 is hard-wired to zero: writes are silently dropped
	// and reads return 0. Writes to indices >= RegisterCount() are no-ops.
	Register(idx uint32) uint64
	SetRegister(idx uint32, value uint64)
	RegisterCount() uint32

	// AttachDebugger stores the host through which all bus access, breakpoint
	// queries and trace emission happen.
	AttachDebugger(host Host)
}

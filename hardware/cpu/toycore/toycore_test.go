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

package toycore_test

import (
	"testing"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/cpu/execution"
	"github.com/jetsetilly/minisoc/hardware/cpu/toycore"
	"github.com/jetsetilly/minisoc/hardware/memory"
	"github.com/jetsetilly/minisoc/test"
	"github.com/jetsetilly/minisoc/tracer"
)

// testHost is the minimal cpu.Host: a real bus, an optional breakpoint set
// and a record of submitted traces.
type testHost struct {
	bus         *bus.Bus
	breakpoints map[uint64]bool
	options     tracer.Options
	records     []execution.Record
}

func (h *testHost) BusRead(access bus.Access) bus.Response {
	return h.bus.Read(access)
}

func (h *testHost) BusWrite(access bus.Access) bus.Response {
	return h.bus.Write(access)
}

func (h *testHost) IsBreakpoint(address uint64) bool {
	return h.breakpoints[address]
}

func (h *testHost) HasBreakpoints() bool {
	return len(h.breakpoints) > 0
}

func (h *testHost) TraceOptions() tracer.Options {
	return h.options
}

func (h *testHost) LogTrace(record *execution.Record) {
	h.records = append(h.records, *record)
}

// newHarness builds a core wired to a bus with program memory at 0 and RAM
// at 0x80000000.
func newHarness(program []uint32) (*toycore.Core, *testHost) {
	prog := memory.NewRAM(4096)
	loadProgram(prog, program)

	ram := memory.NewRAM(65536)

	b := bus.NewBus()
	b.Register(prog, 0x00000000, prog.Size(), "ROM")
	b.Register(ram, 0x80000000, ram.Size(), "RAM")

	h := &testHost{bus: b, breakpoints: map[uint64]bool{}}

	c := toycore.NewCore()
	c.AttachDebugger(h)

	return c, h
}

func loadProgram(m *memory.Memory, words []uint32) {
	b := make([]byte, 0, len(words)*4)
	for _, w := range words {
		b = append(b, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	m.Poke(0, b)
}

func TestRegisterFile(t *testing.T) {
	c, _ := newHarness(nil)

	// register 0 is hard-wired to zero
	c.SetRegister(0, 0xffff)
	test.Equate(t, c.Register(0), uint64(0))

	c.SetRegister(1, 0xffff)
	test.Equate(t, c.Register(1), uint64(0xffff))

	// out of range writes are dropped, reads return zero
	c.SetRegister(c.RegisterCount(), 1)
	test.Equate(t, c.Register(c.RegisterCount()), uint64(0))
}

func TestStepZero(t *testing.T) {
	c, _ := newHarness(nil)

	r := c.Step(0, 0)
	test.ExpectedSuccess(t, r.OK)
	test.Equate(t, r.Instructions, uint64(0))
	test.Equate(t, r.Cycles, uint64(0))
}

func TestReset(t *testing.T) {
	c, _ := newHarness([]uint32{toycore.Lui(1, 0x1234), toycore.Halt()})

	c.Step(2, 2)
	test.Equate(t, c.PC(), uint64(8))

	c.Reset()
	test.Equate(t, c.PC(), uint64(0))
	test.Equate(t, c.Cycle(), uint64(0))
	test.Equate(t, c.Register(1), uint64(0))
	test.Equate(t, int(c.LastError().Kind), int(bus.ErrNone))
}

// the RAM round-trip scenario: a value built with LUI/ORI survives a store
// and load through the bus.
func TestRAMRoundTrip(t *testing.T) {
	c, _ := newHarness([]uint32{
		toycore.Lui(1, 0x8000),
		toycore.Lui(2, 0x1122),
		toycore.Ori(2, 0x3344),
		toycore.Sw(2, 1, 0),
		toycore.Lw(3, 1, 0),
		toycore.Halt(),
	})

	r := c.Step(100, 100)
	test.ExpectedFailure(t, r.OK)
	test.Equate(t, int(c.LastError().Kind), int(bus.ErrHalt))
	test.Equate(t, c.LastError().Address, uint64(0x14))
	test.Equate(t, c.Register(3), uint64(0x11223344))
	test.Equate(t, r.Instructions, uint64(6))
}

// the unmapped fault scenario: a load from a hole in the address map
// reports the original untranslated address.
func TestUnmappedFault(t *testing.T) {
	c, _ := newHarness([]uint32{
		toycore.Lui(1, 0x1000),
		toycore.Lw(2, 1, 0),
		toycore.Halt(),
	})

	r := c.Step(100, 100)
	test.ExpectedFailure(t, r.OK)
	test.Equate(t, int(c.LastError().Kind), int(bus.ErrAccessFault))
	test.Equate(t, c.LastError().Address, uint64(0x10000000))

	// the faulting instruction consumed its cycle; HALT never ran
	test.Equate(t, r.Instructions, uint64(2))
}

func TestInvalidOp(t *testing.T) {
	c, _ := newHarness([]uint32{0x99000000})

	r := c.Step(1, 1)
	test.ExpectedFailure(t, r.OK)
	test.Equate(t, int(c.LastError().Kind), int(bus.ErrInvalidOp))
	test.Equate(t, c.LastError().Address, uint64(0))
}

func TestBranch(t *testing.T) {
	// r1 == r2 so the branch skips the HALT
	c, _ := newHarness([]uint32{
		toycore.Lui(1, 0xaaaa),
		toycore.Lui(2, 0xaaaa),
		toycore.Beq(1, 2, 1),
		toycore.Halt(),
		toycore.Lui(3, 0x1),
		toycore.Halt(),
	})

	r := c.Step(100, 100)
	test.Equate(t, int(c.LastError().Kind), int(bus.ErrHalt))
	test.Equate(t, c.LastError().Address, uint64(0x14))
	test.Equate(t, c.Register(3), uint64(0x10000))
	test.Equate(t, r.Instructions, uint64(5))
}

func TestBranchNotTaken(t *testing.T) {
	c, _ := newHarness([]uint32{
		toycore.Lui(1, 0xaaaa),
		toycore.Beq(1, 2, 1),
		toycore.Halt(),
	})

	c.Step(100, 100)
	test.Equate(t, int(c.LastError().Kind), int(bus.ErrHalt))
	test.Equate(t, c.LastError().Address, uint64(0x8))
}

func TestBreakpoint(t *testing.T) {
	c, h := newHarness([]uint32{
		toycore.Lui(1, 0x1),
		toycore.Lui(2, 0x2),
		toycore.Halt(),
	})
	h.breakpoints[4] = true

	// first step runs the first instruction then stops before the second.
	// the breakpointed instruction is not executed: pc and cycle unchanged
	// by it, and the last error stays clean.
	r := c.Step(100, 100)
	test.ExpectedFailure(t, r.OK)
	test.Equate(t, r.Instructions, uint64(1))
	test.Equate(t, c.PC(), uint64(4))
	test.Equate(t, c.Cycle(), uint64(1))
	test.Equate(t, int(c.LastError().Kind), int(bus.ErrNone))
	test.Equate(t, c.Register(2), uint64(0))

	// a breakpoint at the current pc pins the core until it is removed
	r = c.Step(100, 100)
	test.Equate(t, r.Instructions, uint64(0))
	test.Equate(t, c.PC(), uint64(4))

	delete(h.breakpoints, 4)
	c.Step(100, 100)
	test.Equate(t, c.Register(2), uint64(0x20000))
}

func TestCycleLimit(t *testing.T) {
	c, _ := newHarness([]uint32{
		toycore.Nop(), toycore.Nop(), toycore.Nop(), toycore.Nop(),
	})

	r := c.Step(100, 2)
	test.ExpectedSuccess(t, r.OK)
	test.Equate(t, r.Instructions, uint64(2))
	test.Equate(t, r.Cycles, uint64(2))
	test.Equate(t, c.Cycle(), uint64(2))
}

func TestTraceRecords(t *testing.T) {
	c, h := newHarness([]uint32{
		toycore.Lui(1, 0x8000),
		toycore.Sw(1, 1, 4),
		toycore.Halt(),
	})
	h.options = tracer.Options{Instruction: true, MemEvents: true, BranchPrediction: true}

	c.Step(100, 100)

	test.Equate(t, len(h.records), 3)

	test.Equate(t, h.records[0].Mnemonic, "LUI r1, 0x8000")
	test.Equate(t, h.records[0].PC, uint64(0))
	test.Equate(t, h.records[0].CycleBegin, uint64(0))
	test.Equate(t, h.records[0].CycleEnd, uint64(1))

	// fetch plus the store event
	sw := h.records[1]
	test.Equate(t, sw.Mnemonic, "SW r1, [r1+4]")
	test.Equate(t, len(sw.MemEvents), 2)
	test.Equate(t, int(sw.MemEvents[0].Kind), int(bus.Fetch))
	test.Equate(t, int(sw.MemEvents[1].Kind), int(bus.Write))
	test.Equate(t, sw.MemEvents[1].Address, uint64(0x80000004))
	test.Equate(t, sw.MemEvents[1].Data, uint64(0x80000000))

	test.Equate(t, h.records[2].Mnemonic, "HALT")
}

func TestBranchTraceDetails(t *testing.T) {
	c, h := newHarness([]uint32{
		toycore.Beq(0, 0, 2),
		toycore.Nop(),
		toycore.Nop(),
	})
	h.options = tracer.Options{BranchPrediction: true}

	c.Step(1, 1)

	test.Equate(t, len(h.records), 1)
	rec := h.records[0]
	test.Equate(t, rec.IsBranch, true)
	test.Equate(t, rec.Branch.Taken, true)
	test.Equate(t, rec.Branch.PredictedTaken, false)
	test.Equate(t, rec.Branch.Target, uint64(12))
	test.Equate(t, rec.Branch.PredictedTarget, uint64(4))
	test.Equate(t, c.PC(), uint64(12))
}

func TestFetchError(t *testing.T) {
	c, h := newHarness(nil)
	h.options = tracer.Options{MemEvents: true}
	c.SetPC(0xdead0000)

	r := c.Step(1, 1)
	test.ExpectedFailure(t, r.OK)
	test.Equate(t, int(c.LastError().Kind), int(bus.ErrAccessFault))
	test.Equate(t, r.Instructions, uint64(0))

	// the partial record is flushed with the sentinel mnemonic
	test.Equate(t, len(h.records), 1)
	test.Equate(t, h.records[0].Mnemonic, "FETCH_ERROR")
}

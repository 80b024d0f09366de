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
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jetsetilly/minisoc/config"
	"github.com/jetsetilly/minisoc/debugger/govern"
	"github.com/jetsetilly/minisoc/debugger/terminal"
	"github.com/jetsetilly/minisoc/hardware"
	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/cpu/execution"
	"github.com/jetsetilly/minisoc/hardware/cpu/toycore"
	"github.com/jetsetilly/minisoc/test"
	"github.com/jetsetilly/minisoc/tracer"
)

// mockTerm records every line printed to it.
type mockTerm struct {
	lines []string
}

func (mt *mockTerm) Initialise() error { return nil }
func (mt *mockTerm) CleanUp()          {}
func (mt *mockTerm) IsInteractive() bool {
	return false
}

func (mt *mockTerm) TermRead(buffer []byte, prompt terminal.Prompt) (int, error) {
	return 0, nil
}

func (mt *mockTerm) TermPrintLine(style terminal.Style, s string) {
	mt.lines = append(mt.lines, s)
}

func (mt *mockTerm) contains(sub string) bool {
	for _, l := range mt.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func newTestDebugger(t *testing.T, words []uint32, out *test.CappedWriter) *Debugger {
	t.Helper()

	b := make([]byte, 0, len(words)*4)
	for _, w := range words {
		b = append(b, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	path := filepath.Join(t.TempDir(), "rom.bin")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("writing ROM: %v", err)
	}

	conf := config.NewConfig()
	conf.ROMPath = path
	conf.Headless = true
	conf.Width = 16
	conf.Height = 16
	conf.RAMSize = 65536

	var devOut io.Writer
	if out != nil {
		devOut = out
	}

	m, err := hardware.NewMachine(conf, nil, devOut)
	if err != nil {
		t.Fatalf("building machine: %v", err)
	}
	t.Cleanup(m.Teardown)

	return NewDebugger(m)
}

// waits for the run state to settle at the wanted value.
func waitForState(t *testing.T, dbg *Debugger, want govern.State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if dbg.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %s (currently %s)", want, dbg.State())
}

// the UART hello scenario: a program that writes "OK\n" to the serial port
// and halts, run headless to completion.
func TestUARTHello(t *testing.T) {
	out, _ := test.NewCappedWriter(1024)
	dbg := newTestDebugger(t, []uint32{
		toycore.Lui(1, 0x2000),
		toycore.Ori(2, 'O'),
		toycore.Sw(2, 1, 0),
		toycore.Ori(3, 'K'),
		toycore.Sw(3, 1, 0),
		toycore.Ori(4, '\n'),
		toycore.Sw(4, 1, 0),
		toycore.Halt(),
	}, out)

	err := dbg.Run(false, nil)
	test.ExpectedSuccess(t, err)
	test.Equate(t, int(dbg.Machine().CPU.LastError().Kind), int(bus.ErrHalt))

	dbg.Machine().UART.Flush()
	test.Equate(t, strings.Contains(out.String(), "OK\n"), true)
}

// the timer smoke scenario: reads are deterministic under virtual clocking
// and the CTRL write resets the counter.
func TestTimerSmoke(t *testing.T) {
	dbg := newTestDebugger(t, []uint32{
		toycore.Lui(1, 0x2000),
		toycore.Ori(1, 0x1000),
		toycore.Lw(2, 1, 0),
		toycore.Lw(3, 1, 4),
		toycore.Sw(0, 1, 8),
		toycore.Lw(4, 1, 0),
		toycore.Halt(),
	}, nil)

	err := dbg.Run(false, nil)
	test.ExpectedSuccess(t, err)

	cpu := dbg.Machine().CPU
	test.Equate(t, int(cpu.LastError().Kind), int(bus.ErrHalt))
	test.Equate(t, cpu.Register(4), uint64(0))
}

func TestStepBatching(t *testing.T) {
	dbg := newTestDebugger(t, []uint32{
		toycore.Nop(), toycore.Nop(), toycore.Nop(), toycore.Nop(),
		toycore.Nop(), toycore.Nop(), toycore.Nop(), toycore.Halt(),
	}, nil)

	go dbg.cpuLoop()
	defer dbg.run.RequestExit()

	dbg.run.AddSteps(3)
	waitForState(t, dbg, govern.Paused)

	// cycles increase by at most the requested step count and the machine
	// ends paused
	test.Equate(t, dbg.Machine().CPU.Cycle(), uint64(3))
	test.Equate(t, dbg.Machine().CPU.PC(), uint64(12))
}

func TestBreakpointHalt(t *testing.T) {
	dbg := newTestDebugger(t, []uint32{
		toycore.Nop(), toycore.Nop(), toycore.Nop(), toycore.Halt(),
	}, nil)

	dbg.AddBreakpoint(8)

	go dbg.cpuLoop()
	defer dbg.run.RequestExit()

	dbg.run.AddSteps(10)
	waitForState(t, dbg, govern.Paused)

	// the breakpointed instruction has not executed
	test.Equate(t, dbg.Machine().CPU.PC(), uint64(8))
	test.Equate(t, dbg.Machine().CPU.Cycle(), uint64(2))
	test.Equate(t, int(dbg.Machine().CPU.LastError().Kind), int(bus.ErrNone))
}

func TestHaltIsTerminal(t *testing.T) {
	dbg := newTestDebugger(t, []uint32{toycore.Halt()}, nil)

	go dbg.cpuLoop()
	defer dbg.run.RequestExit()

	dbg.run.AddSteps(1)
	waitForState(t, dbg, govern.Halted)

	// halted machines refuse run/step/pause
	test.ExpectedFailure(t, dbg.processCommand("run"))
	test.ExpectedFailure(t, dbg.processCommand("step"))
	test.ExpectedFailure(t, dbg.processCommand("pause"))
}

// the custom formatter scenario: a single NOP with instruction logging on
// produces exactly one line from the installed formatter.
func TestCustomFormatter(t *testing.T) {
	dbg := newTestDebugger(t, []uint32{toycore.Nop(), toycore.Halt()}, nil)

	out, _ := test.NewCappedWriter(1024)
	dbg.SetTraceOutput(out)
	dbg.SetTraceOptions(tracer.Options{Instruction: true})
	dbg.SetTraceFormatter(func(record *execution.Record, options tracer.Options) string {
		return fmt.Sprintf("CUSTOM: 0x%x %d", record.PC, record.Inst)
	})

	r := dbg.Machine().CPU.Step(1, 1)
	test.ExpectedSuccess(t, r.OK)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	test.Equate(t, len(lines), 1)
	test.Equate(t, strings.Contains(lines[0], "CUSTOM: 0x0 0"), true)
}

// the branch prediction scenario: trace lines for a taken BEQ carry the
// decoded mnemonic and the branch details.
func TestBranchTrace(t *testing.T) {
	dbg := newTestDebugger(t, []uint32{
		toycore.Lui(1, 5),
		toycore.Lui(2, 5),
		toycore.Beq(1, 2, 1),
		toycore.Nop(),
		toycore.Nop(),
	}, nil)

	out, _ := test.NewCappedWriter(4096)
	dbg.SetTraceOutput(out)
	dbg.SetTraceOptions(tracer.Options{Instruction: true, BranchPrediction: true})

	r := dbg.Machine().CPU.Step(3, 3)
	test.ExpectedSuccess(t, r.OK)

	test.Equate(t, strings.Contains(out.String(), "(BEQ r1, r2"), true)
	test.Equate(t, strings.Contains(out.String(), "BP:(T:1"), true)
}

func TestCommands(t *testing.T) {
	dbg := newTestDebugger(t, []uint32{toycore.Nop(), toycore.Halt()}, nil)

	mt := &mockTerm{}
	dbg.term = mt

	// registers
	test.ExpectedSuccess(t, dbg.processCommand("regs"))
	test.Equate(t, len(mt.lines), 16)
	test.Equate(t, mt.lines[0], "r0 = 0x0")

	// expressions
	mt.lines = nil
	test.ExpectedSuccess(t, dbg.processCommand("eval 2 * (3 + 4)"))
	test.Equate(t, mt.lines[0], "0xe (14)")

	// memory dump rows carry the address prefix
	mt.lines = nil
	test.ExpectedSuccess(t, dbg.processCommand("mem 0x0 20"))
	test.Equate(t, len(mt.lines), 2)
	test.Equate(t, strings.HasPrefix(mt.lines[0], "00000000: "), true)
	test.Equate(t, strings.HasPrefix(mt.lines[1], "00000010: "), true)

	// breakpoints
	mt.lines = nil
	test.ExpectedSuccess(t, dbg.processCommand("bp add 0x10"))
	test.ExpectedSuccess(t, dbg.processCommand("bp add 4 * 2"))
	test.ExpectedSuccess(t, dbg.processCommand("bp list"))
	test.Equate(t, mt.contains("0x8"), true)
	test.Equate(t, mt.contains("0x10"), true)
	test.Equate(t, dbg.IsBreakpoint(0x10), true)

	test.ExpectedSuccess(t, dbg.processCommand("bp del 0x10"))
	test.Equate(t, dbg.IsBreakpoint(0x10), false)

	// trace toggles
	test.ExpectedSuccess(t, dbg.processCommand("trace itrace on"))
	test.Equate(t, dbg.TraceOptions().Instruction, true)
	test.ExpectedSuccess(t, dbg.processCommand("trace itrace off"))
	test.Equate(t, dbg.TraceOptions().Instruction, false)

	// log levels
	test.ExpectedSuccess(t, dbg.processCommand("log debug"))
	test.ExpectedFailure(t, dbg.processCommand("log shouting"))

	// unknown commands fail
	test.ExpectedFailure(t, dbg.processCommand("launch"))
}

func TestQuitStopsRun(t *testing.T) {
	// a program that loops forever
	dbg := newTestDebugger(t, []uint32{
		toycore.Beq(0, 0, -1),
	}, nil)

	done := make(chan error)
	go func() {
		done <- dbg.Run(false, nil)
	}()

	// let it spin briefly, then ask it to stop
	time.Sleep(50 * time.Millisecond)
	dbg.Quit()

	select {
	case err := <-done:
		test.ExpectedSuccess(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after Quit")
	}

	test.Equate(t, int(dbg.Machine().CPU.LastError().Kind), int(bus.ErrNone))
}

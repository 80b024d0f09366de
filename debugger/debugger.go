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
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/jetsetilly/minisoc/debugger/govern"
	"github.com/jetsetilly/minisoc/debugger/terminal"
	"github.com/jetsetilly/minisoc/hardware"
	"github.com/jetsetilly/minisoc/hardware/cpu"
	"github.com/jetsetilly/minisoc/tracer"
)

// Debugger is the controller at the heart of the emulator. It owns the
// machine, the run-state machine and the breakpoint table; while running it
// multiplexes the CPU thread, the display thread and the command thread.
type Debugger struct {
	machine *hardware.Machine
	cpu     cpu.Executor

	run *runState
	brk *breakpoints

	// trace options are read by the CPU thread on every instruction, so they
	// live in an atomic rather than behind the trace critical section.
	traceOptions atomicOptions

	traceCrit    sync.Mutex
	formatter    tracer.Formatter
	traceMetrics bool
	traceOutput  io.Writer

	term        terminal.Terminal
	interactive bool

	// total instructions executed. updated by the CPU thread, read by the
	// status line.
	instructions uint64

	stat status
}

// NewDebugger creates a controller for the machine and attaches itself to
// the machine's CPU as its host.
func NewDebugger(m *hardware.Machine) *Debugger {
	dbg := &Debugger{
		machine: m,
		cpu:     m.CPU,
		run:     newRunState(),
		brk:     newBreakpoints(),
	}

	dbg.traceOptions.Store(tracer.Options{})
	dbg.formatter = tracer.DefaultFormatter
	dbg.traceOutput = os.Stdout
	dbg.stat.cmdOK = true

	dbg.cpu.AttachDebugger(dbg)

	return dbg
}

// Machine returns the machine under control.
func (dbg *Debugger) Machine() *hardware.Machine {
	return dbg.machine
}

// State returns the current run state.
func (dbg *Debugger) State() govern.State {
	return dbg.run.State()
}

// SetTraceOptions replaces the trace category selection.
func (dbg *Debugger) SetTraceOptions(options tracer.Options) {
	dbg.traceOptions.Store(options)
}

// SetTraceFormatter installs a custom trace formatter in place of
// tracer.DefaultFormatter.
func (dbg *Debugger) SetTraceFormatter(f tracer.Formatter) {
	dbg.traceCrit.Lock()
	defer dbg.traceCrit.Unlock()
	dbg.formatter = f
}

// SetTraceOutput redirects trace lines. The default is os.Stdout.
func (dbg *Debugger) SetTraceOutput(output io.Writer) {
	dbg.traceCrit.Lock()
	defer dbg.traceCrit.Unlock()
	dbg.traceOutput = output
}

// SetTraceMetrics enables the derived-metrics annotation of trace records.
func (dbg *Debugger) SetTraceMetrics(enabled bool) {
	dbg.traceCrit.Lock()
	defer dbg.traceCrit.Unlock()
	dbg.traceMetrics = enabled
}

// AddBreakpoint adds an address to the breakpoint table.
func (dbg *Debugger) AddBreakpoint(address uint64) {
	dbg.brk.add(address)
}

// RemoveBreakpoint removes an address from the breakpoint table.
func (dbg *Debugger) RemoveBreakpoint(address uint64) {
	dbg.brk.remove(address)
}

// ListBreakpoints returns the breakpoint addresses in ascending order.
func (dbg *Debugger) ListBreakpoints() []uint64 {
	return dbg.brk.list()
}

// Run drives the machine until termination. In interactive mode the machine
// starts paused and the terminal accepts commands; otherwise the machine
// free-runs and the command thread forwards stdin to the UART.
//
// Run blocks until a quit command, a display quit or (non-interactive only)
// a CPU halt or fault.
func (dbg *Debugger) Run(interactive bool, term terminal.Terminal) error {
	dbg.interactive = interactive
	dbg.term = term

	if term != nil {
		if err := term.Initialise(); err != nil {
			return err
		}
		defer term.CleanUp()
	}

	if interactive {
		dbg.run.SetState(govern.Paused)
	} else {
		dbg.run.SetState(govern.Running)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dbg.cpuLoop()
	}()
	go func() {
		defer wg.Done()
		dbg.displayLoop()
	}()

	// the input loop is not joined: it may be blocked in a read on stdin
	// that only resolves when the process exits.
	go dbg.inputLoop()

	<-dbg.run.ExitChan()
	wg.Wait()

	return nil
}

// Quit requests termination from outside the command loop.
func (dbg *Debugger) Quit() {
	dbg.run.RequestExit()
}

// atomicOptions wraps the atomic.Value boilerplate for tracer.Options.
type atomicOptions struct {
	v atomic.Value
}

func (a *atomicOptions) Store(options tracer.Options) {
	a.v.Store(options)
}

func (a *atomicOptions) Load() tracer.Options {
	if o, ok := a.v.Load().(tracer.Options); ok {
		return o
	}
	return tracer.Options{}
}

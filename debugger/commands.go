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
	"strings"

	"github.com/jetsetilly/minisoc/curated"
	"github.com/jetsetilly/minisoc/debugger/expression"
	"github.com/jetsetilly/minisoc/debugger/govern"
	"github.com/jetsetilly/minisoc/debugger/terminal"
	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/logger"
)

var commandHelp = []string{
	"run                    resume execution",
	"step [n]               execute n instructions (default 1)",
	"pause                  pause execution",
	"regs                   list CPU registers",
	"mem <addr> <len>       dump len bytes from addr",
	"eval <expr>            evaluate an expression",
	"bp list|add|del        manage breakpoints",
	"trace <cat> [on|off]   toggle itrace/mtrace/bptrace/metrics",
	"log <level>            set log level (trace..error)",
	"memviz [file]          dump the machine graph to a DOT file",
	"quit                   terminate the emulator",
}

// processCommand parses and executes one line of user input. The returned
// error is shown to the user and reflected in the status line's CMD flag.
func (dbg *Debugger) processCommand(input string) error {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "help":
		for _, h := range commandHelp {
			dbg.term.TermPrintLine(terminal.StyleHelp, h)
		}
		return nil

	case "run":
		if dbg.run.State() == govern.Halted {
			return curated.Errorf(curated.CommandError, "machine is halted")
		}
		dbg.run.SetState(govern.Running)
		return nil

	case "step":
		if dbg.run.State() == govern.Halted {
			return curated.Errorf(curated.CommandError, "machine is halted")
		}
		n := uint64(1)
		if len(args) > 0 {
			v, err := dbg.evaluate(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if v < 1 {
				v = 1
			}
			n = v
		}
		dbg.run.AddSteps(uint32(n))
		return nil

	case "pause":
		if dbg.run.State() == govern.Halted {
			return curated.Errorf(curated.CommandError, "machine is halted")
		}
		dbg.run.SetState(govern.Paused)
		return nil

	case "quit", "exit":
		dbg.run.RequestExit()
		return nil

	case "regs":
		for i := uint32(0); i < dbg.cpu.RegisterCount(); i++ {
			dbg.term.TermPrintLine(terminal.StyleOutput,
				fmt.Sprintf("r%d = 0x%x", i, dbg.cpu.Register(i)))
		}
		return nil

	case "mem":
		if len(args) != 2 {
			return curated.Errorf(curated.CommandError, "usage: mem <addr> <len>")
		}
		addr, err := dbg.evaluate(args[0])
		if err != nil {
			return err
		}
		length, err := dbg.evaluate(args[1])
		if err != nil {
			return err
		}
		dbg.dumpMemory(addr, length)
		return nil

	case "eval":
		if len(args) == 0 {
			return curated.Errorf(curated.CommandError, "usage: eval <expr>")
		}
		v, err := dbg.evaluate(strings.Join(args, " "))
		if err != nil {
			return err
		}
		dbg.term.TermPrintLine(terminal.StyleOutput, fmt.Sprintf("0x%x (%d)", v, v))
		return nil

	case "bp":
		return dbg.breakpointCommand(args)

	case "trace":
		return dbg.traceCommand(args)

	case "log":
		if len(args) != 1 {
			return curated.Errorf(curated.CommandError, "usage: log <level>")
		}
		level, ok := logger.ParseLevel(args[0])
		if !ok {
			return curated.Errorf(curated.UnknownLogLevel, args[0])
		}
		logger.SetLevel(level)
		return nil

	case "memviz":
		path := "machine.dot"
		if len(args) > 0 {
			path = args[0]
		}
		return dbg.dumpGraph(path)
	}

	return curated.Errorf(curated.UnknownCommand, verb)
}

func (dbg *Debugger) evaluate(expr string) (uint64, error) {
	return expression.Evaluate(expr, dbg)
}

// dumpMemory prints 16-byte rows, each prefixed with the address of its
// first byte. Unreadable bytes print as zero, as they do in the expression
// evaluator.
func (dbg *Debugger) dumpMemory(address uint64, length uint64) {
	row := strings.Builder{}
	for i := uint64(0); i < length; i++ {
		if i%16 == 0 {
			row.WriteString(fmt.Sprintf("%08x: ", address+i))
		}

		var b byte
		r := dbg.machine.Bus.Read(bus.Access{Address: address + i, Size: 1, Kind: bus.Read})
		if r.OK {
			b = byte(r.Data)
		}
		row.WriteString(fmt.Sprintf("%02x ", b))

		if i%16 == 15 || i+1 == length {
			dbg.term.TermPrintLine(terminal.StyleOutput, strings.TrimRight(row.String(), " "))
			row.Reset()
		}
	}
}

func (dbg *Debugger) breakpointCommand(args []string) error {
	if len(args) == 0 {
		return curated.Errorf(curated.CommandError, "usage: bp list|add <expr>|del <expr>")
	}

	switch strings.ToLower(args[0]) {
	case "list":
		l := dbg.brk.list()
		if len(l) == 0 {
			dbg.term.TermPrintLine(terminal.StyleFeedback, "no breakpoints")
			return nil
		}
		for _, a := range l {
			dbg.term.TermPrintLine(terminal.StyleOutput, fmt.Sprintf("0x%x", a))
		}
		return nil

	case "add", "del":
		if len(args) < 2 {
			return curated.Errorf(curated.CommandError, fmt.Sprintf("usage: bp %s <expr>", args[0]))
		}
		addr, err := dbg.evaluate(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if args[0] == "add" {
			dbg.brk.add(addr)
		} else {
			dbg.brk.remove(addr)
		}
		return nil
	}

	return curated.Errorf(curated.CommandError, fmt.Sprintf("unknown bp action: %s", args[0]))
}

func (dbg *Debugger) traceCommand(args []string) error {
	options := dbg.TraceOptions()

	if len(args) == 0 {
		dbg.traceCrit.Lock()
		metrics := dbg.traceMetrics
		dbg.traceCrit.Unlock()
		dbg.term.TermPrintLine(terminal.StyleOutput,
			fmt.Sprintf("itrace:%v mtrace:%v bptrace:%v metrics:%v",
				options.Instruction, options.MemEvents, options.BranchPrediction, metrics))
		return nil
	}

	enable := true
	if len(args) > 1 {
		switch strings.ToLower(args[1]) {
		case "on":
			enable = true
		case "off":
			enable = false
		default:
			return curated.Errorf(curated.CommandError, fmt.Sprintf("expected on or off, got %s", args[1]))
		}
	}

	switch strings.ToLower(args[0]) {
	case "itrace":
		options.Instruction = enable
	case "mtrace":
		options.MemEvents = enable
	case "bptrace":
		options.BranchPrediction = enable
	case "metrics":
		dbg.SetTraceMetrics(enable)
		return nil
	default:
		return curated.Errorf(curated.CommandError, fmt.Sprintf("unknown trace category: %s", args[0]))
	}

	dbg.SetTraceOptions(options)
	return nil
}

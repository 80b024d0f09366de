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
	"sync/atomic"

	"github.com/jetsetilly/minisoc/debugger/govern"
	"github.com/jetsetilly/minisoc/debugger/terminal"
	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/logger"
)

// instructions per wakeup during free-running execution. the cycle limit for
// each batch is the device sync threshold, so a batch never outruns device
// synchronisation.
const freeRunBatch = 1000

// cpuLoop is the body of the CPU thread. It waits on the run state, executes
// a batch per wakeup, synchronises the devices and re-evaluates the state.
func (dbg *Debugger) cpuLoop() {
	syncThreshold := dbg.machine.SyncThreshold()

	for {
		dbg.run.WaitRunnable()
		if dbg.run.Exiting() {
			return
		}

		if steps := dbg.run.TakeSteps(); steps > 0 {
			result := dbg.cpu.Step(uint64(steps), uint64(steps))
			atomic.AddUint64(&dbg.instructions, result.Instructions)
			dbg.machine.Bus.SyncAll(dbg.cpu.Cycle())

			if !result.OK {
				dbg.stopped()
				continue
			}

			// a consumed step batch always demotes to paused
			dbg.run.SetState(govern.Paused)
			continue
		}

		if dbg.run.State() != govern.Running {
			continue
		}

		result := dbg.cpu.Step(freeRunBatch, syncThreshold)
		atomic.AddUint64(&dbg.instructions, result.Instructions)
		dbg.machine.Bus.SyncAll(dbg.cpu.Cycle())

		if dbg.interactive {
			dbg.throttledStatus()
		}

		if !result.OK {
			dbg.stopped()
		}
	}
}

// stopped reacts to an unsuccessful step result. A clean last error means
// the executor stopped on a breakpoint; anything else is a fault or halt
// and the machine is dead.
func (dbg *Debugger) stopped() {
	lastError := dbg.cpu.LastError()

	if lastError.Kind == bus.ErrNone {
		dbg.run.SetState(govern.Paused)
		if dbg.term != nil {
			dbg.term.TermPrintLine(terminal.StyleFeedback,
				fmt.Sprintf("breakpoint at 0x%x", dbg.cpu.PC()))
		}
		return
	}

	dbg.run.SetState(govern.Halted)

	if lastError.Kind == bus.ErrHalt {
		logger.Logf(logger.LevelInfo, "cpu", "halted at 0x%x", lastError.Address)
	} else {
		logger.Logf(logger.LevelError, "cpu", "%v", lastError)
	}

	if dbg.term != nil {
		dbg.term.TermPrintLine(terminal.StyleFeedback, fmt.Sprintf("machine halted: %v", lastError))
	}

	// without a command thread to inspect the corpse there is nothing left
	// to do
	if !dbg.interactive {
		dbg.run.RequestExit()
	}
}

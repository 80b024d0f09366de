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
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/minisoc/debugger/terminal"
)

// minimum interval between status updates pushed from the CPU thread.
const statusThrottle = 30 * time.Millisecond

// status holds the bookkeeping for the interactive status line: the moving
// cycles-per-second estimate and the success flag of the last command.
type status struct {
	crit sync.Mutex

	lastUpdate time.Time
	lastCycle  uint64
	cps        float64

	cmdOK bool
}

func (s *status) setCmdOK(ok bool) {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.cmdOK = ok
}

// measure updates the cycles-per-second estimate from the running delta.
func (s *status) measure(cycle uint64) {
	now := time.Now()
	if !s.lastUpdate.IsZero() {
		elapsed := now.Sub(s.lastUpdate).Seconds()
		if elapsed > 0 && cycle >= s.lastCycle {
			s.cps = float64(cycle-s.lastCycle) / elapsed
		}
	}
	s.lastUpdate = now
	s.lastCycle = cycle
}

// statusLine composes the one-line machine summary shown in interactive
// mode.
func (dbg *Debugger) statusLine() string {
	cycle := dbg.cpu.Cycle()
	instructions := atomic.LoadUint64(&dbg.instructions)

	ipc := 0.0
	if cycle > 0 {
		ipc = float64(instructions) / float64(cycle)
	}

	dbg.stat.crit.Lock()
	cps := dbg.stat.cps
	cmd := "OK"
	if !dbg.stat.cmdOK {
		cmd = "ERR"
	}
	dbg.stat.crit.Unlock()

	return fmt.Sprintf("[%s] PC:0x%x Cycle:%d Inst:%d IPC:%.2f CPS:%.0f CMD:%s",
		dbg.run.State(), dbg.cpu.PC(), cycle, instructions, ipc, cps, cmd)
}

// printStatus recomputes and prints the status line. Called from the command
// thread before every prompt.
func (dbg *Debugger) printStatus() {
	dbg.stat.crit.Lock()
	dbg.stat.measure(dbg.cpu.Cycle())
	dbg.stat.crit.Unlock()

	dbg.term.TermPrintLine(terminal.StyleStatus, dbg.statusLine())
}

// throttledStatus is called from the CPU thread after every free-run batch.
// The update is dropped unless enough time has passed since the last one.
func (dbg *Debugger) throttledStatus() {
	dbg.stat.crit.Lock()
	if time.Since(dbg.stat.lastUpdate) < statusThrottle {
		dbg.stat.crit.Unlock()
		return
	}
	dbg.stat.measure(dbg.cpu.Cycle())
	dbg.stat.crit.Unlock()

	if dbg.term != nil {
		dbg.term.TermPrintLine(terminal.StyleStatus, dbg.statusLine())
	}
}

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
	"os"
	"strings"

	"github.com/jetsetilly/minisoc/curated"
	"github.com/jetsetilly/minisoc/debugger/govern"
	"github.com/jetsetilly/minisoc/debugger/terminal"
)

const commandPrompt = "(minisoc) "

// inputLoop is the body of the controller-interaction thread. With a
// terminal attached it is the interactive command loop; without one it
// forwards stdin bytes to the UART's receive queue.
func (dbg *Debugger) inputLoop() {
	if dbg.term == nil {
		dbg.uartForwardLoop()
		return
	}

	buffer := make([]byte, 256)

	for !dbg.run.Exiting() {
		if dbg.interactive {
			dbg.printStatus()
		}

		n, err := dbg.term.TermRead(buffer, terminal.Prompt{Content: commandPrompt})
		if err != nil {
			if curated.Is(err, curated.UserInterrupt) {
				// ctrl-c pauses a running machine. a halted machine stays
				// halted; the QUIT command ends the session
				if dbg.run.State() != govern.Halted {
					dbg.run.SetState(govern.Paused)
				}
				continue
			}
			// EOF and deliberate quits both terminate
			dbg.run.RequestExit()
			return
		}

		input := strings.TrimSpace(string(buffer[:n]))
		if input == "" {
			continue
		}

		err = dbg.processCommand(input)
		dbg.stat.setCmdOK(err == nil)
		if err != nil {
			dbg.term.TermPrintLine(terminal.StyleError, err.Error())
		}
	}
}

// uartForwardLoop gives the program something to read on its serial port
// when no debugger terminal is attached.
func (dbg *Debugger) uartForwardLoop() {
	buffer := make([]byte, 256)
	for !dbg.run.Exiting() {
		n, err := os.Stdin.Read(buffer)
		if err != nil {
			return
		}
		for _, b := range buffer[:n] {
			dbg.machine.UART.PushRx(b)
		}
	}
}

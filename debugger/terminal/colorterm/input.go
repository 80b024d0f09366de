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

package colorterm

import (
	"fmt"
	"os"

	"github.com/jetsetilly/minisoc/curated"
	"github.com/jetsetilly/minisoc/debugger/terminal"
)

// key codes handled by the line editor.
const (
	keyCtrlC          = 3
	keyCtrlD          = 4
	keyBackspace      = 8
	keyTab            = 9
	keyLineFeed       = 10
	keyCarriageReturn = 13
	keyEsc            = 27
	keyDel            = 127
)

func (ct *ColorTerm) redraw(prompt terminal.Prompt, line []byte) {
	fmt.Fprintf(os.Stdout, "%s%s%s%s%s", ansiClearLine, ansiBold, prompt.Content, ansiReset, string(line))
}

// TermRead implements the terminal.Input interface. A minimal line editor:
// printable keys append, backspace deletes, cursor up/down walks the
// history, ctrl-c interrupts and ctrl-d quits.
func (ct *ColorTerm) TermRead(buffer []byte, prompt terminal.Prompt) (int, error) {
	line := make([]byte, 0, len(buffer))
	ct.historyIdx = len(ct.history)

	ct.redraw(prompt, line)

	key := make([]byte, 4)
	for {
		n, err := ct.tty.Read(key)
		if err != nil {
			return 0, curated.Errorf(curated.TerminalError, err)
		}
		if n == 0 {
			continue
		}

		switch key[0] {
		case keyCtrlC:
			fmt.Fprint(os.Stdout, "\r\n")
			return 0, curated.Errorf(curated.UserInterrupt)

		case keyCtrlD:
			fmt.Fprint(os.Stdout, "\r\n")
			return 0, curated.Errorf(curated.UserQuit)

		case keyCarriageReturn, keyLineFeed:
			fmt.Fprint(os.Stdout, "\r\n")
			if len(line) > 0 {
				ct.history = append(ct.history, string(line))
				if len(ct.history) > maxHistory {
					ct.history = ct.history[1:]
				}
			}
			n := copy(buffer, line)
			if n < len(buffer) {
				buffer[n] = '\n'
				n++
			}
			return n, nil

		case keyBackspace, keyDel:
			if len(line) > 0 {
				line = line[:len(line)-1]
				ct.redraw(prompt, line)
			}

		case keyEsc:
			if n >= 3 && key[1] == '[' {
				switch key[2] {
				case 'A': // cursor up
					if ct.historyIdx > 0 {
						ct.historyIdx--
						line = append(line[:0], ct.history[ct.historyIdx]...)
						ct.redraw(prompt, line)
					}
				case 'B': // cursor down
					if ct.historyIdx < len(ct.history)-1 {
						ct.historyIdx++
						line = append(line[:0], ct.history[ct.historyIdx]...)
					} else {
						ct.historyIdx = len(ct.history)
						line = line[:0]
					}
					ct.redraw(prompt, line)
				}
			}

		case keyTab:
			// no tab completion

		default:
			if key[0] >= 32 && key[0] < 127 && len(line) < len(buffer)-1 {
				line = append(line, key[0])
				fmt.Fprint(os.Stdout, string(key[0]))
			}
		}
	}
}

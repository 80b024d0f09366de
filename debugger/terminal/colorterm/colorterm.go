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

// Package colorterm implements the Terminal interface for the debugger with
// ANSI styling, raw-mode input and a command history.
package colorterm

import (
	"fmt"
	"os"

	"github.com/jetsetilly/minisoc/curated"
	"github.com/jetsetilly/minisoc/debugger/terminal"
	"github.com/pkg/term"
)

// ANSI sequences used for styling and line editing.
const (
	ansiReset     = "\033[0m"
	ansiDimmed    = "\033[2m"
	ansiBold      = "\033[1m"
	ansiRed       = "\033[31m"
	ansiCyan      = "\033[36m"
	ansiClearLine = "\r\033[2K"
)

const maxHistory = 50

// ColorTerm implements the terminal.Terminal interface. Input is read a key
// at a time from a raw-mode terminal.
type ColorTerm struct {
	tty *term.Term

	history    []string
	historyIdx int
}

// Initialise implements the terminal.Terminal interface. The terminal is put
// into raw mode and stays there until CleanUp.
func (ct *ColorTerm) Initialise() error {
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return curated.Errorf(curated.TerminalError, err)
	}
	ct.tty = tty
	ct.history = make([]string, 0, maxHistory)
	return nil
}

// CleanUp implements the terminal.Terminal interface.
func (ct *ColorTerm) CleanUp() {
	if ct.tty != nil {
		ct.tty.Restore()
		ct.tty.Close()
		ct.tty = nil
	}
}

// IsInteractive implements the terminal.Input interface.
func (ct *ColorTerm) IsInteractive() bool {
	return true
}

// TermPrintLine implements the terminal.Output interface.
func (ct *ColorTerm) TermPrintLine(style terminal.Style, s string) {
	switch style {
	case terminal.StyleError:
		fmt.Fprintf(os.Stdout, "%s* %s%s\r\n", ansiRed, s, ansiReset)
	case terminal.StyleStatus:
		fmt.Fprintf(os.Stdout, "%s%s%s\r\n", ansiDimmed, s, ansiReset)
	case terminal.StyleHelp:
		fmt.Fprintf(os.Stdout, "%s%s%s\r\n", ansiCyan, s, ansiReset)
	default:
		fmt.Fprintf(os.Stdout, "%s\r\n", s)
	}
}

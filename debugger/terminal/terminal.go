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

package terminal

// Style is used by Terminal implementations to decorate output.
type Style int

// List of defined styles. Implementations that can't decorate output can
// ignore the style, except for StyleError which should always be visible in
// some form.
const (
	StyleOutput Style = iota
	StyleFeedback
	StyleHelp
	StyleStatus
	StyleError
)

// Prompt is presented to the user ahead of a TermRead.
type Prompt struct {
	Content string
}

// Input defines the operations required of the command input side of a
// terminal.
type Input interface {
	// TermRead returns the number of characters inserted into the buffer, or
	// an error, when a line of input has completed.
	TermRead(buffer []byte, prompt Prompt) (int, error)

	// IsInteractive returns true for implementations that expect a human on
	// the other end.
	IsInteractive() bool
}

// Output defines the operations required of the output side of a terminal.
type Output interface {
	TermPrintLine(style Style, s string)
}

// Terminal defines the operations required by the debugger's command-line
// interface.
type Terminal interface {
	Input
	Output

	// Initialise the terminal. not all implementations need to do anything.
	Initialise() error

	// CleanUp restores the terminal to its original state, if possible.
	CleanUp()
}

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

package curated

// the named error patterns of the application are collected here. a few
// one-off errors (config file parsing, the address plan, profiling) are
// created with an inline pattern where they are raised.
const (
	// main program
	Configuration = "configuration error: %v"

	// config package
	ConfigFileCannotOpen = "config: cannot open %s"
	ConfigFileError      = "config: %s: line %d: %v"

	// hardware package
	AddressPlan = "address plan: %v"
	ROMLoad     = "rom load: %v"

	// memory device
	MemoryDevice = "memory: %v"

	// display
	Display = "display: %v"

	// SDL surface
	SDL = "SDL: %v"

	// debugger
	DebuggerError   = "debugger: %v"
	CommandError    = "command: %v"
	UnknownCommand  = "unknown command: %s"
	UnknownLogLevel = "unknown log level: %s"

	// terminal
	UserInterrupt = "user interrupt"
	UserQuit      = "user quit"
	TerminalError = "terminal: %v"

	// expression evaluator
	ExpressionError = "expression: %v"
)

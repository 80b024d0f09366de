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

// Package debugger is the emulator's controller. Three threads run under
// it: the CPU thread executing instruction batches, the display thread
// pumping events and presents, and the command thread consuming user input.
// They coordinate through a shared run-state machine with cooperative
// pause/step/resume.
//
// The debugger also serves as the executor's host: bus access, breakpoint
// checks and trace logging all pass through it.
package debugger

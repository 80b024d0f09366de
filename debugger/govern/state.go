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

package govern

// State indicates the condition of the CPU thread.
type State int

// List of possible states. Halted is terminal: the only transition out of it
// is process exit.
const (
	Paused State = iota
	Running
	Halted
)

func (s State) String() string {
	switch s {
	case Paused:
		return "PAUSED"
	case Running:
		return "RUNNING"
	case Halted:
		return "HALTED"
	}
	return ""
}

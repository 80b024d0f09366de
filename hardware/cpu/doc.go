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

// Package cpu defines the executor contract the machine drives and the host
// capability an executor talks back through. The two interfaces break what
// would otherwise be a reference cycle between the executor and the
// debugger: the controller owns both and wires them together at startup.
package cpu

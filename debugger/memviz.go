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
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/minisoc/curated"
	"github.com/jetsetilly/minisoc/debugger/terminal"
)

// dumpGraph writes the machine's object graph to a DOT file. Render with
// graphviz: dot -Tsvg machine.dot
func (dbg *Debugger) dumpGraph(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return curated.Errorf(curated.CommandError, err)
	}
	defer f.Close()

	memviz.Map(f, dbg.machine)

	dbg.term.TermPrintLine(terminal.StyleFeedback, fmt.Sprintf("machine graph written to %s", path))
	return nil
}

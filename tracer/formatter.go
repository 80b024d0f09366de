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

package tracer

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/cpu/execution"
)

// Formatter turns a trace record into a single log line. A custom formatter
// can be installed on the debugger in place of DefaultFormatter.
type Formatter func(record *execution.Record, options Options) string

func boolDigit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// DefaultFormatter is the formatter used when none has been installed.
//
// With every category enabled the output looks like:
//
//	PC:0x10 Inst:0x5010201 (BEQ r1, r2, +1) BP:(T:1 P:0 Target:0x18 PTarget:0x14)
//	PC:0x8 Inst:0x4020100 (SW r2, [r1+0]) Mem:[W:0x20000000=0x4f]
func DefaultFormatter(record *execution.Record, options Options) string {
	s := strings.Builder{}

	if options.Instruction {
		s.WriteString(fmt.Sprintf("PC:0x%x Inst:0x%x (%s)", record.PC, record.Inst, record.Mnemonic))
	}

	if options.BranchPrediction && record.IsBranch {
		if s.Len() > 0 {
			s.WriteString(" ")
		}
		s.WriteString(fmt.Sprintf("BP:(T:%d P:%d Target:0x%x PTarget:0x%x)",
			boolDigit(record.Branch.Taken), boolDigit(record.Branch.PredictedTaken),
			record.Branch.Target, record.Branch.PredictedTarget))
	}

	if options.MemEvents {
		events := make([]string, 0, len(record.MemEvents))
		for _, ev := range record.MemEvents {
			if ev.Kind == bus.Fetch {
				continue
			}
			events = append(events, fmt.Sprintf("%s:0x%x=0x%x", ev.Kind, ev.Address, ev.Data))
		}
		if len(events) > 0 {
			if s.Len() > 0 {
				s.WriteString(" ")
			}
			s.WriteString(fmt.Sprintf("Mem:[%s]", strings.Join(events, ", ")))
		}
	}

	return s.String()
}

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

package execution

import (
	"github.com/jetsetilly/minisoc/hardware/bus"
)

// MemEvent records one bus transaction performed by an instruction.
type MemEvent struct {
	Kind    bus.AccessKind
	Address uint64
	Size    uint32
	Data    uint64
	Latency uint32
}

// BranchDetails is filled in for branch instructions. Target is the computed
// branch target whether or not the branch was taken; PredictedTarget is the
// pc the (trivial) predictor expected.
type BranchDetails struct {
	Taken           bool
	Target          uint64
	PredictedTaken  bool
	PredictedTarget uint64
}

// Field is a free-form key/value annotation attached to a record.
type Field struct {
	Key   string
	Value string
}

// Record is the structured result of a single instruction's execution. The
// executor fills one in per instruction and submits it to the trace sink;
// everything the trace subsystem knows about an instruction comes from here.
type Record struct {
	PC         uint64
	Inst       uint32
	Mnemonic   string
	CycleBegin uint64
	CycleEnd   uint64
	MemEvents  []MemEvent
	IsBranch   bool
	Branch     BranchDetails
	Extra      []Field
}

// AddExtra appends a key/value annotation to the record.
func (r *Record) AddExtra(key string, value string) {
	r.Extra = append(r.Extra, Field{Key: key, Value: value})
}

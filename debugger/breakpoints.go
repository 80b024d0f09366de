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
	"sort"
	"sync"
	"sync/atomic"
)

// breakpoints is the address set the CPU thread consults before every
// instruction. Mutation happens on the command thread under the critical
// section; the executor path reads a copy-on-write snapshot so that
// isBreakpoint never takes a lock.
type breakpoints struct {
	crit  sync.Mutex
	table map[uint64]bool

	snapshot atomic.Value // map[uint64]bool
	count    int32
}

func newBreakpoints() *breakpoints {
	b := &breakpoints{
		table: make(map[uint64]bool),
	}
	b.snapshot.Store(map[uint64]bool{})
	return b
}

func (b *breakpoints) publish() {
	c := make(map[uint64]bool, len(b.table))
	for k := range b.table {
		c[k] = true
	}
	b.snapshot.Store(c)
	atomic.StoreInt32(&b.count, int32(len(b.table)))
}

func (b *breakpoints) add(address uint64) {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.table[address] = true
	b.publish()
}

func (b *breakpoints) remove(address uint64) {
	b.crit.Lock()
	defer b.crit.Unlock()
	delete(b.table, address)
	b.publish()
}

func (b *breakpoints) list() []uint64 {
	b.crit.Lock()
	defer b.crit.Unlock()
	l := make([]uint64, 0, len(b.table))
	for k := range b.table {
		l = append(l, k)
	}
	sort.Slice(l, func(i, j int) bool { return l[i] < l[j] })
	return l
}

// isBreakpoint is called by the CPU thread at every step. Lock-free.
func (b *breakpoints) isBreakpoint(address uint64) bool {
	return b.snapshot.Load().(map[uint64]bool)[address]
}

// hasBreakpoints is the cheap guard the executor checks first.
func (b *breakpoints) hasBreakpoints() bool {
	return atomic.LoadInt32(&b.count) > 0
}

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

package timer

import (
	"sync/atomic"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/device"
)

// register map. all registers are 4 bytes wide.
const (
	RegLow  = 0x0
	RegHigh = 0x4
	RegCtrl = 0x8
)

const regSize = 4

// Timer is a monotonic microsecond counter advanced by CPU cycles. The
// counter assumes a 1MHz virtual clock: one cycle is one microsecond,
// whatever the configured CPU frequency. The counter is advanced exclusively
// by the tick handler, which makes its value deterministic for a given
// instruction stream.
type Timer struct {
	device.Device

	// accessed from the CPU thread via tick and bus reads, and from the
	// command thread via debugger memory inspection.
	micros uint64
}

// NewTimer is the preferred method of initialisation for the Timer type.
func NewTimer() *Timer {
	t := &Timer{}
	t.Init(device.Timer)
	t.SetReadHandler(t.busRead)
	t.SetWriteHandler(t.busWrite)
	t.SetTickHandler(t.tickHandler)
	return t
}

// Micros returns the current counter value.
func (t *Timer) Micros() uint64 {
	return atomic.LoadUint64(&t.micros)
}

func (t *Timer) tickHandler(deltaCycles uint64) {
	atomic.AddUint64(&t.micros, deltaCycles)
}

func (t *Timer) busRead(access bus.Access) bus.Response {
	if access.Size != regSize {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	switch access.Address {
	case RegLow:
		return bus.Okay(atomic.LoadUint64(&t.micros) & 0xffffffff)
	case RegHigh:
		return bus.Okay(atomic.LoadUint64(&t.micros) >> 32)
	}

	return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
}

func (t *Timer) busWrite(access bus.Access) bus.Response {
	if access.Size != regSize {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	if access.Address != RegCtrl {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	// any write to the control register resets the counter
	atomic.StoreUint64(&t.micros, 0)
	return bus.Okay(0)
}

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

package bus

import (
	"sync/atomic"
)

// Device is the view of a memory-mapped peripheral as seen by the bus. The
// address in any forwarded Access has already been translated to be relative
// to the device's mapping base.
type Device interface {
	Read(access Access) Response
	Write(access Access) Response
	Sync(currentCycle uint64)
}

// Mapping associates a device with the address range [Base, End).
type Mapping struct {
	Name   string
	Device Device
	Base   uint64
	Size   uint64
	End    uint64
}

// Contains returns true if the address falls inside the mapping's range.
func (m *Mapping) Contains(address uint64) bool {
	return address >= m.Base && address < m.End
}

// Bus routes read/write transactions to the device mapped at the target
// address. The mapping list is fixed once the host wiring phase has finished;
// after that the bus is accessed from the CPU thread on the hot path and from
// the command thread for debugger inspection.
type Bus struct {
	mappings []Mapping

	// devices in first-registration order. used by SyncAll; a device mapped
	// more than once is synchronised only once per call.
	devices []Device

	// index into mappings of the most recent hit. monotonic fetch streams hit
	// this slot almost every time. atomic because the command thread may
	// route accesses concurrently with the CPU thread.
	lastHit int64
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus() *Bus {
	return &Bus{
		mappings: make([]Mapping, 0, 8),
		devices:  make([]Device, 0, 8),
		lastHit:  -1,
	}
}

// Register appends a mapping for the device at [base, base+size). Registering
// the same (device, base, size) triple twice is idempotent. Overlap between
// mappings is not checked here; the host validates the address plan before
// the bus starts serving.
func (b *Bus) Register(dev Device, base uint64, size uint64, name string) {
	for i := range b.mappings {
		m := &b.mappings[i]
		if m.Device == dev && m.Base == base && m.Size == size {
			return
		}
	}

	b.mappings = append(b.mappings, Mapping{
		Name:   name,
		Device: dev,
		Base:   base,
		Size:   size,
		End:    base + size,
	})

	for _, d := range b.devices {
		if d == dev {
			return
		}
	}
	b.devices = append(b.devices, dev)
}

// FindByAddress returns the mapping whose range contains the address, or nil.
func (b *Bus) FindByAddress(address uint64) *Mapping {
	if hit := atomic.LoadInt64(&b.lastHit); hit >= 0 {
		m := &b.mappings[hit]
		if m.Contains(address) {
			return m
		}
	}

	for i := range b.mappings {
		if b.mappings[i].Contains(address) {
			atomic.StoreInt64(&b.lastHit, int64(i))
			return &b.mappings[i]
		}
	}

	return nil
}

// FindByName returns the first mapping registered with the name, or nil.
func (b *Bus) FindByName(name string) *Mapping {
	for i := range b.mappings {
		if b.mappings[i].Name == name {
			return &b.mappings[i]
		}
	}
	return nil
}

// Read routes a read or fetch transaction to the mapped device, translating
// the address to be base-relative. An unmapped address synthesises an access
// fault carrying the original address.
func (b *Bus) Read(access Access) Response {
	m := b.FindByAddress(access.Address)
	if m == nil || m.Device == nil {
		return Fault(ErrAccessFault, access.Address, access.Size)
	}
	access.Address -= m.Base
	return m.Device.Read(access)
}

// Write routes a write transaction to the mapped device. See Read.
func (b *Bus) Write(access Access) Response {
	m := b.FindByAddress(access.Address)
	if m == nil || m.Device == nil {
		return Fault(ErrAccessFault, access.Address, access.Size)
	}
	access.Address -= m.Base
	return m.Device.Write(access)
}

// SyncAll delivers the current cycle count to every unique registered device.
func (b *Bus) SyncAll(currentCycle uint64) {
	for _, d := range b.devices {
		d.Sync(currentCycle)
	}
}

// Mappings returns a copy of the mapping list in registration order.
func (b *Bus) Mappings() []Mapping {
	c := make([]Mapping, len(b.mappings))
	copy(c, b.mappings)
	return c
}

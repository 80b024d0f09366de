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

package device

import (
	"github.com/jetsetilly/minisoc/hardware/bus"
)

// Kind is the type tag carried by every device.
type Kind int

// List of device kinds.
const (
	Other Kind = iota
	Ram
	Rom
	Display
	Timer
	Uart
)

func (k Kind) String() string {
	switch k {
	case Ram:
		return "RAM"
	case Rom:
		return "ROM"
	case Display:
		return "display"
	case Timer:
		return "timer"
	case Uart:
		return "UART"
	}
	return "other"
}

// DefaultSyncThreshold is the number of cycles between tick deliveries for
// devices that don't declare an update frequency.
const DefaultSyncThreshold = 128

// handler signatures. the address in the access is relative to the device's
// mapping base.
type (
	ReadHandler  func(access bus.Access) bus.Response
	WriteHandler func(access bus.Access) bus.Response
	TickHandler  func(deltaCycles uint64)
)

// Device is the common core of every memory-mapped peripheral. Concrete
// devices embed it and bind their handlers during construction.
type Device struct {
	kind Kind

	read  ReadHandler
	write WriteHandler
	tick  TickHandler

	// minimum number of cycles between tick deliveries
	threshold uint64

	// cycle count at the most recent Sync that delivered a tick
	lastSync uint64
}

// Init sets the device kind and the default sync threshold. Must be called
// before the device is registered with a bus.
func (d *Device) Init(kind Kind) {
	d.kind = kind
	d.threshold = DefaultSyncThreshold
}

// Kind returns the device's type tag.
func (d *Device) Kind() Kind {
	return d.kind
}

// SetReadHandler binds the handler called for every read and fetch.
func (d *Device) SetReadHandler(h ReadHandler) {
	d.read = h
}

// SetWriteHandler binds the handler called for every write.
func (d *Device) SetWriteHandler(h WriteHandler) {
	d.write = h
}

// SetTickHandler binds the handler called by Sync when the threshold has
// elapsed.
func (d *Device) SetTickHandler(h TickHandler) {
	d.tick = h
}

// SetSyncThreshold changes the minimum number of cycles between ticks. The
// host derives this from the device's update frequency at wiring time.
func (d *Device) SetSyncThreshold(threshold uint64) {
	if threshold < 1 {
		threshold = 1
	}
	d.threshold = threshold
}

// SyncThreshold returns the current threshold in cycles.
func (d *Device) SyncThreshold() uint64 {
	return d.threshold
}

// Read implements the bus.Device interface. A device without a read handler
// reports a device fault.
func (d *Device) Read(access bus.Access) bus.Response {
	if d.read == nil {
		return bus.Fault(bus.ErrDeviceFault, access.Address, access.Size)
	}
	return d.read(access)
}

// Write implements the bus.Device interface. A device without a write handler
// reports a device fault.
func (d *Device) Write(access bus.Access) bus.Response {
	if d.write == nil {
		return bus.Fault(bus.ErrDeviceFault, access.Address, access.Size)
	}
	return d.write(access)
}

// Tick invokes the tick handler if one is bound.
func (d *Device) Tick(deltaCycles uint64) {
	if d.tick != nil {
		d.tick(deltaCycles)
	}
}

// Sync implements the bus.Device interface. The tick handler is invoked only
// when at least threshold cycles have elapsed since the previous delivery,
// amortising device synchronisation over instruction batches. Devices without
// a tick handler are a no-op.
func (d *Device) Sync(currentCycle uint64) {
	if d.tick == nil {
		return
	}
	if currentCycle <= d.lastSync {
		return
	}
	delta := currentCycle - d.lastSync
	if delta < d.threshold {
		return
	}
	d.Tick(delta)
	d.lastSync = currentCycle
}

// Frequency is implemented by devices that want to be synchronised at a
// particular rate. The returned value is in Hz; zero means the device doesn't
// care. The host turns each non-zero frequency into a cycle threshold and uses
// the smallest threshold (the highest frequency) to bound the CPU batch size.
type Frequency interface {
	UpdateFrequency() uint64
}

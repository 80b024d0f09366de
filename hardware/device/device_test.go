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

package device_test

import (
	"testing"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/device"
	"github.com/jetsetilly/minisoc/test"
)

func TestMissingHandlers(t *testing.T) {
	var d device.Device
	d.Init(device.Other)

	r := d.Read(bus.Access{Address: 0x10, Size: 4, Kind: bus.Read})
	test.ExpectedFailure(t, r.OK)
	test.Equate(t, int(r.Error.Kind), int(bus.ErrDeviceFault))
	test.Equate(t, r.Error.Address, uint64(0x10))

	w := d.Write(bus.Access{Address: 0x20, Size: 4, Kind: bus.Write})
	test.ExpectedFailure(t, w.OK)
	test.Equate(t, int(w.Error.Kind), int(bus.ErrDeviceFault))
}

func TestSyncThreshold(t *testing.T) {
	var d device.Device
	d.Init(device.Other)
	d.SetSyncThreshold(10)

	var ticks []uint64
	d.SetTickHandler(func(delta uint64) {
		ticks = append(ticks, delta)
	})

	// below the threshold nothing is delivered
	d.Sync(5)
	test.Equate(t, len(ticks), 0)

	// exactly the threshold delivers the full delta
	d.Sync(10)
	test.Equate(t, len(ticks), 1)
	test.Equate(t, ticks[0], uint64(10))

	// delta since last delivery is below threshold
	d.Sync(15)
	test.Equate(t, len(ticks), 1)

	// accumulates past the threshold
	d.Sync(25)
	test.Equate(t, len(ticks), 2)
	test.Equate(t, ticks[1], uint64(15))

	// cycle counts never go backwards but a stale value must not tick
	d.Sync(25)
	test.Equate(t, len(ticks), 2)
}

func TestSyncWithoutTickHandler(t *testing.T) {
	var d device.Device
	d.Init(device.Other)

	// no-op, must not panic
	d.Sync(1000000)
}

func TestThresholdFloor(t *testing.T) {
	var d device.Device
	d.Init(device.Other)

	test.Equate(t, d.SyncThreshold(), uint64(device.DefaultSyncThreshold))

	d.SetSyncThreshold(0)
	test.Equate(t, d.SyncThreshold(), uint64(1))
}

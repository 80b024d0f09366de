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

package display_test

import (
	"testing"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/display"
	"github.com/jetsetilly/minisoc/test"
)

func readReg(d *display.Display, offset uint64) bus.Response {
	return d.Read(bus.Access{Address: offset, Size: 4, Kind: bus.Read})
}

func writeReg(d *display.Display, offset uint64, data uint64) bus.Response {
	return d.Write(bus.Access{Address: offset, Size: 4, Kind: bus.Write, Data: data})
}

func TestGeometry(t *testing.T) {
	d := display.NewDisplay(320, 200, nil)

	test.Equate(t, readReg(d, display.RegWidth).Data, uint64(320))
	test.Equate(t, readReg(d, display.RegHeight).Data, uint64(200))
	test.Equate(t, readReg(d, display.RegPitch).Data, uint64(320*4))
	test.Equate(t, d.MappedSize(), uint64(0x1000+320*200*4))
}

func TestDirtyAndPresent(t *testing.T) {
	d := display.NewDisplay(16, 16, nil)

	// ready, not dirty
	test.Equate(t, readReg(d, display.RegStatus).Data, uint64(display.StatusReady))

	// any framebuffer write sets dirty
	w := d.Write(bus.Access{Address: display.ControlSize, Size: 1, Kind: bus.Write, Data: 0xff})
	test.ExpectedSuccess(t, w.OK)
	test.Equate(t, readReg(d, display.RegStatus).Data, uint64(display.StatusReady|display.StatusDirty))

	// present request is consumed exactly once per CTRL write
	test.Equate(t, d.ConsumePresentRequest(), false)
	writeReg(d, display.RegCtrl, display.CtrlPresent)
	test.Equate(t, d.ConsumePresentRequest(), true)
	test.Equate(t, d.ConsumePresentRequest(), false)

	// a CTRL write without bit0 requests nothing
	writeReg(d, display.RegCtrl, 0xfe)
	test.Equate(t, d.ConsumePresentRequest(), false)

	// headless present still clears dirty
	d.Present()
	test.Equate(t, readReg(d, display.RegStatus).Data, uint64(display.StatusReady))
}

func TestFramebufferRoundTrip(t *testing.T) {
	d := display.NewDisplay(16, 16, nil)

	addr := uint64(display.ControlSize + 0x40)
	w := d.Write(bus.Access{Address: addr, Size: 4, Kind: bus.Write, Data: 0xffaa5500})
	test.ExpectedSuccess(t, w.OK)

	r := d.Read(bus.Access{Address: addr, Size: 4, Kind: bus.Read})
	test.Equate(t, r.Data, uint64(0xffaa5500))

	// little-endian byte order within the word
	r = d.Read(bus.Access{Address: addr, Size: 1, Kind: bus.Read})
	test.Equate(t, r.Data, uint64(0x00))
	r = d.Read(bus.Access{Address: addr + 3, Size: 1, Kind: bus.Read})
	test.Equate(t, r.Data, uint64(0xff))
}

func TestOutOfRange(t *testing.T) {
	d := display.NewDisplay(16, 16, nil)

	// past the framebuffer
	end := d.MappedSize()
	r := d.Read(bus.Access{Address: end, Size: 1, Kind: bus.Read})
	test.ExpectedFailure(t, r.OK)
	test.Equate(t, int(r.Error.Kind), int(bus.ErrAccessFault))

	// straddling the end
	r = d.Read(bus.Access{Address: end - 2, Size: 4, Kind: bus.Read})
	test.ExpectedFailure(t, r.OK)

	// unknown control register
	r = readReg(d, 0x14)
	test.ExpectedFailure(t, r.OK)

	// control registers require 4-byte access
	r = d.Read(bus.Access{Address: display.RegStatus, Size: 1, Kind: bus.Read})
	test.ExpectedFailure(t, r.OK)
}

func TestKeyQueue(t *testing.T) {
	d := display.NewDisplay(16, 16, nil)

	test.Equate(t, readReg(d, display.RegKeyStatus).Data, uint64(0))
	test.Equate(t, readReg(d, display.RegKeyData).Data, uint64(0))

	d.PushKey('x')
	d.PushKey('y')

	test.Equate(t, readReg(d, display.RegKeyStatus).Data, uint64(1))
	test.Equate(t, readReg(d, display.RegKeyLast).Data, uint64('y'))

	// FIFO order at KEY_DATA
	test.Equate(t, readReg(d, display.RegKeyData).Data, uint64('x'))
	test.Equate(t, readReg(d, display.RegKeyData).Data, uint64('y'))
	test.Equate(t, readReg(d, display.RegKeyStatus).Data, uint64(0))

	// last key survives the queue being drained
	test.Equate(t, readReg(d, display.RegKeyLast).Data, uint64('y'))

	// a KEY_STATUS write clears queue and latch
	d.PushKey('z')
	writeReg(d, display.RegKeyStatus, 1)
	test.Equate(t, readReg(d, display.RegKeyStatus).Data, uint64(0))
	test.Equate(t, readReg(d, display.RegKeyLast).Data, uint64(0))
}

// scripted surface for testing the input pump.
type scriptedSurface struct {
	events   []display.Event
	presents int
}

func (s *scriptedSurface) PollEvent(timeoutMS int) display.Event {
	if len(s.events) == 0 {
		return display.Event{Kind: display.EventNone}
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}

func (s *scriptedSurface) Present(pixels []byte) error {
	s.presents++
	return nil
}

func (s *scriptedSurface) Destroy() {}

func TestInputPump(t *testing.T) {
	srf := &scriptedSurface{
		events: []display.Event{
			{Kind: display.EventKeyDown, Key: 'a'},
			{Kind: display.EventKeyDown, Key: 'b'},
			{Kind: display.EventQuit},
		},
	}
	d := display.NewDisplay(16, 16, srf)

	test.Equate(t, d.QuitRequested(), false)

	// a zero timeout must be safe
	d.PumpInput(0)

	test.Equate(t, readReg(d, display.RegKeyData).Data, uint64('a'))
	test.Equate(t, readReg(d, display.RegKeyData).Data, uint64('b'))
	test.Equate(t, d.QuitRequested(), true)
}

func TestPresentToSurface(t *testing.T) {
	srf := &scriptedSurface{}
	d := display.NewDisplay(16, 16, srf)

	writeReg(d, display.RegCtrl, display.CtrlPresent)
	if d.ConsumePresentRequest() {
		d.Present()
	}
	test.Equate(t, srf.presents, 1)
	test.Equate(t, readReg(d, display.RegStatus).Data&display.StatusDirty, uint64(0))
}

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

package display

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/device"
	"github.com/jetsetilly/minisoc/logger"
)

// control region register map. registers are 4 bytes wide.
const (
	RegCtrl      = 0x00
	RegWidth     = 0x04
	RegHeight    = 0x08
	RegPitch     = 0x0c
	RegStatus    = 0x10
	RegKeyData   = 0x20
	RegKeyStatus = 0x24
	RegKeyLast   = 0x28
)

// control register bits.
const (
	CtrlPresent = 1 << 0
)

// status register bits.
const (
	StatusReady = 1 << 0
	StatusDirty = 1 << 1
)

// the control region occupies the first 4KB of the mapping; the framebuffer
// begins immediately after.
const ControlSize = 0x1000

const regSize = 4

// bytes per pixel. the framebuffer is ARGB8888 row-major.
const pixelDepth = 4

// Display is the framebuffer and keyboard peripheral. The mapped region is
// the 4KB control block followed by width*height*4 bytes of framebuffer.
type Display struct {
	device.Device

	width  uint32
	height uint32

	// framebuffer, guarded by the frame critical section. the CPU thread
	// writes pixels through the bus while the display thread copies them out
	// during a present.
	frameCrit   sync.Mutex
	framebuffer []byte

	// atomics, accessed from the CPU and display threads
	dirty            int32
	presentRequested int32

	// input state, guarded by its own critical section. the display thread
	// pushes keys while the CPU thread pops them through the registers.
	inputCrit     sync.Mutex
	keyQueue      []uint32
	lastKey       uint32
	quitRequested bool

	surface Surface
}

// NewDisplay is the preferred method of initialisation for the Display type.
// A nil surface puts the device in headless mode.
func NewDisplay(width uint32, height uint32, surface Surface) *Display {
	d := &Display{
		width:       width,
		height:      height,
		framebuffer: make([]byte, uint64(width)*uint64(height)*pixelDepth),
		keyQueue:    make([]uint32, 0, 32),
		surface:     surface,
	}
	d.Init(device.Display)
	d.SetReadHandler(d.busRead)
	d.SetWriteHandler(d.busWrite)
	return d
}

// MappedSize returns the total size of the bus mapping: control region plus
// framebuffer.
func (d *Display) MappedSize() uint64 {
	return ControlSize + uint64(len(d.framebuffer))
}

// UpdateFrequency implements the device.Frequency interface. The display
// wants to be synchronised at a typical refresh rate.
func (d *Display) UpdateFrequency() uint64 {
	return 60
}

// Destroy releases the surface, if there is one.
func (d *Display) Destroy() {
	if d.surface != nil {
		d.surface.Destroy()
		d.surface = nil
	}
}

// PushKey appends a key code to the input queue and records it as the most
// recent key.
func (d *Display) PushKey(key uint32) {
	d.inputCrit.Lock()
	defer d.inputCrit.Unlock()
	d.keyQueue = append(d.keyQueue, key)
	d.lastKey = key
}

// QuitRequested returns true once the surface has reported a quit event.
func (d *Display) QuitRequested() bool {
	d.inputCrit.Lock()
	defer d.inputCrit.Unlock()
	return d.quitRequested
}

// PumpInput polls the surface for pending events, queueing key presses and
// latching quit requests. Safe to call with a zero timeout. In headless mode
// there are no events; the timeout is honoured so callers in a loop don't
// spin.
func (d *Display) PumpInput(timeoutMS int) {
	if d.surface == nil {
		if timeoutMS > 0 {
			time.Sleep(time.Duration(timeoutMS) * time.Millisecond)
		}
		return
	}

	ev := d.surface.PollEvent(timeoutMS)
	for ev.Kind != EventNone {
		switch ev.Kind {
		case EventKeyDown:
			d.PushKey(ev.Key)
		case EventQuit:
			d.inputCrit.Lock()
			d.quitRequested = true
			d.inputCrit.Unlock()
		}

		// drain whatever else is pending without waiting
		ev = d.surface.PollEvent(0)
	}
}

// ConsumePresentRequest atomically clears and returns the present request
// flag.
func (d *Display) ConsumePresentRequest() bool {
	return atomic.SwapInt32(&d.presentRequested, 0) != 0
}

// Present copies the framebuffer to the surface and clears the dirty flag.
// In headless mode the copy is skipped but the dirty flag is still cleared.
func (d *Display) Present() {
	d.frameCrit.Lock()
	defer d.frameCrit.Unlock()

	if d.surface != nil {
		if err := d.surface.Present(d.framebuffer); err != nil {
			logger.Logf(logger.LevelWarn, "display", "present: %v", err)
		}
	}

	atomic.StoreInt32(&d.dirty, 0)
}

func (d *Display) busRead(access bus.Access) bus.Response {
	if access.Address < ControlSize {
		return d.readRegister(access)
	}
	return d.readFramebuffer(access)
}

func (d *Display) busWrite(access bus.Access) bus.Response {
	if access.Address < ControlSize {
		return d.writeRegister(access)
	}
	return d.writeFramebuffer(access)
}

func (d *Display) readRegister(access bus.Access) bus.Response {
	if access.Size != regSize {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	switch access.Address {
	case RegWidth:
		return bus.Okay(uint64(d.width))

	case RegHeight:
		return bus.Okay(uint64(d.height))

	case RegPitch:
		return bus.Okay(uint64(d.width) * pixelDepth)

	case RegStatus:
		var s uint64 = StatusReady
		if atomic.LoadInt32(&d.dirty) != 0 {
			s |= StatusDirty
		}
		return bus.Okay(s)

	case RegKeyData:
		d.inputCrit.Lock()
		defer d.inputCrit.Unlock()
		if len(d.keyQueue) == 0 {
			return bus.Okay(0)
		}
		k := d.keyQueue[0]
		d.keyQueue = d.keyQueue[1:]
		return bus.Okay(uint64(k))

	case RegKeyStatus:
		d.inputCrit.Lock()
		defer d.inputCrit.Unlock()
		if len(d.keyQueue) > 0 {
			return bus.Okay(1)
		}
		return bus.Okay(0)

	case RegKeyLast:
		d.inputCrit.Lock()
		defer d.inputCrit.Unlock()
		return bus.Okay(uint64(d.lastKey))
	}

	return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
}

func (d *Display) writeRegister(access bus.Access) bus.Response {
	if access.Size != regSize {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	switch access.Address {
	case RegCtrl:
		if access.Data&CtrlPresent == CtrlPresent {
			atomic.StoreInt32(&d.presentRequested, 1)
		}
		return bus.Okay(0)

	case RegKeyStatus:
		// any write clears the queue and the last-key latch
		d.inputCrit.Lock()
		defer d.inputCrit.Unlock()
		d.keyQueue = d.keyQueue[:0]
		d.lastKey = 0
		return bus.Okay(0)
	}

	return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
}

// inRange checks a framebuffer access against the framebuffer bounds. the
// address is still mapping-relative at this point.
func (d *Display) inRange(access bus.Access) bool {
	if !bus.ValidSize(access.Size) {
		return false
	}
	offset := access.Address - ControlSize
	if offset >= uint64(len(d.framebuffer)) {
		return false
	}
	return uint64(access.Size) <= uint64(len(d.framebuffer))-offset
}

func (d *Display) readFramebuffer(access bus.Access) bus.Response {
	if !d.inRange(access) {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	offset := access.Address - ControlSize

	d.frameCrit.Lock()
	defer d.frameCrit.Unlock()

	var data uint64
	for i := uint32(0); i < access.Size; i++ {
		data |= uint64(d.framebuffer[offset+uint64(i)]) << (8 * i)
	}

	return bus.Okay(data)
}

func (d *Display) writeFramebuffer(access bus.Access) bus.Response {
	if !d.inRange(access) {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	offset := access.Address - ControlSize

	d.frameCrit.Lock()
	for i := uint32(0); i < access.Size; i++ {
		d.framebuffer[offset+uint64(i)] = byte(access.Data >> (8 * i))
	}
	d.frameCrit.Unlock()

	atomic.StoreInt32(&d.dirty, 1)

	return bus.Okay(0)
}

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

package uart

import (
	"io"
	"os"
	"sync"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/device"
)

// register map. all registers are 4 bytes wide and any other access size
// faults.
const (
	RegData   = 0x0
	RegStatus = 0x4
)

// status register bits.
const (
	StatusRxReady = 1 << 0
	StatusTxReady = 1 << 1
)

const regSize = 4

// TX buffer is flushed when it reaches this many bytes...
const flushThreshold = 256

// ...or when the device has seen this many idle cycles with a non-empty
// buffer.
const idleFlushCycles = 10000

// UART is a byte-oriented serial device. Bytes written to the data register
// accumulate in the TX buffer and are flushed to the output sink as a single
// contiguous blob; bytes pushed from outside queue in the RX FIFO until the
// program reads them.
type UART struct {
	device.Device

	crit sync.Mutex

	rx []byte
	tx []byte

	// cycles since the last TX byte. only meaningful while tx is non-empty.
	idleCycles uint64

	output io.Writer
}

// NewUART is the preferred method of initialisation for the UART type. The
// output sink defaults to os.Stdout.
func NewUART() *UART {
	u := &UART{
		rx:     make([]byte, 0, 64),
		tx:     make([]byte, 0, flushThreshold),
		output: os.Stdout,
	}
	u.Init(device.Uart)
	u.SetReadHandler(u.busRead)
	u.SetWriteHandler(u.busWrite)
	u.SetTickHandler(u.tickHandler)
	return u
}

// SetOutput redirects flushed TX bytes. NewMachine uses this to send output to
// the device-output writer it is given (stdout, or a file when a log filename
// is configured).
func (u *UART) SetOutput(output io.Writer) {
	u.crit.Lock()
	defer u.crit.Unlock()
	u.output = output
}

// PushRx queues a byte for the program to read. Called from the command
// thread; safe to call concurrently with bus access from the CPU thread.
func (u *UART) PushRx(b byte) {
	u.crit.Lock()
	defer u.crit.Unlock()
	u.rx = append(u.rx, b)
}

// Flush writes any buffered TX bytes to the output sink. Called by machine
// teardown so that output is never lost on exit.
func (u *UART) Flush() {
	u.crit.Lock()
	defer u.crit.Unlock()
	u.flush()
}

// flush assumes the critical section is held.
func (u *UART) flush() {
	if len(u.tx) == 0 {
		return
	}
	if u.output != nil {
		u.output.Write(u.tx)
	}
	u.tx = u.tx[:0]
}

func (u *UART) status() uint64 {
	var s uint64 = StatusTxReady
	if len(u.rx) > 0 {
		s |= StatusRxReady
	}
	return s
}

func (u *UART) busRead(access bus.Access) bus.Response {
	if access.Size != regSize {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	u.crit.Lock()
	defer u.crit.Unlock()

	switch access.Address {
	case RegData:
		if len(u.rx) == 0 {
			return bus.Okay(0)
		}
		b := u.rx[0]
		u.rx = u.rx[1:]
		return bus.Okay(uint64(b))

	case RegStatus:
		return bus.Okay(u.status())
	}

	return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
}

func (u *UART) busWrite(access bus.Access) bus.Response {
	if access.Size != regSize {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	if access.Address != RegData {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	u.crit.Lock()
	defer u.crit.Unlock()

	u.tx = append(u.tx, byte(access.Data&0xff))
	u.idleCycles = 0
	if len(u.tx) >= flushThreshold {
		u.flush()
	}

	return bus.Okay(0)
}

// tickHandler implements the idle-flush policy: a non-empty TX buffer that
// has seen no new bytes for idleFlushCycles is flushed.
func (u *UART) tickHandler(deltaCycles uint64) {
	u.crit.Lock()
	defer u.crit.Unlock()

	if len(u.tx) == 0 {
		return
	}

	u.idleCycles += deltaCycles
	if u.idleCycles >= idleFlushCycles {
		u.flush()
		u.idleCycles = 0
	}
}

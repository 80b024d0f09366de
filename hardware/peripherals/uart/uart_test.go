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

package uart_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/peripherals/uart"
	"github.com/jetsetilly/minisoc/test"
)

func readReg(u *uart.UART, offset uint64) bus.Response {
	return u.Read(bus.Access{Address: offset, Size: 4, Kind: bus.Read})
}

func writeData(u *uart.UART, b byte) bus.Response {
	return u.Write(bus.Access{Address: uart.RegData, Size: 4, Kind: bus.Write, Data: uint64(b)})
}

func TestRxQueue(t *testing.T) {
	u := uart.NewUART()

	// empty queue: status bit clear, data reads zero
	r := readReg(u, uart.RegStatus)
	test.Equate(t, r.Data&uart.StatusRxReady, uint64(0))
	test.Equate(t, readReg(u, uart.RegData).Data, uint64(0))

	u.PushRx('a')
	u.PushRx('b')

	r = readReg(u, uart.RegStatus)
	test.Equate(t, r.Data&uart.StatusRxReady, uint64(uart.StatusRxReady))

	// FIFO order
	test.Equate(t, readReg(u, uart.RegData).Data, uint64('a'))
	test.Equate(t, readReg(u, uart.RegData).Data, uint64('b'))

	r = readReg(u, uart.RegStatus)
	test.Equate(t, r.Data&uart.StatusRxReady, uint64(0))
}

func TestTxReady(t *testing.T) {
	u := uart.NewUART()
	r := readReg(u, uart.RegStatus)
	test.Equate(t, r.Data&uart.StatusTxReady, uint64(uart.StatusTxReady))
}

func TestAccessSize(t *testing.T) {
	u := uart.NewUART()

	for _, size := range []uint32{1, 2, 8} {
		r := u.Read(bus.Access{Address: uart.RegData, Size: size, Kind: bus.Read})
		test.ExpectedFailure(t, r.OK)
		test.Equate(t, int(r.Error.Kind), int(bus.ErrAccessFault))
	}
}

// writing 256 bytes with no flush between causes a single contiguous flush.
func TestFlushOnThreshold(t *testing.T) {
	u := uart.NewUART()
	out, _ := test.NewCappedWriter(1024)
	u.SetOutput(out)

	for i := 0; i < 255; i++ {
		test.ExpectedSuccess(t, writeData(u, byte('a'+i%26)).OK)
	}
	test.Equate(t, out.String(), "")

	// the 256th byte triggers the flush
	writeData(u, 'z')
	test.Equate(t, len(out.String()), 256)
	test.Equate(t, strings.HasSuffix(out.String(), "z"), true)
}

// a non-empty buffer flushes after enough idle cycles.
func TestFlushOnIdle(t *testing.T) {
	u := uart.NewUART()
	out, _ := test.NewCappedWriter(1024)
	u.SetOutput(out)

	writeData(u, 'h')
	writeData(u, 'i')

	u.Tick(9999)
	test.Equate(t, out.String(), "")

	u.Tick(1)
	test.Equate(t, out.String(), "hi")

	// idle cycles reset on the next write; another long idle flushes again
	writeData(u, '!')
	u.Tick(10000)
	test.Equate(t, out.String(), "hi!")
}

// flush on teardown so output is never lost.
func TestFlushOnClose(t *testing.T) {
	u := uart.NewUART()
	out, _ := test.NewCappedWriter(1024)
	u.SetOutput(out)

	writeData(u, 'o')
	writeData(u, 'k')
	u.Flush()
	test.Equate(t, out.String(), "ok")

	// nothing buffered, nothing emitted
	u.Flush()
	test.Equate(t, out.String(), "ok")
}

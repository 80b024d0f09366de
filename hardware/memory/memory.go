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

package memory

import (
	"io"
	"os"

	"github.com/jetsetilly/minisoc/curated"
	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/device"
)

// Memory is a fixed-size byte store presented to the bus as RAM or ROM.
// Storage is zero-initialised. All multi-byte access is little-endian.
type Memory struct {
	device.Device

	storage  []byte
	readOnly bool
}

// NewRAM creates a read/write memory device of the given size.
func NewRAM(size uint64) *Memory {
	return newMemory(size, false)
}

// NewROM creates a read-only memory device of the given size. Writes through
// the bus are rejected with an access fault; the backing storage can still be
// filled with LoadImage or Poke.
func NewROM(size uint64) *Memory {
	return newMemory(size, true)
}

func newMemory(size uint64, readOnly bool) *Memory {
	m := &Memory{
		storage:  make([]byte, size),
		readOnly: readOnly,
	}
	if readOnly {
		m.Init(device.Rom)
	} else {
		m.Init(device.Ram)
	}
	m.SetReadHandler(m.busRead)
	m.SetWriteHandler(m.busWrite)
	return m
}

// Size returns the storage size in bytes.
func (m *Memory) Size() uint64 {
	return uint64(len(m.storage))
}

// inRange checks size validity and that the access lies entirely inside the
// storage.
func (m *Memory) inRange(access bus.Access) bool {
	if !bus.ValidSize(access.Size) {
		return false
	}
	if access.Address >= uint64(len(m.storage)) {
		return false
	}
	return uint64(access.Size) <= uint64(len(m.storage))-access.Address
}

func (m *Memory) busRead(access bus.Access) bus.Response {
	if !m.inRange(access) {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	var data uint64
	for i := uint32(0); i < access.Size; i++ {
		data |= uint64(m.storage[access.Address+uint64(i)]) << (8 * i)
	}

	return bus.Okay(data)
}

func (m *Memory) busWrite(access bus.Access) bus.Response {
	if !m.inRange(access) || m.readOnly {
		return bus.Fault(bus.ErrAccessFault, access.Address, access.Size)
	}

	for i := uint32(0); i < access.Size; i++ {
		m.storage[access.Address+uint64(i)] = byte(access.Data >> (8 * i))
	}

	return bus.Okay(0)
}

// Poke writes directly into the backing storage, bypassing the read-only
// check. Intended for host-side initialisation and tests.
func (m *Memory) Poke(offset uint64, data []byte) {
	if offset >= uint64(len(m.storage)) {
		return
	}
	copy(m.storage[offset:], data)
}

// LoadImage fills storage from a raw binary file starting at the given
// offset, truncating at the storage boundary.
func (m *Memory) LoadImage(path string, offset uint64) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, curated.Errorf(curated.MemoryDevice, err)
	}
	defer f.Close()

	if offset >= uint64(len(m.storage)) {
		return 0, nil
	}

	n, err := io.ReadFull(f, m.storage[offset:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return 0, curated.Errorf(curated.MemoryDevice, err)
	}

	return uint64(n), nil
}

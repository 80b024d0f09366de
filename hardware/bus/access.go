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

import "fmt"

// AccessKind classifies a bus transaction.
type AccessKind int

// List of access kinds. Fetch is distinguished from Read so that trace
// filtering can exclude instruction fetches.
const (
	Read AccessKind = iota
	Write
	Fetch
)

func (k AccessKind) String() string {
	switch k {
	case Read:
		return "R"
	case Write:
		return "W"
	case Fetch:
		return "F"
	}
	return "?"
}

// ErrorKind classifies the failure reported in a Response.
type ErrorKind int

// List of error kinds. Halt is not strictly an error but it travels the same
// path: the executor stores it as its last error and the controller reacts.
const (
	ErrNone ErrorKind = iota
	ErrInvalidOp
	ErrAccessFault
	ErrDeviceFault
	ErrHalt
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrInvalidOp:
		return "invalid op"
	case ErrAccessFault:
		return "access fault"
	case ErrDeviceFault:
		return "device fault"
	case ErrHalt:
		return "halt"
	}
	return ""
}

// Access is a single bus transaction as issued by the CPU or the debugger.
type Access struct {
	Address uint64
	Size    uint32
	Kind    AccessKind
	Data    uint64
}

// Error carries the detail of a failed transaction.
type Error struct {
	Kind    ErrorKind
	Address uint64
	Size    uint32
	Data    uint64
}

func (e Error) String() string {
	if e.Kind == ErrNone {
		return "none"
	}
	return fmt.Sprintf("%s at %#08x (size %d)", e.Kind, e.Address, e.Size)
}

// Response is the result of a bus transaction. On success Data is the
// zero-extended little-endian value of the read bytes, or zero for writes.
type Response struct {
	OK      bool
	Data    uint64
	Latency uint32
	Error   Error
}

// Okay builds a successful response carrying the given data.
func Okay(data uint64) Response {
	return Response{OK: true, Data: data}
}

// Fault builds a failed response for the given access.
func Fault(kind ErrorKind, address uint64, size uint32) Response {
	return Response{
		Error: Error{
			Kind:    kind,
			Address: address,
			Size:    size,
		},
	}
}

// ValidSize returns true if the access size is one that devices are required
// to honour.
func ValidSize(size uint32) bool {
	return size == 1 || size == 2 || size == 4 || size == 8
}

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

package toycore

import (
	"fmt"

	"github.com/jetsetilly/minisoc/hardware/bus"
	"github.com/jetsetilly/minisoc/hardware/cpu"
	"github.com/jetsetilly/minisoc/hardware/cpu/execution"
)

// number of general purpose registers. register 0 always reads zero.
const regCount = 16

// Core is the reference executor for the toy ISA. Every instruction takes a
// single cycle. The core runs exclusively on the CPU thread; all bus access
// goes through the attached host.
type Core struct {
	regs  [regCount]uint64
	pc    uint64
	cycle uint64

	lastError bus.Error

	host cpu.Host
}

// NewCore is the preferred method of initialisation for the Core type.
func NewCore() *Core {
	c := &Core{}
	c.Reset()
	return c
}

// Reset implements the cpu.Executor interface.
func (c *Core) Reset() {
	c.regs = [regCount]uint64{}
	c.pc = 0
	c.cycle = 0
	c.lastError = bus.Error{}
}

// LastError implements the cpu.Executor interface.
func (c *Core) LastError() bus.Error {
	return c.lastError
}

// PC implements the cpu.Executor interface.
func (c *Core) PC() uint64 {
	return c.pc
}

// SetPC implements the cpu.Executor interface.
func (c *Core) SetPC(pc uint64) {
	c.pc = pc
}

// Cycle implements the cpu.Executor interface.
func (c *Core) Cycle() uint64 {
	return c.cycle
}

// Register implements the cpu.Executor interface.
func (c *Core) Register(idx uint32) uint64 {
	if idx == 0 || idx >= regCount {
		return 0
	}
	return c.regs[idx]
}

// SetRegister implements the cpu.Executor interface. Writes to register 0
// and to out-of-range indices are silently dropped.
func (c *Core) SetRegister(idx uint32, value uint64) {
	if idx == 0 || idx >= regCount {
		return
	}
	c.regs[idx] = value
}

// RegisterCount implements the cpu.Executor interface.
func (c *Core) RegisterCount() uint32 {
	return regCount
}

// AttachDebugger implements the cpu.Executor interface.
func (c *Core) AttachDebugger(host cpu.Host) {
	c.host = host
}

// Step implements the cpu.Executor interface.
func (c *Core) Step(maxInstructions uint64, maxCycles uint64) cpu.StepResult {
	result := cpu.StepResult{OK: true}

	if c.host == nil {
		c.lastError = bus.Error{Kind: bus.ErrDeviceFault, Address: c.pc}
		result.OK = false
		return result
	}

	for result.Instructions < maxInstructions && result.Cycles < maxCycles {
		// a breakpoint stops the batch before the breakpointed instruction
		// executes. the last error is left untouched.
		if c.host.HasBreakpoints() && c.host.IsBreakpoint(c.pc) {
			result.OK = false
			return result
		}

		if !c.stepInstruction(&result) {
			result.OK = false
			return result
		}
	}

	return result
}

// stepInstruction executes one instruction, updating the step result and the
// trace record. Returns false if the step failed or hit a faulting opcode.
func (c *Core) stepInstruction(result *cpu.StepResult) bool {
	options := c.host.TraceOptions()

	record := execution.Record{
		PC:         c.pc,
		CycleBegin: c.cycle,
	}

	fetch := c.host.BusRead(bus.Access{Address: c.pc, Size: 4, Kind: bus.Fetch})
	if options.MemEvents {
		record.MemEvents = append(record.MemEvents, execution.MemEvent{
			Kind:    bus.Fetch,
			Address: c.pc,
			Size:    4,
			Data:    fetch.Data,
			Latency: fetch.Latency,
		})
	}
	if !fetch.OK {
		c.lastError = fetch.Error
		if options.MemEvents {
			record.Mnemonic = "FETCH_ERROR"
			record.CycleEnd = c.cycle
			c.host.LogTrace(&record)
		}
		return false
	}

	inst := uint32(fetch.Data)
	record.Inst = inst

	pcBefore := c.pc
	c.pc += 4
	c.cycle++
	result.Instructions++
	result.Cycles++

	ok := true

	switch opcode(inst) {
	case OpNop:
		record.Mnemonic = "NOP"

	case OpHalt:
		record.Mnemonic = "HALT"
		c.lastError = bus.Error{Kind: bus.ErrHalt, Address: pcBefore, Size: 4}
		ok = false

	case OpLui:
		rd := regDst(inst)
		record.Mnemonic = fmt.Sprintf("LUI r%d, 0x%x", rd, imm16(inst))
		c.SetRegister(uint32(rd), uint64(imm16(inst))<<16)

	case OpOri:
		rd := regDst(inst)
		record.Mnemonic = fmt.Sprintf("ORI r%d, 0x%x", rd, imm16(inst))
		c.SetRegister(uint32(rd), c.Register(uint32(rd))|uint64(imm16(inst)))

	case OpLw:
		rd := regDst(inst)
		rs := regSrc(inst)
		off := off8(inst)
		record.Mnemonic = fmt.Sprintf("LW r%d, [r%d%+d]", rd, rs, off)

		access := bus.Access{
			Address: c.Register(uint32(rs)) + uint64(int64(off)),
			Size:    4,
			Kind:    bus.Read,
		}
		r := c.host.BusRead(access)
		if options.MemEvents {
			record.MemEvents = append(record.MemEvents, execution.MemEvent{
				Kind:    bus.Read,
				Address: access.Address,
				Size:    access.Size,
				Data:    r.Data,
				Latency: r.Latency,
			})
		}
		if r.OK {
			c.SetRegister(uint32(rd), uint64(uint32(r.Data)))
		} else {
			c.lastError = r.Error
			ok = false
		}

	case OpSw:
		// for stores the rd field carries the source register and the rs
		// field the base
		rs := regDst(inst)
		base := regSrc(inst)
		off := off8(inst)
		record.Mnemonic = fmt.Sprintf("SW r%d, [r%d%+d]", rs, base, off)

		access := bus.Access{
			Address: c.Register(uint32(base)) + uint64(int64(off)),
			Size:    4,
			Kind:    bus.Write,
			Data:    uint64(uint32(c.Register(uint32(rs)))),
		}
		w := c.host.BusWrite(access)
		if options.MemEvents {
			record.MemEvents = append(record.MemEvents, execution.MemEvent{
				Kind:    bus.Write,
				Address: access.Address,
				Size:    access.Size,
				Data:    access.Data,
				Latency: w.Latency,
			})
		}
		if !w.OK {
			c.lastError = w.Error
			ok = false
		}

	case OpBeq:
		r0 := regDst(inst)
		r1 := regSrc(inst)
		off := off8(inst)
		record.Mnemonic = fmt.Sprintf("BEQ r%d, r%d, %+d", r0, r1, off)

		// offset is in words, measured from the post-increment pc. the
		// target is recorded whether or not the branch is taken; the trivial
		// predictor always predicts not-taken.
		target := c.pc + uint64(int64(off)*4)
		taken := c.Register(uint32(r0)) == c.Register(uint32(r1))

		record.IsBranch = true
		record.Branch = execution.BranchDetails{
			Taken:           taken,
			Target:          target,
			PredictedTaken:  false,
			PredictedTarget: c.pc,
		}

		if taken {
			c.pc = target
		}

	default:
		record.Mnemonic = "???"
		c.lastError = bus.Error{Kind: bus.ErrInvalidOp, Address: pcBefore, Size: 4}
		ok = false
	}

	record.CycleEnd = c.cycle

	if options.Any() {
		c.host.LogTrace(&record)
	}

	return ok
}

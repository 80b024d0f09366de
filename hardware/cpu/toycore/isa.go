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

// The toy ISA uses fixed 32-bit little-endian instruction words:
//
//	opcode = inst[31:24]
//	rd     = inst[23:16]
//	rs     = inst[15:8]
//	imm16  = inst[15:0]   (register-immediate forms)
//	off8   = inst[7:0]    (signed, memory and branch forms)
const (
	OpNop  = 0x00
	OpLui  = 0x01
	OpOri  = 0x02
	OpLw   = 0x03
	OpSw   = 0x04
	OpBeq  = 0x05
	OpHalt = 0x7f
)

// field extraction.

func opcode(inst uint32) uint8 {
	return uint8(inst >> 24)
}

func regDst(inst uint32) uint8 {
	return uint8(inst >> 16)
}

func regSrc(inst uint32) uint8 {
	return uint8(inst >> 8)
}

func imm16(inst uint32) uint16 {
	return uint16(inst)
}

func off8(inst uint32) int8 {
	return int8(inst)
}

// encoding helpers. used by the assembler-less tests and by anything that
// wants to build a program in memory.

// EncodeRI builds a register-immediate instruction (LUI, ORI).
func EncodeRI(op uint8, rd uint8, imm uint16) uint32 {
	return uint32(op)<<24 | uint32(rd)<<16 | uint32(imm)
}

// EncodeMem builds a memory instruction. For LW, r0 is the destination and
// r1 the base; for SW, r0 is the source and r1 the base.
func EncodeMem(op uint8, r0 uint8, r1 uint8, off int8) uint32 {
	return uint32(op)<<24 | uint32(r0)<<16 | uint32(r1)<<8 | uint32(uint8(off))
}

// EncodeBranch builds a branch instruction comparing r0 and r1. The offset
// is in instruction words, measured from the post-increment pc.
func EncodeBranch(op uint8, r0 uint8, r1 uint8, off int8) uint32 {
	return EncodeMem(op, r0, r1, off)
}

// Nop returns an encoded NOP.
func Nop() uint32 {
	return uint32(OpNop) << 24
}

// Halt returns an encoded HALT.
func Halt() uint32 {
	return uint32(OpHalt) << 24
}

// Lui returns an encoded LUI rd, imm16.
func Lui(rd uint8, imm uint16) uint32 {
	return EncodeRI(OpLui, rd, imm)
}

// Ori returns an encoded ORI rd, imm16.
func Ori(rd uint8, imm uint16) uint32 {
	return EncodeRI(OpOri, rd, imm)
}

// Lw returns an encoded LW rd, [rs+off].
func Lw(rd uint8, rs uint8, off int8) uint32 {
	return EncodeMem(OpLw, rd, rs, off)
}

// Sw returns an encoded SW rs, [base+off].
func Sw(rs uint8, base uint8, off int8) uint32 {
	return EncodeMem(OpSw, rs, base, off)
}

// Beq returns an encoded BEQ r0, r1, off.
func Beq(r0 uint8, r1 uint8, off int8) uint32 {
	return EncodeBranch(OpBeq, r0, r1, off)
}

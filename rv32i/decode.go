// Package rv32i decodes and executes RV32IM instructions against an
// rv32im.EmuContext. It is written the way the teacher writes its
// opcode handlers against a Bus: against the interface only, never
// against a concrete state type, so the same decoder runs over a real
// VMState or a test double.
package rv32i

import "github.com/rv32im-trace/rv32im"

const (
	opLoad     = 0x03
	opImmALU   = 0x13
	opAUIPC    = 0x17
	opStore    = 0x23
	opRegALU   = 0x33
	opLUI      = 0x37
	opBranch   = 0x63
	opJALR     = 0x67
	opJAL      = 0x6F
	opSystem   = 0x73
)

func fieldOpcode(instr rv32im.Word) rv32im.Word { return instr & 0x7F }
func fieldRd(instr rv32im.Word) rv32im.RegIdx    { return (instr >> 7) & 0x1F }
func fieldFunct3(instr rv32im.Word) rv32im.Word  { return (instr >> 12) & 0x7 }
func fieldRs1(instr rv32im.Word) rv32im.RegIdx   { return (instr >> 15) & 0x1F }
func fieldRs2(instr rv32im.Word) rv32im.RegIdx   { return (instr >> 20) & 0x1F }
func fieldFunct7(instr rv32im.Word) rv32im.Word  { return (instr >> 25) & 0x7F }

// decodeI extracts the sign-extended 12-bit immediate of an I-type
// instruction.
func decodeI(instr rv32im.Word) int32 {
	return int32(instr) >> 20
}

// decodeS extracts the sign-extended 12-bit immediate of an S-type
// (store) instruction.
func decodeS(instr rv32im.Word) int32 {
	imm := ((instr >> 25) << 5) | ((instr >> 7) & 0x1F)
	return signExtend(imm, 12)
}

// decodeB extracts the sign-extended 13-bit immediate of a B-type
// (branch) instruction; bit 0 is always zero.
func decodeB(instr rv32im.Word) int32 {
	imm := (((instr >> 31) & 0x1) << 12) |
		(((instr >> 7) & 0x1) << 11) |
		(((instr >> 25) & 0x3F) << 5) |
		(((instr >> 8) & 0xF) << 1)
	return signExtend(imm, 13)
}

// decodeU extracts the upper-20-bits immediate of a U-type instruction,
// already shifted into place (bits 31:12, low 12 bits zero).
func decodeU(instr rv32im.Word) rv32im.Word {
	return instr & 0xFFFFF000
}

// decodeJ extracts the sign-extended 21-bit immediate of a J-type
// (jump) instruction; bit 0 is always zero.
func decodeJ(instr rv32im.Word) int32 {
	imm := (((instr >> 31) & 0x1) << 20) |
		(((instr >> 12) & 0xFF) << 12) |
		(((instr >> 20) & 0x1) << 11) |
		(((instr >> 21) & 0x3FF) << 1)
	return signExtend(imm, 21)
}

func signExtend(value rv32im.Word, bits uint) int32 {
	shift := 32 - bits
	return int32(value<<shift) >> shift
}

package rv32i

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rv32im-trace/rv32im"
)

func TestDecodeIPositiveAndNegative(t *testing.T) {
	// addi x1, x0, -1 : imm = 0xFFF
	instr := rv32im.Word(0xFFF00093)
	assert.Equal(t, int32(-1), decodeI(instr))

	// addi x1, x0, 5 : imm = 0x005
	instr = rv32im.Word(0x00500093)
	assert.Equal(t, int32(5), decodeI(instr))
}

func TestDecodeBOffset(t *testing.T) {
	// beq x0, x0, 8: imm=8 has only bit3 set, which the B-type encoding
	// packs into instr[11:8] as imm[4:1] — bit3 of imm lands at instr
	// bit 10.
	instr := rv32im.Word(1<<10 | 0x63)
	assert.Equal(t, int32(8), decodeB(instr))
}

func TestDecodeUUpperBitsOnly(t *testing.T) {
	// lui x1, 0x12345 -> imm field occupies bits 31:12 verbatim.
	instr := rv32im.Word(0x123450B7)
	assert.Equal(t, rv32im.Word(0x12345000), decodeU(instr))
}

func TestDecodeJSignExtends(t *testing.T) {
	// jal x0, -4: every encoded immediate bit set except imm[1] (imm = -4, 21-bit 0x1FFFFC).
	imm := int32(-4)
	raw := uint32(imm)
	instr := rv32im.Word(
		((raw>>20)&1)<<31 |
			((raw>>12)&0xFF)<<12 |
			((raw>>11)&1)<<20 |
			((raw>>1)&0x3FF)<<21 |
			0x6F,
	)
	assert.Equal(t, int32(-4), decodeJ(instr))
}

func TestFieldExtraction(t *testing.T) {
	// add x3, x1, x2 -> rd=3 rs1=1 rs2=2 funct3=0 funct7=0 opcode=0x33.
	instr := rv32im.Word(3<<7 | 1<<15 | 2<<20 | 0x33)
	assert.Equal(t, rv32im.Word(0x33), fieldOpcode(instr))
	assert.Equal(t, rv32im.RegIdx(3), fieldRd(instr))
	assert.Equal(t, rv32im.RegIdx(1), fieldRs1(instr))
	assert.Equal(t, rv32im.RegIdx(2), fieldRs2(instr))
}

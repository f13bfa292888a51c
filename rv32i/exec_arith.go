package rv32i

import "github.com/rv32im-trace/rv32im"

func execImmALU(ctx rv32im.EmuContext, instr rv32im.Word) error {
	rd := fieldRd(instr)
	rs1 := fieldRs1(instr)
	funct3 := fieldFunct3(instr)
	src := int32(ctx.LoadRegister(rs1))
	imm := decodeI(instr)
	immU := rv32im.Word(imm)

	var result rv32im.Word
	switch funct3 {
	case 0: // ADDI
		result = rv32im.Word(src + imm)
	case 2: // SLTI
		result = boolWord(src < imm)
	case 3: // SLTIU
		result = boolWord(rv32im.Word(src) < immU)
	case 4: // XORI
		result = rv32im.Word(src) ^ immU
	case 6: // ORI
		result = rv32im.Word(src) | immU
	case 7: // ANDI
		result = rv32im.Word(src) & immU
	case 1: // SLLI
		result = rv32im.Word(src) << (immU & 0x1F)
	case 5: // SRLI / SRAI
		shamt := immU & 0x1F
		if (instr>>30)&1 == 1 {
			result = rv32im.Word(src >> shamt)
		} else {
			result = rv32im.Word(src) >> shamt
		}
	default:
		return ctx.Trap(rv32im.TrapCause{Kind: rv32im.TrapIllegalInstruction, Raw: instr})
	}

	ctx.StoreRegister(rd, result)
	ctx.SetPC(ctx.GetPC().Add(rv32im.PCStepSize))
	ctx.OnNormalEnd()
	return nil
}

func execRegALU(ctx rv32im.EmuContext, instr rv32im.Word) error {
	rd := fieldRd(instr)
	a := ctx.LoadRegister(fieldRs1(instr))
	b := ctx.LoadRegister(fieldRs2(instr))
	funct3 := fieldFunct3(instr)
	funct7 := fieldFunct7(instr)

	var result rv32im.Word
	var ok bool
	switch funct7 {
	case 0x01:
		result, ok = execMExt(a, b, funct3)
	case 0x00, 0x20:
		result, ok = execBaseALU(a, b, funct3, funct7)
	}
	if !ok {
		return ctx.Trap(rv32im.TrapCause{Kind: rv32im.TrapIllegalInstruction, Raw: instr})
	}

	ctx.StoreRegister(rd, result)
	ctx.SetPC(ctx.GetPC().Add(rv32im.PCStepSize))
	ctx.OnNormalEnd()
	return nil
}

func execBaseALU(a, b rv32im.Word, funct3, funct7 rv32im.Word) (rv32im.Word, bool) {
	switch funct3 {
	case 0: // ADD / SUB
		if funct7 == 0x20 {
			return a - b, true
		}
		return a + b, true
	case 1: // SLL
		return a << (b & 0x1F), true
	case 2: // SLT
		return boolWord(int32(a) < int32(b)), true
	case 3: // SLTU
		return boolWord(a < b), true
	case 4: // XOR
		return a ^ b, true
	case 5: // SRL / SRA
		if funct7 == 0x20 {
			return rv32im.Word(int32(a) >> (b & 0x1F)), true
		}
		return a >> (b & 0x1F), true
	case 6: // OR
		return a | b, true
	case 7: // AND
		return a & b, true
	default:
		return 0, false
	}
}

// execMExt implements the M extension: MUL/MULH/MULHSU/MULHU and
// DIV/DIVU/REM/REMU, including the RISC-V-mandated non-trapping
// behavior for division by zero and signed overflow.
func execMExt(a, b rv32im.Word, funct3 rv32im.Word) (rv32im.Word, bool) {
	switch funct3 {
	case 0: // MUL
		return rv32im.Word(int32(a) * int32(b)), true
	case 1: // MULH
		return rv32im.Word((int64(int32(a)) * int64(int32(b))) >> 32), true
	case 2: // MULHSU
		return rv32im.Word((int64(int32(a)) * int64(b)) >> 32), true
	case 3: // MULHU
		return rv32im.Word((uint64(a) * uint64(b)) >> 32), true
	case 4: // DIV
		if b == 0 {
			return 0xFFFFFFFF, true
		}
		if int32(a) == -0x80000000 && int32(b) == -1 {
			return a, true
		}
		return rv32im.Word(int32(a) / int32(b)), true
	case 5: // DIVU
		if b == 0 {
			return 0xFFFFFFFF, true
		}
		return a / b, true
	case 6: // REM
		if b == 0 {
			return a, true
		}
		if int32(a) == -0x80000000 && int32(b) == -1 {
			return 0, true
		}
		return rv32im.Word(int32(a) % int32(b)), true
	case 7: // REMU
		if b == 0 {
			return a, true
		}
		return a % b, true
	default:
		return 0, false
	}
}

func boolWord(cond bool) rv32im.Word {
	if cond {
		return 1
	}
	return 0
}

func execLUI(ctx rv32im.EmuContext, instr rv32im.Word) error {
	ctx.StoreRegister(fieldRd(instr), decodeU(instr))
	ctx.SetPC(ctx.GetPC().Add(rv32im.PCStepSize))
	ctx.OnNormalEnd()
	return nil
}

func execAUIPC(ctx rv32im.EmuContext, instr rv32im.Word) error {
	pc := ctx.GetPC()
	ctx.StoreRegister(fieldRd(instr), pc.U32()+decodeU(instr))
	ctx.SetPC(pc.Add(rv32im.PCStepSize))
	ctx.OnNormalEnd()
	return nil
}

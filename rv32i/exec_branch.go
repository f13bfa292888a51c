package rv32i

import "github.com/rv32im-trace/rv32im"

func execBranch(ctx rv32im.EmuContext, instr rv32im.Word) error {
	a := ctx.LoadRegister(fieldRs1(instr))
	b := ctx.LoadRegister(fieldRs2(instr))
	funct3 := fieldFunct3(instr)

	var taken bool
	switch funct3 {
	case 0: // BEQ
		taken = a == b
	case 1: // BNE
		taken = a != b
	case 4: // BLT
		taken = int32(a) < int32(b)
	case 5: // BGE
		taken = int32(a) >= int32(b)
	case 6: // BLTU
		taken = a < b
	case 7: // BGEU
		taken = a >= b
	default:
		return ctx.Trap(rv32im.TrapCause{Kind: rv32im.TrapIllegalInstruction, Raw: instr})
	}

	pc := ctx.GetPC()
	if taken {
		ctx.SetPC(pc.Add(uint32(decodeB(instr))))
	} else {
		ctx.SetPC(pc.Add(rv32im.PCStepSize))
	}
	ctx.OnNormalEnd()
	return nil
}

func execJAL(ctx rv32im.EmuContext, instr rv32im.Word) error {
	pc := ctx.GetPC()
	ctx.StoreRegister(fieldRd(instr), pc.Add(rv32im.PCStepSize).U32())
	ctx.SetPC(pc.Add(uint32(decodeJ(instr))))
	ctx.OnNormalEnd()
	return nil
}

func execJALR(ctx rv32im.EmuContext, instr rv32im.Word) error {
	pc := ctx.GetPC()
	base := ctx.LoadRegister(fieldRs1(instr))
	target := rv32im.ByteAddr(uint32(int32(base)+decodeI(instr)) &^ 1)
	ctx.StoreRegister(fieldRd(instr), pc.Add(rv32im.PCStepSize).U32())
	ctx.SetPC(target)
	ctx.OnNormalEnd()
	return nil
}

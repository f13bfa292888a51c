package rv32i

import "github.com/rv32im-trace/rv32im"

func execLoad(ctx rv32im.EmuContext, instr rv32im.Word) error {
	rd := fieldRd(instr)
	base := ctx.LoadRegister(fieldRs1(instr))
	addr := rv32im.ByteAddr(base).Add(uint32(decodeI(instr)))
	funct3 := fieldFunct3(instr)

	var value rv32im.Word
	var err error
	switch funct3 {
	case 0: // LB
		value, err = loadByte(ctx, addr, true)
	case 1: // LH
		value, err = loadHalf(ctx, addr, true)
	case 2: // LW
		value, err = loadWord(ctx, addr)
	case 4: // LBU
		value, err = loadByte(ctx, addr, false)
	case 5: // LHU
		value, err = loadHalf(ctx, addr, false)
	default:
		return ctx.Trap(rv32im.TrapCause{Kind: rv32im.TrapIllegalInstruction, Raw: instr})
	}
	if err != nil {
		return err
	}

	ctx.StoreRegister(rd, value)
	ctx.SetPC(ctx.GetPC().Add(rv32im.PCStepSize))
	ctx.OnNormalEnd()
	return nil
}

func execStore(ctx rv32im.EmuContext, instr rv32im.Word) error {
	base := ctx.LoadRegister(fieldRs1(instr))
	value := ctx.LoadRegister(fieldRs2(instr))
	addr := rv32im.ByteAddr(base).Add(uint32(decodeS(instr)))
	funct3 := fieldFunct3(instr)

	var err error
	switch funct3 {
	case 0: // SB
		err = storeByte(ctx, addr, value)
	case 1: // SH
		err = storeHalf(ctx, addr, value)
	case 2: // SW
		err = storeWord(ctx, addr, value)
	default:
		return ctx.Trap(rv32im.TrapCause{Kind: rv32im.TrapIllegalInstruction, Raw: instr})
	}
	if err != nil {
		return err
	}

	ctx.SetPC(ctx.GetPC().Add(rv32im.PCStepSize))
	ctx.OnNormalEnd()
	return nil
}

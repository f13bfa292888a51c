package rv32i

import "github.com/rv32im-trace/rv32im"

// execSystem handles ECALL. funct3 must be 0; the immediate bits must
// select ECALL (0) specifically — EBREAK and any other SYSTEM encoding
// are not part of this platform's convention and trap as illegal,
// since there is no debug-halt concept distinct from the ecall halt
// convention. Unlike every other instruction kind, a successful ECALL
// finalizes PC itself (via ctx.Ecall), so this is the one path that
// never calls ctx.OnNormalEnd.
func execSystem(ctx rv32im.EmuContext, instr rv32im.Word) error {
	if fieldFunct3(instr) != 0 || (instr>>20) != 0 {
		return ctx.Trap(rv32im.TrapCause{Kind: rv32im.TrapIllegalInstruction, Raw: instr})
	}
	return ctx.Ecall()
}

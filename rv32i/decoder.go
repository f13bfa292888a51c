package rv32i

import "github.com/rv32im-trace/rv32im"

type opFunc func(ctx rv32im.EmuContext, instr rv32im.Word) error

var opcodeTable [128]opFunc

func init() {
	registerALU()
	registerLoadStore()
	registerBranchJump()
	registerUpperImm()
	registerSystem()
}

func registerALU() {
	opcodeTable[opImmALU] = execImmALU
	opcodeTable[opRegALU] = execRegALU
}

func registerLoadStore() {
	opcodeTable[opLoad] = execLoad
	opcodeTable[opStore] = execStore
}

func registerBranchJump() {
	opcodeTable[opBranch] = execBranch
	opcodeTable[opJAL] = execJAL
	opcodeTable[opJALR] = execJALR
}

func registerUpperImm() {
	opcodeTable[opLUI] = execLUI
	opcodeTable[opAUIPC] = execAUIPC
}

func registerSystem() {
	opcodeTable[opSystem] = execSystem
}

// Decoder is the rv32im.Decoder implementation for the RV32IM base
// integer and multiply/divide instruction set.
type Decoder struct{}

// DecodeAndExecute fetches the instruction at the current PC, decodes
// it, and executes it against ctx, recording every observation through
// ctx's Load*/Store* methods.
func (Decoder) DecodeAndExecute(ctx rv32im.EmuContext) error {
	pc := ctx.GetPC()
	if !pc.IsAligned() {
		return &rv32im.AddressFault{Kind: rv32im.FaultFetch, Addr: pc}
	}

	instr, ok := ctx.Fetch(pc.Waddr())
	if !ok {
		return &rv32im.AddressFault{Kind: rv32im.FaultFetch, Addr: pc}
	}

	handler := opcodeTable[fieldOpcode(instr)]
	if handler == nil {
		return ctx.Trap(rv32im.TrapCause{Kind: rv32im.TrapIllegalInstruction, Raw: instr})
	}
	return handler(ctx, instr)
}

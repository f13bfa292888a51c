// Package syscalls provides a reference rv32im.SyscallHandler: console
// output and a hints-region cursor, the minimal convention a guest
// program needs to produce observable output and consume prover-supplied
// auxiliary input. Function codes are carried in the platform's
// reg_ecall register exactly as rv32im.VMState.Ecall reads them; halt is
// intercepted by VMState itself and never reaches this handler.
package syscalls

import (
	"fmt"
	"io"

	"github.com/rv32im-trace/rv32im"
)

const (
	// FuncWrite writes one byte, held in RegArg0, to the handler's
	// output writer.
	FuncWrite rv32im.Word = 1
	// FuncReadHint reads one word from the platform's hints region at
	// the handler's internal cursor and returns it in RegArg0,
	// advancing the cursor by one word.
	FuncReadHint rv32im.Word = 2
)

// Handler is a reference SyscallHandler: byte-at-a-time console output
// plus a sequential cursor over the hints region.
type Handler struct {
	Out        io.Writer
	hintCursor rv32im.WordAddr
}

// NewHandler returns a Handler writing to out, with its hint cursor
// positioned at the start of the platform's hints region.
func NewHandler(out io.Writer, platform *rv32im.Platform) *Handler {
	return &Handler{
		Out:        out,
		hintCursor: rv32im.ByteAddr(platform.Hints.Start).Waddr(),
	}
}

// Handle dispatches functionCode to the corresponding syscall. An
// unrecognized code is reported as an error, which VMState.Ecall turns
// into a fatal trap unless the platform's UnsafeEcallNop is set.
func (h *Handler) Handle(ctx rv32im.EmuContext, functionCode rv32im.Word) (rv32im.SyscallEffects, error) {
	switch functionCode {
	case FuncWrite:
		return h.handleWrite(ctx)
	case FuncReadHint:
		return h.handleReadHint(ctx)
	default:
		return rv32im.SyscallEffects{}, fmt.Errorf("syscalls: unknown function code %d", functionCode)
	}
}

func (h *Handler) handleWrite(ctx rv32im.EmuContext) (rv32im.SyscallEffects, error) {
	b := byte(ctx.PeekRegister(platformArg0(ctx)))
	if _, err := h.Out.Write([]byte{b}); err != nil {
		return rv32im.SyscallEffects{}, fmt.Errorf("syscalls: write: %w", err)
	}
	return rv32im.SyscallEffects{}, nil
}

func (h *Handler) handleReadHint(ctx rv32im.EmuContext) (rv32im.SyscallEffects, error) {
	value := ctx.PeekMemory(h.hintCursor)
	h.hintCursor++
	return rv32im.SyscallEffects{
		RegValues: []rv32im.RegValue{{Idx: platformArg0(ctx), Value: value}},
	}, nil
}

// platformArg0 recovers the arg0 register index from the EmuContext's
// concrete type. The handler is written against the interface for
// testability, but the arg0 convention lives on Platform, which is not
// itself exposed through EmuContext; a *rv32im.VMState satisfies an
// unexported accessor interface that gives the handler package access
// without widening EmuContext for every caller.
func platformArg0(ctx rv32im.EmuContext) rv32im.RegIdx {
	if p, ok := ctx.(interface{ Platform() *rv32im.Platform }); ok {
		return p.Platform().RegArg0
	}
	return 10 // a0, the RISC-V calling convention default.
}

package rv32im_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rv32im-trace/rv32im"
	"github.com/rv32im-trace/rv32im/rv32i"
)

func newTestVM(instructions ...rv32im.Word) *rv32im.VMState {
	platform := rv32im.Platform{
		Text:     rv32im.AddrRange{Start: 0x1000, End: 0x2000},
		Stack:    rv32im.AddrRange{Start: 0x8000, End: 0x9000},
		Heap:     rv32im.AddrRange{Start: 0x2000, End: 0x3000},
		Hints:    rv32im.AddrRange{Start: 0x4000, End: 0x5000},
		PublicIO: rv32im.AddrRange{Start: 0x6000, End: 0x6100},
		ProgData: map[uint32]bool{},
		RegEcall: 17,
		RegArg0:  10,
	}
	program := &rv32im.Program{
		Entry:        0x1000,
		BaseAddress:  0x1000,
		Instructions: instructions,
		Image:        map[uint32]rv32im.Word{},
	}
	return rv32im.NewVMState(platform, program, rv32im.SyscallHandlerFunc(
		func(ctx rv32im.EmuContext, functionCode rv32im.Word) (rv32im.SyscallEffects, error) {
			return rv32im.SyscallEffects{}, nil
		},
	))
}

// encodeIType builds an I-type instruction word: imm[11:0] rs1 funct3 rd opcode.
func encodeIType(opcode, rd, funct3, rs1 uint32, imm int32) rv32im.Word {
	return rv32im.Word(uint32(imm)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode)
}

func TestStepAddiAdvancesPCAndRegister(t *testing.T) {
	// addi x1, x0, 5
	vm := newTestVM(encodeIType(0x13, 1, 0, 0, 5))

	record, err := vm.Step(rv32i.Decoder{})
	require.NoError(t, err)

	assert.Equal(t, rv32im.Word(5), vm.PeekRegister(1))
	assert.Equal(t, rv32im.ByteAddr(0x1000), record.PCChange.Before)
	assert.Equal(t, rv32im.ByteAddr(0x1004), record.PCChange.After)
	require.Len(t, record.RegisterWrites, 1)
	assert.Equal(t, rv32im.RegIdx(1), record.RegisterWrites[0].Idx)
	assert.Equal(t, rv32im.Word(5), record.RegisterWrites[0].Change.After)
}

func TestStepEcallHaltStopsTheSequence(t *testing.T) {
	// addi x17, x0, 0 ; ecall
	vm := newTestVM(
		encodeIType(0x13, 17, 0, 0, 0),
		0x00000073,
	)

	seq := rv32im.NewStepSeq(vm, rv32i.Decoder{})
	records, err := seq.Run()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, vm.Halted())
}

func TestStepIllegalOpcodeTraps(t *testing.T) {
	vm := newTestVM(0xFFFFFFFF)
	_, err := vm.Step(rv32i.Decoder{})
	require.Error(t, err)
	var cause rv32im.TrapCause
	require.ErrorAs(t, err, &cause)
	assert.Equal(t, rv32im.TrapIllegalInstruction, cause.Kind)
}

func TestStepBranchToSelfIsBusyLoop(t *testing.T) {
	// beq x0, x0, 0: always taken, branches to itself, so PC does not change and
	// nothing is written; with the machine not halted, Step reports ErrBusyLoop.
	beq := rv32im.Word(0<<25 | 0<<20 | 0<<15 | 0<<12 | 0<<8 | 0<<7 | 0x63)
	vm := newTestVM(beq)

	_, err := vm.Step(rv32i.Decoder{})
	require.Error(t, err)
	var busyErr *rv32im.ErrBusyLoop
	require.ErrorAs(t, err, &busyErr)
}

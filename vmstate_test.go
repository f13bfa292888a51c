package rv32im

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnhandled = errors.New("unhandled syscall in test")

func testPlatform() Platform {
	return Platform{
		Text:     AddrRange{Start: 0x1000, End: 0x2000},
		Stack:    AddrRange{Start: 0x8000, End: 0x9000},
		Heap:     AddrRange{Start: 0x2000, End: 0x3000},
		Hints:    AddrRange{Start: 0x4000, End: 0x5000},
		PublicIO: AddrRange{Start: 0x6000, End: 0x6100},
		ProgData: map[uint32]bool{},
		RegEcall: 17,
		RegArg0:  10,
	}
}

func testProgram(entry Word, instructions ...Word) *Program {
	return &Program{
		Entry:        entry,
		BaseAddress:  entry,
		Instructions: instructions,
		Image:        map[uint32]Word{},
	}
}

type noopHandler struct{}

func (noopHandler) Handle(ctx EmuContext, functionCode Word) (SyscallEffects, error) {
	return SyscallEffects{}, nil
}

func TestVMStateStoreRegisterDropsX0(t *testing.T) {
	vm := NewVMState(testPlatform(), testProgram(0x1000), noopHandler{})
	vm.StoreRegister(0, 0xdeadbeef)
	assert.Equal(t, Word(0), vm.PeekRegister(0))
}

func TestVMStateMemoryRoundTrip(t *testing.T) {
	vm := NewVMState(testPlatform(), testProgram(0x1000), noopHandler{})
	addr := ByteAddr(0x2004).Waddr()
	vm.StoreMemory(addr, 0x1234)
	assert.Equal(t, Word(0x1234), vm.PeekMemory(addr))
}

func TestVMStateCanReadWrite(t *testing.T) {
	vm := NewVMState(testPlatform(), testProgram(0x1000), noopHandler{})
	require.True(t, vm.CheckDataLoad(0x1500))
	require.True(t, vm.CheckDataStore(0x2500))
	require.False(t, vm.CheckDataStore(0x1500), "text is not guest-writable")
	require.False(t, vm.CheckDataStore(0x6050), "public IO is not guest-writable")
	require.True(t, vm.CheckDataLoad(0x6050), "public IO is guest-readable")
}

func TestVMStateEcallHalt(t *testing.T) {
	vm := NewVMState(testPlatform(), testProgram(0x1000), noopHandler{})
	vm.StoreRegister(17, 0) // a7 = EcallHalt
	vm.StoreRegister(10, 42)
	require.NoError(t, vm.Ecall())
	assert.True(t, vm.Halted())
	assert.Equal(t, Word(0), vm.GetPC().U32())
}

func TestVMStateEcallUnrecognizedTrapsByDefault(t *testing.T) {
	vm := NewVMState(testPlatform(), testProgram(0x1000), SyscallHandlerFunc(
		func(ctx EmuContext, functionCode Word) (SyscallEffects, error) {
			return SyscallEffects{}, errUnhandled
		},
	))
	vm.StoreRegister(17, 99)
	err := vm.Ecall()
	require.Error(t, err)
	var cause TrapCause
	require.ErrorAs(t, err, &cause)
	assert.Equal(t, TrapEcallError, cause.Kind)
}

func TestVMStateEcallUnsafeNop(t *testing.T) {
	platform := testPlatform()
	platform.UnsafeEcallNop = true
	vm := NewVMState(platform, testProgram(0x1000), SyscallHandlerFunc(
		func(ctx EmuContext, functionCode Word) (SyscallEffects, error) {
			return SyscallEffects{}, errUnhandled
		},
	))
	pcBefore := vm.GetPC()
	vm.StoreRegister(17, 99)
	require.NoError(t, vm.Ecall())
	assert.False(t, vm.Halted())
	assert.Equal(t, pcBefore.Add(PCStepSize), vm.GetPC())
}

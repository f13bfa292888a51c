package rv32im

import "log"

// EmuContext is the capability set the decoder is written against; any
// state implementing it can be stepped. VMState is the only
// implementation in this repository, but the decoder (package rv32i)
// never refers to *VMState directly — only to this interface — so it
// can be exercised against a mock in unit tests the same way the
// teacher's instruction handlers are written against a Bus rather than
// a concrete memory type.
type EmuContext interface {
	GetPC() ByteAddr
	SetPC(after ByteAddr)

	Fetch(pc WordAddr) (word Word, ok bool)

	LoadRegister(idx RegIdx) Word
	StoreRegister(idx RegIdx, after Word)

	LoadMemory(addr WordAddr) Word
	StoreMemory(addr WordAddr, after Word)

	PeekRegister(idx RegIdx) Word
	PeekMemory(addr WordAddr) Word

	CheckDataLoad(addr ByteAddr) bool
	CheckDataStore(addr ByteAddr) bool

	// OnNormalEnd records the post-instruction PC for any non-ecall
	// instruction (arithmetic or branch), once PC has been finalized.
	OnNormalEnd()

	// Ecall recognizes the halt function code; otherwise dispatches to
	// the configured SyscallHandler and atomically applies its
	// effects. A non-nil error is always fatal (EcallError), unless
	// the platform's UnsafeEcallNop flag converts it into a permissive
	// no-op.
	Ecall() error

	// Trap is fatal: it returns the TrapCause as an error. It never
	// mutates state.
	Trap(cause TrapCause) error
}

// Logger is the package-level logger used for informational and
// diagnostic output (halt notices, permissive-ecall warnings). Tests
// and embedders may replace it, e.g. with log.New(io.Discard, "", 0).
var Logger = log.New(log.Writer(), "rv32im: ", log.LstdFlags)

// VMState is the machine state and the site of every side effect: the
// program (shared, read-only), the platform, the live PC, sparse
// memory, the register file, the halted flag, and the tracer that
// records every read and write made against this state.
type VMState struct {
	program  *Program
	platform Platform

	pc        Word
	memory    map[WordAddr]Word
	registers [RegCount]Word
	halted    bool

	tracer   *Tracer
	syscalls SyscallHandler
}

// NewVMState constructs a VMState from a platform and a shared,
// immutable program, copies the program's image into memory via the
// side-effect-free InitMemory, and sets PC to the program's entry.
func NewVMState(platform Platform, program *Program, syscalls SyscallHandler) *VMState {
	vm := &VMState{
		program:  program,
		platform: platform,
		pc:       program.Entry,
		memory:   make(map[WordAddr]Word, len(program.Image)),
		syscalls: syscalls,
	}
	for addr, value := range program.Image {
		vm.InitMemory(ByteAddr(addr).Waddr(), value)
	}
	vm.tracer = NewTracer(ByteAddr(vm.pc))
	return vm
}

// Halted reports whether the machine has halted; no further steps may
// be produced once true.
func (vm *VMState) Halted() bool { return vm.halted }

// Tracer returns the tracer backing this VMState's trace.
func (vm *VMState) Tracer() *Tracer { return vm.tracer }

// Platform returns the platform this VMState was constructed with.
func (vm *VMState) Platform() *Platform { return &vm.platform }

// Program returns the shared program this VMState is executing.
func (vm *VMState) Program() *Program { return vm.program }

// Registers returns a snapshot of the register file.
func (vm *VMState) Registers() [RegCount]Word { return vm.registers }

// Memory returns a snapshot of the sparse memory map. Absent addresses
// are implicitly zero and are not represented in the returned map.
func (vm *VMState) Memory() map[WordAddr]Word {
	out := make(map[WordAddr]Word, len(vm.memory))
	for k, v := range vm.memory {
		out[k] = v
	}
	return out
}

// InitMemory sets a word in memory without side effects: used at
// construction time to seed the program image, never during stepping.
func (vm *VMState) InitMemory(addr WordAddr, value Word) {
	vm.memory[addr] = value
}

// InitRegisterUnsafe pre-seeds a register without side effects. Test
// harnesses only: production traces always start from the zeroed
// register file an ELF-loaded program expects.
func (vm *VMState) InitRegisterUnsafe(idx RegIdx, value Word) {
	vm.registers[idx] = value
}

func (vm *VMState) halt() {
	vm.SetPC(0)
	vm.halted = true
}

// --- EmuContext ---

func (vm *VMState) GetPC() ByteAddr { return ByteAddr(vm.pc) }

func (vm *VMState) SetPC(after ByteAddr) { vm.pc = after.U32() }

func (vm *VMState) Fetch(pc WordAddr) (Word, bool) {
	word, ok := vm.program.FetchInstruction(pc.Baddr())
	if !ok {
		return 0, false
	}
	vm.tracer.Fetch(pc, word)
	return word, true
}

func (vm *VMState) LoadRegister(idx RegIdx) Word {
	value := vm.PeekRegister(idx)
	vm.tracer.LoadRegister(idx, value)
	return value
}

func (vm *VMState) StoreRegister(idx RegIdx, after Word) {
	if idx == 0 {
		return
	}
	before := vm.PeekRegister(idx)
	vm.tracer.StoreRegister(idx, Change[Word]{Before: before, After: after})
	vm.registers[idx] = after
}

func (vm *VMState) LoadMemory(addr WordAddr) Word {
	value := vm.PeekMemory(addr)
	vm.tracer.LoadMemory(addr, value)
	return value
}

func (vm *VMState) StoreMemory(addr WordAddr, after Word) {
	before := vm.PeekMemory(addr)
	vm.tracer.StoreMemory(addr, Change[Word]{Before: before, After: after})
	vm.memory[addr] = after
}

func (vm *VMState) PeekRegister(idx RegIdx) Word {
	return vm.registers[idx]
}

func (vm *VMState) PeekMemory(addr WordAddr) Word {
	return vm.memory[addr]
}

func (vm *VMState) CheckDataLoad(addr ByteAddr) bool {
	return vm.platform.CanRead(addr.U32())
}

func (vm *VMState) CheckDataStore(addr ByteAddr) bool {
	return vm.platform.CanWrite(addr.U32())
}

func (vm *VMState) OnNormalEnd() {
	vm.tracer.StorePC(ByteAddr(vm.pc))
}

func (vm *VMState) Trap(cause TrapCause) error {
	return cause
}

// Ecall loads the function code from the platform's reg_ecall register.
// A match against EcallHalt halts the machine; otherwise the call is
// dispatched to the configured SyscallHandler and its effects are
// applied atomically: memory writes, then register writes, then PC,
// then the effect bundle is attached to the tracer — in that order, so
// a failure partway through never leaves the tracer claiming a commit
// memory does not reflect.
func (vm *VMState) Ecall() error {
	function := vm.LoadRegister(vm.platform.RegEcall)
	if function == vm.platform.EcallHalt {
		exitCode := vm.LoadRegister(vm.platform.RegArg0)
		Logger.Printf("halt with exit_code=%d", exitCode)
		vm.halt()
		return nil
	}

	effects, err := vm.syscalls.Handle(vm, function)
	if err == nil {
		return vm.applySyscall(effects)
	}

	if vm.platform.UnsafeEcallNop {
		Logger.Printf("ecall ignored with unsafe_ecall_nop: %v", err)
		return vm.ecallNop()
	}

	Logger.Printf("ecall error: %v", err)
	return vm.Trap(TrapCause{Kind: TrapEcallError})
}

func (vm *VMState) applySyscall(effects SyscallEffects) error {
	for _, mv := range effects.MemValues {
		vm.memory[mv.Addr] = mv.Value
	}
	for _, rv := range effects.RegValues {
		vm.registers[rv.Idx] = rv.Value
	}

	nextPC := vm.pc + PCStepSize
	if effects.NextPC != nil {
		nextPC = *effects.NextPC
	}
	vm.SetPC(ByteAddr(nextPC))

	vm.tracer.TrackSyscall(effects)
	return nil
}

// ecallNop treats an unrecognized ecall as a permissive no-op: reads
// arg0, performs a dark write to the sink register, performs a
// self-referential read/write of the topmost stack word (so downstream
// consumers that require every step to touch something still see a
// well-formed, non-empty trace), and advances PC normally. Development
// use only; Platform.UnsafeEcallNop must stay off for production
// traces.
func (vm *VMState) ecallNop() error {
	_ = vm.LoadRegister(vm.platform.RegArg0)
	vm.StoreRegister(darkWriteSink, 0)

	addr := ByteAddr(vm.platform.Stack.End - WordSize).Waddr()
	vm.StoreMemory(addr, vm.PeekMemory(addr))

	vm.SetPC(vm.GetPC().Add(PCStepSize))
	vm.OnNormalEnd()
	return nil
}

// darkWriteSink is the extra register slot (index RegCount-1, i.e. 32)
// reserved for writes to x0: the emulator never exposes it via
// LoadRegister, and StoreRegister(0, _) is always dropped rather than
// routed here automatically. It exists purely so a handler that wants
// "every instruction produces a register-write event" has somewhere to
// aim that isn't x0 itself.
const darkWriteSink RegIdx = RegCount - 1

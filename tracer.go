package rv32im

// Change records a before/after pair for a single mutation, so a
// verifier can replay the step without re-deriving the prior value.
type Change[T any] struct {
	Before T
	After  T
}

// RegRead is one recorded register load.
type RegRead struct {
	Idx   RegIdx
	Value Word
}

// RegWrite is one recorded register store.
type RegWrite struct {
	Idx    RegIdx
	Change Change[Word]
}

// MemRead is one recorded memory load.
type MemRead struct {
	Addr  WordAddr
	Value Word
}

// MemWrite is one recorded memory store.
type MemWrite struct {
	Addr   WordAddr
	Change Change[Word]
}

// StepRecord is the finalized observation bundle for one executed
// instruction: every register/memory read and write, the PC
// transition, the fetched instruction, and any syscall effects.
type StepRecord struct {
	Cycle          uint64
	PCChange       Change[ByteAddr]
	Fetched        Word
	RegisterReads  []RegRead
	RegisterWrites []RegWrite
	MemoryReads    []MemRead
	MemoryWrites   []MemWrite
	Syscall        *SyscallEffects
}

// IsBusyLoop reports whether this step made no architectural progress:
// the PC did not change and neither registers nor memory were written
// and no syscall effects were attached.
func (s *StepRecord) IsBusyLoop() bool {
	return s.PCChange.Before == s.PCChange.After &&
		len(s.RegisterWrites) == 0 &&
		len(s.MemoryWrites) == 0 &&
		s.Syscall == nil
}

// Tracer accumulates observations for the instruction currently being
// executed and finalizes them into a StepRecord on Advance. The
// working buffer is cleared, not reallocated, between steps: the
// backing arrays are reused across the whole run.
type Tracer struct {
	cycle uint64

	fetched   Word
	fetchedAt WordAddr
	haveFetch bool

	pcBefore ByteAddr
	pcAfter  ByteAddr

	regReads  []RegRead
	regWrites []RegWrite
	memReads  []MemRead
	memWrites []MemWrite
	syscall   *SyscallEffects
}

// NewTracer returns a Tracer ready to record the first step. pc0 is the
// program counter before the first instruction, used to seed the PC
// change for that step.
func NewTracer(pc0 ByteAddr) *Tracer {
	t := &Tracer{}
	t.beginStep(pc0)
	return t
}

func (t *Tracer) beginStep(pc ByteAddr) {
	t.haveFetch = false
	t.pcBefore = pc
	t.pcAfter = pc
	t.regReads = t.regReads[:0]
	t.regWrites = t.regWrites[:0]
	t.memReads = t.memReads[:0]
	t.memWrites = t.memWrites[:0]
	t.syscall = nil
}

// Fetch records the fetched instruction word and its address. At most
// one per in-flight step.
func (t *Tracer) Fetch(addr WordAddr, word Word) {
	t.fetched = word
	t.fetchedAt = addr
	t.haveFetch = true
}

// LoadRegister appends a recorded register read.
func (t *Tracer) LoadRegister(idx RegIdx, value Word) {
	t.regReads = append(t.regReads, RegRead{Idx: idx, Value: value})
}

// StoreRegister appends a recorded register write.
func (t *Tracer) StoreRegister(idx RegIdx, change Change[Word]) {
	t.regWrites = append(t.regWrites, RegWrite{Idx: idx, Change: change})
}

// LoadMemory appends a recorded memory read.
func (t *Tracer) LoadMemory(addr WordAddr, value Word) {
	t.memReads = append(t.memReads, MemRead{Addr: addr, Value: value})
}

// StoreMemory appends a recorded memory write.
func (t *Tracer) StoreMemory(addr WordAddr, change Change[Word]) {
	t.memWrites = append(t.memWrites, MemWrite{Addr: addr, Change: change})
}

// StorePC records the new PC after a normal (non-ecall) instruction:
// called by EmuContext.OnNormalEnd once PC has been finalized, whether
// by a plain PC_STEP_SIZE advance or by a taken branch setting PC
// directly. Halt and handler-dispatched ecall steps finalize PC from
// within Ecall instead (see Advance) and never call OnNormalEnd; only
// the UnsafeEcallNop path of Ecall calls it.
func (t *Tracer) StorePC(after ByteAddr) {
	t.pcAfter = after
}

// TrackSyscall attaches syscall effects to the in-flight record.
func (t *Tracer) TrackSyscall(effects SyscallEffects) {
	t.syscall = &effects
}

// Advance finalizes the in-flight buffer into a StepRecord, assigns the
// next monotonically increasing cycle index, returns the record, and
// resets the buffer for the following instruction's PC.
//
// currentPC is the authoritative post-instruction program counter, read
// by the step driver after decode/execute has fully completed. Normal
// instructions already recorded the same value via StorePC (called from
// OnNormalEnd); halt and handler-dispatched ecall steps never call
// StorePC, so currentPC is the only source of truth for those. Taking it as a parameter here
// rather than trusting the StorePC-only value keeps every instruction
// kind — arithmetic, branch, ecall, halt — uniformly correct.
func (t *Tracer) Advance(currentPC ByteAddr) StepRecord {
	t.pcAfter = currentPC
	step := StepRecord{
		Cycle:    t.cycle,
		PCChange: Change[ByteAddr]{Before: t.pcBefore, After: t.pcAfter},
		Fetched:  t.fetched,
	}
	step.RegisterReads = append(step.RegisterReads[:0:0], t.regReads...)
	step.RegisterWrites = append(step.RegisterWrites[:0:0], t.regWrites...)
	step.MemoryReads = append(step.MemoryReads[:0:0], t.memReads...)
	step.MemoryWrites = append(step.MemoryWrites[:0:0], t.memWrites...)
	step.Syscall = t.syscall

	t.cycle++
	t.beginStep(currentPC)
	return step
}

// Discard resets the in-flight buffer without finalizing it, for use
// when a step fails with a trap: the partial observations for that
// step must never be observable.
func (t *Tracer) Discard(pc ByteAddr) {
	t.beginStep(pc)
}

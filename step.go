package rv32im

// Decoder fetches, decodes, and executes exactly one instruction
// against ctx, recording every read and write it makes through ctx's
// Load*/Store* methods, and calling ctx.OnNormalEnd once PC is
// finalized (unless the instruction was an ecall, which finalizes PC
// itself via Ecall). A non-nil error aborts the step: the caller must
// discard any partial observations already recorded.
//
// The reference implementation lives in package rv32i; this interface
// is the seam that keeps the core package ignorant of RV32IM encoding.
type Decoder interface {
	DecodeAndExecute(ctx EmuContext) error
}

// Step executes exactly one instruction and returns its finalized
// StepRecord. It is an error to call Step after Halted() returns true.
//
// On success the returned record's PCChange.After reflects the live PC
// read back from ctx after decode/execute completed, which is correct
// whether that instruction advanced PC by PC_STEP_SIZE, took a branch,
// or (via Ecall) computed a syscall-supplied next PC or halted.
//
// When decode/execute fails, the in-flight trace buffer is discarded
// before the error is returned: a trapped instruction must never leave
// partial observations in the trace. A step that completes but is a
// busy loop is finalized and returned together with an *ErrBusyLoop.
func (vm *VMState) Step(dec Decoder) (StepRecord, error) {
	if vm.halted {
		return StepRecord{}, ErrHalted
	}

	pcBefore := vm.GetPC()
	if err := dec.DecodeAndExecute(vm); err != nil {
		vm.tracer.Discard(pcBefore)
		return StepRecord{}, err
	}

	record := vm.tracer.Advance(vm.GetPC())

	if !vm.halted && record.IsBusyLoop() {
		return record, &ErrBusyLoop{PC: vm.GetPC()}
	}
	return record, nil
}

// StepSeq lazily drives repeated Step calls, yielding one StepRecord
// per call to Next until the machine halts or a step fails. It holds
// no buffered records: each Next call executes exactly one
// instruction, mirroring the pull-iterator style the trace consumer
// (a ZK witness generator) needs to stay memory-bounded over long
// runs.
type StepSeq struct {
	vm  *VMState
	dec Decoder
	err error
}

// NewStepSeq returns a sequence that steps vm with dec until halt or
// error.
func NewStepSeq(vm *VMState, dec Decoder) *StepSeq {
	return &StepSeq{vm: vm, dec: dec}
}

// Next executes one instruction and returns its record. ok is false
// once the machine has halted or a prior call has already failed; err
// is non-nil only when the sequence ended because a step failed, never
// on a clean halt.
func (s *StepSeq) Next() (record StepRecord, ok bool, err error) {
	if s.err != nil || s.vm.Halted() {
		return StepRecord{}, false, nil
	}
	record, err = s.vm.Step(s.dec)
	if err != nil {
		s.err = err
		return StepRecord{}, false, err
	}
	return record, true, nil
}

// Err returns the error that ended the sequence, or nil if it ended
// because the machine halted cleanly.
func (s *StepSeq) Err() error { return s.err }

// Run drains the sequence to completion, collecting every step. For
// long traces prefer Next directly so records can be consumed (e.g.
// written to disk) without holding the whole run in memory.
func (s *StepSeq) Run() ([]StepRecord, error) {
	var records []StepRecord
	for {
		record, ok, err := s.Next()
		if !ok {
			return records, err
		}
		records = append(records, record)
	}
}

package rv32im

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracerRecordsReadsAndWrites(t *testing.T) {
	tr := NewTracer(0x1000)
	tr.Fetch(WordAddr(0x400), 0x00000013)
	tr.LoadRegister(5, 10)
	tr.StoreRegister(6, Change[Word]{Before: 0, After: 10})
	tr.LoadMemory(WordAddr(0x10), 0xAA)
	tr.StoreMemory(WordAddr(0x10), Change[Word]{Before: 0xAA, After: 0xBB})

	step := tr.Advance(0x1004)

	assert.Equal(t, Word(0x00000013), step.Fetched)
	assert.Equal(t, ByteAddr(0x1000), step.PCChange.Before)
	assert.Equal(t, ByteAddr(0x1004), step.PCChange.After)
	assert.Len(t, step.RegisterReads, 1)
	assert.Len(t, step.RegisterWrites, 1)
	assert.Len(t, step.MemoryReads, 1)
	assert.Len(t, step.MemoryWrites, 1)
}

func TestTracerBufferReuseAcrossSteps(t *testing.T) {
	tr := NewTracer(0)
	tr.LoadRegister(1, 1)
	_ = tr.Advance(4)

	// The second step must start from an empty buffer: reads recorded
	// before Advance must never bleed into the next step's record.
	step := tr.Advance(8)
	assert.Empty(t, step.RegisterReads)
}

func TestTracerAdvanceIncrementsCycle(t *testing.T) {
	tr := NewTracer(0)
	first := tr.Advance(4)
	second := tr.Advance(8)
	assert.Equal(t, uint64(0), first.Cycle)
	assert.Equal(t, uint64(1), second.Cycle)
}

func TestTracerDiscardDropsPartialObservations(t *testing.T) {
	tr := NewTracer(0)
	tr.LoadRegister(1, 1)
	tr.StoreMemory(WordAddr(4), Change[Word]{Before: 0, After: 1})
	tr.Discard(0)

	step := tr.Advance(4)
	assert.Empty(t, step.RegisterReads)
	assert.Empty(t, step.MemoryWrites)
}

func TestStepRecordIsBusyLoop(t *testing.T) {
	busy := StepRecord{PCChange: Change[ByteAddr]{Before: 0x100, After: 0x100}}
	assert.True(t, busy.IsBusyLoop())

	progressed := StepRecord{PCChange: Change[ByteAddr]{Before: 0x100, After: 0x104}}
	assert.False(t, progressed.IsBusyLoop())

	samePCWithWrite := StepRecord{
		PCChange:       Change[ByteAddr]{Before: 0x100, After: 0x100},
		RegisterWrites: []RegWrite{{Idx: 1, Change: Change[Word]{After: 1}}},
	}
	assert.False(t, samePCWithWrite.IsBusyLoop())
}

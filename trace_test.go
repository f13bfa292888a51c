package rv32im

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeStepRoundTrip(t *testing.T) {
	original := StepRecord{
		Cycle:          7,
		PCChange:       Change[ByteAddr]{Before: 0x1000, After: 0x1004},
		Fetched:        0x00000013,
		RegisterReads:  []RegRead{{Idx: 5, Value: 10}},
		RegisterWrites: []RegWrite{{Idx: 6, Change: Change[Word]{Before: 0, After: 10}}},
		MemoryReads:    []MemRead{{Addr: 0x10, Value: 0xAA}},
		MemoryWrites:   []MemWrite{{Addr: 0x10, Change: Change[Word]{Before: 0xAA, After: 0xBB}}},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeStep(&buf, original))

	decoded, err := DecodeStep(&buf)
	require.NoError(t, err)

	assert.Equal(t, original.Cycle, decoded.Cycle)
	assert.Equal(t, original.PCChange, decoded.PCChange)
	assert.Equal(t, original.Fetched, decoded.Fetched)
	assert.Equal(t, original.RegisterReads, decoded.RegisterReads)
	assert.Equal(t, original.RegisterWrites, decoded.RegisterWrites)
	assert.Equal(t, original.MemoryReads, decoded.MemoryReads)
	assert.Equal(t, original.MemoryWrites, decoded.MemoryWrites)
}

func TestDecodeStepRejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeStep(&buf, StepRecord{}))
	encoded := buf.Bytes()
	encoded[0] = 0xFF

	_, err := DecodeStep(bytes.NewReader(encoded))
	require.Error(t, err)
}

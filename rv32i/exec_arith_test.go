package rv32i

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecMExtDivByZero(t *testing.T) {
	result, ok := execMExt(10, 0, 4) // DIV
	assert.True(t, ok)
	assert.Equal(t, uint32(0xFFFFFFFF), result)

	result, ok = execMExt(10, 0, 5) // DIVU
	assert.True(t, ok)
	assert.Equal(t, uint32(0xFFFFFFFF), result)
}

func TestExecMExtSignedOverflow(t *testing.T) {
	minInt := uint32(0x80000000)
	negOne := uint32(0xFFFFFFFF)

	result, ok := execMExt(minInt, negOne, 4) // DIV
	assert.True(t, ok)
	assert.Equal(t, minInt, result, "INT_MIN / -1 does not trap, returns INT_MIN")

	result, ok = execMExt(minInt, negOne, 6) // REM
	assert.True(t, ok)
	assert.Equal(t, uint32(0), result)
}

func TestExecMExtMulhVariants(t *testing.T) {
	result, ok := execMExt(0xFFFFFFFF, 0xFFFFFFFF, 3) // MULHU: (2^32-1)^2 high word
	assert.True(t, ok)
	assert.Equal(t, uint32(0xFFFFFFFE), result)

	result, ok = execMExt(0xFFFFFFFF, 0xFFFFFFFF, 1) // MULH: -1 * -1 = 1, high word 0
	assert.True(t, ok)
	assert.Equal(t, uint32(0), result)

	result, ok = execMExt(0xFFFFFFFF, 0xFFFFFFFF, 2) // MULHSU: -1 * (2^32-1), high word -1
	assert.True(t, ok)
	assert.Equal(t, uint32(0xFFFFFFFF), result)
}

func TestExecBaseALUAddSub(t *testing.T) {
	sum, ok := execBaseALU(3, 4, 0, 0x00)
	assert.True(t, ok)
	assert.Equal(t, uint32(7), sum)

	diff, ok := execBaseALU(10, 4, 0, 0x20)
	assert.True(t, ok)
	assert.Equal(t, uint32(6), diff)
}

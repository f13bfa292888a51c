package rv32im

// Word is an unsigned 32-bit machine value: a register value, a memory
// word, or a raw instruction encoding, depending on context.
type Word = uint32

// ByteAddr is a 32-bit byte address, as seen at ELF/platform boundaries
// and held in the program counter.
type ByteAddr uint32

// WordAddr is a word-aligned address: a ByteAddr with the low two bits
// dropped. The core traffics in word addresses internally; byte
// addresses appear only at the boundaries named above.
type WordAddr uint32

// WordSize is the width in bytes of a Word.
const WordSize = 4

// PCStepSize is the PC advance for a normal (non-branching) instruction.
const PCStepSize Word = 4

// RegCount is the number of register slots: 32 architectural registers
// plus one dark-write sink for writes to x0.
const RegCount = 33

// RegIdx indexes into the register file, in [0, RegCount).
type RegIdx = uint32

// Waddr converts a byte address to its containing word address by
// dropping the low two bits.
func (b ByteAddr) Waddr() WordAddr {
	return WordAddr(b >> 2)
}

// Baddr converts a word address back to a byte address.
func (w WordAddr) Baddr() ByteAddr {
	return ByteAddr(w << 2)
}

// Add returns b+offset, wrapping modulo 2^32 to match hardware address
// arithmetic.
func (b ByteAddr) Add(offset uint32) ByteAddr {
	return ByteAddr(uint32(b) + offset)
}

// Sub returns b-offset, wrapping modulo 2^32.
func (b ByteAddr) Sub(offset uint32) ByteAddr {
	return ByteAddr(uint32(b) - offset)
}

// U32 returns the address as a plain uint32, for use at boundaries
// (ELF loading, platform range checks, display).
func (b ByteAddr) U32() uint32 {
	return uint32(b)
}

// IsAligned reports whether b is word-aligned.
func (b ByteAddr) IsAligned() bool {
	return b&3 == 0
}

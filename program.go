package rv32im

// Program is an immutable loaded program image: the entry point, the
// base address instructions were linked at, the instruction stream
// itself, and the initial data image. It is shared by pointer (a
// *Program) with every VMState built from it, and the Platform's
// ProgData set is derived from its image; nothing may mutate it after
// load.
type Program struct {
	// Entry is the initial program counter.
	Entry Word
	// BaseAddress is the byte address the first instruction word was
	// linked at.
	BaseAddress Word
	// Instructions is the ordered instruction stream, one Word per
	// 4-byte-aligned slot starting at BaseAddress.
	Instructions []Word
	// Image is the initial data image: byte address to word value,
	// as produced by the loader from the ELF's loadable segments.
	Image map[uint32]Word
}

// FetchInstruction returns the raw instruction word at the given byte
// address, or ok=false if the address falls outside the instruction
// stream (a jump outside the text segment).
func (p *Program) FetchInstruction(pc ByteAddr) (word Word, ok bool) {
	rel := uint32(pc) - p.BaseAddress
	if rel%WordSize != 0 {
		return 0, false
	}
	idx := rel / WordSize
	if idx >= uint32(len(p.Instructions)) {
		return 0, false
	}
	return p.Instructions[idx], true
}

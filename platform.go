package rv32im

// AddrRange is a half-open byte address range [Start, End).
type AddrRange struct {
	Start uint32
	End   uint32
}

// Contains reports whether addr falls within the range.
func (r AddrRange) Contains(addr uint32) bool {
	return addr >= r.Start && addr < r.End
}

// Platform describes the address layout and syscall convention of the
// machine being emulated. It is immutable after construction.
type Platform struct {
	// Text is the range holding program instructions.
	Text AddrRange
	// Stack is the range reserved for the stack, growing downward.
	Stack AddrRange
	// Heap is the dynamic-volatile memory range (zero-initialized).
	Heap AddrRange
	// Hints is a dynamic-volatile range used to pass prover hints
	// (not zero-initialized).
	Hints AddrRange
	// PublicIO is a fixed, read-only-to-the-guest range used for
	// public inputs/outputs of the proof.
	PublicIO AddrRange

	// ProgData is the set of byte addresses covered by the loaded
	// program image; readable even outside Text (e.g. static data).
	ProgData map[uint32]bool

	// UnsafeEcallNop makes an unrecognized ecall a permissive no-op
	// instead of a fatal trap. Development only; must be off for
	// production traces.
	UnsafeEcallNop bool

	// Syscall convention.
	RegEcall  RegIdx // register holding the function code, typically x5/t0
	RegArg0   RegIdx // register holding/receiving the first argument
	EcallHalt Word   // function code reserved for halt
}

// CanRead reports whether addr may be loaded from.
func (p *Platform) CanRead(addr uint32) bool {
	return p.Text.Contains(addr) ||
		p.Stack.Contains(addr) ||
		p.Heap.Contains(addr) ||
		p.Hints.Contains(addr) ||
		p.PublicIO.Contains(addr) ||
		p.ProgData[addr]
}

// CanWrite reports whether addr may be stored to. Text and PublicIO
// are excluded: the program image and public inputs/outputs are not
// guest-writable.
func (p *Platform) CanWrite(addr uint32) bool {
	if p.Text.Contains(addr) || p.PublicIO.Contains(addr) {
		return false
	}
	return p.Stack.Contains(addr) ||
		p.Heap.Contains(addr) ||
		p.Hints.Contains(addr) ||
		p.ProgData[addr]
}

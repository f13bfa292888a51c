package rv32im

// RAMKind distinguishes the two witness-table families a downstream
// prover draws from: register file entries and memory words each get
// their own table, but both are represented with the adapters below so
// a table-generation pass can iterate them uniformly regardless of
// kind.
type RAMKind int

const (
	RAMRegister RAMKind = iota
	RAMMemory
)

// uintLimbs is the number of field limbs a register value decomposes
// into; memory and IO tables always use a single limb per value.
const uintLimbs = 2

// NonVolatileTable describes a fixed-size table whose rows exist for
// the whole run: the register file and any statically-addressed
// memory the program touches. Every row is present from cycle zero,
// whether or not the guest ever reads or writes it.
type NonVolatileTable interface {
	Name() string
	Kind() RAMKind
	// Writable reports whether the prover needs to constrain writes to
	// this table at all (PublicIO is read-only from the guest's side).
	Writable() bool
	// Len returns the fixed row count.
	Len() int
	// VLimbs returns how many field limbs each value in this table
	// decomposes into.
	VLimbs() int
}

// DynVolatileTable describes a table whose row count grows with
// however much of an address range the run actually touched: the heap
// and the hints region. Unlike NonVolatileTable, rows outside what was
// touched never appear.
type DynVolatileTable interface {
	Name() string
	Kind() RAMKind
	// ZeroInit reports whether untouched rows are known to read as
	// zero (true for the heap) or must be treated as uninitialized
	// (false for hints, which the prover supplies out of band).
	ZeroInit() bool
	// OffsetAddr and EndAddr bound the address range backing this
	// table.
	OffsetAddr() uint32
	EndAddr() uint32
	// VLimbs returns how many field limbs each value in this table
	// decomposes into.
	VLimbs() int
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// regTable is the fixed RegCount-row register file table, padded to
// the next power of two for the prover's column layout.
type regTable struct{}

func (regTable) Name() string   { return "RegTable" }
func (regTable) Kind() RAMKind  { return RAMRegister }
func (regTable) Writable() bool { return true }
func (regTable) Len() int       { return nextPowerOfTwo(RegCount) }
func (regTable) VLimbs() int    { return uintLimbs }

// staticMemTable covers the program's statically-addressed data (its
// ProgData set): present from cycle zero, writable by the guest.
type staticMemTable struct{ platform *Platform }

func (t staticMemTable) Name() string   { return "StaticMemTable" }
func (t staticMemTable) Kind() RAMKind  { return RAMMemory }
func (t staticMemTable) Writable() bool { return true }
func (t staticMemTable) VLimbs() int    { return 1 }

// Len reports the static word count, not the byte-granular cardinality
// of platform.ProgData (which carries four membership entries per
// word).
func (t staticMemTable) Len() int {
	words := make(map[uint32]struct{}, len(t.platform.ProgData)/WordSize)
	for addr := range t.platform.ProgData {
		words[addr/WordSize] = struct{}{}
	}
	return len(words)
}

// pubIOTable covers the platform's public-input/output range: present
// from cycle zero, never writable by the guest.
type pubIOTable struct{ platform *Platform }

func (t pubIOTable) Name() string   { return "PubIOTable" }
func (t pubIOTable) Kind() RAMKind  { return RAMMemory }
func (t pubIOTable) Writable() bool { return false }
func (t pubIOTable) VLimbs() int    { return 1 }
func (t pubIOTable) Len() int {
	return int(t.platform.PublicIO.End-t.platform.PublicIO.Start) / WordSize
}

// dynMemTable is the heap: dynamic-volatile, zero-initialized.
type dynMemTable struct{ platform *Platform }

func (t dynMemTable) Name() string       { return "DynMemTable" }
func (t dynMemTable) Kind() RAMKind      { return RAMMemory }
func (t dynMemTable) ZeroInit() bool     { return true }
func (t dynMemTable) VLimbs() int        { return 1 }
func (t dynMemTable) OffsetAddr() uint32 { return t.platform.Heap.Start }
func (t dynMemTable) EndAddr() uint32    { return t.platform.Heap.End }

// hintsTable is the prover-hints region: dynamic-volatile, not
// zero-initialized (the prover supplies its contents out of band).
type hintsTable struct{ platform *Platform }

func (t hintsTable) Name() string       { return "HintsTable" }
func (t hintsTable) Kind() RAMKind      { return RAMMemory }
func (t hintsTable) ZeroInit() bool     { return false }
func (t hintsTable) VLimbs() int        { return 1 }
func (t hintsTable) OffsetAddr() uint32 { return t.platform.Hints.Start }
func (t hintsTable) EndAddr() uint32    { return t.platform.Hints.End }

// NonVolatileTables returns the register file, static-memory, and
// public-IO table descriptors for the given platform, in the order a
// table-generation pass should emit them.
func NonVolatileTables(platform *Platform) []NonVolatileTable {
	return []NonVolatileTable{
		regTable{},
		staticMemTable{platform: platform},
		pubIOTable{platform: platform},
	}
}

// DynVolatileTables returns the heap and hints table descriptors for
// the given platform.
func DynVolatileTables(platform *Platform) []DynVolatileTable {
	return []DynVolatileTable{
		dynMemTable{platform: platform},
		hintsTable{platform: platform},
	}
}

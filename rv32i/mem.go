package rv32i

import "github.com/rv32im-trace/rv32im"

// Memory in this emulator is word-granular: every load or store against
// ctx touches exactly one Word, read-modify-write for sub-word widths.
// A byte store therefore still produces one MemoryRead (to fetch the
// surrounding word) and one MemoryWrite (the merged result) in the
// trace, which is the price of giving the downstream witness tables a
// single width to reason about.

func loadByte(ctx rv32im.EmuContext, addr rv32im.ByteAddr, signed bool) (rv32im.Word, error) {
	if !ctx.CheckDataLoad(addr) {
		return 0, &rv32im.AddressFault{Kind: rv32im.FaultLoad, Addr: addr}
	}
	word := ctx.LoadMemory(addr.Waddr())
	shift := (uint32(addr) & 3) * 8
	b := byte(word >> shift)
	if signed {
		return rv32im.Word(int32(int8(b))), nil
	}
	return rv32im.Word(b), nil
}

func loadHalf(ctx rv32im.EmuContext, addr rv32im.ByteAddr, signed bool) (rv32im.Word, error) {
	if uint32(addr)&1 != 0 {
		return 0, &rv32im.AddressFault{Kind: rv32im.FaultLoad, Addr: addr}
	}
	if !ctx.CheckDataLoad(addr) {
		return 0, &rv32im.AddressFault{Kind: rv32im.FaultLoad, Addr: addr}
	}
	word := ctx.LoadMemory(addr.Waddr())
	shift := (uint32(addr) & 2) * 8
	h := uint16(word >> shift)
	if signed {
		return rv32im.Word(int32(int16(h))), nil
	}
	return rv32im.Word(h), nil
}

func loadWord(ctx rv32im.EmuContext, addr rv32im.ByteAddr) (rv32im.Word, error) {
	if !addr.IsAligned() {
		return 0, &rv32im.AddressFault{Kind: rv32im.FaultLoad, Addr: addr}
	}
	if !ctx.CheckDataLoad(addr) {
		return 0, &rv32im.AddressFault{Kind: rv32im.FaultLoad, Addr: addr}
	}
	return ctx.LoadMemory(addr.Waddr()), nil
}

func storeByte(ctx rv32im.EmuContext, addr rv32im.ByteAddr, value rv32im.Word) error {
	if !ctx.CheckDataStore(addr) {
		return &rv32im.AddressFault{Kind: rv32im.FaultStore, Addr: addr}
	}
	waddr := addr.Waddr()
	shift := (uint32(addr) & 3) * 8
	mask := rv32im.Word(0xFF) << shift
	merged := (ctx.LoadMemory(waddr) &^ mask) | ((value & 0xFF) << shift)
	ctx.StoreMemory(waddr, merged)
	return nil
}

func storeHalf(ctx rv32im.EmuContext, addr rv32im.ByteAddr, value rv32im.Word) error {
	if uint32(addr)&1 != 0 {
		return &rv32im.AddressFault{Kind: rv32im.FaultStore, Addr: addr}
	}
	if !ctx.CheckDataStore(addr) {
		return &rv32im.AddressFault{Kind: rv32im.FaultStore, Addr: addr}
	}
	waddr := addr.Waddr()
	shift := (uint32(addr) & 2) * 8
	mask := rv32im.Word(0xFFFF) << shift
	merged := (ctx.LoadMemory(waddr) &^ mask) | ((value & 0xFFFF) << shift)
	ctx.StoreMemory(waddr, merged)
	return nil
}

func storeWord(ctx rv32im.EmuContext, addr rv32im.ByteAddr, value rv32im.Word) error {
	if !addr.IsAligned() {
		return &rv32im.AddressFault{Kind: rv32im.FaultStore, Addr: addr}
	}
	if !ctx.CheckDataStore(addr) {
		return &rv32im.AddressFault{Kind: rv32im.FaultStore, Addr: addr}
	}
	ctx.StoreMemory(addr.Waddr(), value)
	return nil
}

// Package elfload loads a 32-bit RISC-V ELF executable into an
// rv32im.Program: the entry point, the linked base address, the
// instruction stream of the first executable segment, and a sparse
// data image built from the initialized bytes of every other loadable
// segment.
package elfload

import (
	"debug/elf"
	"fmt"
	"io"

	"github.com/rv32im-trace/rv32im"
)

// Load reads a 32-bit RISC-V ELF executable from r and returns the
// rv32im.Program it describes. It reports a *rv32im.LoadElfError for
// any malformed or unsupported input: wrong class, wrong machine, no
// executable segment, or an unaligned segment.
func Load(r io.ReaderAt) (*rv32im.Program, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, &rv32im.LoadElfError{Err: err}
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 {
		return nil, &rv32im.LoadElfError{Err: fmt.Errorf("class %s, want ELFCLASS32", f.Class)}
	}
	if f.Machine != elf.EM_RISCV {
		return nil, &rv32im.LoadElfError{Err: fmt.Errorf("machine %s, want EM_RISCV", f.Machine)}
	}

	program := &rv32im.Program{
		Entry: rv32im.Word(f.Entry),
		Image: make(map[uint32]rv32im.Word),
	}

	var haveText bool
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil && err != io.EOF {
			return nil, &rv32im.LoadElfError{Err: fmt.Errorf("read segment at %#x: %w", prog.Vaddr, err)}
		}

		if prog.Flags&elf.PF_X != 0 && !haveText {
			instructions, err := wordsOf(data, prog.Vaddr)
			if err != nil {
				return nil, &rv32im.LoadElfError{Err: err}
			}
			program.BaseAddress = rv32im.Word(prog.Vaddr)
			program.Instructions = instructions
			haveText = true
			continue
		}

		if err := addImage(program.Image, data, prog.Vaddr); err != nil {
			return nil, &rv32im.LoadElfError{Err: err}
		}
	}

	if !haveText {
		return nil, &rv32im.LoadElfError{Err: fmt.Errorf("no executable PT_LOAD segment")}
	}
	return program, nil
}

func wordsOf(data []byte, vaddr uint64) ([]rv32im.Word, error) {
	if vaddr%rv32im.WordSize != 0 {
		return nil, fmt.Errorf("segment at %#x is not word-aligned", vaddr)
	}
	padded := data
	if rem := len(data) % rv32im.WordSize; rem != 0 {
		padded = append(padded, make([]byte, rv32im.WordSize-rem)...)
	}
	words := make([]rv32im.Word, len(padded)/rv32im.WordSize)
	for i := range words {
		off := i * rv32im.WordSize
		words[i] = rv32im.Word(padded[off]) |
			rv32im.Word(padded[off+1])<<8 |
			rv32im.Word(padded[off+2])<<16 |
			rv32im.Word(padded[off+3])<<24
	}
	return words, nil
}

func addImage(image map[uint32]rv32im.Word, data []byte, vaddr uint64) error {
	if vaddr%rv32im.WordSize != 0 {
		return fmt.Errorf("segment at %#x is not word-aligned", vaddr)
	}
	padded := data
	if rem := len(data) % rv32im.WordSize; rem != 0 {
		padded = append(padded, make([]byte, rv32im.WordSize-rem)...)
	}
	for i := 0; i < len(padded); i += rv32im.WordSize {
		word := rv32im.Word(padded[i]) |
			rv32im.Word(padded[i+1])<<8 |
			rv32im.Word(padded[i+2])<<16 |
			rv32im.Word(padded[i+3])<<24
		image[uint32(vaddr)+uint32(i)] = word
	}
	return nil
}

// ProgDataSet returns the set of byte addresses covered by program's
// data image, suitable for rv32im.Platform.ProgData.
func ProgDataSet(program *rv32im.Program) map[uint32]bool {
	set := make(map[uint32]bool, len(program.Image)*rv32im.WordSize)
	for addr := range program.Image {
		for i := 0; i < rv32im.WordSize; i++ {
			set[addr+uint32(i)] = true
		}
	}
	return set
}

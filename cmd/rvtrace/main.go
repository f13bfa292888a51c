// Command rvtrace loads an RV32IM ELF binary, steps it to completion,
// and emits the resulting execution trace.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rv32im-trace/rv32im"
	"github.com/rv32im-trace/rv32im/elfload"
	"github.com/rv32im-trace/rv32im/rv32i"
	"github.com/rv32im-trace/rv32im/syscalls"
)

func main() {
	optELF := getopt.StringLong("elf", 'e', "", "Path to the RV32IM ELF binary to run")
	optOut := getopt.StringLong("out", 'o', "", "Trace output path (default: stdout)")
	optFormat := getopt.StringLong("format", 'f', "json", "Trace format: json or binary")
	optMaxSteps := getopt.Uint64Long("max-steps", 'n', 10_000_000, "Abort after this many steps without a halt")
	optUnsafeNop := getopt.BoolLong("unsafe-ecall-nop", 0, "Treat unrecognized ecalls as no-ops instead of fatal traps")
	optWatch := getopt.BoolLong("watch", 'w', "Run the interactive step-by-step TUI instead of a batch trace")
	optHelp := getopt.BoolLong("help", 'h', "Show usage")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}
	if *optELF == "" {
		fmt.Fprintln(os.Stderr, "rvtrace: --elf is required")
		getopt.Usage()
		os.Exit(1)
	}

	vm, err := buildVM(*optELF, *optUnsafeNop)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rvtrace:", err)
		os.Exit(1)
	}

	if *optWatch {
		runWatch(vm)
		return
	}

	out := os.Stdout
	if *optOut != "" {
		f, err := os.Create(*optOut)
		if err != nil {
			fmt.Fprintln(os.Stderr, "rvtrace:", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := runBatch(vm, out, *optFormat, *optMaxSteps); err != nil {
		fmt.Fprintln(os.Stderr, "rvtrace:", err)
		os.Exit(1)
	}
}

func buildVM(elfPath string, unsafeNop bool) (*rv32im.VMState, error) {
	f, err := os.Open(elfPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	program, err := elfload.Load(f)
	if err != nil {
		return nil, err
	}

	platform := rv32im.Platform{
		Text:           rv32im.AddrRange{Start: 0x0001_0000, End: 0x0020_0000},
		Stack:          rv32im.AddrRange{Start: 0x7F00_0000, End: 0x8000_0000},
		Heap:           rv32im.AddrRange{Start: 0x0020_0000, End: 0x1000_0000},
		Hints:          rv32im.AddrRange{Start: 0x4000_0000, End: 0x5000_0000},
		PublicIO:       rv32im.AddrRange{Start: 0x3000_0000, End: 0x3001_0000},
		ProgData:       elfload.ProgDataSet(program),
		UnsafeEcallNop: unsafeNop,
		RegEcall:       17, // a7
		RegArg0:        10, // a0
		EcallHalt:      0,
	}

	handler := syscalls.NewHandler(os.Stdout, &platform)
	return rv32im.NewVMState(platform, program, handler), nil
}

func runBatch(vm *rv32im.VMState, out *os.File, format string, maxSteps uint64) error {
	seq := rv32im.NewStepSeq(vm, rv32i.Decoder{})

	var enc *json.Encoder
	if format == "json" {
		enc = json.NewEncoder(out)
	}

	var steps uint64
	for {
		if steps >= maxSteps && !vm.Halted() {
			return fmt.Errorf("exceeded max-steps (%d) without halting", maxSteps)
		}
		record, ok, seqErr := seq.Next()
		if !ok {
			if seqErr != nil {
				return seqErr
			}
			return nil
		}
		steps++

		switch format {
		case "json":
			if err := enc.Encode(record); err != nil {
				return err
			}
		case "binary":
			if err := rv32im.EncodeStep(out, record); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown trace format %q", format)
		}
	}
}

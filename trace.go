package rv32im

import (
	"encoding/binary"
	"fmt"
	"io"
)

// traceVersion is incremented whenever EncodeStep's wire layout changes.
const traceVersion = 1

// EncodeStep writes step to w in a fixed, versioned binary layout:
// a version byte, the cycle and PC change, the fetched word, then each
// observation list length-prefixed. This is the durable, replayable
// form of a trace; DecodeStep is its inverse for every field except
// Syscall, which is not written.
func EncodeStep(w io.Writer, step StepRecord) error {
	be := binary.BigEndian
	hdr := make([]byte, 1+8+4+4+4)
	hdr[0] = traceVersion
	be.PutUint64(hdr[1:], step.Cycle)
	be.PutUint32(hdr[9:], step.PCChange.Before.U32())
	be.PutUint32(hdr[13:], step.PCChange.After.U32())
	be.PutUint32(hdr[17:], step.Fetched)
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("rv32im: encode step: %w", err)
	}

	if err := encodeRegReads(w, step.RegisterReads); err != nil {
		return err
	}
	if err := encodeRegWrites(w, step.RegisterWrites); err != nil {
		return err
	}
	if err := encodeMemReads(w, step.MemoryReads); err != nil {
		return err
	}
	if err := encodeMemWrites(w, step.MemoryWrites); err != nil {
		return err
	}
	return nil
}

func encodeRegReads(w io.Writer, reads []RegRead) error {
	if err := writeLen(w, len(reads)); err != nil {
		return err
	}
	buf := make([]byte, 8)
	for _, r := range reads {
		binary.BigEndian.PutUint32(buf, r.Idx)
		binary.BigEndian.PutUint32(buf[4:], r.Value)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("rv32im: encode register read: %w", err)
		}
	}
	return nil
}

func encodeRegWrites(w io.Writer, writes []RegWrite) error {
	if err := writeLen(w, len(writes)); err != nil {
		return err
	}
	buf := make([]byte, 12)
	for _, wr := range writes {
		binary.BigEndian.PutUint32(buf, wr.Idx)
		binary.BigEndian.PutUint32(buf[4:], wr.Change.Before)
		binary.BigEndian.PutUint32(buf[8:], wr.Change.After)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("rv32im: encode register write: %w", err)
		}
	}
	return nil
}

func encodeMemReads(w io.Writer, reads []MemRead) error {
	if err := writeLen(w, len(reads)); err != nil {
		return err
	}
	buf := make([]byte, 8)
	for _, r := range reads {
		binary.BigEndian.PutUint32(buf, uint32(r.Addr))
		binary.BigEndian.PutUint32(buf[4:], r.Value)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("rv32im: encode memory read: %w", err)
		}
	}
	return nil
}

func encodeMemWrites(w io.Writer, writes []MemWrite) error {
	if err := writeLen(w, len(writes)); err != nil {
		return err
	}
	buf := make([]byte, 12)
	for _, wr := range writes {
		binary.BigEndian.PutUint32(buf, uint32(wr.Addr))
		binary.BigEndian.PutUint32(buf[4:], wr.Change.Before)
		binary.BigEndian.PutUint32(buf[8:], wr.Change.After)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("rv32im: encode memory write: %w", err)
		}
	}
	return nil
}

func writeLen(w io.Writer, n int) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(n))
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("rv32im: encode length: %w", err)
	}
	return nil
}

// DecodeStep reads one StepRecord written by EncodeStep. Syscall
// effects are never part of the wire format: a replayed trace is used
// to verify register/memory transitions, not to re-run syscalls.
func DecodeStep(r io.Reader) (StepRecord, error) {
	hdr := make([]byte, 1+8+4+4+4)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return StepRecord{}, fmt.Errorf("rv32im: decode step: %w", err)
	}
	if hdr[0] != traceVersion {
		return StepRecord{}, fmt.Errorf("rv32im: decode step: unsupported version %d", hdr[0])
	}
	be := binary.BigEndian
	step := StepRecord{
		Cycle: be.Uint64(hdr[1:]),
		PCChange: Change[ByteAddr]{
			Before: ByteAddr(be.Uint32(hdr[9:])),
			After:  ByteAddr(be.Uint32(hdr[13:])),
		},
		Fetched: be.Uint32(hdr[17:]),
	}

	var err error
	if step.RegisterReads, err = decodeRegReads(r); err != nil {
		return StepRecord{}, err
	}
	if step.RegisterWrites, err = decodeRegWrites(r); err != nil {
		return StepRecord{}, err
	}
	if step.MemoryReads, err = decodeMemReads(r); err != nil {
		return StepRecord{}, err
	}
	if step.MemoryWrites, err = decodeMemWrites(r); err != nil {
		return StepRecord{}, err
	}
	return step, nil
}

func readLen(r io.Reader) (int, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("rv32im: decode length: %w", err)
	}
	return int(binary.BigEndian.Uint32(buf[:])), nil
}

func decodeRegReads(r io.Reader) ([]RegRead, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	out := make([]RegRead, n)
	buf := make([]byte, 8)
	for i := range out {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("rv32im: decode register read: %w", err)
		}
		out[i] = RegRead{Idx: binary.BigEndian.Uint32(buf), Value: binary.BigEndian.Uint32(buf[4:])}
	}
	return out, nil
}

func decodeRegWrites(r io.Reader) ([]RegWrite, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	out := make([]RegWrite, n)
	buf := make([]byte, 12)
	for i := range out {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("rv32im: decode register write: %w", err)
		}
		out[i] = RegWrite{
			Idx: binary.BigEndian.Uint32(buf),
			Change: Change[Word]{
				Before: binary.BigEndian.Uint32(buf[4:]),
				After:  binary.BigEndian.Uint32(buf[8:]),
			},
		}
	}
	return out, nil
}

func decodeMemReads(r io.Reader) ([]MemRead, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	out := make([]MemRead, n)
	buf := make([]byte, 8)
	for i := range out {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("rv32im: decode memory read: %w", err)
		}
		out[i] = MemRead{Addr: WordAddr(binary.BigEndian.Uint32(buf)), Value: binary.BigEndian.Uint32(buf[4:])}
	}
	return out, nil
}

func decodeMemWrites(r io.Reader) ([]MemWrite, error) {
	n, err := readLen(r)
	if err != nil {
		return nil, err
	}
	out := make([]MemWrite, n)
	buf := make([]byte, 12)
	for i := range out {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("rv32im: decode memory write: %w", err)
		}
		out[i] = MemWrite{
			Addr: WordAddr(binary.BigEndian.Uint32(buf)),
			Change: Change[Word]{
				Before: binary.BigEndian.Uint32(buf[4:]),
				After:  binary.BigEndian.Uint32(buf[8:]),
			},
		}
	}
	return out, nil
}

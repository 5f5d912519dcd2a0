package ngram

import (
	"bufio"
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/pkg/errors"
)

// Block layout, little-endian:
//
//	header: N uint16, SymCount uint16, SymBits uint16, entries uint64
//	entry:  N x uint8 context codes, (SymCount+1) x uint64 [total, counts...]
//
// A block carries no length or separator beyond its header, so several
// blocks written back to back can only be read in the order they were
// written.
const (
	headerSize  = 3*2 + 8
	counterSize = 8

	// upper bound on entries preallocated from an untrusted header
	maxPrealloc = 1 << 16
)

func (m *Model) entrySize() int {
	return m.cfg.N + counterSize*(m.cfg.SymCount+1)
}

// Save writes the model as one block and returns the number of entries
// written. Entries appear in ascending key order.
func (m *Model) Save(w io.Writer) (uint64, error) {
	bw := bufio.NewWriter(w)

	var hdr [headerSize]byte
	binary.LittleEndian.PutUint16(hdr[0:], uint16(m.cfg.N))
	binary.LittleEndian.PutUint16(hdr[2:], uint16(m.cfg.SymCount))
	binary.LittleEndian.PutUint16(hdr[4:], uint16(m.cfg.SymBits))
	binary.LittleEndian.PutUint64(hdr[6:], uint64(len(m.records)))
	if _, err := bw.Write(hdr[:]); err != nil {
		return 0, errors.Wrap(err, "ngram: write header")
	}

	buf := make([]byte, m.entrySize())
	var written uint64
	for _, k := range m.keys() {
		r := m.records[k]
		m.codec.Decode(k, buf[:m.cfg.N])
		pos := m.cfg.N
		binary.LittleEndian.PutUint64(buf[pos:], r.Total)
		for _, c := range r.Counts {
			pos += counterSize
			binary.LittleEndian.PutUint64(buf[pos:], c)
		}
		if _, err := bw.Write(buf); err != nil {
			return written, errors.Wrapf(err, "ngram: write entry %d", written)
		}
		written++
	}

	if err := bw.Flush(); err != nil {
		return written, errors.Wrap(err, "ngram: flush")
	}
	return written, nil
}

// Load reads one block from r and adds its counts to the model, returning
// the number of entries read.
//
// If the block was written for a different configuration, Load consumes
// only the header, leaves the model unchanged and returns 0 with an error
// matching ErrConfigMismatch. A truncated or inconsistent block also leaves
// the model unchanged: counts are merged only after the whole block has
// been read and checked.
//
// Load reads exactly one block and never past it, so r may hold further
// blocks. Pass a buffered reader for speed.
func (m *Model) Load(r io.Reader) (uint64, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, errors.Wrap(err, "ngram: read header")
	}
	got := Config{
		N:        int(binary.LittleEndian.Uint16(hdr[0:])),
		SymCount: int(binary.LittleEndian.Uint16(hdr[2:])),
		SymBits:  int(binary.LittleEndian.Uint16(hdr[4:])),
	}
	entries := binary.LittleEndian.Uint64(hdr[6:])
	if got != m.cfg {
		return 0, errors.Wrapf(ErrConfigMismatch, "block has N=%d SymCount=%d SymBits=%d, model has N=%d SymCount=%d SymBits=%d",
			got.N, got.SymCount, got.SymBits, m.cfg.N, m.cfg.SymCount, m.cfg.SymBits)
	}

	width := m.cfg.SymCount + 1
	prealloc := entries
	if prealloc > maxPrealloc {
		prealloc = maxPrealloc
	}
	keys := make([]Key, 0, prealloc)
	counts := make([]uint64, 0, int(prealloc)*width)

	buf := make([]byte, m.entrySize())
	for i := uint64(0); i < entries; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, errors.Wrapf(err, "ngram: read entry %d of %d", i, entries)
		}
		k, err := m.codec.Encode(buf[:m.cfg.N])
		if err != nil {
			return 0, errors.Wrapf(ErrCorrupted, "entry %d: %v", i, err)
		}

		pos := m.cfg.N
		total := binary.LittleEndian.Uint64(buf[pos:])
		counts = append(counts, total)
		var sum, carry uint64
		for s := 0; s < m.cfg.SymCount; s++ {
			pos += counterSize
			c := binary.LittleEndian.Uint64(buf[pos:])
			var over uint64
			sum, over = bits.Add64(sum, c, 0)
			carry |= over
			counts = append(counts, c)
		}
		if carry != 0 {
			return 0, errors.Wrapf(ErrCorrupted, "entry %d: counts overflow 64 bits", i)
		}
		if sum != total {
			return 0, errors.Wrapf(ErrCorrupted, "entry %d: total %d, counts sum to %d", i, total, sum)
		}
		keys = append(keys, k)
	}

	// Counts never exceed their total, so checking totals covers them too.
	merged := make(map[Key]uint64, len(keys))
	for i, k := range keys {
		prev, ok := merged[k]
		if !ok {
			if r, found := m.records[k]; found {
				prev = r.Total
			}
		}
		sum, carry := bits.Add64(prev, counts[i*width], 0)
		if carry != 0 {
			return 0, errors.Wrapf(ErrCorrupted, "entry %d: merged total overflows 64 bits", i)
		}
		merged[k] = sum
	}

	for i, k := range keys {
		row := counts[i*width : (i+1)*width]
		rec := m.record(k)
		rec.Total += row[0]
		for s, c := range row[1:] {
			rec.Counts[s] += c
		}
	}
	return entries, nil
}

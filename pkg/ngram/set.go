package ngram

import (
	"io"

	"github.com/pkg/errors"
)

// SymbolReader yields validated symbol codes. ReadSymbol returns io.EOF
// at the end of the stream.
type SymbolReader interface {
	ReadSymbol() (byte, error)
}

// Set holds one model per context length 1..MaxN over a shared alphabet.
//
// On disk a Set is its models' blocks concatenated in increasing N. The
// blocks carry no separator, so a reader must load them in the order they
// were saved.
type Set struct {
	models []*Model
}

// NewSet creates empty models for N = 1..maxN.
func NewSet(maxN, symCount, symBits int) (*Set, error) {
	if maxN < 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "maximum context length %d", maxN)
	}
	// The widest model bounds all the others.
	if err := (Config{N: maxN, SymCount: symCount, SymBits: symBits}).Validate(); err != nil {
		return nil, err
	}
	s := &Set{models: make([]*Model, maxN)}
	for n := 1; n <= maxN; n++ {
		m, err := New(Config{N: n, SymCount: symCount, SymBits: symBits})
		if err != nil {
			return nil, err
		}
		s.models[n-1] = m
	}
	return s, nil
}

// MaxN returns the longest context length in the set.
func (s *Set) MaxN() int {
	return len(s.models)
}

// Model returns the model for context length n, or nil if n is out of range.
func (s *Set) Model(n int) *Model {
	if n < 1 || n > len(s.models) {
		return nil
	}
	return s.models[n-1]
}

// Count reads src to the end and adds every (N+1)-symbol window to the
// model for N, for all N in the set. It returns the number of symbols read.
func (s *Set) Count(src SymbolReader) (uint64, error) {
	maxN := len(s.models)
	window := make([]byte, 0, maxN+1)
	var read uint64
	for {
		sym, err := src.ReadSymbol()
		if err == io.EOF {
			return read, nil
		}
		if err != nil {
			return read, errors.Wrapf(err, "ngram: read symbol %d", read)
		}
		read++

		if len(window) == maxN+1 {
			copy(window, window[1:])
			window = window[:maxN]
		}
		window = append(window, sym)

		for n := 1; n <= maxN && n < len(window); n++ {
			if err := s.models[n-1].AddSample(window[len(window)-n-1:]); err != nil {
				return read, errors.Wrapf(err, "ngram: symbol %d", read-1)
			}
		}
	}
}

// Save writes every model in increasing N and returns the entries written
// per model.
func (s *Set) Save(w io.Writer) ([]uint64, error) {
	written := make([]uint64, 0, len(s.models))
	for _, m := range s.models {
		n, err := m.Save(w)
		if err != nil {
			return written, errors.Wrapf(err, "ngram: save block N=%d", m.cfg.N)
		}
		written = append(written, n)
	}
	return written, nil
}

// Load reads the blocks for N = 1..upTo, in that order, merging each into
// the matching model. It returns the entries loaded per block. A block that
// does not match its model stops the load; later blocks cannot be located
// after that.
func (s *Set) Load(r io.Reader, upTo int) ([]uint64, error) {
	if upTo < 1 || upTo > len(s.models) {
		return nil, errors.Wrapf(ErrInvalidConfig, "load %d blocks into a set of %d", upTo, len(s.models))
	}
	loaded := make([]uint64, 0, upTo)
	for _, m := range s.models[:upTo] {
		n, err := m.Load(r)
		if err != nil {
			return loaded, errors.Wrapf(err, "ngram: load block N=%d", m.cfg.N)
		}
		loaded = append(loaded, n)
	}
	return loaded, nil
}

// MaxContexts returns symCount^n, the number of distinct contexts of
// length n, saturating at the largest uint64.
func MaxContexts(n, symCount int) uint64 {
	total := uint64(1)
	for i := 0; i < n; i++ {
		if symCount != 0 && total > ^uint64(0)/uint64(symCount) {
			return ^uint64(0)
		}
		total *= uint64(symCount)
	}
	return total
}

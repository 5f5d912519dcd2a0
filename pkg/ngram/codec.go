// Package ngram counts fixed-length symbol contexts and samples the symbol
// that follows them.
//
// A Model holds, for one context length N, a sparse table from packed
// context keys to per-symbol continuation counts. Models are written as
// binary blocks that can be merged additively by loading several of them
// into the same Model. A Set groups the models for N = 1..MaxN and reads
// and writes them as consecutive blocks of one stream.
package ngram

import (
	"github.com/pkg/errors"
)

const (
	MaxSymCount = 256 // codes are stored as one byte each
	MaxSymBits  = 8
	KeyBits     = 64
)

var (
	ErrInvalidConfig  = errors.New("ngram: invalid configuration")
	ErrContextLength  = errors.New("ngram: wrong context length")
	ErrSymbolRange    = errors.New("ngram: symbol code out of range")
	ErrConfigMismatch = errors.New("ngram: configuration mismatch")
	ErrCorrupted      = errors.New("ngram: corrupted data")
)

// Key is a packed context: N codes of SymBits each, first symbol in the
// most significant position.
type Key uint64

// Config holds the three parameters that fix a model's shape.
type Config struct {
	N        int // context length
	SymCount int // alphabet size
	SymBits  int // bits per symbol in a packed key
}

// Validate reports whether c describes a representable model.
func (c Config) Validate() error {
	switch {
	case c.N < 1:
		return errors.Wrapf(ErrInvalidConfig, "context length %d", c.N)
	case c.SymCount < 1 || c.SymCount > MaxSymCount:
		return errors.Wrapf(ErrInvalidConfig, "alphabet size %d", c.SymCount)
	case c.SymBits < 1 || c.SymBits > MaxSymBits:
		return errors.Wrapf(ErrInvalidConfig, "symbol width %d bits", c.SymBits)
	case c.SymCount > 1<<c.SymBits:
		return errors.Wrapf(ErrInvalidConfig, "%d symbols do not fit in %d bits", c.SymCount, c.SymBits)
	case c.N > KeyBits/c.SymBits:
		return errors.Wrapf(ErrInvalidConfig, "%d x %d bits exceeds a %d-bit key", c.N, c.SymBits, KeyBits)
	}
	return nil
}

// Codec packs contexts into keys and unpacks them.
type Codec struct {
	n     int
	count int
	bits  uint
	mask  Key
}

// NewCodec creates a codec for cfg.
func NewCodec(cfg Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Codec{
		n:     cfg.N,
		count: cfg.SymCount,
		bits:  uint(cfg.SymBits),
		mask:  Key(1)<<uint(cfg.SymBits) - 1,
	}, nil
}

// Encode packs ctx into a key. ctx must hold exactly N codes, each below
// the alphabet size.
func (c *Codec) Encode(ctx []byte) (Key, error) {
	if len(ctx) != c.n {
		return 0, errors.Wrapf(ErrContextLength, "got %d symbols, want %d", len(ctx), c.n)
	}
	var k Key
	for i, sym := range ctx {
		if int(sym) >= c.count {
			return 0, errors.Wrapf(ErrSymbolRange, "symbol %d at position %d (alphabet size %d)", sym, i, c.count)
		}
		k = k<<c.bits | Key(sym)
	}
	return k, nil
}

// Decode unpacks k into dst, reusing its capacity, and returns the N codes.
func (c *Codec) Decode(k Key, dst []byte) []byte {
	if cap(dst) < c.n {
		dst = make([]byte, c.n)
	}
	dst = dst[:c.n]
	for i := c.n - 1; i >= 0; i-- {
		dst[i] = byte(k & c.mask)
		k >>= c.bits
	}
	return dst
}

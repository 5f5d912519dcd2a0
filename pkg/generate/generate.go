// Package generate produces symbol streams from a set of n-gram models.
//
// Each step samples with the longest context that has been observed,
// backing off one symbol at a time when a context is unknown, and grows
// the context again after every successful step.
package generate

import (
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ha1tch/ngrams/pkg/alphabet"
	"github.com/ha1tch/ngrams/pkg/ngram"
)

var (
	ErrInvalidLength = errors.New("generate: invalid context length")
	ErrExhausted     = errors.New("generate: no symbol follows the separator")
)

// Source yields uniform draws in [0,1). distuv.Uniform satisfies it.
type Source interface {
	Rand() float64
}

// NewSource returns a uniform [0,1) source seeded with seed.
func NewSource(seed uint64) Source {
	return distuv.Uniform{
		Min: 0,
		Max: 1,
		Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
}

// Generator walks a Set of models. It is not safe for concurrent use.
type Generator struct {
	set      *ngram.Set
	maxN     int
	src      Source
	history  []byte // last maxN symbols, oldest first
	used     int    // context length for the next step
	restarts int
}

// New creates a generator using the models for N = 1..maxN of set.
func New(set *ngram.Set, maxN int, src Source) (*Generator, error) {
	if set == nil || maxN < 1 || maxN > set.MaxN() {
		return nil, errors.Wrapf(ErrInvalidLength, "maximum context length %d", maxN)
	}
	g := &Generator{
		set:     set,
		maxN:    maxN,
		src:     src,
		history: make([]byte, maxN),
	}
	g.Reset()
	return g, nil
}

// Reset starts over from a separator.
func (g *Generator) Reset() {
	for i := range g.history {
		g.history[i] = alphabet.Separator
	}
	g.used = 1
}

// Restarts reports how often generation fell back to a separator because
// no model knew the last symbol.
func (g *Generator) Restarts() int {
	return g.restarts
}

// Next returns the next symbol.
//
// When even the single-symbol context is unknown, the generator emits a
// separator and continues from it. If the separator itself is unknown the
// models cannot produce anything and Next returns ErrExhausted.
func (g *Generator) Next() (byte, error) {
	var sym byte
	for {
		if g.used == 0 {
			if g.history[g.maxN-1] == alphabet.Separator {
				return 0, ErrExhausted
			}
			sym = alphabet.Separator
			g.restarts++
			break
		}
		ctx := g.history[g.maxN-g.used:]
		s, ok := g.set.Model(g.used).Sample(ctx, g.src.Rand())
		if ok {
			sym = s
			break
		}
		g.used--
	}

	g.used++
	if g.used > g.maxN {
		g.used = g.maxN
	}
	copy(g.history, g.history[1:])
	g.history[g.maxN-1] = sym
	return sym, nil
}

// Generate appends n symbols to dst.
func (g *Generator) Generate(n int, dst []byte) ([]byte, error) {
	for i := 0; i < n; i++ {
		sym, err := g.Next()
		if err != nil {
			return dst, errors.Wrapf(err, "generate: symbol %d", i)
		}
		dst = append(dst, sym)
	}
	return dst, nil
}

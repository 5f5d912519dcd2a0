package ngram

import (
	"slices"

	"github.com/pkg/errors"
)

// Record holds the continuation counts of one context.
// Total always equals the sum of Counts.
type Record struct {
	Total  uint64
	Counts []uint64 // indexed by symbol code
}

func (r Record) clone() Record {
	return Record{Total: r.Total, Counts: slices.Clone(r.Counts)}
}

// Model is the frequency table for one context length. It is not safe for
// concurrent use.
type Model struct {
	cfg     Config
	codec   *Codec
	records map[Key]*Record
}

// New creates an empty model.
func New(cfg Config) (*Model, error) {
	codec, err := NewCodec(cfg)
	if err != nil {
		return nil, err
	}
	return &Model{
		cfg:     cfg,
		codec:   codec,
		records: make(map[Key]*Record),
	}, nil
}

// Config returns the model's configuration.
func (m *Model) Config() Config {
	return m.cfg
}

// Codec returns the codec used for the model's keys.
func (m *Model) Codec() *Codec {
	return m.codec
}

// Len returns the number of distinct contexts stored.
func (m *Model) Len() int {
	return len(m.records)
}

// record returns the record for k, creating a zeroed one if needed.
func (m *Model) record(k Key) *Record {
	r, ok := m.records[k]
	if !ok {
		r = &Record{Counts: make([]uint64, m.cfg.SymCount)}
		m.records[k] = r
	}
	return r
}

// AddSample counts one observation. sample holds N context codes followed
// by the code that came next.
func (m *Model) AddSample(sample []byte) error {
	if len(sample) != m.cfg.N+1 {
		return errors.Wrapf(ErrContextLength, "sample of %d symbols, want %d", len(sample), m.cfg.N+1)
	}
	next := sample[m.cfg.N]
	if int(next) >= m.cfg.SymCount {
		return errors.Wrapf(ErrSymbolRange, "next symbol %d (alphabet size %d)", next, m.cfg.SymCount)
	}
	k, err := m.codec.Encode(sample[:m.cfg.N])
	if err != nil {
		return err
	}

	r := m.record(k)
	r.Total++
	r.Counts[next]++
	return nil
}

// Sample picks the symbol following ctx with probability proportional to
// its count, using draw in [0,1) as the random value. ok is false when ctx
// has never been observed.
func (m *Model) Sample(ctx []byte, draw float64) (sym byte, ok bool) {
	k, err := m.codec.Encode(ctx)
	if err != nil {
		return 0, false
	}
	r, found := m.records[k]
	if !found || r.Total == 0 {
		return 0, false
	}

	if draw < 0 {
		draw = 0
	}
	target := uint64(draw * float64(r.Total))
	for i, c := range r.Counts {
		if target < c {
			return byte(i), true
		}
		target -= c
	}

	// Rounding pushed the target past the end: take the last symbol seen.
	for i := len(r.Counts) - 1; i >= 0; i-- {
		if r.Counts[i] > 0 {
			return byte(i), true
		}
	}
	return 0, false
}

// Record returns a copy of the counts stored for ctx.
func (m *Model) Record(ctx []byte) (Record, bool) {
	k, err := m.codec.Encode(ctx)
	if err != nil {
		return Record{}, false
	}
	r, ok := m.records[k]
	if !ok {
		return Record{}, false
	}
	return r.clone(), true
}

// keys returns the stored keys in ascending order.
func (m *Model) keys() []Key {
	keys := make([]Key, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Range calls fn for every stored context in ascending key order until fn
// returns false. ctx is reused between calls; r is a copy.
func (m *Model) Range(fn func(ctx []byte, r Record) bool) {
	ctx := make([]byte, m.cfg.N)
	for _, k := range m.keys() {
		ctx = m.codec.Decode(k, ctx)
		if !fn(ctx, m.records[k].clone()) {
			return
		}
	}
}

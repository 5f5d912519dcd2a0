package generate

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/ha1tch/ngrams/pkg/alphabet"
	"github.com/ha1tch/ngrams/pkg/ngram"
)

// fixed cycles through a list of draws.
type fixed struct {
	draws []float64
	i     int
}

func (f *fixed) Rand() float64 {
	d := f.draws[f.i%len(f.draws)]
	f.i++
	return d
}

func countText(t *testing.T, text string, maxN int) *ngram.Set {
	t.Helper()
	a := alphabet.English()
	set, err := ngram.NewSet(maxN, a.Size(), a.Bits())
	require.NoError(t, err)
	_, err = set.Count(alphabet.NewEncoder(strings.NewReader(text), a))
	require.NoError(t, err)
	return set
}

func TestNewRejects(t *testing.T) {
	set := countText(t, "abc", 2)
	for _, n := range []int{0, 3} {
		_, err := New(set, n, NewSource(1))
		assert.True(t, errors.Is(err, ErrInvalidLength), "maxN=%d: got %v", n, err)
	}
	_, err := New(nil, 1, NewSource(1))
	assert.True(t, errors.Is(err, ErrInvalidLength))
}

func TestEmptyModelsExhausted(t *testing.T) {
	set, err := ngram.NewSet(3, 29, 6)
	require.NoError(t, err)
	g, err := New(set, 3, NewSource(1))
	require.NoError(t, err)

	_, err = g.Next()
	require.True(t, errors.Is(err, ErrExhausted), "got %v", err)

	_, err = g.Generate(5, nil)
	require.True(t, errors.Is(err, ErrExhausted), "got %v", err)
}

func TestRestartFromSeparator(t *testing.T) {
	// " ab": the separator is followed by a, a by b, and nothing follows b.
	a := alphabet.English()
	set, err := ngram.NewSet(1, a.Size(), a.Bits())
	require.NoError(t, err)
	for _, s := range [][]byte{{0, 1}, {1, 2}} {
		require.NoError(t, set.Model(1).AddSample(s))
	}

	g, err := New(set, 1, &fixed{draws: []float64{0.5}})
	require.NoError(t, err)
	out, err := g.Generate(7, nil)
	require.NoError(t, err)
	require.Equal(t, "ab ab a", string(a.Decode(out)))
	require.Equal(t, 2, g.Restarts())
}

func TestReset(t *testing.T) {
	a := alphabet.English()
	set, err := ngram.NewSet(1, a.Size(), a.Bits())
	require.NoError(t, err)
	for _, s := range [][]byte{{0, 1}, {1, 2}} {
		require.NoError(t, set.Model(1).AddSample(s))
	}

	g, err := New(set, 1, &fixed{draws: []float64{0.5}})
	require.NoError(t, err)
	out, err := g.Generate(2, nil)
	require.NoError(t, err)
	require.Equal(t, "ab", string(a.Decode(out)))

	g.Reset()
	out, err = g.Generate(2, out[:0])
	require.NoError(t, err)
	require.Equal(t, "ab", string(a.Decode(out)), "generation starts over from a separator")
}

func TestBackoffToShorterContext(t *testing.T) {
	a := alphabet.English()
	set, err := ngram.NewSet(3, a.Size(), a.Bits())
	require.NoError(t, err)
	// Only single-symbol contexts are known.
	require.NoError(t, set.Model(1).AddSample([]byte{0, 3}))
	require.NoError(t, set.Model(1).AddSample([]byte{3, 1}))
	require.NoError(t, set.Model(1).AddSample([]byte{1, 20}))
	require.NoError(t, set.Model(1).AddSample([]byte{20, 0}))

	g, err := New(set, 3, &fixed{draws: []float64{0.1}})
	require.NoError(t, err)
	out, err := g.Generate(8, nil)
	require.NoError(t, err)
	require.Equal(t, "cat cat ", string(a.Decode(out)))
	require.Zero(t, g.Restarts())
}

func TestPrefersLongestContext(t *testing.T) {
	a := alphabet.English()
	set, err := ngram.NewSet(2, a.Size(), a.Bits())
	require.NoError(t, err)
	// After "a" the bigram model says "b", but after " a" the trigram model says "c".
	require.NoError(t, set.Model(1).AddSample([]byte{0, 1}))
	require.NoError(t, set.Model(1).AddSample([]byte{1, 2}))
	require.NoError(t, set.Model(2).AddSample([]byte{0, 1, 3}))

	g, err := New(set, 2, &fixed{draws: []float64{0}})
	require.NoError(t, err)
	out, err := g.Generate(2, nil)
	require.NoError(t, err)
	require.Equal(t, "ac", string(a.Decode(out)))
}

func TestGeneratedTextUsesKnownTransitions(t *testing.T) {
	text := "the cat sat on the mat. the rat ate the hat, then sat on the cat."
	set := countText(t, text, 4)
	a := alphabet.English()

	g, err := New(set, 4, NewSource(7))
	require.NoError(t, err)
	out, err := g.Generate(500, nil)
	require.NoError(t, err)
	require.Len(t, out, 500)

	// Every adjacent pair must have been seen in the training text.
	prev := alphabet.Separator
	for i, sym := range out {
		_, ok := set.Model(1).Record([]byte{prev})
		require.True(t, ok, "position %d: %q never observed", i, a.Char(prev))
		rec, _ := set.Model(1).Record([]byte{prev})
		require.NotZero(t, rec.Counts[sym], "position %d: %q -> %q never observed", i, a.Char(prev), a.Char(sym))
		prev = sym
	}
}

func TestSeededSourceDeterministic(t *testing.T) {
	set := countText(t, "she sells sea shells by the sea shore.", 3)

	run := func() string {
		g, err := New(set, 3, NewSource(42))
		require.NoError(t, err)
		out, err := g.Generate(200, nil)
		require.NoError(t, err)
		return string(out)
	}
	require.Equal(t, run(), run())
}

func TestSourceUniform(t *testing.T) {
	src := NewSource(3)
	draws := make([]float64, 20000)
	for i := range draws {
		d := src.Rand()
		require.True(t, d >= 0 && d < 1, "draw %v outside [0,1)", d)
		draws[i] = d
	}
	assert.InDelta(t, 0.5, stat.Mean(draws, nil), 0.01)
	assert.InDelta(t, 1.0/12, stat.Variance(draws, nil), 0.005)
}

func TestSamplingFrequencies(t *testing.T) {
	m, err := ngram.New(ngram.Config{N: 1, SymCount: 3, SymBits: 2})
	require.NoError(t, err)
	for _, next := range []byte{0, 0, 0, 2} {
		require.NoError(t, m.AddSample([]byte{1, next}))
	}

	src := NewSource(11)
	hits := make([]float64, 20000)
	for i := range hits {
		sym, ok := m.Sample([]byte{1}, src.Rand())
		require.True(t, ok)
		require.NotEqual(t, byte(1), sym, "symbol 1 has no count")
		if sym == 0 {
			hits[i] = 1
		}
	}
	assert.InDelta(t, 0.75, stat.Mean(hits, nil), 0.02)
}

package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/ngrams/pkg/alphabet"
	"github.com/ha1tch/ngrams/pkg/ngram"
)

func modelFile(t *testing.T, a *alphabet.Alphabet, text string, nmax int) []byte {
	t.Helper()
	set, err := ngram.NewSet(nmax, a.Size(), a.Bits())
	require.NoError(t, err)
	_, err = set.Count(alphabet.NewEncoder(strings.NewReader(text), a))
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = set.Save(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDumpBlock(t *testing.T) {
	a := alphabet.English()
	data := modelFile(t, a, "abab a", 3)

	var out bytes.Buffer
	require.NoError(t, dump(bytes.NewReader(data), &out, a, 2, false))

	// Windows of "abab a": ab->a, ba->b, ab->' ', "b "->a.
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "ab: "), lines[0])
	require.True(t, strings.HasPrefix(lines[1], "b : "), lines[1])
	require.True(t, strings.HasPrefix(lines[2], "ba: "), lines[2])

	fields := strings.Split(lines[0], ": ")
	require.Len(t, fields, 3)
	counts := strings.Fields(fields[1])
	require.Len(t, counts, a.Size())
	require.Equal(t, "1", counts[alphabet.Separator])
	require.Equal(t, "1", counts[1]) // a
	require.Equal(t, "2", fields[2])

	zeros := strings.Repeat("0 ", a.Size()-2)
	require.Equal(t, "ba: 0 0 1 "+zeros[2:]+": 1", lines[2])
}

func TestDumpHeader(t *testing.T) {
	a := alphabet.English()
	data := modelFile(t, a, "abab", 1)

	var out bytes.Buffer
	require.NoError(t, dump(bytes.NewReader(data), &out, a, 1, true))
	first := strings.SplitN(out.String(), "\n", 2)[0]
	require.Contains(t, first, "a b c d e f g h i j k l m n o p q r s t u v w x y z , . : total")
}

func TestDumpMissingBlock(t *testing.T) {
	a := alphabet.English()
	data := modelFile(t, a, "abab", 1)

	err := dump(bytes.NewReader(data), &bytes.Buffer{}, a, 2, false)
	require.Error(t, err)

	err = dump(bytes.NewReader(data), &bytes.Buffer{}, alphabet.Swedish(), 1, false)
	require.True(t, errors.Is(err, ngram.ErrConfigMismatch), "got %v", err)
}

func TestParseN(t *testing.T) {
	testCases := []struct {
		arg string
		ok  bool
	}{
		{"1", true},
		{"10", true},
		{"0", false},
		{"11", false},
		{"1099511627776", false},
		{"x", false},
	}
	for _, tc := range testCases {
		n, err := parseN(tc.arg)
		if tc.ok {
			require.NoError(t, err, tc.arg)
			require.Equal(t, tc.arg, strconv.Itoa(n))
		} else {
			require.Error(t, err, tc.arg)
		}
	}
}

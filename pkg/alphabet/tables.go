package alphabet

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	englishTable = Table{
		Name:     "english",
		Chars:    " abcdefghijklmnopqrstuvwxyz,.",
		Bits:     6,
		FoldCase: true,
	}
	swedishTable = Table{
		Name:     "swedish",
		Chars:    " abcdefghijklmnopqrstuvwxyz\xe5\xe4\xf6,.", // Latin-1 å ä ö
		Bits:     6,
		FoldCase: true,
	}
)

var (
	englishAlphabet *Alphabet
	swedishAlphabet *Alphabet
)

func mustNew(t Table) *Alphabet {
	a, err := New(t)
	if err != nil {
		panic(err)
	}
	return a
}

// English returns the default alphabet: space, a-z, comma and period.
func English() *Alphabet {
	if englishAlphabet == nil {
		englishAlphabet = mustNew(englishTable)
	}
	return englishAlphabet
}

// Swedish returns the English alphabet extended with Latin-1 å, ä and ö.
func Swedish() *Alphabet {
	if swedishAlphabet == nil {
		swedishAlphabet = mustNew(swedishTable)
	}
	return swedishAlphabet
}

var builtin = map[string]func() *Alphabet{
	"english": English,
	"swedish": Swedish,
}

// ForName returns the built-in alphabet with the given name.
func ForName(name string) (*Alphabet, error) {
	fn, ok := builtin[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAlphabet, "%q (have %s)", name, strings.Join(Names(), ", "))
	}
	return fn(), nil
}

// Names lists the built-in alphabets.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package alphabet maps raw text bytes to the small symbol alphabets used
// by n-gram models, and back.
//
// Code 0 of every alphabet is the separator. Bytes that are not part of an
// alphabet become the separator unless the table drops them, and runs of
// separators collapse to one.
package alphabet

import (
	"strings"

	"github.com/pkg/errors"
)

// Separator is the code of the whitespace-equivalent symbol.
const Separator byte = 0

var (
	ErrInvalidTable    = errors.New("alphabet: invalid table")
	ErrUnknownAlphabet = errors.New("alphabet: unknown alphabet")
)

// Table describes an alphabet.
type Table struct {
	Name     string
	Chars    string // Chars[i] is printed for code i; Chars[0] is the separator
	Bits     int    // bits per symbol in packed keys
	Drop     string // input bytes removed instead of read as separators
	FoldCase bool   // map upper case ASCII and Latin-1 letters to lower case
}

// Alphabet is an immutable byte <-> code lookup table.
type Alphabet struct {
	name    string
	bits    int
	chars   []byte
	codes   [256]byte
	dropped [256]bool
}

// New builds an alphabet from t.
func New(t Table) (*Alphabet, error) {
	n := len(t.Chars)
	switch {
	case n == 0 || n > 256:
		return nil, errors.Wrapf(ErrInvalidTable, "%q: %d symbols", t.Name, n)
	case t.Bits < 1 || t.Bits > 8 || n > 1<<t.Bits:
		return nil, errors.Wrapf(ErrInvalidTable, "%q: %d symbols in %d bits", t.Name, n, t.Bits)
	}

	a := &Alphabet{
		name:  t.Name,
		bits:  t.Bits,
		chars: []byte(t.Chars),
	}
	seen := make(map[byte]bool, n)
	for code, c := range a.chars {
		if seen[c] {
			return nil, errors.Wrapf(ErrInvalidTable, "%q: byte %#x listed twice", t.Name, c)
		}
		seen[c] = true
		a.codes[c] = byte(code)
		if t.FoldCase {
			if up, ok := upper(c); ok && strings.IndexByte(t.Chars, up) < 0 {
				a.codes[up] = byte(code)
			}
		}
	}
	for i := 0; i < len(t.Drop); i++ {
		a.dropped[t.Drop[i]] = true
	}
	return a, nil
}

// upper returns the upper case form of a lower case ASCII or Latin-1 letter.
func upper(c byte) (byte, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return c - 'a' + 'A', true
	case c >= 0xE0 && c <= 0xFE && c != 0xF7:
		return c - 0x20, true
	}
	return 0, false
}

// Name returns the alphabet's name.
func (a *Alphabet) Name() string {
	return a.name
}

// Size returns the number of symbols.
func (a *Alphabet) Size() int {
	return len(a.chars)
}

// Bits returns the bits per symbol used in packed keys.
func (a *Alphabet) Bits() int {
	return a.bits
}

// Code returns the code for raw byte b. ok is false if b is dropped.
func (a *Alphabet) Code(b byte) (code byte, ok bool) {
	if a.dropped[b] {
		return 0, false
	}
	return a.codes[b], true
}

// Char returns the byte printed for code, or '?' for a code outside the
// alphabet.
func (a *Alphabet) Char(code byte) byte {
	if int(code) >= len(a.chars) {
		return '?'
	}
	return a.chars[code]
}

// Encode converts text to codes, dropping leading separators and
// collapsing runs of separators.
func (a *Alphabet) Encode(text []byte) []byte {
	out := make([]byte, 0, len(text))
	sepLast := true
	for _, b := range text {
		code, ok := a.Code(b)
		if !ok || (code == Separator && sepLast) {
			continue
		}
		sepLast = code == Separator
		out = append(out, code)
	}
	return out
}

// Decode converts codes back to printable bytes.
func (a *Alphabet) Decode(codes []byte) []byte {
	out := make([]byte, len(codes))
	for i, c := range codes {
		out[i] = a.Char(c)
	}
	return out
}

package alphabet

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Encoder reads raw text and yields symbol codes, dropping leading
// separators and collapsing runs of separators.
type Encoder struct {
	r       io.ByteReader
	a       *Alphabet
	sepLast bool
}

// NewEncoder returns an encoder reading from r. r is buffered unless it
// already implements io.ByteReader.
func NewEncoder(r io.Reader, a *Alphabet) *Encoder {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Encoder{r: br, a: a, sepLast: true}
}

// ReadSymbol returns the next code, or io.EOF at the end of the input.
func (e *Encoder) ReadSymbol() (byte, error) {
	for {
		b, err := e.r.ReadByte()
		if err == io.EOF {
			return 0, io.EOF
		}
		if err != nil {
			return 0, errors.Wrap(err, "alphabet: read")
		}
		code, ok := e.a.Code(b)
		if !ok || (code == Separator && e.sepLast) {
			continue
		}
		e.sepLast = code == Separator
		return code, nil
	}
}

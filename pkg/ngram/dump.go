package ngram

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Dump writes a readable table of the model, one context per line:
//
//	<context>: <count of symbol 0> <count of symbol 1> ... : <total>
//
// render maps a code to the byte printed for it in the context column.
func (m *Model) Dump(w io.Writer, render func(code byte) byte) error {
	bw := bufio.NewWriter(w)
	line := make([]byte, 0, 256)
	var err error
	m.Range(func(ctx []byte, r Record) bool {
		line = line[:0]
		for _, sym := range ctx {
			line = append(line, render(sym))
		}
		line = append(line, ':', ' ')
		for _, c := range r.Counts {
			line = strconv.AppendUint(line, c, 10)
			line = append(line, ' ')
		}
		line = append(line, ':', ' ')
		line = strconv.AppendUint(line, r.Total, 10)
		line = append(line, '\n')
		_, err = bw.Write(line)
		return err == nil
	})
	if err != nil {
		return errors.Wrap(err, "ngram: dump")
	}
	return errors.Wrap(bw.Flush(), "ngram: dump")
}

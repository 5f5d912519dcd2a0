// Command ngramdump prints one block of a model file as a readable table.
//
// Usage:
//
//	ngramdump [-a alphabet] model.ngm N
//
// Blocks 1..N are read in order and block N is printed, one context per
// line: the context, the count of every following symbol, and the total.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ha1tch/ngrams/pkg/alphabet"
	"github.com/ha1tch/ngrams/pkg/ngram"
)

const maxNmax = 10

var (
	alphaArg = flag.String("a", "english", "symbol alphabet")
	header   = flag.Bool("H", false, "print a column header")
	help     = flag.Bool("h", false, "display this help")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "ngramdump: missing arguments")
		fmt.Fprintln(os.Stderr, "Try 'ngramdump -h' for more information.")
		os.Exit(1)
	}

	modelPath := flag.Arg(0)
	n, err := parseN(flag.Arg(1))
	if err != nil {
		fatal("%v", err)
	}

	a, err := alphabet.ForName(*alphaArg)
	if err != nil {
		fatal("%v", err)
	}

	f, err := os.Open(modelPath)
	if err != nil {
		fatal("cannot open '%s': %v", modelPath, err)
	}
	defer f.Close()

	w := bufio.NewWriter(os.Stdout)
	if err := dump(bufio.NewReader(f), w, a, n, *header); err != nil {
		fatal("%v", err)
	}
	if err := w.Flush(); err != nil {
		fatal("%v", err)
	}
}

// dump loads blocks 1..n from r and writes block n to w.
func dump(r io.Reader, w io.Writer, a *alphabet.Alphabet, n int, withHeader bool) error {
	set, err := ngram.NewSet(n, a.Size(), a.Bits())
	if err != nil {
		return err
	}
	if _, err := set.Load(r, n); err != nil {
		return err
	}

	if withHeader {
		cols := make([]byte, 0, 2*a.Size())
		for code := 0; code < a.Size(); code++ {
			cols = append(cols, a.Char(byte(code)), ' ')
		}
		if _, err := fmt.Fprintf(w, "%*s  %s: total\n", n, "", cols); err != nil {
			return errors.Wrap(err, "write failed")
		}
	}
	return set.Model(n).Dump(w, a.Char)
}

func parseN(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > maxNmax {
		return 0, fmt.Errorf("N must be 1-%d, got '%s'", maxNmax, arg)
	}
	return n, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ngramdump [-a alphabet] [-H] model.ngm N

Print the N-gram block of a model file written by ngramana, N 1-%d.

Options:
  -a name   symbol alphabet: english (default), swedish
  -H        print a column header
  -h        display this help

Examples:
  ngramdump darwin.ngm 2              Print the 2-symbol contexts
  ngramdump darwin.ngm 3 | sort -t: -k3 -n

`, maxNmax)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ngramdump: "+format+"\n", args...)
	os.Exit(1)
}

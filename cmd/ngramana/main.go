// Command ngramana counts symbol n-grams in a text file.
//
// Usage:
//
//	ngramana [-q] [-a alphabet] input.txt output.ngm N-max
//
// The output holds one model block per context length 1..N-max, written in
// increasing order. ngramsyn must be asked for the same or a smaller N-max.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/pkg/errors"

	"github.com/ha1tch/ngrams/pkg/alphabet"
	"github.com/ha1tch/ngrams/pkg/ngram"
)

const maxNmax = 10

var (
	quiet    = flag.Bool("q", false, "quiet operation")
	alphaArg = flag.String("a", "english", "symbol alphabet")
	help     = flag.Bool("h", false, "display this help")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if flag.NArg() < 3 {
		fmt.Fprintln(os.Stderr, "ngramana: missing arguments")
		fmt.Fprintln(os.Stderr, "Try 'ngramana -h' for more information.")
		os.Exit(1)
	}

	inputPath, outputPath := flag.Arg(0), flag.Arg(1)
	nmax, err := parseNmax(flag.Arg(2))
	if err != nil {
		fatal("%v", err)
	}

	a, err := alphabet.ForName(*alphaArg)
	if err != nil {
		fatal("%v", err)
	}

	in, err := os.Open(inputPath)
	if err != nil {
		fatal("cannot open input '%s': %v", inputPath, err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		fatal("cannot create output '%s': %v", outputPath, err)
	}

	var src io.Reader = in
	var bar *pb.ProgressBar
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Counting 1..%d-grams over %s...\n", nmax, inputPath)
		if info, err := in.Stat(); err == nil {
			bar = pb.Full.Start64(info.Size())
			bar.Set(pb.Bytes, true)
			src = bar.NewProxyReader(in)
		}
	}

	start := time.Now()
	res, err := analyze(src, out, a, nmax)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		out.Close()
		fatal("%v", err)
	}
	if err := out.Close(); err != nil {
		fatal("cannot write '%s': %v", outputPath, err)
	}

	if !*quiet {
		fmt.Fprintf(os.Stderr, "%d symbols parsed in %v.\n", res.symbols, time.Since(start).Round(time.Millisecond))
		for i, entries := range res.entries {
			n := i + 1
			fmt.Fprintf(os.Stderr, "  N=%-2d %d of %d possible entries written\n",
				n, entries, ngram.MaxContexts(n, a.Size()))
		}
	}
}

type result struct {
	symbols uint64
	entries []uint64
}

// analyze counts the n-grams of in for N = 1..nmax and writes the model
// blocks to out.
func analyze(in io.Reader, out io.Writer, a *alphabet.Alphabet, nmax int) (result, error) {
	set, err := ngram.NewSet(nmax, a.Size(), a.Bits())
	if err != nil {
		return result{}, err
	}

	symbols, err := set.Count(alphabet.NewEncoder(in, a))
	if err != nil {
		return result{}, errors.Wrap(err, "counting failed")
	}

	bw := bufio.NewWriter(out)
	entries, err := set.Save(bw)
	if err != nil {
		return result{}, errors.Wrap(err, "writing models failed")
	}
	if err := bw.Flush(); err != nil {
		return result{}, errors.Wrap(err, "writing models failed")
	}
	return result{symbols: symbols, entries: entries}, nil
}

func parseNmax(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > maxNmax {
		return 0, fmt.Errorf("N-max must be 1-%d, got '%s'", maxNmax, arg)
	}
	return n, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ngramana [-q] [-a alphabet] input.txt output.ngm N-max

Count the symbol n-grams of a text file for context lengths 1..N-max
and write them as consecutive model blocks.

Options:
  -a name   symbol alphabet: english (default), swedish
  -q        quiet operation
  -h        display this help

N-max: 1-%d

Examples:
  ngramana darwin.txt darwin.ngm 6       Count 1..6-grams
  ngramana -a swedish saga.txt saga.ngm 4

`, maxNmax)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ngramana: "+format+"\n", args...)
	os.Exit(1)
}

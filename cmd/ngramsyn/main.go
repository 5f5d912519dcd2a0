// Command ngramsyn generates text from a model file written by ngramana.
//
// Usage:
//
//	ngramsyn [-q] [-a alphabet] [-seed n] model.ngm output|-|speak N-max size
//
// The model file must hold at least N-max blocks. With "speak" the text is
// read aloud sentence by sentence through espeak(1); a size of 0 then
// means no limit.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/ha1tch/ngrams/pkg/alphabet"
	"github.com/ha1tch/ngrams/pkg/generate"
	"github.com/ha1tch/ngrams/pkg/ngram"
)

const (
	maxNmax         = 10
	speakBufferSize = 10000
)

var (
	quiet    = flag.Bool("q", false, "quiet operation")
	alphaArg = flag.String("a", "english", "symbol alphabet")
	seed     = flag.Uint64("seed", 0, "random seed (0: time based)")
	help     = flag.Bool("h", false, "display this help")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if flag.NArg() < 4 {
		fmt.Fprintln(os.Stderr, "ngramsyn: missing arguments")
		fmt.Fprintln(os.Stderr, "Try 'ngramsyn -h' for more information.")
		os.Exit(1)
	}

	modelPath, outputArg := flag.Arg(0), flag.Arg(1)
	nmax, err := strconv.Atoi(flag.Arg(2))
	if err != nil || nmax < 1 || nmax > maxNmax {
		fatal("N-max must be 1-%d, got '%s'", maxNmax, flag.Arg(2))
	}
	size, err := strconv.Atoi(flag.Arg(3))
	if err != nil || size < 0 {
		fatal("invalid output size '%s'", flag.Arg(3))
	}
	doSpeak := outputArg == "speak"
	if size == 0 && !doSpeak {
		fatal("output size must be positive")
	}

	a, err := alphabet.ForName(*alphaArg)
	if err != nil {
		fatal("%v", err)
	}

	f, err := os.Open(modelPath)
	if err != nil {
		fatal("cannot open input '%s': %v", modelPath, err)
	}
	set, entries, err := loadModels(bufio.NewReader(f), a, nmax)
	f.Close()
	if !*quiet {
		for i, n := range entries {
			fmt.Fprintf(os.Stderr, "Loaded %d-grams: %d entries\n", i+1, n)
		}
	}
	if err != nil {
		fatal("cannot load '%s': %v", modelPath, err)
	}

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	g, err := generate.New(set, nmax, generate.NewSource(s))
	if err != nil {
		fatal("%v", err)
	}

	var out io.Writer
	var flush func() error
	switch {
	case doSpeak:
		sp, err := newEspeak()
		if err != nil {
			fatal("%v", err)
		}
		if !*quiet {
			fmt.Fprintln(os.Stderr, "Speaking:")
		}
		sw := newSentenceWriter(sp, os.Stdout)
		out, flush = sw, sw.Flush
	case outputArg == "-":
		bw := bufio.NewWriter(os.Stdout)
		out, flush = bw, bw.Flush
	default:
		file, err := os.Create(outputArg)
		if err != nil {
			fatal("cannot create output '%s': %v", outputArg, err)
		}
		out, flush = bufferedOutput(file, outputArg)
	}

	if !*quiet && !doSpeak {
		fmt.Fprintf(os.Stderr, "Generating %d character text (seed %d)\n", size, s)
	}
	err = synthesize(g, a, out, size)
	if ferr := flush(); err == nil {
		err = ferr
	}
	if err != nil {
		fatal("%v", err)
	}
	if !*quiet && g.Restarts() > 0 {
		fmt.Fprintf(os.Stderr, "%d restarts from separator\n", g.Restarts())
	}
}

// loadModels reads the blocks for N = 1..nmax from r.
func loadModels(r io.Reader, a *alphabet.Alphabet, nmax int) (*ngram.Set, []uint64, error) {
	set, err := ngram.NewSet(nmax, a.Size(), a.Bits())
	if err != nil {
		return nil, nil, err
	}
	entries, err := set.Load(r, nmax)
	if err != nil {
		return nil, entries, err
	}
	return set, entries, nil
}

// synthesize writes size generated characters to w, or runs until an
// error when size is 0.
func synthesize(g *generate.Generator, a *alphabet.Alphabet, w io.Writer, size int) error {
	buf := make([]byte, 1)
	for i := 0; size == 0 || i < size; i++ {
		sym, err := g.Next()
		if err != nil {
			return errors.Wrapf(err, "after %d characters", i)
		}
		buf[0] = a.Char(sym)
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "write failed")
		}
	}
	return nil
}

// bufferedOutput buffers writes to wc. The returned finish function flushes
// and closes wc, reporting the first error of the two.
func bufferedOutput(wc io.WriteCloser, name string) (io.Writer, func() error) {
	bw := bufio.NewWriter(wc)
	return bw, func() error {
		err := bw.Flush()
		if cerr := wc.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "cannot write '%s'", name)
		}
		return err
	}
}

type speaker interface {
	Speak(text string) error
}

// espeak speaks through the espeak executable.
type espeak struct {
	path string
}

func newEspeak() (*espeak, error) {
	path, err := exec.LookPath("espeak")
	if err != nil {
		return nil, errors.Wrap(err, "speech needs espeak")
	}
	return &espeak{path: path}, nil
}

func (e *espeak) Speak(text string) error {
	return exec.Command(e.path, text).Run()
}

// sentenceWriter echoes text and hands it to a speaker one sentence at a
// time.
type sentenceWriter struct {
	sp   speaker
	echo io.Writer
	buf  []byte
}

func newSentenceWriter(sp speaker, echo io.Writer) *sentenceWriter {
	return &sentenceWriter{sp: sp, echo: echo, buf: make([]byte, 0, speakBufferSize)}
}

func (s *sentenceWriter) Write(p []byte) (int, error) {
	for i, b := range p {
		s.buf = append(s.buf, b)
		if b == '.' || len(s.buf) >= speakBufferSize-1 {
			if err := s.Flush(); err != nil {
				return i, err
			}
		}
	}
	return len(p), nil
}

// Flush speaks whatever has been buffered.
func (s *sentenceWriter) Flush() error {
	if len(s.buf) == 0 {
		return nil
	}
	text := string(s.buf)
	s.buf = s.buf[:0]
	if s.echo != nil {
		if _, err := fmt.Fprintln(s.echo, text); err != nil {
			return err
		}
	}
	return errors.Wrap(s.sp.Speak(text), "speech failed")
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ngramsyn [-q] [-a alphabet] [-seed n] model.ngm output|-|speak N-max size

Generate text from n-gram models written by ngramana.

Arguments:
  model.ngm   model file holding at least N-max blocks
  output      output file, - for stdout, or speak to read aloud with espeak
  N-max       longest context to use, 1-%d
  size        characters to generate (0 with speak: no limit)

Options:
  -a name   symbol alphabet: english (default), swedish
  -seed n   random seed (default: time based)
  -q        quiet operation
  -h        display this help

Examples:
  ngramsyn darwin.ngm out.txt 6 40000
  ngramsyn -seed 7 darwin.ngm - 4 500
  ngramsyn darwin.ngm speak 6 0

`, maxNmax)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ngramsyn: "+format+"\n", args...)
	os.Exit(1)
}

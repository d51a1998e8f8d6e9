package core

// streaming.go opens source files for import without loading them into memory.
//
// The byte stream passes through, in order:
//
//   - a counter recording bytes read from disk
//   - a transformer replacing ill-formed UTF-8 with U+FFFD
//   - a buffered reader that drops a leading UTF-8 BOM and lets the sniffer
//     peek at the sample without consuming it

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// countingReader tracks bytes read from the underlying reader.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// source is an opened, sanitized input file.
type source struct {
	file       *os.File
	counter    *countingReader
	br         *bufio.Reader
	sampleSize int
}

func openSource(path string, sampleSize int) (*source, error) {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	counter := &countingReader{r: f}
	sanitized := transform.NewReader(counter, runes.ReplaceIllFormed())
	br := bufio.NewReaderSize(sanitized, max(sampleSize, 4096))

	src := &source{file: f, counter: counter, br: br, sampleSize: sampleSize}
	if err := src.skipBOM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return src, nil
}

func (s *source) skipBOM() error {
	head, err := s.br.Peek(len(utf8BOM))
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if bytes.Equal(head, utf8BOM) {
		_, err = s.br.Discard(len(utf8BOM))
		return err
	}
	return nil
}

// Sample returns up to sampleSize leading bytes without consuming them.
func (s *source) Sample() ([]byte, error) {
	sample, err := s.br.Peek(s.sampleSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return sample, nil
}

// Reader returns the stream positioned at the start of the data.
func (s *source) Reader() io.Reader { return s.br }

// BytesRead returns the number of bytes consumed from disk so far.
func (s *source) BytesRead() int64 { return s.counter.n }

func (s *source) Close() error { return s.file.Close() }

// Package textenc resolves text encoding names and streams decoded lines
// from files in that encoding.
package textenc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"yase/internal/domain"
)

// DefaultEncoding is used when no encoding name is given.
const DefaultEncoding = "UTF8"

const bom = "\ufeff"

// ASCII is strict 7-bit US-ASCII. Any byte above 0x7F fails to decode.
var ASCII encoding.Encoding = asciiEncoding{}

var errNotASCII = errors.New("byte outside 7-bit ascii")

// Lookup resolves an encoding name. IANA names and aliases are tried first,
// then WHATWG labels. An empty name means UTF-8. ASCII names resolve to the
// strict ASCII encoding rather than the WHATWG windows-1252 alias.
func Lookup(name string) (encoding.Encoding, error) {
	n := strings.TrimSpace(name)
	switch {
	case n == "" || isUTF8Name(n):
		return unicode.UTF8, nil
	case isASCIIName(n):
		return ASCII, nil
	}
	if enc, err := ianaindex.IANA.Encoding(n); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(n); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEncoding, name)
}

func canonical(n string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(n))
}

func isUTF8Name(n string) bool {
	switch canonical(n) {
	case "utf8", "u8":
		return true
	}
	return false
}

func isASCIIName(n string) bool {
	switch canonical(n) {
	case "ascii", "usascii", "ansix3.41968", "iso646us", "us", "cp367", "ibm367", "646":
		return true
	}
	return false
}

type asciiEncoding struct{}

func (asciiEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: asciiOnly{}}
}

func (asciiEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: asciiOnly{}}
}

func (asciiEncoding) String() string { return "US-ASCII" }

// asciiOnly copies bytes through and stops at the first non-ASCII byte.
type asciiOnly struct{ transform.NopResetter }

func (asciiOnly) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		c := src[nSrc]
		if c >= utf8.RuneSelf {
			return nDst, nSrc, errNotASCII
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}

// check selects how decoded lines are validated.
type check int

const (
	// checkUTF8 reads raw bytes and rejects invalid UTF-8.
	checkUTF8 check = iota
	// checkASCII reads raw bytes and rejects anything above 0x7F.
	checkASCII
	// checkDecoded runs a decoder and rejects lines holding U+FFFD, which
	// x/text decoders emit for bytes they cannot map.
	checkDecoded
)

// LineReader yields decoded lines from an underlying byte stream and tracks
// how many raw bytes have been consumed, which drives progress reporting.
type LineReader struct {
	raw   *countingReader
	br    *bufio.Reader
	check check
	name  string
	line  int64
}

// NewLineReader wraps r, decoding it with the named encoding. Bytes that are
// not valid in that encoding make Next fail with domain.ErrInvalidEncoding.
func NewLineReader(r io.Reader, encodingName string) (*LineReader, error) {
	enc, err := Lookup(encodingName)
	if err != nil {
		return nil, err
	}
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	raw := &countingReader{r: r}
	lr := &LineReader{raw: raw, name: encodingName}
	var src io.Reader = raw
	switch enc {
	case unicode.UTF8:
		lr.check = checkUTF8
	case ASCII:
		lr.check = checkASCII
	default:
		lr.check = checkDecoded
		src = transform.NewReader(raw, enc.NewDecoder())
	}
	lr.br = bufio.NewReaderSize(src, 1<<16)
	return lr, nil
}

// Next returns the next line without its line terminator. ok is false once
// the stream is exhausted. A final line without a terminator is still returned.
func (r *LineReader) Next() (line string, ok bool, err error) {
	s, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, err
	}
	if err == io.EOF && s == "" {
		return "", false, nil
	}
	r.line++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	switch r.check {
	case checkUTF8:
		if r.line == 1 {
			s = strings.TrimPrefix(s, bom)
		}
		if !utf8.ValidString(s) {
			return "", false, r.invalid()
		}
	case checkASCII:
		for i := 0; i < len(s); i++ {
			if s[i] >= utf8.RuneSelf {
				return "", false, r.invalid()
			}
		}
	case checkDecoded:
		if strings.ContainsRune(s, utf8.RuneError) {
			return "", false, r.invalid()
		}
	}
	return s, true, nil
}

func (r *LineReader) invalid() error {
	return fmt.Errorf("line %d: %w %s", r.line, domain.ErrInvalidEncoding, r.name)
}

// Lines returns the number of lines read so far.
func (r *LineReader) Lines() int64 { return r.line }

// Consumed returns the number of raw bytes pulled from the underlying reader.
// Buffering makes it run slightly ahead of the line actually returned.
func (r *LineReader) Consumed() int64 { return r.raw.n }

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// File is an opened file streamed line by line.
type File struct {
	*LineReader
	f    *os.File
	size int64
}

// Open opens path for line streaming in the named encoding.
func Open(path, encodingName string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var size int64
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}
	lr, err := NewLineReader(f, encodingName)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &File{LineReader: lr, f: f, size: size}, nil
}

// Size returns the file size in bytes, or 0 if it could not be determined.
func (f *File) Size() int64 { return f.size }

// Close closes the underlying file.
func (f *File) Close() error { return f.f.Close() }

package textenc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"yase/internal/domain"
)

func readAll(t *testing.T, lr *LineReader) []string {
	t.Helper()
	var out []string
	for {
		line, ok, err := lr.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, line)
	}
}

func TestLookup_UTF8Aliases(t *testing.T) {
	for _, name := range []string{"", "UTF8", "utf-8", "utf_8", "U8"} {
		enc, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, unicode.UTF8, enc, name)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("klingon-7")
	assert.ErrorIs(t, err, domain.ErrUnknownEncoding)
}

func TestLineReader_SplitsLines(t *testing.T) {
	lr, err := NewLineReader(strings.NewReader("a 0\r\nb 1\n\nc 2"), "UTF8")
	require.NoError(t, err)

	assert.Equal(t, []string{"a 0", "b 1", "", "c 2"}, readAll(t, lr))
	assert.EqualValues(t, 4, lr.Lines())
	assert.EqualValues(t, len("a 0\r\nb 1\n\nc 2"), lr.Consumed())
}

func TestLineReader_TrailingNewlineAddsNoLine(t *testing.T) {
	lr, err := NewLineReader(strings.NewReader("x\ny\n"), "UTF8")
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, readAll(t, lr))
}

func TestLineReader_EmptyInput(t *testing.T) {
	lr, err := NewLineReader(strings.NewReader(""), "UTF8")
	require.NoError(t, err)

	assert.Empty(t, readAll(t, lr))
}

func TestLineReader_StripsBOM(t *testing.T) {
	lr, err := NewLineReader(strings.NewReader("\ufeffbonjour 1\n"), "utf-8")
	require.NoError(t, err)

	assert.Equal(t, []string{"bonjour 1"}, readAll(t, lr))
}

func TestLineReader_InvalidUTF8(t *testing.T) {
	lr, err := NewLineReader(strings.NewReader("caf\xe9\n"), "UTF8")
	require.NoError(t, err)

	_, _, err = lr.Next()
	assert.ErrorIs(t, err, domain.ErrInvalidEncoding)
}

func TestLineReader_Latin1(t *testing.T) {
	lr, err := NewLineReader(strings.NewReader("caf\xe9 1\n"), "ISO-8859-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"café 1"}, readAll(t, lr))
}

func TestLookup_ASCIINamesAreStrict(t *testing.T) {
	for _, name := range []string{"ascii", "ASCII", "us-ascii", "US_ASCII", "ANSI_X3.4-1968", "cp367"} {
		enc, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, ASCII, enc, name)
	}
}

func TestASCII_Decoder(t *testing.T) {
	out, err := ASCII.NewDecoder().String("plain text")
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)

	_, err = ASCII.NewDecoder().String("caf\xe9")
	assert.Error(t, err)
}

func TestLineReader_ASCII(t *testing.T) {
	lr, err := NewLineReader(strings.NewReader("cafe 1\nthe end\n"), "ascii")
	require.NoError(t, err)

	assert.Equal(t, []string{"cafe 1", "the end"}, readAll(t, lr))
}

func TestLineReader_UndecodableBytesAreFatal(t *testing.T) {
	cases := []struct {
		name     string
		encoding string
		input    string
	}{
		{"high byte in ascii", "ascii", "ok\ncaf\xe9\n"},
		{"high byte in us-ascii", "us-ascii", "ok\ncaf\xe9\n"},
		{"unmapped cp1252 byte", "cp1252", "ok\na\x81b\n"},
		{"lone utf-16 surrogate", "utf-16le", "o\x00k\x00\n\x00\x00\xd8A\x00\n\x00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lr, err := NewLineReader(strings.NewReader(tc.input), tc.encoding)
			require.NoError(t, err)

			line, ok, err := lr.Next()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "ok", line)

			_, ok, err = lr.Next()
			assert.False(t, ok)
			assert.ErrorIs(t, err, domain.ErrInvalidEncoding)
			assert.Contains(t, err.Error(), "line 2")
			assert.Contains(t, err.Error(), tc.encoding)
		})
	}
}

func TestLineReader_CP1252MappedBytes(t *testing.T) {
	lr, err := NewLineReader(strings.NewReader("\x93quoted\x94 \x80\n"), "windows-1252")
	require.NoError(t, err)

	assert.Equal(t, []string{"“quoted” €"}, readAll(t, lr))
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	f, err := Open(path, "UTF8")
	require.NoError(t, err)
	defer f.Close()

	assert.EqualValues(t, 8, f.Size())
	assert.Equal(t, []string{"one", "two"}, readAll(t, f.LineReader))
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.txt"), "UTF8")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

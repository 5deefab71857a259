package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yase/internal/domain"
)

func TestSplit_SingleSpace(t *testing.T) {
	tokens, err := Split("a b c", " ")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, tokens)
}

func TestSplit_KeepsEmptyFragments(t *testing.T) {
	tokens, err := Split("a  b ", " ")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b", ""}, tokens)
}

func TestSplit_Alternation(t *testing.T) {
	tokens, err := Split("a.b,c d", `\ |\.|\,`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, tokens)
}

func TestSplit_EmptyTextYieldsOneEmptyToken(t *testing.T) {
	tokens, err := Split("", " ")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, tokens)
}

func TestNew_DefaultSeparator(t *testing.T) {
	tok, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSeparator, tok.Pattern())
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New("(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile separator")
}

type nothingSplitter struct{}

func (nothingSplitter) Split(string, int) []string { return nil }
func (nothingSplitter) String() string             { return "nothing" }

func TestTokenizer_ZeroFragmentsIsAnError(t *testing.T) {
	tok := &Tokenizer{separator: nothingSplitter{}}

	tokens, err := tok.Split("a b")
	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, domain.ErrNoTokens)
	assert.Equal(t, "nothing", tok.Pattern())
}

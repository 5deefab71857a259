// Package transcoder maps text lines to sequences of embedding vectors.
package transcoder

import (
	"strings"

	"yase/internal/cleaner"
	"yase/internal/domain"
	"yase/internal/embedding"
	"yase/internal/tokenizer"
)

// Transcoder turns lines into records using a shared, read-only table.
type Transcoder struct {
	vocab   embedding.Vocabulary
	cleaner *cleaner.Cleaner
	tok     *tokenizer.Tokenizer
}

// New returns a Transcoder. A nil cleaner leaves lines untouched.
func New(vocab embedding.Vocabulary, cl *cleaner.Cleaner, tok *tokenizer.Tokenizer) *Transcoder {
	if cl == nil {
		cl = cleaner.New(nil, false)
	}
	return &Transcoder{vocab: vocab, cleaner: cl, tok: tok}
}

// Transcode cleans, folds and splits line, then looks every token up.
// Tokens missing from the table are reported in Record.Unknown and left out
// of Record.Vectors. A line without any known token yields no vectors and
// no error.
func (t *Transcoder) Transcode(line string) (domain.Record, error) {
	rec := domain.Record{Input: strings.TrimSpace(line)}
	text := strings.ToLower(strings.TrimSpace(t.cleaner.Clean(line)))
	tokens, err := t.tok.Split(text)
	if err != nil {
		return rec, err
	}
	rec.Vectors = make([]domain.Vector, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		v, ok := t.vocab.Vector(tok)
		if !ok {
			rec.Unknown = append(rec.Unknown, tok)
			continue
		}
		rec.Vectors = append(rec.Vectors, v)
	}
	return rec, nil
}

// Transcode is a one-shot helper that compiles pattern and transcodes line
// with the given rules.
func Transcode(line, pattern string, vocab embedding.Vocabulary, rules domain.RuleSet) ([]domain.Vector, error) {
	tok, err := tokenizer.New(pattern)
	if err != nil {
		return nil, err
	}
	rec, err := New(vocab, cleaner.New(rules, false), tok).Transcode(line)
	if err != nil {
		return nil, err
	}
	return rec.Vectors, nil
}

// Package embedding holds the token to vector table and its text loader.
package embedding

import (
	"strings"

	"github.com/x448/float16"

	"yase/internal/domain"
)

// slabSize is the number of half-precision values per backing slab.
const slabSize = 1 << 20

// span locates one entry's values inside the slab arena.
type span struct {
	slab int32
	off  int32
	n    int32
}

// Table is an immutable token to vector mapping. Values are stored as IEEE 754
// half-precision floats packed into large shared slabs, so each entry costs
// two bytes per component plus a fixed-size span.
type Table struct {
	index map[string]span
	slabs [][]float16.Float16
	stats Stats
}

// Stats describes a loaded table.
type Stats struct {
	Lines           int64
	Entries         int
	Duplicates      int
	MalformedFields int64
	MinDim          int
	MaxDim          int
}

// Ragged reports whether entries have different dimensions.
func (s Stats) Ragged() bool { return s.MinDim != s.MaxDim }

var _ Vocabulary = (*Table)(nil)

// Len returns the number of distinct keys.
func (t *Table) Len() int { return len(t.index) }

// Stats returns load statistics.
func (t *Table) Stats() Stats { return t.stats }

// Raw returns the stored half-precision values for token without copying.
// The returned slice must not be modified.
func (t *Table) Raw(token string) ([]float16.Float16, bool) {
	sp, ok := t.index[token]
	if !ok {
		return nil, false
	}
	s := t.slabs[sp.slab]
	return s[sp.off : sp.off+sp.n : sp.off+sp.n], true
}

// Vector returns a widened copy of the vector stored for token.
func (t *Table) Vector(token string) (domain.Vector, bool) {
	raw, ok := t.Raw(token)
	if !ok {
		return nil, false
	}
	v := make(domain.Vector, len(raw))
	for i, h := range raw {
		v[i] = h.Float32()
	}
	return v, true
}

// Keys returns all keys in unspecified order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.index))
	for k := range t.index {
		keys = append(keys, k)
	}
	return keys
}

// FromMap builds a table from in-memory vectors. Keys are lower-cased.
func FromMap(m map[string][]float32) *Table {
	b := NewBuilder(0)
	var buf []float16.Float16
	for k, vals := range m {
		buf = buf[:0]
		for _, v := range vals {
			buf = append(buf, float16.Fromfloat32(v))
		}
		b.put(strings.ToLower(k), buf)
	}
	return b.Table()
}

// Builder accumulates entries into a Table.
type Builder struct {
	t       *Table
	scratch []float16.Float16
}

// NewBuilder returns a builder. entriesHint presizes the key index.
func NewBuilder(entriesHint int) *Builder {
	if entriesHint < 0 {
		entriesHint = 0
	}
	return &Builder{t: &Table{index: make(map[string]span, entriesHint)}}
}

// AddLine parses one `<token> <float> <float> ...` line. The token is
// lower-cased and fields that do not parse as numbers are dropped.
// Blank lines are ignored.
func (b *Builder) AddLine(line string) {
	b.t.stats.Lines++
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	key, rest, _ := strings.Cut(line, " ")
	b.scratch = b.scratch[:0]
	for rest != "" {
		var field string
		field, rest, _ = strings.Cut(rest, " ")
		if v, ok := parseField(field); ok {
			b.scratch = append(b.scratch, v)
		} else {
			b.t.stats.MalformedFields++
		}
	}
	b.put(strings.ToLower(key), b.scratch)
}

func (b *Builder) put(key string, vals []float16.Float16) {
	t := b.t
	if sp, ok := t.index[key]; ok {
		t.stats.Duplicates++
		if int(sp.n) == len(vals) {
			copy(t.slabs[sp.slab][sp.off:sp.off+sp.n], vals)
			return
		}
		t.index[key] = b.alloc(vals)
		return
	}
	// The key may be a substring of a much longer line.
	t.index[strings.Clone(key)] = b.alloc(vals)
}

// alloc copies vals into the arena, opening a new slab when the current one
// cannot hold the entry contiguously.
func (b *Builder) alloc(vals []float16.Float16) span {
	t := b.t
	last := len(t.slabs) - 1
	if last < 0 || cap(t.slabs[last])-len(t.slabs[last]) < len(vals) {
		size := slabSize
		if len(vals) > size {
			size = len(vals)
		}
		t.slabs = append(t.slabs, make([]float16.Float16, 0, size))
		last++
	}
	s := t.slabs[last]
	off := len(s)
	t.slabs[last] = append(s, vals...)
	return span{slab: int32(last), off: int32(off), n: int32(len(vals))}
}

// Table finalizes statistics and returns the built table. The builder must
// not be used afterwards.
func (b *Builder) Table() *Table {
	t := b.t
	t.stats.Entries = len(t.index)
	first := true
	for _, sp := range t.index {
		n := int(sp.n)
		if first || n < t.stats.MinDim {
			t.stats.MinDim = n
		}
		if first || n > t.stats.MaxDim {
			t.stats.MaxDim = n
		}
		first = false
	}
	b.t = nil
	return t
}

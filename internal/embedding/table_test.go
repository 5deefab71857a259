package embedding

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"yase/internal/domain"
)

type recordingObserver struct {
	calls    int
	lastDone int64
	total    int64
	lines    int64
	stage    domain.Stage
}

func (r *recordingObserver) OnProgress(stage domain.Stage, done, total int64) {
	r.calls++
	r.stage = stage
	r.lastDone = done
	r.total = total
}

func (r *recordingObserver) OnStageDone(_ domain.Stage, lines int64) { r.lines = lines }

func readString(t *testing.T, s string) *Table {
	t.Helper()
	tbl, err := Read(strings.NewReader(s), "UTF8", 0, nil)
	require.NoError(t, err)
	return tbl
}

func TestRead_SingleValueEntries(t *testing.T) {
	tbl := readString(t, "a 0\nb 1\nc 2")

	assert.Equal(t, 3, tbl.Len())
	assert.ElementsMatch(t, []string{"a", "b", "c"}, tbl.Keys())
	for key, want := range map[string]float32{"a": 0, "b": 1, "c": 2} {
		v, ok := tbl.Vector(key)
		require.True(t, ok, key)
		assert.Equal(t, domain.Vector{want}, v, key)
	}
}

func TestRead_LowercasesKeys(t *testing.T) {
	tbl := readString(t, "Bonjour 0.5 1\n")

	v, ok := tbl.Vector("bonjour")
	require.True(t, ok)
	assert.Equal(t, domain.Vector{0.5, 1}, v)
	_, ok = tbl.Vector("Bonjour")
	assert.False(t, ok)
}

func TestRead_DropsMalformedFields(t *testing.T) {
	tbl := readString(t, "word 1 oops 2  3 -\n")

	v, ok := tbl.Vector("word")
	require.True(t, ok)
	assert.Equal(t, domain.Vector{1, 2, 3}, v)
	// "oops", the empty field between the double space and "-".
	assert.EqualValues(t, 3, tbl.Stats().MalformedFields)
}

func TestRead_LastDuplicateWins(t *testing.T) {
	tbl := readString(t, "a 1 1\nA 2 2\nb 1\nb 5 6 7\n")

	a, _ := tbl.Vector("a")
	b, _ := tbl.Vector("b")
	assert.Equal(t, domain.Vector{2, 2}, a)
	assert.Equal(t, domain.Vector{5, 6, 7}, b)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 2, tbl.Stats().Duplicates)
}

func TestRead_RaggedDimensionsTolerated(t *testing.T) {
	tbl := readString(t, "a 1\nb 1 2 3\nc\n")

	st := tbl.Stats()
	assert.True(t, st.Ragged())
	assert.Equal(t, 0, st.MinDim)
	assert.Equal(t, 3, st.MaxDim)
	c, ok := tbl.Vector("c")
	require.True(t, ok)
	assert.Empty(t, c)
}

func TestRead_SkipsBlankLines(t *testing.T) {
	tbl := readString(t, "\n  \na 1\n")

	assert.Equal(t, 1, tbl.Len())
	assert.EqualValues(t, 3, tbl.Stats().Lines)
}

func TestRead_HalfPrecision(t *testing.T) {
	tbl := readString(t, "x 0.1 65504 1e9\n")

	raw, ok := tbl.Raw("x")
	require.True(t, ok)
	require.Len(t, raw, 3)
	assert.Equal(t, float16.Fromfloat32(0.1), raw[0])
	assert.InDelta(t, 0.1, raw[0].Float32(), 1e-4)
	assert.Equal(t, float32(65504), raw[1].Float32())
	assert.True(t, raw[2].IsInf(1))
}

func TestRead_ReportsProgress(t *testing.T) {
	src := "a 0\nb 1\nc 2\n"
	obs := &recordingObserver{}

	_, err := Read(strings.NewReader(src), "UTF8", int64(len(src)), obs)
	require.NoError(t, err)

	assert.Equal(t, 3, obs.calls)
	assert.Equal(t, domain.StageTable, obs.stage)
	assert.EqualValues(t, len(src), obs.lastDone)
	assert.EqualValues(t, len(src), obs.total)
	assert.EqualValues(t, 3, obs.lines)
}

func TestRead_UnknownEncoding(t *testing.T) {
	_, err := Read(strings.NewReader("a 1"), "no-such-charset", 0, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownEncoding)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wiki.vec")
	require.NoError(t, os.WriteFile(path, []byte("caf\xe9 1 2\n"), 0o644))

	tbl, err := Load(path, "ISO-8859-1", nil)
	require.NoError(t, err)

	v, ok := tbl.Vector("café")
	require.True(t, ok)
	assert.Equal(t, domain.Vector{1, 2}, v)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.vec")

	_, err := Load(path, "UTF8", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_InvalidUTF8IsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.vec")
	require.NoError(t, os.WriteFile(path, []byte("caf\xe9 1\n"), 0o644))

	_, err := Load(path, "UTF8", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidEncoding)
}

func TestBuilder_OpensNewSlabWhenEntryDoesNotFit(t *testing.T) {
	b := NewBuilder(0)
	big := make([]float16.Float16, slabSize-1)
	b.put("big", big)
	b.put("pair", []float16.Float16{float16.Fromfloat32(1), float16.Fromfloat32(2)})
	tbl := b.Table()

	require.Len(t, tbl.slabs, 2)
	v, ok := tbl.Vector("pair")
	require.True(t, ok)
	assert.Equal(t, domain.Vector{1, 2}, v)
}

func TestFromMap(t *testing.T) {
	tbl := FromMap(map[string][]float32{"A": {0}, "b": {1, 2}})

	a, ok := tbl.Vector("a")
	require.True(t, ok)
	assert.Equal(t, domain.Vector{0}, a)
	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Stats().Ragged())
}

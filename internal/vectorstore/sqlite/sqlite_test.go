package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yase/internal/domain"
)

func TestEncodeDecodeVector_RoundTrip(t *testing.T) {
	orig := []float32{0, 1.5, -2.25, 3.75}

	decoded, err := DecodeVector(EncodeVector(orig))
	require.NoError(t, err)
	assert.Equal(t, orig, decoded)
}

func TestEncodeDecodeVector_Empty(t *testing.T) {
	assert.Empty(t, EncodeVector(nil))
	vec, err := DecodeVector(nil)
	require.NoError(t, err)
	assert.Empty(t, vec)
}

func TestDecodeVector_BadLength(t *testing.T) {
	_, err := DecodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Init(domain.RunInfo{InputPath: "in.txt", TablePath: "wiki.vec", Separator: " "}))
	runID := s.RunID()
	require.NotEmpty(t, runID)
	recs := []domain.Record{
		{Line: 1, Input: "a b", Vectors: []domain.Vector{{0}, {1, 2}}},
		{Line: 2, Input: "zz", Vectors: []domain.Vector{}},
	}
	for _, r := range recs {
		require.NoError(t, s.Append(r))
	}
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := ReadRun(reopened.DB(), runID)
	require.NoError(t, err)
	assert.Equal(t, recs, got)

	var lines int64
	var sep string
	require.NoError(t, reopened.DB().QueryRow(`SELECT lines, separator FROM runs WHERE id = ?`, runID).Scan(&lines, &sep))
	assert.EqualValues(t, 2, lines)
	assert.Equal(t, " ", sep)
}

func TestStorage_RunsAreSeparate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	var ids []string
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, s.Init(domain.RunInfo{}))
		require.NoError(t, s.Append(domain.Record{Line: 1, Input: "x"}))
		ids = append(ids, s.RunID())
		require.NoError(t, s.Close())
	}
	assert.NotEqual(t, ids[0], ids[1])

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestStorage_AppendBeforeInit(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "out.db"))
	require.NoError(t, err)
	defer s.Close()

	assert.Error(t, s.Append(domain.Record{Line: 1}))
}

package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yase/internal/domain"
)

func TestUnknownTracker_Counts(t *testing.T) {
	u := NewUnknownTracker()
	u.Observe(domain.Record{Vectors: []domain.Vector{{1}}, Unknown: []string{"zz", "+"}})
	u.Observe(domain.Record{Unknown: []string{"zz"}})
	u.Observe(domain.Record{Vectors: []domain.Vector{{1}, {2}}})

	assert.EqualValues(t, 3, u.Dropped())
	assert.EqualValues(t, 3, u.Recognised())
	assert.EqualValues(t, 1, u.EmptyLines())
	assert.Equal(t, 2, u.Distinct())
	assert.InDelta(t, 0.5, u.Coverage(), 1e-9)
}

func TestUnknownTracker_TopOrdering(t *testing.T) {
	u := NewUnknownTracker()
	u.Observe(domain.Record{Unknown: []string{"b", "a", "c", "c"}})

	assert.Equal(t, []Entry{{"c", 2}, {"a", 1}, {"b", 1}}, u.Top(10))
	assert.Equal(t, []Entry{{"c", 2}}, u.Top(1))
	assert.Nil(t, u.Top(0))
}

func TestUnknownTracker_EmptyCoverage(t *testing.T) {
	assert.Zero(t, NewUnknownTracker().Coverage())
}

func TestUnknownTracker_Summarize(t *testing.T) {
	u := NewUnknownTracker()
	u.Observe(domain.Record{Vectors: []domain.Vector{{1}}, Unknown: []string{"zz"}})

	out := u.Summarize(5)

	assert.Contains(t, out, "1 lines, 1 tokens recognised, 1 dropped (50.0% coverage)")
	assert.Contains(t, out, `"zz"`)
	assert.NotContains(t, NewUnknownTracker().Summarize(5), "most frequent")
}

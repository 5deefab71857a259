// Package report counts the tokens dropped during transcoding.
package report

import (
	"fmt"
	"sort"
	"strings"

	"yase/internal/domain"
)

// Entry is one unknown token and how often it was dropped.
type Entry struct {
	Token string
	Count int64
}

// UnknownTracker aggregates dropped tokens over a run. It never changes
// what gets written; it only makes the lossy lookup policy visible.
type UnknownTracker struct {
	freq       map[string]int64
	dropped    int64
	recognised int64
	emptyLines int64
	lines      int64
}

// NewUnknownTracker creates an empty tracker.
func NewUnknownTracker() *UnknownTracker {
	return &UnknownTracker{freq: make(map[string]int64)}
}

// Observe records the outcome of one transcoded line.
func (u *UnknownTracker) Observe(rec domain.Record) {
	u.lines++
	u.recognised += int64(len(rec.Vectors))
	if len(rec.Vectors) == 0 {
		u.emptyLines++
	}
	for _, tok := range rec.Unknown {
		u.freq[tok]++
		u.dropped++
	}
}

// Dropped returns the number of token occurrences left out.
func (u *UnknownTracker) Dropped() int64 { return u.dropped }

// Recognised returns the number of token occurrences that produced a vector.
func (u *UnknownTracker) Recognised() int64 { return u.recognised }

// EmptyLines returns how many lines produced no vector at all.
func (u *UnknownTracker) EmptyLines() int64 { return u.emptyLines }

// Distinct returns the number of distinct unknown tokens.
func (u *UnknownTracker) Distinct() int { return len(u.freq) }

// Top returns the n most frequent unknown tokens, ties broken alphabetically.
func (u *UnknownTracker) Top(n int) []Entry {
	if n <= 0 {
		return nil
	}
	entries := make([]Entry, 0, len(u.freq))
	for tok, c := range u.freq {
		entries = append(entries, Entry{Token: tok, Count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Token < entries[j].Token
	})
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n]
}

// Coverage is the share of token occurrences that were found in the table.
func (u *UnknownTracker) Coverage() float64 {
	total := u.recognised + u.dropped
	if total == 0 {
		return 0
	}
	return float64(u.recognised) / float64(total)
}

// Summarize renders a short human-readable report.
func (u *UnknownTracker) Summarize(top int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d lines, %d tokens recognised, %d dropped (%.1f%% coverage)",
		u.lines, u.recognised, u.dropped, 100*u.Coverage())
	if u.emptyLines > 0 {
		fmt.Fprintf(&b, ", %d lines without any vector", u.emptyLines)
	}
	entries := u.Top(top)
	if len(entries) == 0 {
		return b.String()
	}
	b.WriteString("\nmost frequent unknown tokens:")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n  %-20q %d", e.Token, e.Count)
	}
	return b.String()
}

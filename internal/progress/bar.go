// Package progress renders transcoding progress on a plain writer, one
// carriage-return-refreshed line per stage.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"yase/internal/domain"
)

// DefaultMinInterval throttles redraws.
const DefaultMinInterval = 500 * time.Millisecond

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// StageLabel returns the display name of a stage.
func StageLabel(s domain.Stage) string {
	switch s {
	case domain.StageTable:
		return "loading table"
	case domain.StageInput:
		return "transcoding"
	default:
		return string(s)
	}
}

// Bar is a domain.ProgressObserver drawing a progress bar per stage.
type Bar struct {
	w           io.Writer
	bar         progress.Model
	minInterval time.Duration
	last        time.Time
	now         func() time.Time
}

var _ domain.ProgressObserver = (*Bar)(nil)

// NewBar draws on w, redrawing at most once per minInterval.
func NewBar(w io.Writer, minInterval time.Duration) *Bar {
	return &Bar{
		w:           w,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		minInterval: minInterval,
		now:         time.Now,
	}
}

func (b *Bar) OnProgress(stage domain.Stage, done, total int64) {
	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.minInterval {
		return
	}
	b.last = now
	fmt.Fprint(b.w, "\r"+b.line(stage, done, total))
}

func (b *Bar) OnStageDone(stage domain.Stage, lines int64) {
	b.last = time.Time{}
	fmt.Fprintf(b.w, "\r%s %s\n", b.line(stage, 1, 1), doneStyle.Render(fmt.Sprintf("%d lines", lines)))
}

func (b *Bar) line(stage domain.Stage, done, total int64) string {
	label := labelStyle.Render(fmt.Sprintf("%-14s", StageLabel(stage)))
	if total <= 0 {
		return fmt.Sprintf("%s %s", label, FormatBytes(done))
	}
	return fmt.Sprintf("%s %s", label, b.bar.ViewAs(Fraction(done, total)))
}

// Fraction returns done/total clamped to [0, 1].
func Fraction(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	f := float64(done) / float64(total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

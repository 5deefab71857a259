// Package tui shows an interactive progress view while a run executes.
package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"yase/internal/domain"
)

// sender is the part of *tea.Program the observer needs.
type sender interface {
	Send(msg tea.Msg)
}

// Observer forwards progress to a running program, at most once per
// interval per stage. Stage completion is always forwarded.
type Observer struct {
	p        sender
	interval time.Duration
	last     map[domain.Stage]time.Time
	now      func() time.Time
}

var _ domain.ProgressObserver = (*Observer)(nil)

// NewObserver returns an observer sending to p.
func NewObserver(p sender, interval time.Duration) *Observer {
	return &Observer{p: p, interval: interval, last: make(map[domain.Stage]time.Time), now: time.Now}
}

func (o *Observer) OnProgress(stage domain.Stage, done, total int64) {
	now := o.now()
	if last, ok := o.last[stage]; ok && now.Sub(last) < o.interval {
		return
	}
	o.last[stage] = now
	o.p.Send(ProgressMsg{Stage: stage, Done: done, Total: total})
}

func (o *Observer) OnStageDone(stage domain.Stage, lines int64) {
	o.p.Send(StageDoneMsg{Stage: stage, Lines: lines})
}

// Work is a run driven by the view. It returns a summary to display.
type Work func(obs domain.ProgressObserver) (summary string, err error)

// Run executes work while rendering progress on out. The work itself runs
// sequentially on one goroutine; the program only draws.
func Run(title string, out io.Writer, work Work) error {
	p := tea.NewProgram(New(title), tea.WithOutput(out))
	go func() {
		summary, err := work(NewObserver(p, 100*time.Millisecond))
		p.Send(FinishedMsg{Summary: summary, Err: err})
	}()
	final, err := p.Run()
	if err != nil {
		return err
	}
	return final.(Model).Err()
}

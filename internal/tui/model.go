package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"yase/internal/domain"
	stageprogress "yase/internal/progress"
)

// ErrAborted is returned when the user quits before the run finished.
var ErrAborted = errors.New("aborted by user")

// ProgressMsg reports bytes consumed in a stage.
type ProgressMsg struct {
	Stage       domain.Stage
	Done, Total int64
}

// StageDoneMsg marks a stage as complete.
type StageDoneMsg struct {
	Stage domain.Stage
	Lines int64
}

// FinishedMsg ends the program with the outcome of the run.
type FinishedMsg struct {
	Summary string
	Err     error
}

type stageState struct {
	stage   domain.Stage
	percent float64
	done    bool
	lines   int64
	bytes   int64
}

// Model is the Bubble Tea model showing one bar per pipeline stage.
type Model struct {
	title   string
	bar     progress.Model
	stages  []*stageState
	summary string
	err     error
	aborted bool
	done    bool
}

// New creates a model for the given title.
func New(title string) Model {
	return Model{
		title: title,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		stages: []*stageState{
			{stage: domain.StageTable},
			{stage: domain.StageInput},
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles progress messages, window resizes and quit keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-40))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			m.aborted = true
			return m, tea.Quit
		}
	case ProgressMsg:
		if st := m.stage(msg.Stage); st != nil {
			st.percent = stageprogress.Fraction(msg.Done, msg.Total)
			st.bytes = msg.Done
		}
	case StageDoneMsg:
		if st := m.stage(msg.Stage); st != nil {
			st.percent = 1
			st.done = true
			st.lines = msg.Lines
		}
	case FinishedMsg:
		m.done = true
		m.summary = msg.Summary
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) stage(s domain.Stage) *stageState {
	for _, st := range m.stages {
		if st.stage == s {
			return st
		}
	}
	return nil
}

// View renders the title, stage bars and final status.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for _, st := range m.stages {
		label := labelStyle.Render(fmt.Sprintf("%-14s", stageprogress.StageLabel(st.stage)))
		b.WriteString(label + " " + m.bar.ViewAs(st.percent))
		if st.done {
			b.WriteString(" " + doneStyle.Render(fmt.Sprintf("%d lines", st.lines)))
		} else if st.bytes > 0 {
			b.WriteString(" " + dimStyle.Render(stageprogress.FormatBytes(st.bytes)))
		}
		b.WriteString("\n")
	}
	switch {
	case m.err != nil:
		b.WriteString("\n" + errStyle.Render("Error: "+m.err.Error()) + "\n")
	case m.done:
		if m.summary != "" {
			b.WriteString("\n" + dimStyle.Render(m.summary) + "\n")
		}
		b.WriteString(doneStyle.Render("done !") + "\n")
	default:
		b.WriteString("\n" + dimStyle.Render("ctrl+c to abort") + "\n")
	}
	return b.String()
}

// Err returns the run error, or ErrAborted if the user quit first.
func (m Model) Err() error {
	if m.aborted && !m.done {
		return ErrAborted
	}
	return m.err
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

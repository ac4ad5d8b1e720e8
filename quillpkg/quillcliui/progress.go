package quillcliui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/gitquill/gitquill/quillpkg/askai"
)

const progressFeedLines = 6

var (
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	toolNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
)

// Progress renders live tool-call activity during an agentic run. On a
// terminal it runs a Bubble Tea spinner with a scrolling event feed; without
// one it degrades to plain line output.
type Progress struct {
	program *tea.Program
	writer  io.Writer
	plain   bool
	done    chan struct{}
}

type progressEventMsg struct {
	event askai.ToolCallEvent
}

type progressStopMsg struct{}

type progressModel struct {
	spinner spinner.Model
	title   string
	feed    []string
	done    bool
}

func newProgressModel(title string) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return progressModel{spinner: s, title: title}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressEventMsg:
		m.feed = append(m.feed, formatEvent(msg.event))
		if len(m.feed) > progressFeedLines {
			m.feed = m.feed[len(m.feed)-progressFeedLines:]
		}
		return m, nil

	case progressStopMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(m.spinner.View() + " " + m.title + "\n")
	for _, line := range m.feed {
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

func formatEvent(ev askai.ToolCallEvent) string {
	switch ev.Kind {
	case askai.ToolInvokedEvent:
		return toolNameStyle.Render(ev.Tool) + " " + truncateLine(ev.Arguments, 60)
	case askai.ToolReturnedEvent:
		return toolNameStyle.Render(ev.Tool) + " done"
	case askai.FinishedEvent:
		return "finished"
	}
	return ""
}

func truncateLine(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > limit {
		s = s[:limit] + "…"
	}
	return s
}

// StartProgress begins rendering. The returned Progress must be stopped.
func StartProgress(title string, w io.Writer) *Progress {
	p := &Progress{writer: w, done: make(chan struct{})}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		p.plain = true
		fmt.Fprintf(w, "%s\n", title)
		close(p.done)
		return p
	}

	p.program = tea.NewProgram(newProgressModel(title),
		tea.WithOutput(w),
		tea.WithoutSignalHandler(),
	)
	go func() {
		_, _ = p.program.Run()
		close(p.done)
	}()
	return p
}

// Sink adapts the progress display to an askai event sink.
func (p *Progress) Sink() askai.EventSink {
	return func(ev askai.ToolCallEvent) {
		if p.plain {
			if line := formatEvent(ev); line != "" {
				fmt.Fprintf(p.writer, "  %s\n", line)
			}
			return
		}
		p.program.Send(progressEventMsg{event: ev})
	}
}

// Stop ends rendering and waits for the display to shut down.
func (p *Progress) Stop() {
	if p.plain {
		return
	}
	p.program.Send(progressStopMsg{})
	<-p.done
}

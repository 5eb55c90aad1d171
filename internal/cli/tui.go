package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/NishanthRao01/bankguard/pkg/analysis"
	"github.com/NishanthRao01/bankguard/pkg/core/state"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// TraceModel - Interactive safety-pass viewer
// =============================================================================

// TraceModel is the bubbletea model for stepping through safety passes.
// Screens 0..len(Trace)-1 show one pass each; the screen after the last
// pass shows the verdict.
type TraceModel struct {
	Snapshot *state.State
	Report   *analysis.Report
	Cursor   int
}

// NewTraceModel creates a trace viewer positioned on the first pass.
func NewTraceModel(snap *state.State, report *analysis.Report) TraceModel {
	return TraceModel{Snapshot: snap, Report: report}
}

func (m TraceModel) Init() tea.Cmd {
	return nil
}

func (m TraceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right", "l", "enter", " ":
			if m.Cursor < len(m.Report.Trace) {
				m.Cursor++
			} else {
				// Advancing past the verdict screen closes the viewer.
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m TraceModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Safety Trace"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ step  ⏎ next  q quit"))
	b.WriteString("\n\n")

	if m.Cursor < len(m.Report.Trace) {
		b.WriteString(m.passView(m.Cursor))
	} else {
		b.WriteString(m.verdictView())
	}

	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Report.Trace)+1)))

	return b.String()
}

// passView renders one scan pass: the work vector at the start of the pass
// and the processes granted during it.
func (m TraceModel) passView(i int) string {
	pass := m.Report.Trace[i]

	var b strings.Builder
	b.WriteString(listNormalStyle.Render(fmt.Sprintf("Pass %d of %d", i+1, len(m.Report.Trace))))
	b.WriteString("\n\n")
	b.WriteString(workTable(m.Snapshot.Resources, pass.Work))
	b.WriteString("\n\n")

	if len(pass.Granted) == 0 {
		b.WriteString(listDimStyle.Render("  No process could be granted this pass"))
	} else {
		granted := make([]string, len(pass.Granted))
		for j, name := range pass.Granted {
			granted[j] = listSelectedStyle.Render(name)
		}
		b.WriteString("  " + listDimStyle.Render("Granted: ") + strings.Join(granted, listDimStyle.Render(", ")))
	}

	return b.String()
}

// verdictView renders the final screen.
func (m TraceModel) verdictView() string {
	var b strings.Builder

	switch {
	case m.Report.SafeState:
		b.WriteString(StyleSuccess.Render(iconSuccess + " Safe state"))
		b.WriteString("\n\n")
		b.WriteString("  " + formatSequence(m.Report.SafeSequence))
	case m.Report.DeadlockDetected:
		b.WriteString(StyleError.Render(iconError + " Deadlock detected"))
		b.WriteString("\n\n")
		for _, e := range m.Report.DeadlockCycle {
			b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
				listNormalStyle.Render(e.From),
				listDimStyle.Render(iconArrow),
				listNormalStyle.Render(e.To),
				listDimStyle.Render("("+e.Relation+")")))
		}
	default:
		b.WriteString(StyleWarning.Render(iconWarning + " Unsafe state"))
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render("  No completion order covers every process"))
	}

	return b.String()
}

// workTable renders the work vector with resource names as headers.
func workTable(resources []string, work []int) string {
	headers := make([]string, len(work))
	row := make([]string, len(work))
	for j, v := range work {
		headers[j] = fmt.Sprintf("R%d", j)
		if j < len(resources) {
			headers[j] = resources[j]
		}
		row[j] = strconv.Itoa(v)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(row).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorCyan)
		}).
		Render()
}

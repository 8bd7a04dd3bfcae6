package tui

import (
	"fmt"
	"strings"

	"vitals/internal/analysis"
	"vitals/internal/service"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InsightsModel is the insights screen model
type InsightsModel struct {
	reportService *service.ReportService
	report        *service.Report
	viewport      viewport.Model
	loading       bool
	err           error
	width         int
	height        int
	ready         bool
}

// NewInsightsModel creates a new insights model
func NewInsightsModel(rs *service.ReportService, width, height int) InsightsModel {
	m := InsightsModel{
		reportService: rs,
		loading:       true,
		width:         width,
		height:        height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}

	return m
}

// Init initializes the insights screen
func (m InsightsModel) Init() tea.Cmd {
	return m.loadInsights
}

type insightsLoadedMsg struct {
	report *service.Report
	err    error
}

func (m InsightsModel) loadInsights() tea.Msg {
	report, err := m.reportService.AnalyzeRecent()
	return insightsLoadedMsg{report: report, err: err}
}

// Update handles messages
func (m InsightsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case insightsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.report = msg.report
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.report != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadInsights
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the insights screen
func (m InsightsModel) View() string {
	if m.loading {
		return "\n  Deriving insights..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m InsightsModel) renderContent() string {
	if m.report == nil || len(m.report.Insights) == 0 {
		return "\n  Nothing stands out right now. Keep training."
	}

	var sections []string

	sections = append(sections, "")
	sections = append(sections, cardTitleStyle.Render("Insights"))

	for _, category := range []string{"recovery", "stress", "activity"} {
		insights := filterByCategory(m.report.Insights, category)
		if len(insights) == 0 {
			continue
		}
		sections = append(sections, m.renderCategory(category, insights))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func filterByCategory(insights []analysis.Insight, category string) []analysis.Insight {
	var out []analysis.Insight
	for _, in := range insights {
		if in.Category == category {
			out = append(out, in)
		}
	}
	return out
}

func (m InsightsModel) renderCategory(category string, insights []analysis.Insight) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, m.sectionHeader(categoryLabel(category)))

	for _, in := range insights {
		lines = append(lines, "")
		lines = append(lines, "  "+severityBadge(in.Severity)+" "+metricValueStyle.Render(in.Title))
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(mutedColor).Render(in.Description))
		for _, rec := range in.Recommendations {
			lines = append(lines, helpDescStyle.Render("    · "+rec))
		}
	}

	return strings.Join(lines, "\n")
}

func (m InsightsModel) sectionHeader(title string) string {
	titleLen := len([]rune(title))
	dividerLen := 60 - titleLen - 4
	if dividerLen < 0 {
		dividerLen = 0
	}
	divider := strings.Repeat("─", dividerLen)
	return lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(fmt.Sprintf("── %s %s", title, divider))
}

func categoryLabel(category string) string {
	switch category {
	case "activity":
		return "Training"
	case "stress":
		return "Stress"
	case "recovery":
		return "Recovery"
	default:
		return category
	}
}

func severityBadge(s analysis.Severity) string {
	switch s {
	case analysis.SeverityAlert:
		return errorStyle.Render("[!]")
	case analysis.SeverityWarning:
		return warningStyle.Render("[~]")
	case analysis.SeverityPositive:
		return successStyle.Render("[+]")
	default:
		return lipgloss.NewStyle().Foreground(mutedColor).Render("[i]")
	}
}

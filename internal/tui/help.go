package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	// Navigation section
	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Report"},
		{"2", "Insights"},
		{"3 or s", "Sync screen"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	// Report keys
	reportSection := m.renderSection("Report", []keyHelp{
		{"r", "Re-run the analysis"},
	})
	sections = append(sections, reportSection)

	// Insights keys
	insightsSection := m.renderSection("Insights", []keyHelp{
		{"j / down", "Scroll down"},
		{"k / up", "Scroll up"},
		{"r", "Re-derive insights"},
	})
	sections = append(sections, insightsSection)

	// Sync keys
	syncSection := m.renderSection("Sync Screen", []keyHelp{
		{"s / enter", "Start sync"},
	})
	sections = append(sections, syncSection)

	// Metrics explanation
	metricsSection := m.renderMetricsHelp()
	sections = append(sections, metricsSection)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(secondaryColor).Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"Recovery Score", "Composite of resting HR, body battery recharge and sleep. Higher = readier."},
		{"CTL (Fitness)", "Chronic training load - 42 day weighted avg of daily load."},
		{"ATL (Fatigue)", "Acute training load - 7 day weighted avg of daily load."},
		{"TSB (Form)", "Training stress balance = CTL - ATL. Positive = fresh."},
		{"ACWR", "Acute:chronic workload ratio. 0.8-1.3 is the sweet spot."},
		{"Monotony", "Day-to-day load variation. Above 2.0 means too-similar days."},
		{"Stress Baseline", "Your 25th-percentile overnight stress over two weeks."},
		{"Cumulative Load", "Area under the stress curve, in stress points."},
	}

	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

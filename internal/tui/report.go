package tui

import (
	"fmt"
	"sort"

	"vitals/internal/analysis"
	"vitals/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// ReportModel is the report screen model
type ReportModel struct {
	reportService *service.ReportService
	report        *service.Report
	loading       bool
	err           error
}

// NewReportModel creates a new report model
func NewReportModel(rs *service.ReportService) ReportModel {
	return ReportModel{
		reportService: rs,
		loading:       true,
	}
}

// Init initializes the report screen
func (m ReportModel) Init() tea.Cmd {
	return m.loadReport
}

func (m ReportModel) loadReport() tea.Msg {
	report, err := m.reportService.AnalyzeRecent()
	if err != nil {
		return reportLoadedMsg{err: err}
	}
	return reportLoadedMsg{report: report}
}

type reportLoadedMsg struct {
	report *service.Report
	err    error
}

// Update handles messages
func (m ReportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.report = msg.report
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadReport
		}
	}
	return m, nil
}

// View renders the report screen
func (m ReportModel) View() string {
	if m.loading {
		return "\n  Analyzing wellness data..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.report == nil {
		return "\n  No data available. Press 's' to sync with Garmin."
	}

	var sections []string

	// Top row: Readiness and Training Load side by side
	readinessCard := m.renderReadinessCard()
	trainingCard := m.renderTrainingCard()
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, readinessCard, "  ", trainingCard)
	sections = append(sections, topRow)

	// Stress card below
	sections = append(sections, m.renderStressCard())

	// Daily stress chart
	if m.report.Stress != nil && len(m.report.Stress.DailyAvg) > 2 {
		sections = append(sections, m.renderStressChart())
	}

	// Per-sport breakdown
	if len(m.report.Training.SportSummaries) > 0 {
		sections = append(sections, m.renderSportTable())
	}

	// Help
	help := statusStyle.Render("Press 'r' to refresh, '2' for insights, 's' to sync")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ReportModel) renderReadinessCard() string {
	title := cardTitleStyle.Render("Recovery Readiness")

	rec := m.report.Recovery

	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)

	lines := []string{
		RenderMetric("Recovery Score", fmt.Sprintf("%d/100", rec.Score), trendArrow(rec.Trend)),
		RenderProgressBar(float64(rec.Score)/100, 30),
		"",
		RenderMetric("Resting HR", formatRHR(rec.CurrentRHR, rec.RHRDeviation), ""),
		RenderMetric("Body Battery", fmt.Sprintf("+%.0f overnight", rec.BBCharged), ""),
		RenderMetric("Sleep Score", formatOptional(rec.AvgSleepScore, "%.0f"), ""),
		RenderMetric("Workload Ratio", formatACWR(rec.ACWR), ""),
		"",
		mutedStyle.Render(zoneDescription(rec.Zone)),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(44).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m ReportModel) renderTrainingCard() string {
	title := cardTitleStyle.Render("Training Load")

	tr := m.report.Training

	lines := []string{
		RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.0f", tr.Stress.ATL), ""),
		RenderMetric("Fitness (CTL)", fmt.Sprintf("%.0f", tr.Stress.CTL), ""),
		RenderMetric("Form (TSB)", fmt.Sprintf("%+.0f", tr.Stress.TSB), ""),
		RenderMetric("Monotony", formatOptional(tr.Stress.Monotony, "%.1f"), ""),
		RenderMetric("Week Load", fmt.Sprintf("%.0f", tr.CurrentWeekLoad), trendArrow(tr.WeeklyVolumeTrend)),
		RenderMetric("Activities", fmt.Sprintf("%d", tr.TotalActivities), ""),
		RenderMetric("Load Confidence", fmt.Sprintf("%.0f%%", tr.Stress.Confidence*100), ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m ReportModel) renderStressCard() string {
	title := cardTitleStyle.Render("Stress Load")

	st := m.report.Stress

	lines := []string{
		RenderMetric("Personal Baseline", fmt.Sprintf("%.0f", st.Baseline), ""),
		RenderMetric("Cumulative Load", fmt.Sprintf("%.0f pts", st.Load.TotalLoad), ""),
		RenderMetric("Avg Level", fmt.Sprintf("%.0f", st.AvgLevel), trendArrow(st.Trend)),
		RenderMetric("Recovery Efficiency", formatOptional(st.RecoveryEfficiency, "%.0f%%"), ""),
		RenderMetric("Avg Recovery Time", formatMinutes(st.AvgRecoveryMinutes), ""),
		"",
		m.renderDistributionBar(),
	}

	if st.PeakHour != nil && st.CalmestHour != nil {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(mutedColor).Render(
			fmt.Sprintf("Peak stress around %02d:00, calmest around %02d:00", *st.PeakHour, *st.CalmestHour)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(58).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// renderDistributionBar shows the low/medium/high/very-high band split
func (m ReportModel) renderDistributionBar() string {
	st := m.report.Stress

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(mutedColor).Render("Time in band:"),
		fmt.Sprintf("  %s %s %s %s",
			successStyle.Render(fmt.Sprintf("low %.0f%%", st.LowPct)),
			metricValueStyle.Render(fmt.Sprintf("med %.0f%%", st.MediumPct)),
			warningStyle.Render(fmt.Sprintf("high %.0f%%", st.HighPct)),
			errorStyle.Render(fmt.Sprintf("very high %.0f%%", st.VeryHighPct)),
		),
	)
}

func (m ReportModel) renderStressChart() string {
	title := cardTitleStyle.Render("Daily Stress - Recent Trend")

	values := make([]float64, 0, len(m.report.Stress.DailyAvg))
	for _, d := range m.report.Stress.DailyAvg {
		values = append(values, d.AvgLevel)
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m ReportModel) renderSportTable() string {
	title := cardTitleStyle.Render("By Sport")

	summaries := make([]analysis.SportSummary, 0, len(m.report.Training.SportSummaries))
	for _, s := range m.report.Training.SportSummaries {
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TotalDurationHours > summaries[j].TotalDurationHours
	})

	header := tableHeaderStyle.Render(fmt.Sprintf("%-18s  %5s  %9s  %7s  %6s  %6s",
		"Sport", "Count", "Distance", "Hours", "Avg HR", "Effect"))

	rows := []string{header}
	for _, s := range summaries {
		hr := "-"
		if s.AvgHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *s.AvgHeartrate)
		}

		row := tableRowStyle.Render(fmt.Sprintf("%-18s  %5d  %7.1fkm  %7.1f  %6s  %6.1f",
			s.Sport,
			s.Count,
			s.TotalDistanceKm,
			s.TotalDurationHours,
			hr,
			s.MaxTrainingEffect,
		))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func trendArrow(t analysis.Trend) string {
	switch t {
	case analysis.TrendImproving:
		return "↑ improving"
	case analysis.TrendDeclining:
		return "↓ declining"
	default:
		return ""
	}
}

func formatOptional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func formatMinutes(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f min", *v)
}

func formatRHR(current *float64, deviation float64) string {
	if current == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f bpm (%+.1f vs baseline)", *current, deviation)
}

func formatACWR(ratio *float64) string {
	if ratio == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *ratio)
}

func zoneDescription(zone analysis.ACWRZone) string {
	switch zone {
	case analysis.ZoneUndertrained:
		return "Training load below your chronic base. Room to build."
	case analysis.ZoneOptimal:
		return "Workload ratio in the optimal adaptation zone."
	case analysis.ZoneCaution:
		return "Workload ramping faster than your base. Watch recovery."
	case analysis.ZoneHighRisk:
		return "Acute load well above chronic base. Elevated injury risk."
	default:
		return "Not enough history to judge workload ratio."
	}
}

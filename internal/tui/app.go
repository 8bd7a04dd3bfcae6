package tui

import (
	"vitals/internal/service"
	"vitals/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenReport Screen = iota
	ScreenInsights
	ScreenSync
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	report     ReportModel
	insights   InsightsModel
	syncScreen SyncModel
	help       HelpModel

	// Services
	store         *store.Store
	reportService *service.ReportService
	syncService   *service.SyncService

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(st *store.Store, reportService *service.ReportService, syncService *service.SyncService) *App {
	return &App{
		screen:        ScreenReport,
		store:         st,
		reportService: reportService,
		syncService:   syncService,
		report:        NewReportModel(reportService),
		insights:      NewInsightsModel(reportService, 0, 0),
		syncScreen:    NewSyncModel(syncService),
		help:          NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.report.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings (unless in sync mode)
		if a.screen != ScreenSync || !a.syncScreen.syncing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenReport
				a.report = NewReportModel(a.reportService)
				return a, a.report.Init()
			case "2":
				a.screen = ScreenInsights
				a.insights = NewInsightsModel(a.reportService, a.width, a.height)
				return a, a.insights.Init()
			case "3", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, a.syncScreen.Init()
				}
				// Let 's' fall through to sync screen when already there
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case SyncCompleteMsg:
		// Refresh the report after sync
		a.screen = ScreenReport
		a.report = NewReportModel(a.reportService)
		return a, a.report.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenReport:
		var m tea.Model
		m, cmd = a.report.Update(msg)
		a.report = m.(ReportModel)
	case ScreenInsights:
		var m tea.Model
		m, cmd = a.insights.Update(msg)
		a.insights = m.(InsightsModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenReport:
		content = a.report.View()
	case ScreenInsights:
		content = a.insights.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Garmin Wellness Analyzer")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Report", ScreenReport},
		{"2", "Insights", ScreenInsights},
		{"3", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct{}

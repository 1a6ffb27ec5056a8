// internal/tui/dashboard.go
// Package tui provides the interactive dashboard: a grid of auto-refreshing
// charts over the monitoring API, with project selection, a shared timespan
// control, and per-chart label filtering.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metricdeck/metricdeck/internal/appconfig"
	"github.com/metricdeck/metricdeck/internal/auth"
	"github.com/metricdeck/metricdeck/internal/chart"
	"github.com/metricdeck/metricdeck/internal/logging"
	"github.com/metricdeck/metricdeck/internal/monitoring"
	"github.com/metricdeck/metricdeck/internal/render"
)

// Config represents the shared application configuration for the dashboard.
type Config = appconfig.Config

// timespans is the fixed set the shared timespan control cycles through.
var timespans = []string{"15m", "1h", "6h", "1d", "1w"}

// noticeLifetime is how long an error notice stays on screen.
const noticeLifetime = 5 * time.Second

// viewState represents the current view or screen of the application.
type viewState int

const (
	// viewProjectSelector is the state where the user picks a project.
	viewProjectSelector viewState = iota
	// viewDashboard is the state where the charts are live.
	viewDashboard
)

// liveChart adapts a render.Handle to the chart.Renderer contract, creating
// the handle on the first successful fetch and reconciling afterwards.
type liveChart struct {
	mu     sync.Mutex
	handle *render.Handle
	width  int
	height int
}

// Init seeds the live chart from the first formatted series set.
func (c *liveChart) Init(series []chart.Series) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handle = render.Init(series)
	c.handle.SetSize(c.width, c.height)
}

// Reconcile merges freshly formatted series into the live collection.
func (c *liveChart) Reconcile(series []chart.Series) bool {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()
	if h == nil {
		c.Init(series)
		return true
	}
	return h.Reconcile(series)
}

func (c *liveChart) setSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = width, height
	if c.handle != nil {
		c.handle.SetSize(width, height)
	}
}

func (c *liveChart) view() string {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()
	if h == nil {
		return lipgloss.NewStyle().Faint(true).Render("  waiting for data...")
	}
	return h.View()
}

func (c *liveChart) legendView() string {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()
	if h == nil {
		return ""
	}
	return h.LegendView()
}

func (c *liveChart) toggleLegend(i int) {
	c.mu.Lock()
	h := c.handle
	c.mu.Unlock()
	if h != nil {
		h.ToggleLegend(i)
	}
}

// panel pairs one configured chart with its session and live rendering state.
type panel struct {
	cfg     appconfig.Chart
	session *chart.Session
	live    *liveChart
	loading bool
}

// item represents a selectable item in a Bubble Tea list.
type item struct {
	title string
	desc  string
}

// Title returns the title of the list item.
func (i item) Title() string { return i.title }

// Description returns the description of the list item.
func (i item) Description() string { return i.desc }

// FilterValue returns the title of the item, used for filtering.
func (i item) FilterValue() string { return i.title }

// descriptorsMsg is sent when the selected project's metric descriptors have
// been fetched; value kinds for the charts are resolved from them.
type descriptorsMsg struct {
	project string
	metrics []monitoring.MetricDescriptor
}

// descriptorsErr is sent when fetching metric descriptors fails.
type descriptorsErr struct{ error }

// chartRefreshedMsg is sent when one chart's update pipeline has finished.
type chartRefreshedMsg struct{ index int }

// noticeMsg carries a rejected or failed query for user display.
type noticeMsg struct{ failure monitoring.QueryFailure }

// noticeExpiredMsg dismisses the notice identified by seq. Expirations queued
// for an earlier notice are ignored so they cannot dismiss a later one.
type noticeExpiredMsg struct{ seq int }

// suggestionsMsg carries label keys used to hint the filter input.
type suggestionsMsg struct {
	index int
	keys  []string
}

// refreshTickMsg fires on the shared refresh interval.
type refreshTickMsg time.Time

// model is the main application model for the Bubble Tea UI.
type model struct {
	ctx         context.Context
	cfg         *Config
	client      *monitoring.Client
	fetcher     *monitoring.Fetcher
	state       viewState
	projectList list.Model
	project     string
	panels      []*panel
	focus       int
	filterInput textinput.Model
	filtering   bool
	spinner     spinner.Model
	notice      string
	noticeSeq   int
	timespanIdx int
	width       int
	height      int
	err         error
	program     *tea.Program
}

// initialModel creates and initializes a new model with default values.
func initialModel(ctx context.Context, cfg *Config, client *monitoring.Client) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "key==value, key==value"
	ti.Prompt = "Filter: "
	ti.CharLimit = 256

	projects := cfg.ProjectList()
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = item{title: p, desc: "Select this project"}
	}
	projectList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	projectList.Title = "Select a Project"

	idx := 1
	for i, ts := range timespans {
		if ts == cfg.DefaultTimespan() {
			idx = i
		}
	}

	return &model{
		ctx:         ctx,
		cfg:         cfg,
		client:      client,
		fetcher:     monitoring.NewFetcher(client),
		state:       viewProjectSelector,
		projectList: projectList,
		filterInput: ti,
		spinner:     s,
		timespanIdx: idx,
	}
}

// selectProjectCmd fetches the project's metric descriptors so each chart's
// value kind can be resolved before the first fetch.
func selectProjectCmd(ctx context.Context, client *monitoring.Client, project string) tea.Cmd {
	return func() tea.Msg {
		metrics, err := client.ListMetricDescriptors(ctx, project)
		if err != nil {
			return descriptorsErr{error: err}
		}
		return descriptorsMsg{project: project, metrics: metrics}
	}
}

// buildPanels constructs one session per configured chart. The formatter
// variant comes from the chart config when set, otherwise from the metric
// descriptor's value type.
func (m *model) buildPanels(msg descriptorsMsg) {
	valueTypes := make(map[string]string, len(msg.metrics))
	for _, d := range msg.metrics {
		valueTypes[d.Name] = d.Type.ValueType
	}

	m.project = msg.project
	m.panels = make([]*panel, 0, len(m.cfg.Charts))
	for _, cc := range m.cfg.Charts {
		kind := chart.KindForValueType(valueTypes[cc.Metric])
		if cc.Kind == "distribution" {
			kind = chart.KindDistribution
		} else if cc.Kind == "scalar" {
			kind = chart.KindScalar
		}

		live := &liveChart{width: 60, height: 10}
		base := monitoring.Query{
			Metric:   cc.Metric,
			Project:  msg.project,
			Timespan: timespans[m.timespanIdx],
			Labels:   cc.Labels,
		}
		formatter := chart.Formatter{Kind: kind, Convert: chart.ConversionFor(cc.Unit)}
		program := m.program
		session := chart.NewSession(m.fetcher, formatter, live, base, func(f monitoring.QueryFailure) {
			if program != nil {
				program.Send(noticeMsg{failure: f})
			}
		})
		m.panels = append(m.panels, &panel{cfg: cc, session: session, live: live})
	}
	m.layoutPanels()
}

// refreshChartCmd re-runs one chart's current query.
func refreshChartCmd(ctx context.Context, p *panel, index int) tea.Cmd {
	return func() tea.Msg {
		p.session.Refresh(ctx)
		return chartRefreshedMsg{index: index}
	}
}

// updateChartCmd applies a query delta to one chart.
func updateChartCmd(ctx context.Context, p *panel, index int, delta monitoring.Query) tea.Cmd {
	return func() tea.Msg {
		p.session.Update(ctx, delta)
		return chartRefreshedMsg{index: index}
	}
}

// resetChartCmd removes one chart's label filters.
func resetChartCmd(ctx context.Context, p *panel, index int) tea.Cmd {
	return func() tea.Msg {
		p.session.Reset(ctx)
		return chartRefreshedMsg{index: index}
	}
}

// suggestLabelsCmd fetches the focused metric's label descriptors to hint the
// filter input.
func suggestLabelsCmd(ctx context.Context, client *monitoring.Client, project, metric string, index int) tea.Cmd {
	return func() tea.Msg {
		labels, err := client.ListLabelDescriptors(ctx, project, metric)
		if err != nil {
			// Suggestions are best effort; the input works without them.
			return suggestionsMsg{index: index}
		}
		keys := make([]string, len(labels))
		for i, l := range labels {
			keys[i] = l.Key
		}
		return suggestionsMsg{index: index, keys: keys}
	}
}

// refreshTickCmd schedules the next shared refresh tick.
func refreshTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// noticeExpireCmd schedules the auto-dismissal of the notice with the given
// sequence number.
func noticeExpireCmd(seq int) tea.Cmd {
	return tea.Tick(noticeLifetime, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// refreshAll builds refresh commands for every panel and marks them loading.
func (m *model) refreshAll() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.panels))
	for i, p := range m.panels {
		p.loading = true
		cmds = append(cmds, refreshChartCmd(m.ctx, p, i))
	}
	return tea.Batch(cmds...)
}

// parseLabelFilter splits comma-separated "key==value" entries, rejecting
// malformed ones. An empty input clears the filters.
func parseLabelFilter(input string) ([]string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return []string{}, nil
	}
	parts := strings.Split(trimmed, ",")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		entry := strings.TrimSpace(part)
		if entry == "" {
			continue
		}
		key, value, found := strings.Cut(entry, monitoring.LabelSeparator)
		if !found || strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("invalid label filter %q (want key==value)", entry)
		}
		labels = append(labels, strings.TrimSpace(key)+monitoring.LabelSeparator+strings.TrimSpace(value))
	}
	return labels, nil
}

// Init starts the spinner animation.
func (m *model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFiltering(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "right":
			if m.state == viewDashboard && len(m.panels) > 0 {
				m.focus = (m.focus + 1) % len(m.panels)
				return m, nil
			}
		case "shift+tab", "left":
			if m.state == viewDashboard && len(m.panels) > 0 {
				m.focus = (m.focus - 1 + len(m.panels)) % len(m.panels)
				return m, nil
			}
		case "t":
			if m.state == viewDashboard {
				m.timespanIdx = (m.timespanIdx + 1) % len(timespans)
				delta := monitoring.Query{Timespan: timespans[m.timespanIdx]}
				for i, p := range m.panels {
					p.loading = true
					cmds = append(cmds, updateChartCmd(m.ctx, p, i, delta))
				}
				return m, tea.Batch(cmds...)
			}
		case "f":
			if m.state == viewDashboard && len(m.panels) > 0 {
				m.filtering = true
				m.filterInput.SetValue(strings.Join(m.panels[m.focus].session.Query().Labels, ", "))
				m.filterInput.Focus()
				p := m.panels[m.focus]
				return m, suggestLabelsCmd(m.ctx, m.client, m.project, p.cfg.Metric, m.focus)
			}
		case "r":
			if m.state == viewDashboard && len(m.panels) > 0 {
				p := m.panels[m.focus]
				p.loading = true
				return m, resetChartCmd(m.ctx, p, m.focus)
			}
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if m.state == viewDashboard && len(m.panels) > 0 {
				m.panels[m.focus].live.toggleLegend(int(msg.String()[0] - '1'))
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.projectList.SetSize(msg.Width-2, msg.Height-4)
		m.filterInput.Width = msg.Width - 12
		m.layoutPanels()

	case descriptorsMsg:
		m.buildPanels(msg)
		m.state = viewDashboard
		cmds = append(cmds, m.refreshAll(), refreshTickCmd(m.cfg.RefreshInterval()))
		return m, tea.Batch(cmds...)

	case descriptorsErr:
		m.err = msg.error
		return m, nil

	case chartRefreshedMsg:
		if msg.index < len(m.panels) {
			m.panels[msg.index].loading = false
		}
		return m, nil

	case noticeMsg:
		m.notice = fmt.Sprintf("%v", &msg.failure)
		m.noticeSeq++
		logging.LogEvent("query notice: %v", &msg.failure)
		return m, noticeExpireCmd(m.noticeSeq)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case suggestionsMsg:
		if len(msg.keys) > 0 && m.filtering && msg.index == m.focus {
			m.filterInput.Placeholder = strings.Join(msg.keys, ", ")
		}
		return m, nil

	case refreshTickMsg:
		if m.state == viewDashboard {
			cmds = append(cmds, m.refreshAll(), refreshTickCmd(m.cfg.RefreshInterval()))
			return m, tea.Batch(cmds...)
		}
		return m, nil
	}

	switch m.state {
	case viewProjectSelector:
		m.projectList, cmd = m.projectList.Update(msg)
		cmds = append(cmds, cmd)
		if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
			if selected, ok := m.projectList.SelectedItem().(item); ok {
				cmds = append(cmds, m.spinner.Tick, selectProjectCmd(m.ctx, m.client, selected.Title()))
			}
		}
	}

	if m.anyLoading() {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateFiltering handles keys while the filter input is focused.
func (m *model) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	case "enter":
		labels, err := parseLabelFilter(m.filterInput.Value())
		if err != nil {
			m.notice = err.Error()
			m.noticeSeq++
			return m, noticeExpireCmd(m.noticeSeq)
		}
		m.filtering = false
		m.filterInput.Blur()
		p := m.panels[m.focus]
		p.loading = true
		return m, updateChartCmd(m.ctx, p, m.focus, monitoring.Query{Labels: labels})
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// anyLoading reports whether any chart is mid-refresh.
func (m *model) anyLoading() bool {
	for _, p := range m.panels {
		if p.loading {
			return true
		}
	}
	return false
}

// layoutPanels distributes the available height across the chart panels.
func (m *model) layoutPanels() {
	if len(m.panels) == 0 || m.width == 0 {
		return
	}
	overhead := 4 // header, notice, help
	perPanel := (m.height - overhead) / len(m.panels)
	chartHeight := perPanel - 3 // title + legend rows
	if chartHeight < 4 {
		chartHeight = 4
	}
	for _, p := range m.panels {
		p.live.setSize(m.width-4, chartHeight)
	}
}

// View renders the application's UI based on the current state of the model.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	switch m.state {
	case viewProjectSelector:
		return lipgloss.NewStyle().Margin(1, 2).Render(m.projectList.View())
	case viewDashboard:
		return m.dashboardView()
	default:
		return "Unknown state"
	}
}

// dashboardView renders the header, every chart panel with its legend, the
// filter input or help line, and any active notice.
func (m *model) dashboardView() string {
	var builder strings.Builder

	headerStyle := lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("255")).Padding(0, 1)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("metricdeck"),
		headerStyle.Render(fmt.Sprintf("Project: %s", m.project)),
		headerStyle.MarginLeft(1).Render(fmt.Sprintf("Timespan: %s", timespans[m.timespanIdx])),
		headerStyle.MarginLeft(1).Render(fmt.Sprintf("Refresh: %s", m.cfg.RefreshInterval())),
	)
	if m.anyLoading() {
		header += " " + m.spinner.View()
	}
	builder.WriteString(header + "\n")

	focusedTitle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	title := lipgloss.NewStyle().Bold(true)
	for i, p := range m.panels {
		name := p.cfg.DisplayTitle()
		if labels := p.session.Query().Labels; len(labels) > 0 {
			name += "  [" + strings.Join(labels, ", ") + "]"
		}
		if i == m.focus {
			builder.WriteString(focusedTitle.Render("▶ "+name) + "\n")
		} else {
			builder.WriteString(title.Render("  "+name) + "\n")
		}
		builder.WriteString(p.live.view() + "\n")
		if legend := p.live.legendView(); legend != "" {
			builder.WriteString("  " + legend + "\n")
		}
	}

	if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
		builder.WriteString(noticeStyle.Render(m.notice) + "\n")
	}

	if m.filtering {
		builder.WriteString(m.filterInput.View())
	} else {
		helpStyle := lipgloss.NewStyle().Faint(true)
		builder.WriteString(helpStyle.Render("tab: focus  t: timespan  f: filter  r: reset filters  1-9: toggle series  q: quit"))
	}

	return builder.String()
}

// StartDashboard authorizes against the monitoring API and runs the
// interactive dashboard until the user quits.
func StartDashboard(ctx context.Context, cfg *appconfig.Config, cancel context.CancelFunc) {
	defer func() {
		logging.LogEvent("shutting down dashboard")
		cancel()
	}()

	if cfg == nil {
		log.Fatalf("Failed to start: configuration is not loaded")
	}

	if err := logging.Init(cfg.LogFilePath()); err != nil {
		log.Fatalf("could not open log file: %v", err)
	}
	defer func() {
		if err := logging.Close(); err != nil {
			log.Printf("log shutdown error: %v", err)
		}
	}()

	_, httpClient, err := auth.Authorize(ctx, *cfg)
	if err != nil {
		log.Fatalf("Failed to authorize: %v", err)
	}
	client := monitoring.NewClient(cfg.APIBase, httpClient, cfg.Debug)

	m := initialModel(ctx, cfg, client)

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.program = p

	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}

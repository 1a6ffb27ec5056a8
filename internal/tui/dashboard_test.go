// internal/tui/dashboard_test.go
package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/metricdeck/metricdeck/internal/appconfig"
	"github.com/metricdeck/metricdeck/internal/chart"
	"github.com/metricdeck/metricdeck/internal/monitoring"
)

// TestParseLabelFilter verifies that comma-separated key==value entries are
// split and trimmed, and that malformed entries are rejected.
func TestParseLabelFilter(t *testing.T) {
	labels, err := parseLabelFilter(" zone==us-east1-b , tier==frontend ")
	if err != nil {
		t.Fatalf("parseLabelFilter returned error: %v", err)
	}
	want := []string{"zone==us-east1-b", "tier==frontend"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d labels, got %d: %v", len(want), len(labels), labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d: expected %q, got %q", i, want[i], labels[i])
		}
	}
}

// TestParseLabelFilterEmpty verifies that an empty input clears the filters
// rather than erroring.
func TestParseLabelFilterEmpty(t *testing.T) {
	labels, err := parseLabelFilter("   ")
	if err != nil {
		t.Fatalf("parseLabelFilter returned error: %v", err)
	}
	if labels == nil || len(labels) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", labels)
	}
}

// TestParseLabelFilterMalformed verifies that entries without the key==value
// shape are rejected.
func TestParseLabelFilterMalformed(t *testing.T) {
	for _, input := range []string{"zone", "zone=us-east1-b", "==value", "key=="} {
		if _, err := parseLabelFilter(input); err == nil {
			t.Errorf("expected error for input %q", input)
		}
	}
}

// TestBuildPanelsKindResolution verifies that a chart's value kind comes from
// its configuration when set and from the metric descriptor otherwise.
func TestBuildPanelsKindResolution(t *testing.T) {
	cfg := &appconfig.Config{
		APIBase: "https://monitoring.example.com/v1",
		Charts: []appconfig.Chart{
			{Metric: "cpu/usage_time"},
			{Metric: "api/request_latencies", Kind: "distribution"},
			{Metric: "undescribed/metric"},
		},
	}
	m := initialModel(context.Background(), cfg, monitoring.NewClient(cfg.APIBase, nil, false))
	m.buildPanels(descriptorsMsg{
		project: "proj-a",
		metrics: []monitoring.MetricDescriptor{
			{Name: "cpu/usage_time", Type: monitoring.TypeDescriptor{ValueType: "double"}},
			{Name: "api/request_latencies", Type: monitoring.TypeDescriptor{ValueType: "double"}},
		},
	})

	if len(m.panels) != 3 {
		t.Fatalf("expected 3 panels, got %d", len(m.panels))
	}
	if got := m.panels[0].session.Query().Project; got != "proj-a" {
		t.Errorf("expected project proj-a, got %q", got)
	}
	if got := m.panels[0].session.Query().Timespan; got != timespans[m.timespanIdx] {
		t.Errorf("expected initial timespan %q, got %q", timespans[m.timespanIdx], got)
	}
}

// TestTimespanCycleUpdatesAllCharts verifies that the shared timespan key
// advances the cycle and issues one update command per chart.
func TestTimespanCycleUpdatesAllCharts(t *testing.T) {
	cfg := &appconfig.Config{
		APIBase: "https://monitoring.example.com/v1",
		Charts: []appconfig.Chart{
			{Metric: "cpu/usage_time"},
			{Metric: "memory/bytes_used", Unit: "kb"},
		},
	}
	m := initialModel(context.Background(), cfg, monitoring.NewClient(cfg.APIBase, nil, false))
	m.buildPanels(descriptorsMsg{project: "proj-a"})
	m.state = viewDashboard

	before := m.timespanIdx
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	m = updated.(*model)
	if m.timespanIdx != (before+1)%len(timespans) {
		t.Errorf("expected timespan index %d, got %d", (before+1)%len(timespans), m.timespanIdx)
	}
	if cmd == nil {
		t.Fatal("expected a batch of update commands, got nil")
	}
	for i, p := range m.panels {
		if !p.loading {
			t.Errorf("panel %d should be marked loading after timespan change", i)
		}
	}
}

// TestFocusCycle verifies that tab moves chart focus forward with wraparound.
func TestFocusCycle(t *testing.T) {
	cfg := &appconfig.Config{
		APIBase: "https://monitoring.example.com/v1",
		Charts:  []appconfig.Chart{{Metric: "a"}, {Metric: "b"}},
	}
	m := initialModel(context.Background(), cfg, monitoring.NewClient(cfg.APIBase, nil, false))
	m.buildPanels(descriptorsMsg{project: "proj-a"})
	m.state = viewDashboard

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(*model)
	if m.focus != 1 {
		t.Errorf("expected focus 1 after tab, got %d", m.focus)
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(*model)
	if m.focus != 0 {
		t.Errorf("expected focus to wrap to 0, got %d", m.focus)
	}
}

// TestLiveChartInitThenReconcile verifies that the first series set creates
// the handle and later sets reconcile into it.
func TestLiveChartInitThenReconcile(t *testing.T) {
	lc := &liveChart{width: 40, height: 8}
	if lc.view() == "" {
		t.Error("expected a placeholder view before the first fetch")
	}

	changed := lc.Reconcile([]chart.Series{
		{Name: "web-1", Legend: "web-1", Color: "#5470c6", Data: []chart.DataPoint{{X: 1, Y: 2}}},
	})
	if !changed {
		t.Error("first reconcile should report a membership change")
	}
	if lc.handle == nil {
		t.Fatal("expected handle to be created on first reconcile")
	}

	changed = lc.Reconcile([]chart.Series{
		{Name: "web-1", Legend: "web-1", Color: "#5470c6", Data: []chart.DataPoint{{X: 1, Y: 2}, {X: 2, Y: 3}}},
	})
	if changed {
		t.Error("same membership should not report a change")
	}
}

// TestNoticeLifecycle verifies that a failure notice is displayed and an
// expiry message clears it.
func TestNoticeLifecycle(t *testing.T) {
	cfg := &appconfig.Config{
		APIBase: "https://monitoring.example.com/v1",
		Charts:  []appconfig.Chart{{Metric: "a"}},
	}
	m := initialModel(context.Background(), cfg, monitoring.NewClient(cfg.APIBase, nil, false))

	updated, cmd := m.Update(noticeMsg{failure: monitoring.QueryFailure{
		Query:   monitoring.Query{Metric: "a", Project: "p", Timespan: "1h"},
		Payload: `{"error":"bad filter"}`,
	}})
	m = updated.(*model)
	if m.notice == "" {
		t.Error("expected notice to be set after a query failure")
	}
	if cmd == nil {
		t.Error("expected an expiry command to be scheduled")
	}

	updated, _ = m.Update(noticeExpiredMsg{seq: m.noticeSeq})
	m = updated.(*model)
	if m.notice != "" {
		t.Errorf("expected notice to clear, got %q", m.notice)
	}
}

// TestStaleNoticeExpiryIgnored verifies that an expiration queued for an
// earlier notice does not dismiss a later one; only the expiration matching
// the current notice clears it.
func TestStaleNoticeExpiryIgnored(t *testing.T) {
	cfg := &appconfig.Config{
		APIBase: "https://monitoring.example.com/v1",
		Charts:  []appconfig.Chart{{Metric: "a"}},
	}
	m := initialModel(context.Background(), cfg, monitoring.NewClient(cfg.APIBase, nil, false))

	updated, _ := m.Update(noticeMsg{failure: monitoring.QueryFailure{
		Query: monitoring.Query{Metric: "a", Project: "p", Timespan: "1h"},
	}})
	m = updated.(*model)
	firstSeq := m.noticeSeq

	updated, _ = m.Update(noticeMsg{failure: monitoring.QueryFailure{
		Query: monitoring.Query{Metric: "a", Project: "p", Timespan: "6h"},
	}})
	m = updated.(*model)

	updated, _ = m.Update(noticeExpiredMsg{seq: firstSeq})
	m = updated.(*model)
	if m.notice == "" {
		t.Fatal("expected the stale expiration to leave the newer notice in place")
	}

	updated, _ = m.Update(noticeExpiredMsg{seq: m.noticeSeq})
	m = updated.(*model)
	if m.notice != "" {
		t.Errorf("expected the matching expiration to clear the notice, got %q", m.notice)
	}
}

// internal/render/render_test.go
package render

import (
	"strings"
	"testing"

	"github.com/metricdeck/metricdeck/internal/chart"
)

// TestLegendDeduplicatesByGroup verifies that sub-series sharing a legend key
// collapse into one swatch, in first-seen order.
func TestLegendDeduplicatesByGroup(t *testing.T) {
	h := Init([]chart.Series{
		{Name: "web-1:0-10", Legend: "0-10", Color: chart.PaletteColor(0)},
		{Name: "web-2:0-10", Legend: "0-10", Color: chart.PaletteColor(0)},
		{Name: "web-1:10-100", Legend: "10-100", Color: chart.PaletteColor(1)},
	})

	legend := h.Legend()
	if len(legend) != 2 {
		t.Fatalf("expected 2 legend entries, got %d", len(legend))
	}
	if legend[0].Key != "0-10" || legend[1].Key != "10-100" {
		t.Errorf("unexpected legend order: %+v", legend)
	}
}

// TestToggleLegendHidesGroup verifies that toggling one legend entry hides
// every line in the group and is reflected in the entries.
func TestToggleLegendHidesGroup(t *testing.T) {
	h := Init([]chart.Series{
		{Name: "web-1:0-10", Legend: "0-10", Color: chart.PaletteColor(0)},
		{Name: "web-2:0-10", Legend: "0-10", Color: chart.PaletteColor(0)},
		{Name: "web-1:10-100", Legend: "10-100", Color: chart.PaletteColor(1)},
	})

	h.ToggleLegend(0)

	lines := h.Lines()
	if !lines[0].Hidden || !lines[1].Hidden {
		t.Error("expected both lines in the group hidden")
	}
	if lines[2].Hidden {
		t.Error("expected the other group untouched")
	}
	if !h.Legend()[0].Hidden {
		t.Error("expected the legend entry marked hidden")
	}

	h.ToggleLegend(0)
	if h.Lines()[0].Hidden {
		t.Error("expected a second toggle to show the group again")
	}
}

// TestViewRendersData verifies the plot renders points and axis labels for a
// simple series, and a placeholder when everything is hidden.
func TestViewRendersData(t *testing.T) {
	h := Init([]chart.Series{{
		Name:  "web-1",
		Color: chart.PaletteColor(0),
		Data: []chart.DataPoint{
			{X: 0, Y: 0},
			{X: 60_000, Y: 50},
			{X: 120_000, Y: 100},
		},
	}})
	h.SetSize(60, 10)

	view := h.View()
	if !strings.Contains(view, "•") {
		t.Error("expected plotted points in the view")
	}
	if !strings.Contains(view, "100") {
		t.Error("expected the max y tick label in the view")
	}

	h.ToggleLegend(0)
	if !strings.Contains(h.View(), "no data") {
		t.Error("expected the placeholder when every line is hidden")
	}
}

// TestViewCachesUntilDirty verifies that a redraw only happens after the
// series or size changed.
func TestViewCachesUntilDirty(t *testing.T) {
	h := Init([]chart.Series{{
		Name:  "a",
		Color: chart.PaletteColor(0),
		Data:  []chart.DataPoint{{X: 0, Y: 1}, {X: 1000, Y: 2}},
	}})
	first := h.View()
	if got := h.View(); got != first {
		t.Error("expected an identical cached view")
	}

	h.Reconcile([]chart.Series{{
		Name:  "a",
		Color: chart.PaletteColor(0),
		Data:  []chart.DataPoint{{X: 0, Y: 100}, {X: 1000, Y: 200}},
	}})
	if got := h.View(); got == first {
		t.Error("expected a redraw after reconcile")
	}
}

// TestLegendView verifies the styled legend row includes every entry's key.
func TestLegendView(t *testing.T) {
	h := Init([]chart.Series{
		{Name: "web-1", Color: chart.PaletteColor(0)},
		{Name: "web-2", Color: chart.PaletteColor(1)},
	})
	view := h.LegendView()
	if !strings.Contains(view, "web-1") || !strings.Contains(view, "web-2") {
		t.Errorf("expected both names in the legend view, got %q", view)
	}
}

// internal/render/render.go
// Package render draws live chart series as colored terminal line plots. It is
// the rendering adapter the chart sessions reconcile into: an ordered, mutable
// line collection plus legend state that survives data refreshes.
package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/metricdeck/metricdeck/internal/chart"
)

// LegendStateName is the reserved name of the pseudo-line the legend uses to
// keep its toggle bookkeeping inside the series collection. Reconciliation
// treats it as always existing.
const LegendStateName = "::legend-state::"

// Line is one renderable series inside a handle. Color and Hidden are owned by
// the renderer and survive data replacement during reconciliation.
type Line struct {
	Name   string
	Legend string
	Color  string
	Data   []chart.DataPoint
	Hidden bool
}

// LegendKey returns the key the legend groups this line under.
func (l *Line) LegendKey() string {
	if l.Legend != "" {
		return l.Legend
	}
	return l.Name
}

// LegendEntry is one legend swatch after grouping.
type LegendEntry struct {
	Key    string
	Color  string
	Hidden bool
}

// Handle owns one chart's live series collection for the chart's lifetime.
// All methods are safe for concurrent use; sessions mutate the collection from
// worker goroutines while the UI reads the rendered view.
type Handle struct {
	mu           sync.Mutex
	series       []*Line
	hiddenGroups map[string]bool
	width        int
	height       int
	legend       []LegendEntry
	legendDirty  bool
	dirty        bool
	view         string
}

// Init seeds a new handle with the first formatted series set.
func Init(series []chart.Series) *Handle {
	h := &Handle{
		hiddenGroups: make(map[string]bool),
		width:        60,
		height:       10,
		legendDirty:  true,
		dirty:        true,
	}
	h.series = make([]*Line, 0, len(series)+1)
	for _, s := range series {
		h.series = append(h.series, &Line{
			Name:   s.Name,
			Legend: s.Legend,
			Color:  s.Color,
			Data:   s.Data,
		})
	}
	h.series = append(h.series, &Line{Name: LegendStateName})
	return h
}

// Lines returns the current line collection in order, excluding the reserved
// legend-state line.
func (h *Handle) Lines() []*Line {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Line, 0, len(h.series))
	for _, l := range h.series {
		if l.Name == LegendStateName {
			continue
		}
		out = append(out, l)
	}
	return out
}

// SetSize sets the plot area in terminal cells.
func (h *Handle) SetSize(width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if width < 16 {
		width = 16
	}
	if height < 4 {
		height = 4
	}
	if width != h.width || height != h.height {
		h.width = width
		h.height = height
		h.dirty = true
	}
}

// Legend returns the legend entries, de-duplicated by legend key in first-seen
// order. The cached entries are rebuilt only after a membership change or a
// toggle, never on a pure data refresh.
func (h *Handle) Legend() []LegendEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rebuildLegendLocked()
	out := make([]LegendEntry, len(h.legend))
	copy(out, h.legend)
	return out
}

// ToggleLegend flips visibility for every line grouped under the legend entry
// at index i. Toggle state is remembered so series re-appearing in the same
// group stay hidden.
func (h *Handle) ToggleLegend(i int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rebuildLegendLocked()
	if i < 0 || i >= len(h.legend) {
		return
	}
	key := h.legend[i].Key
	hidden := !h.hiddenGroups[key]
	h.hiddenGroups[key] = hidden
	for _, l := range h.series {
		if l.Name == LegendStateName {
			continue
		}
		if l.LegendKey() == key {
			l.Hidden = hidden
		}
	}
	h.legendDirty = true
	h.dirty = true
}

// Update redraws the cached view from the current series state.
func (h *Handle) Update() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.dirty {
		return
	}
	h.view = h.renderLocked()
	h.dirty = false
}

// View returns the last rendered plot, redrawing first if the series or size
// changed since the previous draw.
func (h *Handle) View() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.dirty {
		h.view = h.renderLocked()
		h.dirty = false
	}
	return h.view
}

// rebuildLegendLocked refreshes the cached legend entries when marked dirty.
func (h *Handle) rebuildLegendLocked() {
	if !h.legendDirty {
		return
	}
	h.legend = h.legend[:0]
	seen := make(map[string]struct{})
	for _, l := range h.series {
		if l.Name == LegendStateName {
			continue
		}
		key := l.LegendKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		h.legend = append(h.legend, LegendEntry{
			Key:    key,
			Color:  l.Color,
			Hidden: h.hiddenGroups[key],
		})
	}
	h.legendDirty = false
}

// LegendView renders the legend entries as a single styled row.
func (h *Handle) LegendView() string {
	entries := h.Legend()
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entries))
	for i, e := range entries {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render("■")
		label := fmt.Sprintf("%d:%s", i+1, e.Key)
		if e.Hidden {
			label = lipgloss.NewStyle().Faint(true).Render(label)
		}
		parts = append(parts, swatch+" "+label)
	}
	return strings.Join(parts, "  ")
}

const yAxisGutter = 9

// renderLocked draws the plot grid, y axis labels and x axis time labels.
func (h *Handle) renderLocked() string {
	plotW := h.width - yAxisGutter
	plotH := h.height - 1
	if plotW < 4 || plotH < 2 {
		return ""
	}

	visible := make([]*Line, 0, len(h.series))
	for _, l := range h.series {
		if l.Name == LegendStateName || l.Hidden || len(l.Data) == 0 {
			continue
		}
		visible = append(visible, l)
	}
	if len(visible) == 0 {
		empty := lipgloss.NewStyle().Faint(true).Render("no data")
		return strings.Repeat("\n", plotH/2) + strings.Repeat(" ", yAxisGutter) + empty + strings.Repeat("\n", h.height-plotH/2-1)
	}

	minX, maxX, minY, maxY := domain(visible)

	type cell struct{ color string }
	grid := make([][]*cell, plotH)
	for r := range grid {
		grid[r] = make([]*cell, plotW)
	}

	toCol := func(x int64) int {
		if maxX == minX {
			return 0
		}
		c := int(float64(plotW-1) * float64(x-minX) / float64(maxX-minX))
		if c < 0 {
			c = 0
		}
		if c >= plotW {
			c = plotW - 1
		}
		return c
	}
	toRow := func(y float64) int {
		if maxY == minY {
			return plotH / 2
		}
		r := int(float64(plotH-1) * (maxY - y) / (maxY - minY))
		if r < 0 {
			r = 0
		}
		if r >= plotH {
			r = plotH - 1
		}
		return r
	}

	for _, l := range visible {
		prevCol, prevRow := -1, -1
		for _, p := range l.Data {
			col, row := toCol(p.X), toRow(p.Y)
			grid[row][col] = &cell{color: l.Color}
			if prevCol >= 0 && col > prevCol+1 {
				// Linear fill between consecutive points.
				for c := prevCol + 1; c < col; c++ {
					frac := float64(c-prevCol) / float64(col-prevCol)
					r := prevRow + int(frac*float64(row-prevRow))
					grid[r][c] = &cell{color: l.Color}
				}
			}
			prevCol, prevRow = col, row
		}
	}

	yTicks := chart.EvenTicks(minY, maxY, 3)
	labelRows := map[int]string{
		0:         chart.FormatTickValue(maxY),
		plotH - 1: chart.FormatTickValue(minY),
	}
	if len(yTicks) == 3 {
		labelRows[plotH/2] = chart.FormatTickValue(yTicks[1])
	}

	styles := make(map[string]lipgloss.Style)
	var b strings.Builder
	for r := 0; r < plotH; r++ {
		label := labelRows[r]
		b.WriteString(fmt.Sprintf("%*s ", yAxisGutter-1, label))
		for c := 0; c < plotW; c++ {
			if grid[r][c] == nil {
				b.WriteByte(' ')
				continue
			}
			color := grid[r][c].color
			style, ok := styles[color]
			if !ok {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
				styles[color] = style
			}
			b.WriteString(style.Render("•"))
		}
		b.WriteByte('\n')
	}

	b.WriteString(strings.Repeat(" ", yAxisGutter))
	b.WriteString(xAxisLine(minX, maxX, plotW))
	return b.String()
}

// xAxisLine places evenly spaced time labels across the plot width.
func xAxisLine(minX, maxX int64, plotW int) string {
	ticks := chart.EvenTicks(float64(minX), float64(maxX), 4)
	labels := make([]string, len(ticks))
	for i, tk := range ticks {
		labels[i] = chart.FormatTimeTick(int64(tk))
	}
	if len(labels) == 1 {
		return labels[0]
	}

	line := make([]byte, plotW)
	for i := range line {
		line[i] = ' '
	}
	for i, label := range labels {
		pos := i * (plotW - 1) / (len(labels) - 1)
		if i == len(labels)-1 {
			pos = plotW - len(label)
		}
		if pos < 0 {
			pos = 0
		}
		for j := 0; j < len(label) && pos+j < plotW; j++ {
			line[pos+j] = label[j]
		}
	}
	return string(line)
}

// domain computes the x and y extents across every visible line.
func domain(lines []*Line) (minX, maxX int64, minY, maxY float64) {
	first := true
	for _, l := range lines {
		for _, p := range l.Data {
			if first {
				minX, maxX = p.X, p.X
				minY, maxY = p.Y, p.Y
				first = false
				continue
			}
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
	}
	return minX, maxX, minY, maxY
}

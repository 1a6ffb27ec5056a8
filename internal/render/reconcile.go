// internal/render/reconcile.go
package render

import "github.com/metricdeck/metricdeck/internal/chart"

// Reconcile merges freshly formatted series into the handle's live collection
// with minimal disruption:
//
//  1. Every existing line with a matching name gets its data replaced in
//     place, keeping the renderer-owned color and visibility state.
//  2. Existing lines with no match are removed.
//  3. New series with no existing line are appended.
//
// The returned flag is true iff membership changed (a removal or an append).
// A pure data replacement reports false, which lets the dashboard reuse the
// cached legend instead of rebuilding it on every timer tick.
//
// The reserved LegendStateName line is always treated as existing and is never
// removed, whether or not it appears in the new series.
func (h *Handle) Reconcile(series []chart.Series) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	byName := make(map[string]chart.Series, len(series))
	for _, s := range series {
		byName[s.Name] = s
	}

	changed := false
	matched := make(map[string]struct{}, len(series))
	survivors := h.series[:0]
	for _, line := range h.series {
		if line.Name == LegendStateName {
			survivors = append(survivors, line)
			continue
		}
		s, ok := byName[line.Name]
		if !ok {
			changed = true
			continue
		}
		line.Data = s.Data
		matched[line.Name] = struct{}{}
		survivors = append(survivors, line)
	}

	for _, s := range series {
		if s.Name == LegendStateName {
			continue
		}
		if _, ok := matched[s.Name]; ok {
			continue
		}
		survivors = append(survivors, &Line{
			Name:   s.Name,
			Legend: s.Legend,
			Color:  s.Color,
			Data:   s.Data,
			Hidden: h.hiddenGroups[s.LegendKey()],
		})
		changed = true
	}

	h.series = survivors
	if changed {
		h.legendDirty = true
	}
	h.dirty = true
	return changed
}

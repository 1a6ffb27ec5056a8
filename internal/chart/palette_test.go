// internal/chart/palette_test.go
package chart

import "testing"

// TestPaletteColorDeterministic verifies stable assignment and the documented
// cycle once the palette is exhausted.
func TestPaletteColorDeterministic(t *testing.T) {
	if PaletteColor(0) != PaletteColor(0) {
		t.Error("expected stable color for the same index")
	}
	if PaletteColor(0) == PaletteColor(1) {
		t.Error("expected distinct colors for adjacent indexes")
	}
	if PaletteColor(PaletteSize()) != PaletteColor(0) {
		t.Error("expected the palette to cycle deterministically")
	}
	if PaletteColor(-3) != PaletteColor(0) {
		t.Error("expected negative indexes to clamp to the first color")
	}
}

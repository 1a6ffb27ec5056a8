// internal/chart/palette.go
package chart

// palette is the fixed qualitative palette series colors are drawn from, in
// assignment order. Twenty entries covers the expected concurrent series
// count for one chart.
var palette = []string{
	"#3366CC", "#DC3912", "#FF9900", "#109618", "#990099",
	"#0099C6", "#DD4477", "#66AA00", "#B82E2E", "#316395",
	"#994499", "#22AA99", "#AAAA11", "#6633CC", "#E67300",
	"#8B0707", "#651067", "#329262", "#5574A6", "#3B3EAC",
}

// PaletteSize returns the number of distinct colors before the palette cycles.
func PaletteSize() int { return len(palette) }

// PaletteColor returns the color for assignment index i. Past the end of the
// palette, colors repeat from the start, so assignment stays deterministic.
func PaletteColor(i int) string {
	if i < 0 {
		i = 0
	}
	return palette[i%len(palette)]
}

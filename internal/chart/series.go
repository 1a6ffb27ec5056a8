// internal/chart/series.go
// Package chart turns raw monitoring payloads into renderable series and owns
// each chart's mutable query state.
package chart

// DataPoint is one renderable observation: x in epoch milliseconds, y numeric.
type DataPoint struct {
	X int64
	Y float64
}

// Series is one named, colored, chronologically ascending point sequence.
// Name uniquely identifies the series within a formatting call and is the
// reconciliation key. Legend, when set, is the grouping key used for legend
// display de-duplication.
type Series struct {
	Name   string
	Legend string
	Color  string
	Data   []DataPoint
}

// LegendKey returns the key the legend groups this series under.
func (s Series) LegendKey() string {
	if s.Legend != "" {
		return s.Legend
	}
	return s.Name
}
